package serializers

import (
	"context"
	"fmt"
	"math/big"
	"reflect"

	"github.com/jackc/pgtype"
	"gorm.io/gorm/schema"
)

// NUMERIC 列和 *big.Int 字段之间的转换，取值范围限制在 [0, 2^256)

var (
	big10              = big.NewInt(10)
	u256BigIntOverflow = new(big.Int).Exp(big.NewInt(2), big.NewInt(256), nil)
)

type U256Serializer struct{}

func init() {
	schema.RegisterSerializer("u256", U256Serializer{})
}

func (U256Serializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	// 类型必须是 *big.Int 否则报错
	if dbValue == nil {
		return nil
	} else if field.FieldType != reflect.TypeOf((*big.Int)(nil)) {
		return fmt.Errorf("can only deserialize into a *big.Int: %T", field.FieldType)
	}

	// 库里的值 = numeric.Int * 10^numeric.Exp
	numeric := new(pgtype.Numeric)
	err := numeric.Scan(dbValue)
	if err != nil {
		return err
	}

	bigInt := numeric.Int
	if numeric.Exp > 0 {
		factor := new(big.Int).Exp(big10, big.NewInt(int64(numeric.Exp)), nil)
		bigInt.Mul(bigInt, factor)
	}

	if bigInt.Sign() < 0 {
		return fmt.Errorf("deserialized number is negative: %s", bigInt)
	}
	if bigInt.Cmp(u256BigIntOverflow) >= 0 {
		return fmt.Errorf("deserialized number larger than u256 can hold: %s", bigInt)
	}

	field.ReflectValueOf(ctx, dst).Set(reflect.ValueOf(bigInt))
	return nil
}

// Numeric renders n the way the u256 serializer stores it, for use in
// query conditions.
func Numeric(n *big.Int) pgtype.Numeric {
	return pgtype.Numeric{Int: n, Status: pgtype.Present}
}

func (U256Serializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	if fieldValue == nil || (field.FieldType.Kind() == reflect.Pointer && reflect.ValueOf(fieldValue).IsNil()) {
		return nil, nil
	} else if field.FieldType != reflect.TypeOf((*big.Int)(nil)) {
		return nil, fmt.Errorf("can only serialize a *big.Int: %T", field.FieldType)
	}

	value := fieldValue.(*big.Int)
	if value.Sign() < 0 || value.Cmp(u256BigIntOverflow) >= 0 {
		return nil, fmt.Errorf("number out of u256 range: %s", value)
	}
	// 十进制文本，和 postgres 返回的格式一致
	return value.String(), nil
}
