package serializers

import (
	"context"
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"gorm.io/gorm/schema"
)

// RLPSerializer stores a value's RLP encoding as hex text. The field type
// provides both directions.
type RLPSerializer struct{}

type RLPEncoder interface{ Serialize() []byte }
type RLPDecoder interface{ DecodeRLP([]byte) error }

func init() {
	schema.RegisterSerializer("rlp", RLPSerializer{})
}

func (RLPSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	if dbValue == nil {
		return nil
	}

	hexStr, ok := dbValue.(string)
	if !ok {
		return fmt.Errorf("expected hex string as the database value: %T", dbValue)
	}

	b, err := hexutil.Decode(hexStr)
	if err != nil {
		return fmt.Errorf("failed to decode database value: %w", err)
	}

	// 指针字段解到新分配的值上，非指针字段解到零值上
	var target, result reflect.Value
	if field.FieldType.Kind() == reflect.Pointer {
		target = reflect.New(field.FieldType.Elem())
		result = target
	} else {
		target = reflect.New(field.FieldType)
		result = target.Elem()
	}

	decoder, ok := target.Interface().(RLPDecoder)
	if !ok {
		return fmt.Errorf("field does not satisfy the DecodeRLP interface: %T", target.Interface())
	}
	if err := decoder.DecodeRLP(b); err != nil {
		return fmt.Errorf("failed to decode rlp bytes: %w", err)
	}

	field.ReflectValueOf(ctx, dst).Set(result)
	return nil
}

func (RLPSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	if fieldValue == nil || (field.FieldType.Kind() == reflect.Pointer && reflect.ValueOf(fieldValue).IsNil()) {
		return nil, nil
	}

	encoder, ok := fieldValue.(RLPEncoder)
	if !ok {
		return nil, fmt.Errorf("field does not satisfy the Serialize interface: %T", fieldValue)
	}
	return hexutil.Encode(encoder.Serialize()), nil
}
