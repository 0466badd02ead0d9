package serializers

import (
	"context"
	"encoding"
	"fmt"
	"reflect"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"gorm.io/gorm/schema"
)

/*
	哈希、地址这类定长字节在库里存成 0x 开头的十六进制字符串，便于直接查看：
		- Value：字段的 Bytes() 编码成十六进制
		- Scan：十六进制解码后交给字段的 SetBytes 或 UnmarshalText
*/

type BytesSerializer struct{}
type BytesInterface interface{ Bytes() []byte }
type SetBytesInterface interface{ SetBytes([]byte) }

func init() {
	schema.RegisterSerializer("bytes", BytesSerializer{})
}

func (BytesSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
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

	fieldValue := reflect.New(field.FieldType)
	fieldInterface := fieldValue.Interface()

	// 指针类型的字段需要先分配指向的值
	if field.FieldType.Kind() == reflect.Pointer {
		nestedField := reflect.New(field.FieldType.Elem())
		fieldValue.Elem().Set(nestedField)
		fieldInterface = nestedField.Interface()
	}

	switch target := fieldInterface.(type) {
	case SetBytesInterface:
		target.SetBytes(b)
	case encoding.TextUnmarshaler:
		if err := target.UnmarshalText([]byte(hexStr)); err != nil {
			return fmt.Errorf("failed to decode database value: %w", err)
		}
	default:
		return fmt.Errorf("field does not satisfy the SetBytes or UnmarshalText interface: %T", fieldInterface)
	}

	field.ReflectValueOf(ctx, dst).Set(fieldValue.Elem())
	return nil
}

func (BytesSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	if fieldValue == nil || (field.FieldType.Kind() == reflect.Pointer && reflect.ValueOf(fieldValue).IsNil()) {
		return nil, nil
	}

	fieldBytes, ok := fieldValue.(BytesInterface)
	if !ok {
		return nil, fmt.Errorf("field does not satisfy the Bytes() interface: %T", fieldValue)
	}
	return hexutil.Encode(fieldBytes.Bytes()), nil
}
