package bigint

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// 命令行里的整数参数可以写成十进制或 0x 开头的十六进制

// StringToBigInt parses value with base prefix detection; nil when malformed.
func StringToBigInt(value string) *big.Int {
	intValue, success := big.NewInt(0).SetString(value, 0)
	if !success {
		return nil
	}
	return intValue
}

// StringToUint256 treats an empty value as zero.
func StringToUint256(value string) (*uint256.Int, error) {
	if value == "" {
		return new(uint256.Int), nil
	}
	v := StringToBigInt(value)
	if v == nil {
		return nil, fmt.Errorf("invalid integer %q", value)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative integer %q", value)
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("integer %q exceeds 256 bits", value)
	}
	return u, nil
}

// StringToUint64 treats an empty value as zero.
func StringToUint64(value string) (uint64, error) {
	if value == "" {
		return 0, nil
	}
	v := StringToBigInt(value)
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return 0, fmt.Errorf("invalid uint64 %q", value)
	}
	return v.Uint64(), nil
}
