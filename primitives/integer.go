package primitives

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

/*
	整数 <-> 大端字节 <-> 十六进制文本
		- unpadded：去掉前导零字节，0 对应空字节序列（RLP 里整数的规范形式）
		- padded：同样是最小大端字节，但 0 写成一个 0x00 字节（十六进制往返时使用）
		- 超出 uint64 的值一律用 *big.Int / *uint256.Int，绝不使用浮点数
*/

// MaxSafeFloatInteger is the largest integer a float64 carries exactly (2^53 - 1).
const MaxSafeFloatInteger = 1<<53 - 1

// BigToUnpaddedBytes returns the minimal big-endian encoding of v.
// Zero encodes as the empty slice.
func BigToUnpaddedBytes(v *big.Int) ([]byte, error) {
	if v == nil {
		return []byte{}, nil
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegativeValue, v)
	}
	return v.Bytes(), nil
}

// BigToPaddedBytes is BigToUnpaddedBytes except that zero encodes as [0x00].
func BigToPaddedBytes(v *big.Int) ([]byte, error) {
	b, err := BigToUnpaddedBytes(v)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return []byte{0}, nil
	}
	return b, nil
}

func Uint64ToUnpaddedBytes(v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return buf[bits.LeadingZeros64(v)/8:]
}

// Uint256ToUnpaddedBytes treats nil as zero.
func Uint256ToUnpaddedBytes(v *uint256.Int) []byte {
	if v == nil {
		return []byte{}
	}
	return v.Bytes()
}

// UnpaddedBytesToUint64 is the inverse of Uint64ToUnpaddedBytes.
func UnpaddedBytesToUint64(b []byte) (uint64, error) {
	if len(b) > 8 {
		return 0, fmt.Errorf("%w: %d bytes do not fit in uint64", ErrNotSafeInteger, len(b))
	}
	if len(b) > 0 && b[0] == 0 {
		return 0, fmt.Errorf("%w: %x", ErrNonCanonicalInteger, b)
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// UnpaddedBytesToUint256 is the inverse of Uint256ToUnpaddedBytes.
func UnpaddedBytesToUint256(b []byte) (*uint256.Int, error) {
	if len(b) > 32 {
		return nil, fmt.Errorf("%w: %d bytes do not fit in 256 bits", ErrNotSafeInteger, len(b))
	}
	if len(b) > 0 && b[0] == 0 {
		return nil, fmt.Errorf("%w: %x", ErrNonCanonicalInteger, b)
	}
	return new(uint256.Int).SetBytes(b), nil
}

// Uint64ToHex renders v with minimal digits; zero is "0x0".
func Uint64ToHex(v uint64) string {
	return hexutil.EncodeUint64(v)
}

func IntToHex(v int64) (string, error) {
	if v < 0 {
		return "", fmt.Errorf("%w: %d", ErrNegativeValue, v)
	}
	return hexutil.EncodeUint64(uint64(v)), nil
}

func BigToHex(v *big.Int) (string, error) {
	if v == nil {
		return "0x0", nil
	}
	if v.Sign() < 0 {
		return "", fmt.Errorf("%w: %s", ErrNegativeValue, v)
	}
	return hexutil.EncodeBig(v), nil
}

// FloatToHex accepts integral floats up to MaxSafeFloatInteger. Anything a
// float64 cannot carry exactly fails with ErrNotSafeInteger.
func FloatToHex(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > MaxSafeFloatInteger {
		return "", fmt.Errorf("%w: %v", ErrNotSafeInteger, v)
	}
	if v < 0 {
		return "", fmt.Errorf("%w: %v", ErrNegativeValue, v)
	}
	return hexutil.EncodeUint64(uint64(v)), nil
}

// HexToUint64 parses a 0x-prefixed hex quantity.
func HexToUint64(s string) (uint64, error) {
	v, err := HexToBig(s)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s exceeds uint64", ErrNotSafeInteger, s)
	}
	return v.Uint64(), nil
}

// HexToBig parses a 0x-prefixed hex quantity of any size.
func HexToBig(s string) (*big.Int, error) {
	digits := trimHexPrefix(s)
	if len(digits) == 0 {
		return nil, fmt.Errorf("%w: empty quantity", ErrInvalidLength)
	}
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHexDigit, s)
		}
	}
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHexDigit, s)
	}
	return v, nil
}
