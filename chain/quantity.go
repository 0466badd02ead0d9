package chain

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"gopkg.in/yaml.v3"

	"github.com/WJX2001/header-codec/primitives"
)

// Quantity is a non-negative integer read from YAML. It accepts plain
// integers, decimal or 0x-prefixed strings, and integral floats no larger
// than primitives.MaxSafeFloatInteger.
type Quantity struct {
	v *big.Int
}

func NewQuantity(v uint64) Quantity {
	return Quantity{v: new(big.Int).SetUint64(v)}
}

func mustHexQuantity(s string) Quantity {
	v, err := primitives.HexToBig(s)
	if err != nil {
		panic(err)
	}
	return Quantity{v: v}
}

// Big returns a copy; the zero Quantity is 0.
func (q Quantity) Big() *big.Int {
	if q.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(q.v)
}

func (q Quantity) IsZero() bool {
	return q.v == nil || q.v.Sign() == 0
}

func (q Quantity) Uint64() (uint64, error) {
	b := q.Big()
	if !b.IsUint64() {
		return 0, fmt.Errorf("%w: %s exceeds uint64", primitives.ErrNotSafeInteger, b)
	}
	return b.Uint64(), nil
}

func (q Quantity) Uint256() (*uint256.Int, error) {
	v, overflow := uint256.FromBig(q.Big())
	if overflow {
		return nil, fmt.Errorf("%w: %s exceeds 256 bits", primitives.ErrNotSafeInteger, q.Big())
	}
	return v, nil
}

func (q Quantity) String() string {
	s, _ := primitives.BigToHex(q.Big())
	return s
}

func (q Quantity) MarshalYAML() (interface{}, error) {
	return q.String(), nil
}

func (q *Quantity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: quantity must be a scalar", node.Line)
	}
	v, err := parseQuantity(node.Value, node.Tag)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	q.v = v
	return nil
}

func parseQuantity(text, tag string) (*big.Int, error) {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		return primitives.HexToBig(text)
	case isDecimal(text):
		// 纯数字按整数解析，yaml 会把超出 64 位的整数标记成 !!float
		v, _ := new(big.Int).SetString(text, 10)
		return v, nil
	case tag == "!!float":
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", primitives.ErrNotSafeInteger, text)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > primitives.MaxSafeFloatInteger {
			return nil, fmt.Errorf("%w: %q", primitives.ErrNotSafeInteger, text)
		}
		if f < 0 {
			return nil, fmt.Errorf("%w: %q", primitives.ErrNegativeValue, text)
		}
		return new(big.Int).SetUint64(uint64(f)), nil
	case strings.HasPrefix(text, "-"):
		return nil, fmt.Errorf("%w: %q", primitives.ErrNegativeValue, text)
	default:
		return nil, fmt.Errorf("%w: %q", primitives.ErrInvalidHexDigit, text)
	}
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// HexBytes is byte data written as 0x-prefixed hex in YAML.
type HexBytes []byte

func (b HexBytes) MarshalYAML() (interface{}, error) {
	return primitives.BytesToHex(b), nil
}

func (b *HexBytes) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: hex data must be a scalar", node.Line)
	}
	raw, err := primitives.HexToBytes(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*b = raw
	return nil
}
