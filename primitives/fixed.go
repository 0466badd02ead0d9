package primitives

import (
	"encoding/json"
	"fmt"
)

// Size enumerates the byte widths a FixedBytes value can have.
type Size interface {
	[1]byte | [2]byte | [4]byte | [8]byte | [12]byte | [16]byte | [20]byte |
		[24]byte | [28]byte | [32]byte | [64]byte | [128]byte | [256]byte
}

// FixedBytes is an immutable byte buffer of exactly len(A) bytes. The zero
// value holds len(A) zero bytes. Two values are equal under == iff their
// bytes are equal.
type FixedBytes[A Size] struct {
	raw A
}

type (
	B8    = FixedBytes[[1]byte]
	B16   = FixedBytes[[2]byte]
	B32   = FixedBytes[[4]byte]
	B64   = FixedBytes[[8]byte]
	B96   = FixedBytes[[12]byte]
	B128  = FixedBytes[[16]byte]
	B160  = FixedBytes[[20]byte]
	B192  = FixedBytes[[24]byte]
	B224  = FixedBytes[[28]byte]
	B256  = FixedBytes[[32]byte]
	B512  = FixedBytes[[64]byte]
	B1024 = FixedBytes[[128]byte]
	B2048 = FixedBytes[[256]byte]
)

// Hash and Bloom name the two widths headers use most.
type (
	Hash  = B256
	Bloom = B2048
)

// FromBytes copies b into a new buffer. len(b) must equal the buffer width.
func FromBytes[A Size](b []byte) (FixedBytes[A], error) {
	var f FixedBytes[A]
	if len(b) != len(f.raw) {
		return f, fmt.Errorf("%w: want %d bytes, have %d", ErrInvalidLength, len(f.raw), len(b))
	}
	// A 的类型集合里是不同长度的数组，没有 core type，不能切片，只能逐字节拷贝
	for i := 0; i < len(f.raw); i++ {
		f.raw[i] = b[i]
	}
	return f, nil
}

// FromHex parses hex text (optional 0x prefix) of exactly 2*width digits.
func FromHex[A Size](s string) (FixedBytes[A], error) {
	var f FixedBytes[A]
	digits := trimHexPrefix(s)
	if len(digits) != 2*len(f.raw) {
		return f, fmt.Errorf("%w: want %d hex digits, have %d", ErrInvalidLength, 2*len(f.raw), len(digits))
	}
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return f, fmt.Errorf("%w: %q at position %d", ErrInvalidHexDigit, digits[i], i)
		}
	}
	b, err := HexToBytes(digits)
	if err != nil {
		return f, err
	}
	return FromBytes[A](b)
}

// MustFromHex is FromHex for package level constants. It panics on error.
func MustFromHex[A Size](s string) FixedBytes[A] {
	f, err := FromHex[A](s)
	if err != nil {
		panic(fmt.Sprintf("primitives: bad fixed-width literal %q: %v", s, err))
	}
	return f
}

// Len returns the width in bytes.
func (f FixedBytes[A]) Len() int {
	return len(f.raw)
}

// Bytes returns a copy of the buffer contents.
func (f FixedBytes[A]) Bytes() []byte {
	out := make([]byte, len(f.raw))
	for i := 0; i < len(f.raw); i++ {
		out[i] = f.raw[i]
	}
	return out
}

func (f FixedBytes[A]) Hex() string {
	return BytesToHex(f.Bytes())
}

func (f FixedBytes[A]) String() string {
	return f.Hex()
}

func (f FixedBytes[A]) IsZero() bool {
	var zero FixedBytes[A]
	return f == zero
}

func (f FixedBytes[A]) Equal(other FixedBytes[A]) bool {
	return f == other
}

func (f FixedBytes[A]) MarshalText() ([]byte, error) {
	return []byte(f.Hex()), nil
}

// UnmarshalText decodes into a zero destination for encoding packages.
func (f *FixedBytes[A]) UnmarshalText(text []byte) error {
	parsed, err := FromHex[A](string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f FixedBytes[A]) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Hex())
}

func (f *FixedBytes[A]) UnmarshalJSON(input []byte) error {
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return err
	}
	return f.UnmarshalText([]byte(s))
}
