package primitives_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/WJX2001/header-codec/primitives"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestBigToUnpaddedBytes(t *testing.T) {
	tests := []struct {
		in   *big.Int
		want []byte
	}{
		{big.NewInt(0), []byte{}},
		{big.NewInt(1), []byte{0x01}},
		{big.NewInt(255), []byte{0xff}},
		{big.NewInt(256), []byte{0x01, 0x00}},
		{big.NewInt(65536), []byte{0x01, 0x00, 0x00}},
		{new(big.Int).Lsh(big.NewInt(1), 255), append([]byte{0x80}, make([]byte, 31)...)},
	}
	for _, tt := range tests {
		have, err := primitives.BigToUnpaddedBytes(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, have, "value %s", tt.in)
	}
}

func TestBigToUnpaddedBytesNegative(t *testing.T) {
	_, err := primitives.BigToUnpaddedBytes(big.NewInt(-1))
	require.ErrorIs(t, err, primitives.ErrNegativeValue)
}

func TestBigToPaddedBytes(t *testing.T) {
	b, err := primitives.BigToPaddedBytes(big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, b)

	b, err = primitives.BigToPaddedBytes(big.NewInt(256))
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x00}, b)
}

func TestUint64UnpaddedRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 0x7f, 0x80, 0xff, 0x100, 0xffffffff, math.MaxUint64} {
		b := primitives.Uint64ToUnpaddedBytes(v)
		if v == 0 {
			require.Empty(t, b)
		} else {
			require.NotEqual(t, byte(0), b[0])
		}
		back, err := primitives.UnpaddedBytesToUint64(b)
		require.NoError(t, err)
		require.Equal(t, v, back)
	}
}

func TestUnpaddedBytesToUint64Errors(t *testing.T) {
	_, err := primitives.UnpaddedBytesToUint64([]byte{0, 1})
	require.ErrorIs(t, err, primitives.ErrNonCanonicalInteger)

	_, err = primitives.UnpaddedBytesToUint64(make([]byte, 9))
	require.ErrorIs(t, err, primitives.ErrNotSafeInteger)
}

func TestUint256Unpadded(t *testing.T) {
	require.Empty(t, primitives.Uint256ToUnpaddedBytes(nil))
	require.Empty(t, primitives.Uint256ToUnpaddedBytes(uint256.NewInt(0)))
	require.Equal(t, []byte{0x01, 0x00}, primitives.Uint256ToUnpaddedBytes(uint256.NewInt(256)))

	v, err := primitives.UnpaddedBytesToUint256([]byte{0x04, 0x00, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	require.Equal(t, uint64(0x400000000), v.Uint64())

	_, err = primitives.UnpaddedBytesToUint256(make([]byte, 33))
	require.ErrorIs(t, err, primitives.ErrNotSafeInteger)
}

func TestIntegerToHex(t *testing.T) {
	require.Equal(t, "0x0", primitives.Uint64ToHex(0))
	require.Equal(t, "0x400", primitives.Uint64ToHex(1024))

	s, err := primitives.IntToHex(255)
	require.NoError(t, err)
	require.Equal(t, "0xff", s)

	_, err = primitives.IntToHex(-1)
	require.ErrorIs(t, err, primitives.ErrNegativeValue)

	s, err = primitives.BigToHex(new(big.Int).Lsh(big.NewInt(1), 64))
	require.NoError(t, err)
	require.Equal(t, "0x10000000000000000", s)

	_, err = primitives.BigToHex(big.NewInt(-5))
	require.ErrorIs(t, err, primitives.ErrNegativeValue)
}

func TestFloatToHex(t *testing.T) {
	s, err := primitives.FloatToHex(30000000)
	require.NoError(t, err)
	require.Equal(t, "0x1c9c380", s)

	s, err = primitives.FloatToHex(primitives.MaxSafeFloatInteger)
	require.NoError(t, err)
	require.Equal(t, "0x1fffffffffffff", s)

	// 超过 2^53-1 的浮点数无法精确表示
	_, err = primitives.FloatToHex(primitives.MaxSafeFloatInteger + 1)
	require.ErrorIs(t, err, primitives.ErrNotSafeInteger)

	_, err = primitives.FloatToHex(1.5)
	require.ErrorIs(t, err, primitives.ErrNotSafeInteger)

	_, err = primitives.FloatToHex(math.Inf(1))
	require.ErrorIs(t, err, primitives.ErrNotSafeInteger)

	_, err = primitives.FloatToHex(-3)
	require.ErrorIs(t, err, primitives.ErrNegativeValue)
}

func TestHexToQuantity(t *testing.T) {
	v, err := primitives.HexToUint64("0x1c9c380")
	require.NoError(t, err)
	require.Equal(t, uint64(30000000), v)

	_, err = primitives.HexToUint64("0x10000000000000000")
	require.ErrorIs(t, err, primitives.ErrNotSafeInteger)

	b, err := primitives.HexToBig("0x10000000000000000")
	require.NoError(t, err)
	require.Equal(t, "18446744073709551616", b.String())

	_, err = primitives.HexToBig("0xzz")
	require.ErrorIs(t, err, primitives.ErrInvalidHexDigit)
}
