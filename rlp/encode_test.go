package rlp_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/WJX2001/header-codec/primitives"
	"github.com/WJX2001/header-codec/rlp"
	gethrlp "github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestEncodeStrings(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{"empty", []byte{}, []byte{0x80}},
		{"zero byte", []byte{0x00}, []byte{0x00}},
		{"single low byte", []byte{0x7f}, []byte{0x7f}},
		{"single high byte", []byte{0x80}, []byte{0x81, 0x80}},
		{"dog", []byte("dog"), []byte{0x83, 'd', 'o', 'g'}},
		{"55 bytes", bytes.Repeat([]byte{0xaa}, 55), append([]byte{0xb7}, bytes.Repeat([]byte{0xaa}, 55)...)},
		{"56 bytes", bytes.Repeat([]byte{0xaa}, 56), append([]byte{0xb8, 0x38}, bytes.Repeat([]byte{0xaa}, 56)...)},
		{"1024 bytes", bytes.Repeat([]byte{0x01}, 1024), append([]byte{0xb9, 0x04, 0x00}, bytes.Repeat([]byte{0x01}, 1024)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, rlp.Encode(rlp.Bytes(tt.in)))
		})
	}
}

func TestEncodeLists(t *testing.T) {
	require.Equal(t, []byte{0xc0}, rlp.Encode(rlp.ListOf()))
	require.Equal(t, []byte{0xc1, 0x80}, rlp.Encode(rlp.ListOf(rlp.Bytes(nil))))
	require.Equal(t, []byte{0xc1, 0xc0}, rlp.Encode(rlp.ListOf(rlp.ListOf())))

	// [0x64, [0x01, ""]]
	item := rlp.ListOf(
		rlp.Bytes([]byte{0x64}),
		rlp.ListOf(rlp.Bytes([]byte{0x01}), rlp.Bytes([]byte{})),
	)
	require.Equal(t, []byte{0xc4, 0x64, 0xc2, 0x01, 0x80}, rlp.Encode(item))

	// 集合论表示 [ [], [[]], [ [], [[]] ] ]
	set := rlp.ListOf(
		rlp.ListOf(),
		rlp.ListOf(rlp.ListOf()),
		rlp.ListOf(rlp.ListOf(), rlp.ListOf(rlp.ListOf())),
	)
	require.Equal(t, []byte{0xc7, 0xc0, 0xc1, 0xc0, 0xc3, 0xc0, 0xc1, 0xc0}, rlp.Encode(set))
}

func TestEncodeListBoundary(t *testing.T) {
	// 55 字节载荷：54 字节的串加 1 字节前缀
	short := rlp.ListOf(rlp.Bytes(bytes.Repeat([]byte{0xaa}, 54)))
	enc := rlp.Encode(short)
	require.Equal(t, byte(0xc0+55), enc[0])
	require.Len(t, enc, 56)

	// 56 字节载荷切换到长格式
	long := rlp.ListOf(rlp.Bytes(bytes.Repeat([]byte{0xaa}, 55)))
	enc = rlp.Encode(long)
	require.Equal(t, []byte{0xf8, 56}, enc[:2])
	require.Len(t, enc, 58)

	decoded, err := rlp.Decode(enc)
	require.NoError(t, err)
	require.True(t, long.Equal(decoded))
}

func TestEncodeMatchesGeth(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x00},
		{0x7f},
		{0x80},
		bytes.Repeat([]byte{0x11}, 55),
		bytes.Repeat([]byte{0x22}, 56),
		bytes.Repeat([]byte{0x33}, 300),
		bytes.Repeat([]byte{0x44}, 70000),
	}
	for _, p := range payloads {
		want, err := gethrlp.EncodeToBytes(p)
		require.NoError(t, err)
		require.Equal(t, want, rlp.Encode(rlp.Bytes(p)), "len %d", len(p))
	}

	want, err := gethrlp.EncodeToBytes(payloads)
	require.NoError(t, err)
	require.Equal(t, want, rlp.Encode(rlp.BytesList(payloads)))

	for _, v := range []uint64{0, 1, 0x7f, 0x80, 0xff, 0x100, 1<<56 - 1, 1 << 63} {
		want, err := gethrlp.EncodeToBytes(v)
		require.NoError(t, err)
		got, err := rlp.EncodeValue(v)
		require.NoError(t, err)
		require.Equal(t, want, got, "value %d", v)
	}
}

func TestEncodeValue(t *testing.T) {
	enc, err := rlp.EncodeValue("0x0400")
	require.NoError(t, err)
	require.Equal(t, []byte{0x82, 0x04, 0x00}, enc)

	enc, err = rlp.EncodeValue(big.NewInt(1024))
	require.NoError(t, err)
	require.Equal(t, []byte{0x82, 0x04, 0x00}, enc)

	enc, err = rlp.EncodeValue(uint256.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, []byte{0x80}, enc)

	enc, err = rlp.EncodeValue([]any{"0x64", []any{uint64(1), []byte{}}})
	require.NoError(t, err)
	require.Equal(t, []byte{0xc4, 0x64, 0xc2, 0x01, 0x80}, enc)

	enc, err = rlp.EncodeValue([]string{"0x01", "0x"})
	require.NoError(t, err)
	require.Equal(t, []byte{0xc2, 0x01, 0x80}, enc)

	enc, err = rlp.EncodeValue(primitives.EmptyRootHash)
	require.NoError(t, err)
	require.Equal(t, byte(0xa0), enc[0])
	require.Equal(t, primitives.EmptyRootHash.Bytes(), enc[1:])
}

func TestEncodeValueErrors(t *testing.T) {
	_, err := rlp.EncodeValue(3.14)
	require.ErrorIs(t, err, rlp.ErrUnsupportedInputType)

	_, err = rlp.EncodeValue(map[string]int{})
	require.ErrorIs(t, err, rlp.ErrUnsupportedInputType)

	_, err = rlp.EncodeValue("0xzz")
	require.ErrorIs(t, err, rlp.ErrInvalidHexInput)

	_, err = rlp.EncodeValue([]any{"0x01", "0x123"})
	require.ErrorIs(t, err, rlp.ErrInvalidHexInput)

	_, err = rlp.EncodeValue(big.NewInt(-1))
	require.ErrorIs(t, err, primitives.ErrNegativeValue)
}

func TestEncodeDoesNotRetainInput(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	enc := rlp.Encode(rlp.Bytes(data))
	data[0] = 0xff
	require.Equal(t, []byte{0x83, 0x01, 0x02, 0x03}, enc)
}
