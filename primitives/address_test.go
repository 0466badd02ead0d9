package primitives_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/WJX2001/header-codec/primitives"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestAddressChecksum(t *testing.T) {
	// EIP-55 里给出的样例
	vectors := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, v := range vectors {
		addr, err := primitives.AddressFromHex(strings.ToLower(v))
		require.NoError(t, err)
		require.Equal(t, v, addr.Checksum())
		require.Equal(t, strings.ToLower(v), addr.Hex())
	}
}

func TestAddressChecksumMatchesGeth(t *testing.T) {
	raw := []byte{0x74, 0x2d, 0x35, 0xcc, 0x66, 0x34, 0xc0, 0x53, 0x29, 0x25, 0xa3, 0xb8, 0x44, 0xbc, 0x45, 0x4e, 0x44, 0x38, 0xf4, 0x4e}
	addr, err := primitives.AddressFromBytes(raw)
	require.NoError(t, err)
	require.Equal(t, common.BytesToAddress(raw).Hex(), addr.Checksum())
}

func TestAddressJSONIsLowercase(t *testing.T) {
	addr, err := primitives.AddressFromHex("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(t, err)

	// 展示用校验和格式，JSON 用小写
	require.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", addr.String())
	data, err := json.Marshal(addr)
	require.NoError(t, err)
	require.Equal(t, `"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"`, string(data))

	var back primitives.Address
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, addr, back)
}

func TestAddressErrors(t *testing.T) {
	_, err := primitives.AddressFromHex("0x1234")
	require.ErrorIs(t, err, primitives.ErrInvalidLength)

	_, err = primitives.AddressFromBytes(make([]byte, 32))
	require.ErrorIs(t, err, primitives.ErrInvalidLength)
}

func TestAddressZero(t *testing.T) {
	var zero primitives.Address
	require.True(t, zero.IsZero())
	require.Equal(t, "0x0000000000000000000000000000000000000000", zero.Hex())

	other, err := primitives.AddressFromHex("0x0000000000000000000000000000000000000000")
	require.NoError(t, err)
	require.True(t, zero.Equal(other))
}

func TestKeccakConstants(t *testing.T) {
	require.Equal(t, primitives.EmptyCodeHash, primitives.Keccak256Hash(nil))
	require.Equal(t, primitives.EmptyUncleHash, primitives.Keccak256Hash([]byte{0xc0}))
	require.Equal(t, primitives.EmptyRootHash, primitives.Keccak256Hash([]byte{0x80}))
}

func TestHexToBytes(t *testing.T) {
	b, err := primitives.HexToBytes("0x0a0B")
	require.NoError(t, err)
	require.Equal(t, []byte{0x0a, 0x0b}, b)
	require.Equal(t, "0x0a0b", primitives.BytesToHex(b))

	b, err = primitives.HexToBytes("ff00")
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0x00}, b)

	b, err = primitives.HexToBytes("0x")
	require.NoError(t, err)
	require.Empty(t, b)

	_, err = primitives.HexToBytes("0xabc")
	require.ErrorIs(t, err, primitives.ErrOddLength)

	_, err = primitives.HexToBytes("0xzz")
	require.ErrorIs(t, err, primitives.ErrInvalidHexDigit)
}
