package primitives

import "github.com/ethereum/go-ethereum/crypto"

// HashFunc is a fixed-output 32 byte cryptographic hash.
type HashFunc func(data []byte) Hash

// Keccak256Hash is the default HashFunc.
func Keccak256Hash(data []byte) Hash {
	var h Hash
	h.raw = crypto.Keccak256Hash(data)
	return h
}

var (
	// EmptyCodeHash is keccak256 of no data.
	EmptyCodeHash = MustFromHex[[32]byte]("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
	// EmptyUncleHash is keccak256(rlp([])).
	EmptyUncleHash = MustFromHex[[32]byte]("0x1dcc4de8dec75d7aab85b567b6ccd41ad312451b948a7413f0a142fd40d49347")
	// EmptyRootHash is keccak256(rlp("")), the root of an empty trie.
	EmptyRootHash = MustFromHex[[32]byte]("0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")
)
