package block

import (
	"sync"

	"github.com/holiman/uint256"

	"github.com/WJX2001/header-codec/primitives"
)

// ImmutableHeader is a frozen header. It owns its field values, so nothing
// the caller does to the source header affects it, and its hash is computed
// at most once.
type ImmutableHeader struct {
	header Header
	hashFn primitives.HashFunc

	once sync.Once
	hash primitives.Hash
}

// Finalize freezes a copy of h hashed with Keccak-256.
func (h *Header) Finalize() *ImmutableHeader {
	return h.FinalizeWith(primitives.Keccak256Hash)
}

// FinalizeWith freezes a copy of h hashed with hashFn.
func (h *Header) FinalizeWith(hashFn primitives.HashFunc) *ImmutableHeader {
	if hashFn == nil {
		hashFn = primitives.Keccak256Hash
	}
	return &ImmutableHeader{
		header: *h.Copy(),
		hashFn: hashFn,
	}
}

// Hash is safe for concurrent use.
func (h *ImmutableHeader) Hash() primitives.Hash {
	h.once.Do(func() {
		h.hash = h.hashFn(h.header.Serialize())
	})
	return h.hash
}

// Header returns a mutable copy.
func (h *ImmutableHeader) Header() *Header {
	return h.header.Copy()
}

func (h *ImmutableHeader) Raw() [][]byte { return h.header.Raw() }
func (h *ImmutableHeader) Serialize() []byte { return h.header.Serialize() }
func (h *ImmutableHeader) JSON() HeaderJSON { return h.header.JSON() }
func (h *ImmutableHeader) IsGenesis() bool { return h.header.IsGenesis() }
func (h *ImmutableHeader) Number() uint64 { return h.header.Number }
func (h *ImmutableHeader) Timestamp() uint64 { return h.header.Timestamp }
func (h *ImmutableHeader) GasLimit() uint64 { return h.header.GasLimit }
func (h *ImmutableHeader) GasUsed() uint64 { return h.header.GasUsed }
func (h *ImmutableHeader) ParentHash() primitives.Hash { return h.header.ParentHash }
func (h *ImmutableHeader) StateRoot() primitives.Hash { return h.header.StateRoot }
func (h *ImmutableHeader) Beneficiary() primitives.Address {
	return h.header.Beneficiary
}

// Difficulty returns a copy.
func (h *ImmutableHeader) Difficulty() *uint256.Int {
	if h.header.Difficulty == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(h.header.Difficulty)
}

func (h *ImmutableHeader) MarshalJSON() ([]byte, error) {
	return h.header.MarshalJSON()
}
