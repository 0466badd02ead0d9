package utils

import (
	"github.com/WJX2001/header-codec/block"
	"github.com/WJX2001/header-codec/primitives"
)

// RLPHeader stores a block.Header through the rlp serializer.
type RLPHeader block.Header

func NewRLPHeader(h *block.Header) *RLPHeader {
	return (*RLPHeader)(h.Copy())
}

func (h *RLPHeader) Serialize() []byte {
	return h.Header().Serialize()
}

func (h *RLPHeader) DecodeRLP(b []byte) error {
	header, err := block.DecodeHeader(b)
	if err != nil {
		return err
	}
	*h = RLPHeader(*header)
	return nil
}

func (h *RLPHeader) Header() *block.Header {
	return (*block.Header)(h)
}

func (h *RLPHeader) Hash() primitives.Hash {
	return h.Header().Hash()
}
