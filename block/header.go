package block

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/WJX2001/header-codec/primitives"
	"github.com/WJX2001/header-codec/rlp"
)

var ErrInvalidHeader = errors.New("block: invalid header")

// DefaultGasLimit is the gas limit NewHeader starts from.
const DefaultGasLimit uint64 = 0xffffffffffffff

// rawFieldCount is the number of items Raw emits.
const rawFieldCount = 13

var rawFieldNames = [rawFieldCount]string{
	"parentHash", "ommersHash", "beneficiary", "stateRoot", "transactionsRoot", "logsBloom",
	"difficulty", "number", "gasLimit", "gasUsed", "timestamp", "mixHash", "nonce",
}

// Header is a mutable block header. Its hash is recomputed on every call;
// Finalize freezes a copy whose hash is computed once.
type Header struct {
	ParentHash       primitives.Hash
	OmmersHash       primitives.Hash
	Beneficiary      primitives.Address
	StateRoot        primitives.Hash
	TransactionsRoot primitives.Hash
	ReceiptsRoot     primitives.Hash
	LogsBloom        primitives.Bloom
	Difficulty       *uint256.Int
	Number           uint64
	GasLimit         uint64
	GasUsed          uint64
	Timestamp        uint64
	MixHash          primitives.Hash
	Nonce            primitives.B64

	// 下面的字段只是声明，不参与 Raw()，也就不影响哈希
	ExtraData             []byte
	BaseFeePerGas         *uint256.Int
	WithdrawalsRoot       *primitives.Hash
	RequestsRoot          *primitives.Hash
	BlobGasUsed           *uint64
	ExcessBlobGas         *uint64
	ParentBeaconBlockRoot *primitives.Hash
}

// NewHeader returns a header with the default field values: the ommers hash
// of an empty list, the root of an empty trie and DefaultGasLimit.
func NewHeader() *Header {
	return &Header{
		OmmersHash:       primitives.EmptyUncleHash,
		TransactionsRoot: primitives.EmptyRootHash,
		ReceiptsRoot:     primitives.EmptyRootHash,
		Difficulty:       new(uint256.Int),
		GasLimit:         DefaultGasLimit,
	}
}

// Raw returns the header fields in wire order, integers unpadded.
func (h *Header) Raw() [][]byte {
	return [][]byte{
		h.ParentHash.Bytes(),
		h.OmmersHash.Bytes(),
		h.Beneficiary.Bytes(),
		h.StateRoot.Bytes(),
		h.TransactionsRoot.Bytes(),
		h.LogsBloom.Bytes(),
		primitives.Uint256ToUnpaddedBytes(h.Difficulty),
		primitives.Uint64ToUnpaddedBytes(h.Number),
		primitives.Uint64ToUnpaddedBytes(h.GasLimit),
		primitives.Uint64ToUnpaddedBytes(h.GasUsed),
		primitives.Uint64ToUnpaddedBytes(h.Timestamp),
		h.MixHash.Bytes(),
		h.Nonce.Bytes(),
	}
}

// Serialize returns the RLP encoding of Raw.
func (h *Header) Serialize() []byte {
	return rlp.Encode(rlp.BytesList(h.Raw()))
}

// Hash returns the Keccak-256 hash of the serialized header.
func (h *Header) Hash() primitives.Hash {
	return h.HashWith(primitives.Keccak256Hash)
}

func (h *Header) HashWith(hashFn primitives.HashFunc) primitives.Hash {
	return hashFn(h.Serialize())
}

func (h *Header) IsGenesis() bool {
	return h.Number == 0
}

// Copy returns a deep copy of h.
func (h *Header) Copy() *Header {
	cpy := *h
	if h.Difficulty != nil {
		cpy.Difficulty = new(uint256.Int).Set(h.Difficulty)
	}
	if h.BaseFeePerGas != nil {
		cpy.BaseFeePerGas = new(uint256.Int).Set(h.BaseFeePerGas)
	}
	if h.ExtraData != nil {
		cpy.ExtraData = append([]byte{}, h.ExtraData...)
	}
	cpy.WithdrawalsRoot = copyPtr(h.WithdrawalsRoot)
	cpy.RequestsRoot = copyPtr(h.RequestsRoot)
	cpy.ParentBeaconBlockRoot = copyPtr(h.ParentBeaconBlockRoot)
	cpy.BlobGasUsed = copyPtr(h.BlobGasUsed)
	cpy.ExcessBlobGas = copyPtr(h.ExcessBlobGas)
	return &cpy
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// DecodeHeader parses the output of Serialize. Widths are validated and
// integers must be canonical.
func DecodeHeader(b []byte) (*Header, error) {
	item, err := rlp.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	return HeaderFromItem(item)
}

// HeaderFromItem builds a header from an already decoded item.
func HeaderFromItem(item rlp.Item) (*Header, error) {
	if !item.IsList() {
		return nil, fmt.Errorf("%w: expected list, got %s", ErrInvalidHeader, item.Kind())
	}
	items := item.Items()
	if len(items) != rawFieldCount {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrInvalidHeader, rawFieldCount, len(items))
	}

	var fields [rawFieldCount][]byte
	for i, it := range items {
		if it.IsList() {
			return nil, fmt.Errorf("%w: field %s is a list", ErrInvalidHeader, rawFieldNames[i])
		}
		fields[i] = it.Bytes()
	}

	var (
		h   Header
		err error
	)
	fieldErr := func(i int, err error) error {
		return fmt.Errorf("%w: field %s: %w", ErrInvalidHeader, rawFieldNames[i], err)
	}
	if h.ParentHash, err = primitives.FromBytes[[32]byte](fields[0]); err != nil {
		return nil, fieldErr(0, err)
	}
	if h.OmmersHash, err = primitives.FromBytes[[32]byte](fields[1]); err != nil {
		return nil, fieldErr(1, err)
	}
	if h.Beneficiary, err = primitives.AddressFromBytes(fields[2]); err != nil {
		return nil, fieldErr(2, err)
	}
	if h.StateRoot, err = primitives.FromBytes[[32]byte](fields[3]); err != nil {
		return nil, fieldErr(3, err)
	}
	if h.TransactionsRoot, err = primitives.FromBytes[[32]byte](fields[4]); err != nil {
		return nil, fieldErr(4, err)
	}
	if h.LogsBloom, err = primitives.FromBytes[[256]byte](fields[5]); err != nil {
		return nil, fieldErr(5, err)
	}
	if h.Difficulty, err = primitives.UnpaddedBytesToUint256(fields[6]); err != nil {
		return nil, fieldErr(6, err)
	}
	ints := []*uint64{&h.Number, &h.GasLimit, &h.GasUsed, &h.Timestamp}
	for i, dst := range ints {
		if *dst, err = primitives.UnpaddedBytesToUint64(fields[7+i]); err != nil {
			return nil, fieldErr(7+i, err)
		}
	}
	if h.MixHash, err = primitives.FromBytes[[32]byte](fields[11]); err != nil {
		return nil, fieldErr(11, err)
	}
	if h.Nonce, err = primitives.FromBytes[[8]byte](fields[12]); err != nil {
		return nil, fieldErr(12, err)
	}
	// 收据根不在线上格式里，按空树处理
	h.ReceiptsRoot = primitives.EmptyRootHash
	return &h, nil
}
