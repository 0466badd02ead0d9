package block_test

import (
	"encoding/json"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	gethrlp "github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/WJX2001/header-codec/block"
	"github.com/WJX2001/header-codec/primitives"
)

// gethHeader 和 Raw() 的字段顺序一一对应，用 geth 的 rlp 作为对照
type gethHeader struct {
	ParentHash  common.Hash
	OmmersHash  common.Hash
	Beneficiary common.Address
	StateRoot   common.Hash
	TxRoot      common.Hash
	Bloom       [256]byte
	Difficulty  *big.Int
	Number      uint64
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	MixHash     common.Hash
	Nonce       [8]byte
}

func sampleHeader(t *testing.T) *block.Header {
	h := block.NewHeader()
	h.ParentHash = primitives.MustFromHex[[32]byte]("0x88e96d4537bea4d9c05d12549907b32561d3bf31f45aae734cdc119f13406cb6")
	h.StateRoot = primitives.MustFromHex[[32]byte]("0xd67e4d450343046425ae4271474353857ab860dbc0a1dde64b41b5cd3a532bf3")
	addr, err := primitives.AddressFromHex("0x05a56e2d52c817161883f50c441c3228cfe54d9f")
	require.NoError(t, err)
	h.Beneficiary = addr
	h.Difficulty = uint256.NewInt(17171480576)
	h.Number = 1
	h.GasLimit = 5000
	h.Timestamp = 1438269988
	h.MixHash = primitives.MustFromHex[[32]byte]("0x969b900de27b6ac6a67742365dd65f55a0526c41fd18e1b16f1a1215c2e66f59")
	h.Nonce = primitives.MustFromHex[[8]byte]("0x539bd4979fef1ec4")
	return h
}

func toGeth(h *block.Header) gethHeader {
	g := gethHeader{
		ParentHash:  common.BytesToHash(h.ParentHash.Bytes()),
		OmmersHash:  common.BytesToHash(h.OmmersHash.Bytes()),
		Beneficiary: common.BytesToAddress(h.Beneficiary.Bytes()),
		StateRoot:   common.BytesToHash(h.StateRoot.Bytes()),
		TxRoot:      common.BytesToHash(h.TransactionsRoot.Bytes()),
		Difficulty:  h.Difficulty.ToBig(),
		Number:      h.Number,
		GasLimit:    h.GasLimit,
		GasUsed:     h.GasUsed,
		Time:        h.Timestamp,
		MixHash:     common.BytesToHash(h.MixHash.Bytes()),
	}
	copy(g.Bloom[:], h.LogsBloom.Bytes())
	copy(g.Nonce[:], h.Nonce.Bytes())
	return g
}

func TestNewHeaderDefaults(t *testing.T) {
	h := block.NewHeader()
	require.Equal(t, primitives.EmptyUncleHash, h.OmmersHash)
	require.Equal(t, primitives.EmptyRootHash, h.TransactionsRoot)
	require.Equal(t, block.DefaultGasLimit, h.GasLimit)
	require.True(t, h.IsGenesis())
	require.True(t, h.Difficulty.IsZero())
	require.True(t, h.Beneficiary.IsZero())
}

func TestRawOrder(t *testing.T) {
	h := sampleHeader(t)
	raw := h.Raw()
	require.Len(t, raw, 13)
	require.Equal(t, h.ParentHash.Bytes(), raw[0])
	require.Equal(t, h.OmmersHash.Bytes(), raw[1])
	require.Equal(t, h.Beneficiary.Bytes(), raw[2])
	require.Len(t, raw[5], 256)
	require.Equal(t, []byte{0x03, 0xff, 0x80, 0x00, 0x00}, raw[6])
	require.Equal(t, []byte{0x01}, raw[7])
	require.Equal(t, []byte{0x13, 0x88}, raw[8])
	// gasUsed 为 0，去掉前导零后是空串
	require.Empty(t, raw[9])
	require.Equal(t, h.Nonce.Bytes(), raw[12])
}

func TestSerializeMatchesGeth(t *testing.T) {
	h := sampleHeader(t)
	want, err := gethrlp.EncodeToBytes(toGeth(h))
	require.NoError(t, err)
	require.Equal(t, want, h.Serialize())
	require.Equal(t, crypto.Keccak256(want), h.Hash().Bytes())

	// 默认值的 header 同样对得上
	empty := block.NewHeader()
	want, err = gethrlp.EncodeToBytes(toGeth(empty))
	require.NoError(t, err)
	require.Equal(t, want, empty.Serialize())
}

func TestHashDeterministic(t *testing.T) {
	a := sampleHeader(t)
	b := sampleHeader(t)
	require.Equal(t, a.Hash(), b.Hash())
	require.Equal(t, a.Hash(), a.Hash())
}

func TestHashChangesWithEachField(t *testing.T) {
	base := sampleHeader(t).Hash()
	mutations := map[string]func(h *block.Header){
		"parentHash":       func(h *block.Header) { h.ParentHash = primitives.Hash{} },
		"ommersHash":       func(h *block.Header) { h.OmmersHash = primitives.EmptyRootHash },
		"beneficiary":      func(h *block.Header) { h.Beneficiary = primitives.Address{} },
		"stateRoot":        func(h *block.Header) { h.StateRoot = primitives.EmptyCodeHash },
		"transactionsRoot": func(h *block.Header) { h.TransactionsRoot = primitives.EmptyUncleHash },
		"logsBloom": func(h *block.Header) {
			b := make([]byte, 256)
			b[0] = 1
			h.LogsBloom, _ = primitives.FromBytes[[256]byte](b)
		},
		"difficulty": func(h *block.Header) { h.Difficulty = uint256.NewInt(1) },
		"number":     func(h *block.Header) { h.Number++ },
		"gasLimit":   func(h *block.Header) { h.GasLimit-- },
		"gasUsed":    func(h *block.Header) { h.GasUsed = 21000 },
		"timestamp":  func(h *block.Header) { h.Timestamp++ },
		"mixHash":    func(h *block.Header) { h.MixHash = primitives.Hash{} },
		"nonce":      func(h *block.Header) { h.Nonce = primitives.B64{} },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			h := sampleHeader(t)
			mutate(h)
			require.NotEqual(t, base, h.Hash())
		})
	}
}

func TestExtensionFieldsDoNotAffectHash(t *testing.T) {
	h := sampleHeader(t)
	before := h.Hash()
	h.ExtraData = []byte("extra")
	h.BaseFeePerGas = uint256.NewInt(7)
	h.ReceiptsRoot = primitives.Hash{}
	require.Equal(t, before, h.Hash())
}

func TestMutableHeaderIsNotCached(t *testing.T) {
	h := sampleHeader(t)
	first := h.Hash()
	h.Number = 99
	require.NotEqual(t, first, h.Hash())
}

func TestDecodeHeaderRoundTrip(t *testing.T) {
	h := sampleHeader(t)
	decoded, err := block.DecodeHeader(h.Serialize())
	require.NoError(t, err)
	require.Equal(t, h, decoded)
	require.Equal(t, h.Hash(), decoded.Hash())

	empty := block.NewHeader()
	decoded, err = block.DecodeHeader(empty.Serialize())
	require.NoError(t, err)
	require.Equal(t, empty.Hash(), decoded.Hash())
}

func TestDecodeHeaderErrors(t *testing.T) {
	_, err := block.DecodeHeader([]byte{0x80})
	require.ErrorIs(t, err, block.ErrInvalidHeader)

	_, err = block.DecodeHeader([]byte{0xc1, 0x80})
	require.ErrorIs(t, err, block.ErrInvalidHeader)

	// 截断的输入
	enc := sampleHeader(t).Serialize()
	_, err = block.DecodeHeader(enc[:len(enc)-1])
	require.ErrorIs(t, err, block.ErrInvalidHeader)

	// 字段宽度不对
	g := toGeth(sampleHeader(t))
	type shortNonce struct {
		ParentHash, OmmersHash common.Hash
		Beneficiary            common.Address
		StateRoot, TxRoot      common.Hash
		Bloom                  [256]byte
		Difficulty             *big.Int
		Number, GasLimit       uint64
		GasUsed, Time          uint64
		MixHash                common.Hash
		Nonce                  [4]byte
	}
	bad, err := gethrlp.EncodeToBytes(shortNonce{
		ParentHash: g.ParentHash, OmmersHash: g.OmmersHash, Beneficiary: g.Beneficiary,
		StateRoot: g.StateRoot, TxRoot: g.TxRoot, Difficulty: g.Difficulty,
		Number: g.Number, GasLimit: g.GasLimit, Time: g.Time, MixHash: g.MixHash,
	})
	require.NoError(t, err)
	_, err = block.DecodeHeader(bad)
	require.ErrorIs(t, err, block.ErrInvalidHeader)
	require.ErrorIs(t, err, primitives.ErrInvalidLength)
}

func TestCopyIsDeep(t *testing.T) {
	h := sampleHeader(t)
	h.ExtraData = []byte{1, 2, 3}
	cpy := h.Copy()
	h.Difficulty.SetUint64(1)
	h.ExtraData[0] = 9
	require.Equal(t, uint64(17171480576), cpy.Difficulty.Uint64())
	require.Equal(t, []byte{1, 2, 3}, cpy.ExtraData)
}

type countingHasher struct {
	calls atomic.Int32
}

func (c *countingHasher) hash(data []byte) primitives.Hash {
	c.calls.Add(1)
	return primitives.Keccak256Hash(data)
}

func TestImmutableHeaderCachesHash(t *testing.T) {
	counter := &countingHasher{}
	h := sampleHeader(t)
	frozen := h.FinalizeWith(counter.hash)

	require.Equal(t, h.Hash(), frozen.Hash())
	require.Equal(t, h.Hash(), frozen.Hash())
	require.Equal(t, int32(1), counter.calls.Load())
}

func TestImmutableHeaderIsIsolated(t *testing.T) {
	h := sampleHeader(t)
	want := h.Hash()
	frozen := h.Finalize()

	h.Number = 1000
	h.Difficulty.SetUint64(5)
	require.Equal(t, want, frozen.Hash())
	require.Equal(t, uint64(1), frozen.Number())

	// 拿到的可变副本也不会影响冻结的 header
	mutable := frozen.Header()
	mutable.GasUsed = 1
	frozen.Difficulty().SetUint64(3)
	require.Equal(t, want, frozen.Hash())
	require.NotEqual(t, want, mutable.Hash())
}

func TestImmutableHeaderConcurrentHash(t *testing.T) {
	counter := &countingHasher{}
	frozen := sampleHeader(t).FinalizeWith(counter.hash)

	var wg sync.WaitGroup
	results := make([]primitives.Hash, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = frozen.Hash()
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, results[0], r)
	}
	require.Equal(t, int32(1), counter.calls.Load())
}

func TestFinalizeWithNilUsesKeccak(t *testing.T) {
	h := sampleHeader(t)
	require.Equal(t, h.Hash(), h.FinalizeWith(nil).Hash())
}

func TestHeaderJSONRoundTrip(t *testing.T) {
	h := sampleHeader(t)
	data, err := h.MarshalJSON()
	require.NoError(t, err)
	require.Contains(t, string(data), `"number":"0x1"`)
	require.Contains(t, string(data), `"difficulty":"0x3ff800000"`)
	// JSON 里的地址统一是小写
	require.Contains(t, string(data), `"beneficiary":"0x05a56e2d52c817161883f50c441c3228cfe54d9f"`)

	back, err := block.HeaderFromJSON(data)
	require.NoError(t, err)
	require.Equal(t, h.Hash(), back.Hash())

	_, err = block.HeaderFromJSON([]byte(`{"nonce":"0x01"}`))
	require.ErrorIs(t, err, block.ErrInvalidHeader)
}

func TestHeaderFromJSONRequiresEveryField(t *testing.T) {
	data, err := sampleHeader(t).MarshalJSON()
	require.NoError(t, err)
	require.Contains(t, string(data), `"timeStamp":"0x55ba4224"`)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	require.Len(t, fields, 13)

	// 缺少任何一个字段都不能当成零值处理
	for name := range fields {
		partial := make(map[string]json.RawMessage, len(fields))
		for k, v := range fields {
			if k != name {
				partial[k] = v
			}
		}
		encoded, err := json.Marshal(partial)
		require.NoError(t, err)
		_, err = block.HeaderFromJSON(encoded)
		require.ErrorIs(t, err, block.ErrInvalidHeader, name)
		require.ErrorContains(t, err, "missing field "+name)
	}
}
