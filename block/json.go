package block

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/WJX2001/header-codec/primitives"
)

// HeaderJSON is the hex view of the fields in Raw.
type HeaderJSON struct {
	ParentHash       primitives.Hash    `json:"parentHash"`
	OmmersHash       primitives.Hash    `json:"ommersHash"`
	Beneficiary      primitives.Address `json:"beneficiary"`
	StateRoot        primitives.Hash    `json:"stateRoot"`
	TransactionsRoot primitives.Hash    `json:"transactionsRoot"`
	LogsBloom        primitives.Bloom   `json:"logsBloom"`
	Difficulty       *hexutil.Big       `json:"difficulty"`
	Number           hexutil.Uint64     `json:"number"`
	GasLimit         hexutil.Uint64     `json:"gasLimit"`
	GasUsed          hexutil.Uint64     `json:"gasUsed"`
	Timestamp        hexutil.Uint64     `json:"timeStamp"`
	MixHash          primitives.Hash    `json:"mixHash"`
	Nonce            primitives.B64     `json:"nonce"`
}

func (h *Header) JSON() HeaderJSON {
	difficulty := new(uint256.Int)
	if h.Difficulty != nil {
		difficulty = h.Difficulty
	}
	return HeaderJSON{
		ParentHash:       h.ParentHash,
		OmmersHash:       h.OmmersHash,
		Beneficiary:      h.Beneficiary,
		StateRoot:        h.StateRoot,
		TransactionsRoot: h.TransactionsRoot,
		LogsBloom:        h.LogsBloom,
		Difficulty:       (*hexutil.Big)(difficulty.ToBig()),
		Number:           hexutil.Uint64(h.Number),
		GasLimit:         hexutil.Uint64(h.GasLimit),
		GasUsed:          hexutil.Uint64(h.GasUsed),
		Timestamp:        hexutil.Uint64(h.Timestamp),
		MixHash:          h.MixHash,
		Nonce:            h.Nonce,
	}
}

func (h *Header) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.JSON())
}

// Header converts the JSON view back. Fields outside the view keep the
// NewHeader defaults.
func (j HeaderJSON) Header() (*Header, error) {
	h := NewHeader()
	h.ParentHash = j.ParentHash
	h.OmmersHash = j.OmmersHash
	h.Beneficiary = j.Beneficiary
	h.StateRoot = j.StateRoot
	h.TransactionsRoot = j.TransactionsRoot
	h.LogsBloom = j.LogsBloom
	if j.Difficulty != nil {
		d, overflow := uint256.FromBig(j.Difficulty.ToInt())
		if overflow {
			return nil, fmt.Errorf("%w: difficulty exceeds 256 bits", ErrInvalidHeader)
		}
		h.Difficulty = d
	}
	h.Number = uint64(j.Number)
	h.GasLimit = uint64(j.GasLimit)
	h.GasUsed = uint64(j.GasUsed)
	h.Timestamp = uint64(j.Timestamp)
	h.MixHash = j.MixHash
	h.Nonce = j.Nonce
	return h, nil
}

// jsonFieldNames are the keys of HeaderJSON, in Raw order.
var jsonFieldNames = [rawFieldCount]string{
	"parentHash", "ommersHash", "beneficiary", "stateRoot", "transactionsRoot", "logsBloom",
	"difficulty", "number", "gasLimit", "gasUsed", "timeStamp", "mixHash", "nonce",
}

// HeaderFromJSON parses the output of MarshalJSON. Every key must be present.
func HeaderFromJSON(data []byte) (*Header, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	for _, name := range jsonFieldNames {
		if _, ok := keys[name]; !ok {
			return nil, fmt.Errorf("%w: missing field %s", ErrInvalidHeader, name)
		}
	}

	var j HeaderJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}
	return j.Header()
}
