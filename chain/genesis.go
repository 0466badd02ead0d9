package chain

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/WJX2001/header-codec/block"
	"github.com/WJX2001/header-codec/primitives"
)

var ErrInvalidGenesis = errors.New("chain: invalid genesis")

// Genesis holds the block 0 parameters. Fields left out keep the
// block.NewHeader defaults.
type Genesis struct {
	Timestamp     Quantity  `yaml:"timestamp"`
	GasLimit      Quantity  `yaml:"gasLimit"`
	Difficulty    Quantity  `yaml:"difficulty"`
	Nonce         Quantity  `yaml:"nonce"`
	ExtraData     HexBytes  `yaml:"extraData"`
	Coinbase      HexBytes  `yaml:"coinbase,omitempty"`
	StateRoot     HexBytes  `yaml:"stateRoot,omitempty"`
	MixHash       HexBytes  `yaml:"mixHash,omitempty"`
	BaseFeePerGas *Quantity `yaml:"baseFeePerGas,omitempty"`
	ExcessBlobGas *Quantity `yaml:"excessBlobGas,omitempty"`
}

// LoadGenesis reads a network description from a YAML file.
func LoadGenesis(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseGenesis(data)
}

func ParseGenesis(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidGenesis, err)
	}
	if cfg.Name == "" {
		return Config{}, fmt.Errorf("%w: name is required", ErrInvalidGenesis)
	}
	if cfg.ChainID == 0 {
		return Config{}, fmt.Errorf("%w: chainId is required", ErrInvalidGenesis)
	}
	if _, err := cfg.Genesis.Header(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Header builds the block 0 header.
func (g *Genesis) Header() (*block.Header, error) {
	h := block.NewHeader()

	var err error
	if h.Timestamp, err = g.Timestamp.Uint64(); err != nil {
		return nil, genesisErr("timestamp", err)
	}
	if !g.GasLimit.IsZero() {
		if h.GasLimit, err = g.GasLimit.Uint64(); err != nil {
			return nil, genesisErr("gasLimit", err)
		}
	}
	if h.Difficulty, err = g.Difficulty.Uint256(); err != nil {
		return nil, genesisErr("difficulty", err)
	}
	nonce, err := g.Nonce.Uint64()
	if err != nil {
		return nil, genesisErr("nonce", err)
	}
	if h.Nonce, err = primitives.FromBytes[[8]byte](padLeft(primitives.Uint64ToUnpaddedBytes(nonce), 8)); err != nil {
		return nil, genesisErr("nonce", err)
	}
	if len(g.ExtraData) > 0 {
		h.ExtraData = append([]byte{}, g.ExtraData...)
	}
	if len(g.Coinbase) > 0 {
		if h.Beneficiary, err = primitives.AddressFromBytes(g.Coinbase); err != nil {
			return nil, genesisErr("coinbase", err)
		}
	}
	if len(g.StateRoot) > 0 {
		if h.StateRoot, err = primitives.FromBytes[[32]byte](g.StateRoot); err != nil {
			return nil, genesisErr("stateRoot", err)
		}
	}
	if len(g.MixHash) > 0 {
		if h.MixHash, err = primitives.FromBytes[[32]byte](g.MixHash); err != nil {
			return nil, genesisErr("mixHash", err)
		}
	}
	if g.BaseFeePerGas != nil {
		if h.BaseFeePerGas, err = g.BaseFeePerGas.Uint256(); err != nil {
			return nil, genesisErr("baseFeePerGas", err)
		}
	}
	if g.ExcessBlobGas != nil {
		v, err := g.ExcessBlobGas.Uint64()
		if err != nil {
			return nil, genesisErr("excessBlobGas", err)
		}
		h.ExcessBlobGas = &v
	}
	return h, nil
}

func genesisErr(field string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInvalidGenesis, field, err)
}

func padLeft(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}

func mustHex(s string) HexBytes {
	b, err := primitives.HexToBytes(s)
	if err != nil {
		panic(err)
	}
	return b
}
