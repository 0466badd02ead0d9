package chain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownChain = errors.New("chain: unknown chain")

type ID uint64

const (
	Mainnet ID = 1
	Goerli  ID = 5
	Sepolia ID = 11155111
	Holesky ID = 17000
)

type Hardfork string

const (
	Chainstart Hardfork = "chainstart"
	London     Hardfork = "london"
	Paris      Hardfork = "paris"
	Shanghai   Hardfork = "shanghai"
	Cancun     Hardfork = "cancun"
)

type ConsensusType string

const (
	ProofOfStake     ConsensusType = "pos"
	ProofOfWork      ConsensusType = "pow"
	ProofOfAuthority ConsensusType = "poa"
)

type ConsensusAlgorithm string

const (
	Ethash ConsensusAlgorithm = "ethash"
	Clique ConsensusAlgorithm = "clique"
	Casper ConsensusAlgorithm = "casper"
)

type Consensus struct {
	Type      ConsensusType      `yaml:"type"`
	Algorithm ConsensusAlgorithm `yaml:"algorithm"`
}

// Config describes a network and the parameters of its block 0.
type Config struct {
	Name            string    `yaml:"name"`
	ChainID         ID        `yaml:"chainId"`
	DefaultHardfork Hardfork  `yaml:"defaultHardfork"`
	Consensus       Consensus `yaml:"consensus"`
	Genesis         Genesis   `yaml:"genesis"`
}

func mainnet() Config {
	return Config{
		Name:            "mainnet",
		ChainID:         Mainnet,
		DefaultHardfork: Shanghai,
		Consensus:       Consensus{Type: ProofOfStake, Algorithm: Casper},
		Genesis: Genesis{
			Timestamp:  NewQuantity(0),
			GasLimit:   NewQuantity(5000),
			Difficulty: NewQuantity(17179869184),
			Nonce:      mustHexQuantity("0x42"),
			ExtraData:  mustHex("0x11bbe8db4e347b4e8c937c1c8370e4b5ed33adb3db69cbdb7a38e1e50b1b82fa"),
			StateRoot:  mustHex("0xd7f8974fb5ac78d9ac099b9ad5018bedc2ce0a72dad1827a1709da30580f0544"),
		},
	}
}

func goerli() Config {
	// 32 字节 vanity + 签名者地址 + 65 字节空签名
	extra := "0x22466c6578692069732061207468696e6722202d204166726900000000000000" +
		"e0a2bd4258d2768837baa26a28fe71dc079f84c7" + strings.Repeat("00", 65)
	return Config{
		Name:            "goerli",
		ChainID:         Goerli,
		DefaultHardfork: Shanghai,
		Consensus:       Consensus{Type: ProofOfStake, Algorithm: Casper},
		Genesis: Genesis{
			Timestamp:  mustHexQuantity("0x5c51a607"),
			GasLimit:   NewQuantity(10485760),
			Difficulty: NewQuantity(1),
			Nonce:      NewQuantity(0),
			ExtraData:  mustHex(extra),
		},
	}
}

func sepolia() Config {
	return Config{
		Name:            "sepolia",
		ChainID:         Sepolia,
		DefaultHardfork: Shanghai,
		Consensus:       Consensus{Type: ProofOfStake, Algorithm: Casper},
		Genesis: Genesis{
			Timestamp:  mustHexQuantity("0x6159af19"),
			GasLimit:   NewQuantity(30000000),
			Difficulty: NewQuantity(131072),
			Nonce:      NewQuantity(0),
			// "Sepolia, Athens, Attica, Greece!"
			ExtraData: mustHex("0x5365706f6c69612c20417468656e732c204174746963612c2047726565636521"),
		},
	}
}

func holesky() Config {
	baseFee := NewQuantity(1000000000)
	return Config{
		Name:            "holesky",
		ChainID:         Holesky,
		DefaultHardfork: Paris,
		Consensus:       Consensus{Type: ProofOfStake, Algorithm: Casper},
		Genesis: Genesis{
			Timestamp:     mustHexQuantity("0x65156994"),
			GasLimit:      mustHexQuantity("0x17d7840"),
			Difficulty:    NewQuantity(1),
			Nonce:         mustHexQuantity("0x1234"),
			ExtraData:     HexBytes{},
			BaseFeePerGas: &baseFee,
		},
	}
}

var builtin = []func() Config{mainnet, goerli, sepolia, holesky}

// Names lists the built-in networks.
func Names() []string {
	names := make([]string, len(builtin))
	for i, c := range builtin {
		names[i] = c().Name
	}
	return names
}

// ByName looks up a built-in network, case-insensitively.
func ByName(name string) (Config, error) {
	for _, c := range builtin {
		cfg := c()
		if strings.EqualFold(cfg.Name, name) {
			return cfg, nil
		}
	}
	return Config{}, fmt.Errorf("%w: %q", ErrUnknownChain, name)
}

func ByID(id ID) (Config, error) {
	for _, c := range builtin {
		cfg := c()
		if cfg.ChainID == id {
			return cfg, nil
		}
	}
	return Config{}, fmt.Errorf("%w: id %d", ErrUnknownChain, id)
}
