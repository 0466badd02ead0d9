package common

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/hdkeychain/v3"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/tyler-smith/go-bip39"

	"github.com/WJX2001/header-codec/primitives"
)

/*
	受益人地址有三种来源，只能用其中一种：
		1. 直接给出地址
		2. 私钥（十六进制）
		3. 助记词 + HD 派生路径（BIP-39 种子，BIP-32/44 逐级派生）
*/

var (
	ErrCannotGetPrivateKey  = errors.New("invalid combination of private key or mnemonic + hdpath")
	ErrAmbiguousBeneficiary = errors.New("beneficiary address and signing key are mutually exclusive")
)

// ParseAddress accepts a 0x-prefixed 20 byte hex address.
func ParseAddress(address string) (primitives.Address, error) {
	addr, err := primitives.AddressFromHex(address)
	if err != nil {
		return primitives.Address{}, fmt.Errorf("invalid address %q: %w", address, err)
	}
	return addr, nil
}

// GetConfiguredPrivateKey returns the key from either a mnemonic with an hd
// path, or a hex private key.
func GetConfiguredPrivateKey(mnemonic, hdPath, privKeyStr, password string) (*ecdsa.PrivateKey, error) {
	useMnemonic := mnemonic != "" && hdPath != ""
	usePrivKeyStr := privKeyStr != ""

	switch {
	case useMnemonic && !usePrivKeyStr:
		return DerivePrivateKey(mnemonic, hdPath, password)
	case usePrivKeyStr && !useMnemonic:
		return ParsePrivateKeyStr(privKeyStr)
	default:
		return nil, ErrCannotGetPrivateKey
	}
}

// 扩展密钥的版本前缀只在序列化 xprv/xpub 时用到，这里只要原始私钥
type fakeNetworkParams struct{}

func (f fakeNetworkParams) HDPrivKeyVersion() [4]byte {
	return [4]byte{}
}

func (f fakeNetworkParams) HDPubKeyVersion() [4]byte {
	return [4]byte{}
}

// DerivePrivateKey derives the key at hdPath from a BIP-39 mnemonic.
func DerivePrivateKey(mnemonic, hdPath, password string) (*ecdsa.PrivateKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, password)
	if err != nil {
		return nil, err
	}

	privKey, err := hdkeychain.NewMaster(seed, fakeNetworkParams{})
	if err != nil {
		return nil, err
	}

	derivationPath, err := accounts.ParseDerivationPath(hdPath)
	if err != nil {
		return nil, err
	}

	for _, child := range derivationPath {
		privKey, err = privKey.Child(child)
		if err != nil {
			return nil, err
		}
	}

	rawPrivKey, err := privKey.SerializedPrivKey()
	if err != nil {
		return nil, err
	}
	return crypto.ToECDSA(rawPrivKey)
}

func ParsePrivateKeyStr(privKeyStr string) (*ecdsa.PrivateKey, error) {
	hex := strings.TrimPrefix(privKeyStr, "0x")
	return crypto.HexToECDSA(hex)
}

// KeyAddress is the address controlled by key.
func KeyAddress(key *ecdsa.PrivateKey) primitives.Address {
	addr, _ := primitives.AddressFromBytes(crypto.PubkeyToAddress(key.PublicKey).Bytes())
	return addr
}

// ResolveBeneficiary picks the beneficiary from an explicit address or a
// signing key. With nothing configured it returns the zero address.
func ResolveBeneficiary(address, mnemonic, hdPath, privKeyStr, password string) (primitives.Address, error) {
	hasKey := privKeyStr != "" || mnemonic != ""
	switch {
	case address != "" && hasKey:
		return primitives.Address{}, ErrAmbiguousBeneficiary
	case address != "":
		return ParseAddress(address)
	case !hasKey:
		return primitives.Address{}, nil
	}

	privKey, err := GetConfiguredPrivateKey(mnemonic, hdPath, privKeyStr, password)
	if err != nil {
		return primitives.Address{}, err
	}
	addr := KeyAddress(privKey)
	log.Info("beneficiary derived from key", "address", addr)
	return addr, nil
}
