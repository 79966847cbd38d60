// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package key

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/collectachain/deploy/pkg/config"
	"github.com/collectachain/deploy/pkg/constants"
	"github.com/luxfi/geth/accounts/abi/bind"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/crypto"
	"github.com/luxfi/go-bip39"
)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidMnemonic   = errors.New("invalid mnemonic phrase")
	ErrInvalidHDPath     = errors.New("invalid hd path")
	ErrNoAccounts        = errors.New("no accounts configured")
)

// ParsePrivateKey decodes a hex secp256k1 key, with or without 0x prefix.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimSpace(hexKey)
	if has0xPrefix(hexKey) {
		hexKey = hexKey[2:]
	}
	pk, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		// the key itself must never end up in an error message
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	return pk, nil
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// ParseHDPath parses a BIP-32 path such as m/44'/60'/0'/0 into child indexes.
func ParseHDPath(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("%w %q: must start with m/", ErrInvalidHDPath, path)
	}
	indexes := make([]uint32, 0, len(parts)-1)
	for _, p := range parts[1:] {
		hardened := strings.HasSuffix(p, "'")
		n, err := strconv.ParseUint(strings.TrimSuffix(p, "'"), 10, 31)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidHDPath, path, err)
		}
		idx := uint32(n)
		if hardened {
			idx += hdkeychain.HardenedKeyStart
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

// FromMnemonic derives the key at path/index from a BIP-39 mnemonic.
func FromMnemonic(mnemonic, path string, index uint32) (*ecdsa.PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	if path == "" {
		path = constants.DefaultHDPath
	}
	indexes, err := ParseHDPath(path)
	if err != nil {
		return nil, err
	}
	seed := bip39.NewSeed(mnemonic, "")

	extKey, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}
	for _, idx := range append(indexes, index) {
		extKey, err = extKey.Derive(idx)
		if err != nil {
			return nil, fmt.Errorf("failed to derive %s/%d: %w", path, index, err)
		}
	}
	ecPrivKey, err := extKey.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get EC private key: %w", err)
	}
	return ecPrivKey.ToECDSA(), nil
}

// FromNetwork returns the first signer configured for n.
// Priority: accounts[0] > mnemonic
func FromNetwork(name string, n config.Network) (*ecdsa.PrivateKey, error) {
	switch {
	case len(n.Accounts) > 0:
		pk, err := ParsePrivateKey(n.Accounts[0])
		if err != nil {
			return nil, fmt.Errorf("network %q account 0: %w", name, err)
		}
		return pk, nil
	case n.Mnemonic != "":
		pk, err := FromMnemonic(n.Mnemonic, n.HDPath, n.InitialIndex)
		if err != nil {
			return nil, fmt.Errorf("network %q mnemonic: %w", name, err)
		}
		return pk, nil
	}
	return nil, fmt.Errorf("%w for network %q: set accounts or mnemonic, or %s_PRIVATE_KEY",
		ErrNoAccounts, name, constants.EnvPrefix)
}

// Address returns the Ethereum address of pk.
func Address(pk *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(pk.PublicKey)
}

// NewTransactor builds EIP-155 signing options for chainID.
func NewTransactor(pk *ecdsa.PrivateKey, chainID *big.Int) (*bind.TransactOpts, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(pk, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	return auth, nil
}
