// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package key

import (
	"math/big"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/collectachain/deploy/pkg/config"
	"github.com/luxfi/geth/common"
	"github.com/stretchr/testify/require"
)

const (
	// well known development mnemonic and its first two accounts
	testMnemonic = "test test test test test test test test test test test junk"
	testKey0     = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddr0    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	testAddr1    = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
)

func TestParsePrivateKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   bool
	}{
		{name: "plain", input: testKey0},
		{name: "0x prefix", input: "0x" + testKey0},
		{name: "0X prefix", input: "0X" + testKey0},
		{name: "upper case hex", input: "0X" + strings.ToUpper(testKey0)},
		{name: "surrounding space", input: "  0x" + testKey0 + "\n"},
		{name: "short", input: "abcd", err: true},
		{name: "not hex", input: "zz" + testKey0[2:], err: true},
		{name: "empty", input: "", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pk, err := ParsePrivateKey(tt.input)
			if tt.err {
				require.ErrorIs(t, err, ErrInvalidPrivateKey)
				return
			}
			require.NoError(t, err)
			require.Equal(t, common.HexToAddress(testAddr0), Address(pk))
		})
	}
}

func TestParseHDPath(t *testing.T) {
	require := require.New(t)

	idx, err := ParseHDPath("m/44'/60'/0'/0")
	require.NoError(err)
	require.Equal([]uint32{
		hdkeychain.HardenedKeyStart + 44,
		hdkeychain.HardenedKeyStart + 60,
		hdkeychain.HardenedKeyStart,
		0,
	}, idx)

	idx, err = ParseHDPath("m")
	require.NoError(err)
	require.Empty(idx)

	for _, bad := range []string{"", "44'/60'", "m/x", "m/-1", "m/2147483648"} {
		_, err := ParseHDPath(bad)
		require.ErrorIs(err, ErrInvalidHDPath, bad)
	}
}

func TestFromMnemonic(t *testing.T) {
	require := require.New(t)

	pk, err := FromMnemonic(testMnemonic, "", 0)
	require.NoError(err)
	require.Equal(common.HexToAddress(testAddr0), Address(pk))

	pk, err = FromMnemonic("  test test test test test test\ntest test test test test junk ", "m/44'/60'/0'/0", 1)
	require.NoError(err)
	require.Equal(common.HexToAddress(testAddr1), Address(pk))

	_, err = FromMnemonic("not a valid mnemonic", "", 0)
	require.ErrorIs(err, ErrInvalidMnemonic)

	_, err = FromMnemonic(testMnemonic, "44'/60'", 0)
	require.ErrorIs(err, ErrInvalidHDPath)
}

func TestFromNetwork(t *testing.T) {
	require := require.New(t)

	_, err := FromNetwork("localhost", config.Network{URL: "http://127.0.0.1:8545"})
	require.ErrorIs(err, ErrNoAccounts)

	pk, err := FromNetwork("dev", config.Network{Mnemonic: testMnemonic, InitialIndex: 1})
	require.NoError(err)
	require.Equal(common.HexToAddress(testAddr1), Address(pk))

	// explicit accounts win over the mnemonic
	pk, err = FromNetwork("dev", config.Network{Accounts: []string{"0x" + testKey0}, Mnemonic: testMnemonic, InitialIndex: 1})
	require.NoError(err)
	require.Equal(common.HexToAddress(testAddr0), Address(pk))

	_, err = FromNetwork("dev", config.Network{Accounts: []string{"nope"}})
	require.ErrorIs(err, ErrInvalidPrivateKey)
	require.NotContains(err.Error(), testKey0)
}

func TestNewTransactor(t *testing.T) {
	require := require.New(t)
	pk, err := ParsePrivateKey(testKey0)
	require.NoError(err)

	auth, err := NewTransactor(pk, big.NewInt(31337))
	require.NoError(err)
	require.Equal(common.HexToAddress(testAddr0), auth.From)
	require.NotNil(auth.Signer)

	_, err = NewTransactor(pk, nil)
	require.Error(err)
}
