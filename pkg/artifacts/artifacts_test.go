// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const collectaABI = `[
	{"inputs":[],"stateMutability":"nonpayable","type":"constructor"},
	{"inputs":[],"name":"owner","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

func writeArtifact(t *testing.T, root, source, name string, a map[string]any) {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(source))
	require.NoError(t, os.MkdirAll(dir, 0o750))
	bs, err := json.Marshal(a)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), bs, 0o600))
}

func artifact(name, source, bytecode string) map[string]any {
	return map[string]any{
		"_format":          "hh-sol-artifact-1",
		"contractName":     name,
		"sourceName":       source,
		"abi":              json.RawMessage(collectaABI),
		"bytecode":         bytecode,
		"deployedBytecode": "0x6080",
		"linkReferences":   map[string]any{},
	}
}

func TestReadByName(t *testing.T) {
	require := require.New(t)
	root := t.TempDir()
	writeArtifact(t, root, "contracts/CollectaChain.sol", "CollectaChain",
		artifact("CollectaChain", "contracts/CollectaChain.sol", "0x60806040"))
	// debug and build-info files must be ignored
	require.NoError(os.WriteFile(filepath.Join(root, "contracts/CollectaChain.sol/CollectaChain.dbg.json"), []byte(`{}`), 0o600))
	writeArtifact(t, root, "contracts/build-info", "CollectaChain", map[string]any{"_format": "hh-sol-build-info-1"})

	a, err := Read(root, "CollectaChain")
	require.NoError(err)
	require.Equal("CollectaChain", a.ContractName)
	require.Equal("contracts/CollectaChain.sol:CollectaChain", a.FullyQualifiedName())

	code, err := a.CreationCode()
	require.NoError(err)
	require.Equal([]byte{0x60, 0x80, 0x60, 0x40}, code)

	parsed, err := a.ParseABI()
	require.NoError(err)
	require.Contains(parsed.Methods, "owner")
	require.Empty(parsed.Constructor.Inputs)
}

func TestReadFullyQualified(t *testing.T) {
	require := require.New(t)
	root := t.TempDir()
	writeArtifact(t, root, "contracts/a/Token.sol", "Token", artifact("Token", "contracts/a/Token.sol", "0x01"))
	writeArtifact(t, root, "contracts/b/Token.sol", "Token", artifact("Token", "contracts/b/Token.sol", "0x02"))

	_, err := Read(root, "Token")
	require.ErrorIs(err, ErrAmbiguousArtifact)
	require.ErrorContains(err, "contracts/a/Token.sol:Token")
	require.ErrorContains(err, "contracts/b/Token.sol:Token")

	a, err := Read(root, "contracts/b/Token.sol:Token")
	require.NoError(err)
	code, err := a.CreationCode()
	require.NoError(err)
	require.Equal([]byte{0x02}, code)

	names, err := List(root)
	require.NoError(err)
	require.Equal([]string{"contracts/a/Token.sol:Token", "contracts/b/Token.sol:Token"}, names)
}

func TestReadNotFound(t *testing.T) {
	tests := []struct {
		name     string
		contract string
		setup    func(t *testing.T, root string)
	}{
		{
			name:     "no artifacts dir",
			contract: "CollectaChain",
			setup:    func(*testing.T, string) {},
		},
		{
			name:     "other contract only",
			contract: "CollectaChain",
			setup: func(t *testing.T, root string) {
				writeArtifact(t, root, "contracts/Other.sol", "Other", artifact("Other", "contracts/Other.sol", "0x01"))
			},
		},
		{
			name:     "qualified name missing",
			contract: "contracts/CollectaChain.sol:CollectaChain",
			setup:    func(*testing.T, string) {},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			tt.setup(t, root)
			_, err := Read(root, tt.contract)
			require.ErrorIs(t, err, ErrArtifactNotFound)
		})
	}
}

func TestReadNotFoundListsAvailable(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "contracts/Other.sol", "Other", artifact("Other", "contracts/Other.sol", "0x01"))

	_, err := Read(root, "CollectaChain")
	require.ErrorIs(t, err, ErrArtifactNotFound)
	require.ErrorContains(t, err, "available: contracts/Other.sol:Other")
}

func TestCreationCodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		artifact Artifact
		err      error
	}{
		{
			name:     "interface",
			artifact: Artifact{ContractName: "ICollecta", Bytecode: "0x"},
			err:      ErrAbstractContract,
		},
		{
			name:     "empty",
			artifact: Artifact{ContractName: "ICollecta"},
			err:      ErrAbstractContract,
		},
		{
			name:     "bad hex",
			artifact: Artifact{ContractName: "CollectaChain", Bytecode: "0xzz"},
			err:      ErrInvalidArtifact,
		},
		{
			name: "unlinked",
			artifact: Artifact{
				ContractName: "CollectaChain",
				Bytecode:     "0x6080",
				LinkReferences: LinkReferences{
					"contracts/Lib.sol": {"Lib": {{Start: 1, Length: 20}}},
				},
			},
			err: ErrUnlinkedLibraries,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.artifact.CreationCode()
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestReadInvalid(t *testing.T) {
	require := require.New(t)
	root := t.TempDir()
	dir := filepath.Join(root, "contracts", "Broken.sol")
	require.NoError(os.MkdirAll(dir, 0o750))
	require.NoError(os.WriteFile(filepath.Join(dir, "Broken.json"), []byte("{"), 0o600))
	_, err := Read(root, "Broken")
	require.ErrorIs(err, ErrInvalidArtifact)

	writeArtifact(t, root, "contracts/Old.sol", "Old", map[string]any{"_format": "other-1", "bytecode": "0x01"})
	_, err = Read(root, "Old")
	require.ErrorIs(err, ErrInvalidArtifact)

	_, err = (&Artifact{ContractName: "NoABI"}).ParseABI()
	require.ErrorIs(err, ErrInvalidArtifact)
}
