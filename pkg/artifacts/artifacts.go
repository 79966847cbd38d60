// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package artifacts reads compiled contract artifacts in the Hardhat layout:
//
//	<root>/contracts/<path/to/File.sol>/<ContractName>.json
//
// Debug files (*.dbg.json) and the build-info directory are skipped.
package artifacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/collectachain/deploy/pkg/constants"
	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common/hexutil"
)

var (
	ErrArtifactNotFound  = errors.New("artifact not found")
	ErrAmbiguousArtifact = errors.New("multiple artifacts match contract name")
	ErrAbstractContract  = errors.New("contract has no creation bytecode (abstract contract or interface)")
	ErrUnlinkedLibraries = errors.New("contract bytecode has unlinked libraries")
	ErrInvalidArtifact   = errors.New("invalid artifact")
)

// LinkReferences maps source file -> library name -> placeholder offsets.
type LinkReferences map[string]map[string][]struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

type Artifact struct {
	Format                 string          `json:"_format"`
	ContractName           string          `json:"contractName"`
	SourceName             string          `json:"sourceName"`
	ABI                    json.RawMessage `json:"abi"`
	Bytecode               string          `json:"bytecode"`
	DeployedBytecode       string          `json:"deployedBytecode"`
	LinkReferences         LinkReferences  `json:"linkReferences"`
	DeployedLinkReferences LinkReferences  `json:"deployedLinkReferences"`
}

// FullyQualifiedName returns "<sourceName>:<contractName>".
func (a *Artifact) FullyQualifiedName() string {
	return a.SourceName + ":" + a.ContractName
}

// ParseABI decodes the artifact ABI.
func (a *Artifact) ParseABI() (abi.ABI, error) {
	if len(a.ABI) == 0 {
		return abi.ABI{}, fmt.Errorf("%w: %s has no abi", ErrInvalidArtifact, a.ContractName)
	}
	parsed, err := abi.JSON(strings.NewReader(string(a.ABI)))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse %s abi: %w", a.ContractName, err)
	}
	return parsed, nil
}

// CreationCode returns the decoded bytecode sent in a deployment transaction.
func (a *Artifact) CreationCode() ([]byte, error) {
	if len(a.LinkReferences) > 0 {
		var libs []string
		for source, names := range a.LinkReferences {
			for name := range names {
				libs = append(libs, source+":"+name)
			}
		}
		sort.Strings(libs)
		return nil, fmt.Errorf("%w: %s needs %s", ErrUnlinkedLibraries, a.ContractName, strings.Join(libs, ", "))
	}
	code := a.Bytecode
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	if code == "0x" {
		return nil, fmt.Errorf("%w: %s", ErrAbstractContract, a.ContractName)
	}
	bin, err := hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s bytecode: %w", ErrInvalidArtifact, a.ContractName, err)
	}
	return bin, nil
}

// Read finds and decodes the artifact for name under root. name is either a
// bare contract name or a fully qualified "contracts/File.sol:Name".
func Read(root, name string) (*Artifact, error) {
	if source, contract, ok := strings.Cut(name, ":"); ok {
		return readFile(filepath.Join(root, filepath.FromSlash(source), contract+constants.ArtifactExt), name)
	}

	paths, err := find(root, name)
	if err != nil {
		return nil, err
	}
	switch len(paths) {
	case 0:
		if names, err := List(root); err == nil && len(names) > 0 {
			return nil, fmt.Errorf("%w: %q in %s, available: %s", ErrArtifactNotFound, name, root, strings.Join(names, ", "))
		}
		return nil, fmt.Errorf("%w: %q in %s, compile the contracts first", ErrArtifactNotFound, name, root)
	case 1:
		return readFile(paths[0], name)
	}
	candidates := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, filepath.Dir(p))
		if err != nil {
			rel = filepath.Dir(p)
		}
		candidates = append(candidates, filepath.ToSlash(rel)+":"+name)
	}
	return nil, fmt.Errorf("%w %q, use one of: %s", ErrAmbiguousArtifact, name, strings.Join(candidates, ", "))
}

// List returns the fully qualified names of every artifact under root.
func List(root string) ([]string, error) {
	paths, err := find(root, "")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil, err
		}
		rel = filepath.ToSlash(rel)
		dir, file := filepath.ToSlash(filepath.Dir(rel)), filepath.Base(rel)
		names = append(names, dir+":"+strings.TrimSuffix(file, constants.ArtifactExt))
	}
	return names, nil
}

// find walks the sources dir for <name>.json, or every artifact if name is "".
func find(root, name string) ([]string, error) {
	sources := filepath.Join(root, constants.ArtifactsSourceDir)
	var found []string
	err := filepath.WalkDir(sources, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == constants.BuildInfoDir {
				return filepath.SkipDir
			}
			return nil
		}
		base := d.Name()
		if !strings.HasSuffix(base, constants.ArtifactExt) || strings.HasSuffix(base, constants.DebugArtifactExt) {
			return nil
		}
		if name == "" || base == name+constants.ArtifactExt {
			found = append(found, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan artifacts in %s: %w", sources, err)
	}
	sort.Strings(found)
	return found, nil
}

func readFile(path, name string) (*Artifact, error) {
	bs, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q (no file %s), compile the contracts first", ErrArtifactNotFound, name, path)
	}
	if err != nil {
		return nil, err
	}
	var a Artifact
	if err := json.Unmarshal(bs, &a); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidArtifact, path, err)
	}
	if a.Format != "" && a.Format != constants.ArtifactFormat {
		return nil, fmt.Errorf("%w: %s has unsupported format %q", ErrInvalidArtifact, path, a.Format)
	}
	if a.ContractName == "" {
		a.ContractName = strings.TrimSuffix(filepath.Base(path), constants.ArtifactExt)
	}
	return &a, nil
}
