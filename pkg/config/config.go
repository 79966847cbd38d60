// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/collectachain/deploy/pkg/constants"
	"github.com/spf13/viper"
)

var (
	ErrUnknownNetwork = errors.New("unknown network")
	ErrMissingURL     = errors.New("network has no rpc url")
)

// Network describes an EVM endpoint and the accounts used to sign on it.
type Network struct {
	URL      string   `mapstructure:"url"`
	ChainID  uint64   `mapstructure:"chainId"`
	Accounts []string `mapstructure:"accounts"`
	// Mnemonic is used when Accounts is empty; the signer is derived at
	// HDPath/InitialIndex.
	Mnemonic     string `mapstructure:"mnemonic"`
	HDPath       string `mapstructure:"hdPath"`
	InitialIndex uint32 `mapstructure:"initialIndex"`
	// Gas is a fixed gas limit; 0 lets the node estimate.
	Gas uint64 `mapstructure:"gas"`
	// GasPrice is in wei; 0 uses the node's suggestion.
	GasPrice uint64 `mapstructure:"gasPrice"`
}

type Paths struct {
	Artifacts string `mapstructure:"artifacts"`
}

type Config struct {
	DefaultNetwork string             `mapstructure:"defaultNetwork"`
	Networks       map[string]Network `mapstructure:"networks"`
	Paths          Paths              `mapstructure:"paths"`
	// DeployTimeout bounds the whole deploy; 0 waits indefinitely.
	DeployTimeout time.Duration `mapstructure:"deployTimeout"`

	selected string
	file     string
}

// Load reads the config file (if any) and the COLLECTA_* environment into v.
// Priority: flags bound to v > env vars > config file > defaults
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	v.SetDefault(constants.DefaultNetworkKey, constants.LocalhostNetwork)
	v.SetDefault(constants.ArtifactsPathKey, constants.DefaultArtifactsDir)
	v.SetDefault(constants.DeployTimeoutKey, time.Duration(0))

	_ = v.BindEnv(constants.NetworkKey, envName("NETWORK"))
	_ = v.BindEnv(constants.RPCURLKey, envName("RPC_URL"))
	_ = v.BindEnv(constants.PrivateKeyKey, envName("PRIVATE_KEY"))
	_ = v.BindEnv(constants.MnemonicKey, envName("MNEMONIC"))
	_ = v.BindEnv(constants.ChainIDKey, envName("CHAIN_ID"))
	_ = v.BindEnv(constants.DeployTimeoutKey, envName("DEPLOY_TIMEOUT"))
	_ = v.BindEnv(constants.ArtifactsPathKey, envName("ARTIFACTS"))

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(constants.ConfigFileName)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// a missing default config is normal, a missing explicit one is not
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.file = v.ConfigFileUsed()

	networks := make(map[string]Network, len(cfg.Networks)+1)
	for name, n := range cfg.Networks {
		networks[strings.ToLower(name)] = n
	}
	if _, ok := networks[constants.LocalhostNetwork]; !ok {
		networks[constants.LocalhostNetwork] = Network{URL: constants.LocalhostRPCURL}
	}
	cfg.Networks = networks

	cfg.selected = strings.ToLower(v.GetString(constants.NetworkKey))
	if cfg.selected == "" {
		cfg.selected = strings.ToLower(cfg.DefaultNetwork)
	}

	if err := cfg.applyOverrides(v); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyOverrides(v *viper.Viper) error {
	n, ok := c.Networks[c.selected]
	url := v.GetString(constants.RPCURLKey)
	if !ok && url == "" {
		// reported by Resolve, so an unused bad default does not fail Load
		return nil
	}
	if url != "" {
		n.URL = url
	}
	// private key > mnemonic > config file accounts
	if mnemonic := v.GetString(constants.MnemonicKey); mnemonic != "" {
		n.Accounts = nil
		n.Mnemonic = mnemonic
	}
	if pk := v.GetString(constants.PrivateKeyKey); pk != "" {
		n.Accounts = []string{pk}
	}
	if v.IsSet(constants.ChainIDKey) {
		id, err := strconv.ParseUint(strings.TrimSpace(v.GetString(constants.ChainIDKey)), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envName("CHAIN_ID"), err)
		}
		n.ChainID = id
	}
	c.Networks[c.selected] = n
	return nil
}

// Selected returns the name of the network chosen by flag, env or defaultNetwork.
func (c *Config) Selected() string {
	return c.selected
}

// Resolve returns the named network, or the selected one when name is empty.
func (c *Config) Resolve(name string) (string, Network, error) {
	if name == "" {
		name = c.selected
	}
	name = strings.ToLower(name)
	n, ok := c.Networks[name]
	if !ok {
		return name, Network{}, fmt.Errorf("%w %q", ErrUnknownNetwork, name)
	}
	if n.URL == "" {
		return name, Network{}, fmt.Errorf("%w: %q", ErrMissingURL, name)
	}
	return name, n, nil
}

// ArtifactsDir returns paths.artifacts. A relative path is taken from the
// config file's directory, or the working directory without one.
func (c *Config) ArtifactsDir() string {
	dir := c.Paths.Artifacts
	if filepath.IsAbs(dir) || c.file == "" {
		return dir
	}
	return filepath.Join(filepath.Dir(c.file), dir)
}

// ConfigFileUsed returns the path of the loaded config file, or "".
func (c *Config) ConfigFileUsed() string {
	return c.file
}

func envName(suffix string) string {
	return constants.EnvPrefix + "_" + suffix
}
