// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "time"

const (
	CLIName      = "collecta-deploy"
	ContractName = "CollectaChain"

	// DeployedLabel sits between the contract name and its address in the
	// single line printed on a successful deploy.
	DeployedLabel = "contract deployed to:"

	ConfigFileName = "collecta.config"
	EnvPrefix      = "COLLECTA"

	LocalhostNetwork = "localhost"
	LocalhostRPCURL  = "http://127.0.0.1:8545"

	DefaultArtifactsDir = "artifacts"
	ArtifactsSourceDir  = "contracts"
	BuildInfoDir        = "build-info"
	ArtifactFormat      = "hh-sol-artifact-1"
	ArtifactExt         = ".json"
	DebugArtifactExt    = ".dbg.json"

	DefaultLogLevel = "warn"
	LogDir          = "logs"

	MaxLogFileSize   = 4
	MaxNumOfLogFiles = 5
	RetainOldFiles   = 0 // retain all old log files

	// DefaultHDPath is the BIP-44 Ethereum derivation prefix; the account
	// index is appended.
	DefaultHDPath = "m/44'/60'/0'/0"

	// ProgressWarnAfter is how long a step may run before the progress
	// indicator flags it as slow.
	ProgressWarnAfter = 30 * time.Second
)

// Configuration keys, shared by the config file, flags and env.
const (
	ConfigKey         = "config"
	NetworkKey        = "network"
	LogLevelKey       = "log-level"
	DefaultNetworkKey = "defaultNetwork"
	ArtifactsPathKey  = "paths.artifacts"
	DeployTimeoutKey  = "deployTimeout"
	RPCURLKey         = "rpc_url"
	PrivateKeyKey     = "private_key"
	MnemonicKey       = "mnemonic"
	ChainIDKey        = "chain_id"
)
