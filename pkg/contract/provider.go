// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/collectachain/deploy/pkg/artifacts"
	"github.com/collectachain/deploy/pkg/config"
	"github.com/collectachain/deploy/pkg/key"
	"github.com/luxfi/geth/accounts/abi/bind"
	"github.com/luxfi/geth/ethclient"
	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"
)

var ErrChainIDMismatch = errors.New("chain ID mismatch")

// Backend is what deployments need from an RPC client. *ethclient.Client
// implements it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

type dialFunc func(ctx context.Context, url string) (Backend, error)

func dialEthClient(ctx context.Context, url string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return client, nil
}

// Provider hands out contract factories bound to one configured network
// and its first account.
type Provider struct {
	name         string
	network      config.Network
	artifactsDir string
	log          luxlog.Logger
	dial         dialFunc

	mu      sync.Mutex
	backend Backend
	chainID *big.Int
}

// NewProvider resolves network (or the selected one when empty) in cfg.
func NewProvider(cfg *config.Config, network string, log luxlog.Logger) (*Provider, error) {
	name, n, err := cfg.Resolve(network)
	if err != nil {
		return nil, err
	}
	return &Provider{
		name:         name,
		network:      n,
		artifactsDir: cfg.ArtifactsDir(),
		log:          log,
		dial:         dialEthClient,
	}, nil
}

// Network returns the resolved network name.
func (p *Provider) Network() string {
	return p.name
}

// GetContractFactory loads the compiled artifact for name and binds it to
// the network's signer.
func (p *Provider) GetContractFactory(ctx context.Context, name string) (*Factory, error) {
	art, err := artifacts.Read(p.artifactsDir, name)
	if err != nil {
		return nil, err
	}
	bytecode, err := art.CreationCode()
	if err != nil {
		return nil, err
	}
	parsed, err := art.ParseABI()
	if err != nil {
		return nil, err
	}
	p.log.Debug("loaded artifact",
		zap.String("contract", art.FullyQualifiedName()),
		zap.Int("bytecode-size", len(bytecode)),
	)

	backend, chainID, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}
	pk, err := key.FromNetwork(p.name, p.network)
	if err != nil {
		return nil, err
	}
	opts, err := key.NewTransactor(pk, chainID)
	if err != nil {
		return nil, err
	}
	if p.network.Gas > 0 {
		opts.GasLimit = p.network.Gas
	}
	if p.network.GasPrice > 0 {
		opts.GasPrice = new(big.Int).SetUint64(p.network.GasPrice)
	}
	p.log.Info("using deployer account",
		zap.String("network", p.name),
		zap.String("account", key.Address(pk).Hex()),
		zap.String("chain-id", chainID.String()),
	)
	return NewFactory(art.ContractName, parsed, bytecode, backend, opts, p.log), nil
}

// connect dials once and checks the chain id against the configured one.
func (p *Provider) connect(ctx context.Context) (Backend, *big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.backend != nil {
		return p.backend, p.chainID, nil
	}
	backend, err := p.dial(ctx, p.network.URL)
	if err != nil {
		return nil, nil, err
	}
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to get chain ID from %s: %w", p.network.URL, err)
	}
	if p.network.ChainID != 0 && (!chainID.IsUint64() || chainID.Uint64() != p.network.ChainID) {
		backend.Close()
		return nil, nil, fmt.Errorf("%w: network %q expects %d, node reports %s",
			ErrChainIDMismatch, p.name, p.network.ChainID, chainID)
	}
	p.backend = backend
	p.chainID = chainID
	return backend, chainID, nil
}

// Close releases the RPC connection, if one was opened.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.backend != nil {
		p.backend.Close()
		p.backend = nil
	}
}
