// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deployer

import (
	"context"

	"github.com/collectachain/deploy/pkg/contract"
)

// FromContractProvider adapts a network-backed contract.Provider.
func FromContractProvider(p *contract.Provider) FactoryProvider {
	return contractProvider{p: p}
}

type contractProvider struct {
	p *contract.Provider
}

func (c contractProvider) GetContractFactory(ctx context.Context, name string) (Factory, error) {
	f, err := c.p.GetContractFactory(ctx, name)
	if err != nil {
		return nil, err
	}
	return contractFactory{f: f}, nil
}

type contractFactory struct {
	f *contract.Factory
}

func (c contractFactory) Deploy(ctx context.Context, args ...interface{}) (Deployment, error) {
	d, err := c.f.Deploy(ctx, args...)
	if err != nil {
		return nil, err
	}
	return d, nil
}
