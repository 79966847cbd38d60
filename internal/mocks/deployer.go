// Code generated manually for testing. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/collectachain/deploy/pkg/deployer"
	"github.com/stretchr/testify/mock"
)

// FactoryProvider is a mock implementation of deployer.FactoryProvider
type FactoryProvider struct {
	mock.Mock
}

func (m *FactoryProvider) GetContractFactory(ctx context.Context, name string) (deployer.Factory, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(deployer.Factory), args.Error(1)
}

// Factory is a mock implementation of deployer.Factory
type Factory struct {
	mock.Mock
}

func (m *Factory) Deploy(ctx context.Context, params ...interface{}) (deployer.Deployment, error) {
	args := m.Called(append([]interface{}{ctx}, params...)...)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(deployer.Deployment), args.Error(1)
}

// Deployment is a mock implementation of deployer.Deployment
type Deployment struct {
	mock.Mock
}

func (m *Deployment) Deployed(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Deployment) Address() string {
	args := m.Called()
	return args.String(0)
}
