// Copyright (C) 2022, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"context"

	"github.com/collectachain/deploy/pkg/config"
	"github.com/collectachain/deploy/pkg/constants"
	"github.com/collectachain/deploy/pkg/contract"
	"github.com/collectachain/deploy/pkg/deployer"
	"github.com/collectachain/deploy/pkg/ux"
	luxlog "github.com/luxfi/log"
)

type Collecta struct {
	Log      luxlog.Logger
	Conf     *config.Config
	Out      *ux.UserLog
	Progress *ux.ProgressTracker
}

func New() *Collecta {
	return &Collecta{}
}

func (app *Collecta) Setup(log luxlog.Logger, conf *config.Config, out *ux.UserLog, progress *ux.ProgressTracker) {
	app.Log = log
	app.Conf = conf
	app.Out = out
	app.Progress = progress
}

// ContractProvider connects contract factories to the selected network.
func (app *Collecta) ContractProvider() (*contract.Provider, error) {
	return contract.NewProvider(app.Conf, "", app.Log)
}

// NewRunner returns a runner deploying the CollectaChain contract.
func (app *Collecta) NewRunner(provider deployer.FactoryProvider) *deployer.Runner {
	return &deployer.Runner{
		Contract: constants.ContractName,
		Provider: provider,
		Out:      app.Out,
		Progress: app.Progress,
	}
}

// DeployContext bounds ctx by the configured deploy timeout, if any.
func (app *Collecta) DeployContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if app.Conf == nil || app.Conf.DeployTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, app.Conf.DeployTimeout)
}
