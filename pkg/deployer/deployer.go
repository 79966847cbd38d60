// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deployer runs a single deploy-and-report attempt: get the contract
// factory, send the deployment, wait for confirmation, print the address.
// There are no retries; every failure ends the run.
package deployer

import (
	"context"
	"fmt"

	"github.com/collectachain/deploy/pkg/constants"
	"github.com/collectachain/deploy/pkg/ux"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Deployment is a pending contract creation.
type Deployment interface {
	// Deployed blocks until the network confirms the deployment.
	Deployed(ctx context.Context) error
	Address() string
}

type Factory interface {
	Deploy(ctx context.Context, args ...interface{}) (Deployment, error)
}

type FactoryProvider interface {
	GetContractFactory(ctx context.Context, name string) (Factory, error)
}

type Runner struct {
	Contract string
	Provider FactoryProvider
	Out      *ux.UserLog
	// Progress may be nil.
	Progress *ux.ProgressTracker
}

// Run deploys Contract with no constructor arguments and prints
// "<Contract> contract deployed to: <address>" on success.
func (r *Runner) Run(ctx context.Context) error {
	r.Progress.StartStep(fmt.Sprintf("Loading %s", r.Contract))
	factory, err := r.Provider.GetContractFactory(ctx, r.Contract)
	if err != nil {
		r.Progress.FailStep()
		return fmt.Errorf("failed to get %s contract factory: %w", r.Contract, err)
	}
	r.Progress.CompleteStep("")

	r.Progress.StartStep(fmt.Sprintf("Deploying %s", r.Contract))
	deployment, err := factory.Deploy(ctx)
	if err != nil {
		r.Progress.FailStep()
		return fmt.Errorf("failed to deploy %s: %w", r.Contract, err)
	}
	r.Progress.CompleteStep("")

	r.Progress.StartStep("Waiting for confirmation")
	if err := deployment.Deployed(ctx); err != nil {
		r.Progress.FailStep()
		return fmt.Errorf("%s deployment was not confirmed: %w", r.Contract, err)
	}
	r.Progress.CompleteStep("")

	address := deployment.Address()
	r.Out.Info("%s deployment confirmed at %s", r.Contract, address)
	r.Out.PrintToUser("%s %s %s", r.Contract, constants.DeployedLabel, address)
	return nil
}
