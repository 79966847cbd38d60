// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/accounts/abi/bind"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"
)

var (
	ErrConstructorArgs    = errors.New("wrong number of constructor arguments")
	ErrDeploymentReverted = errors.New("deployment transaction reverted")
	ErrNoAddressInReceipt = errors.New("no contract address in deployment receipt")
	ErrNoCodeAfterDeploy  = errors.New("no contract code at deployed address")
)

// replaced in tests
var deployContract = bind.DeployContract

// Factory signs and sends creation transactions for one compiled contract.
type Factory struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte

	backend Backend
	opts    *bind.TransactOpts
	log     luxlog.Logger
}

func NewFactory(
	name string,
	parsed abi.ABI,
	bytecode []byte,
	backend Backend,
	opts *bind.TransactOpts,
	log luxlog.Logger,
) *Factory {
	return &Factory{
		Name:     name,
		ABI:      parsed,
		Bytecode: bytecode,
		backend:  backend,
		opts:     opts,
		log:      log,
	}
}

// Signer returns the address paying for deployments.
func (f *Factory) Signer() common.Address {
	return f.opts.From
}

// Deploy broadcasts the creation transaction. It does not wait for it to
// be mined; call Deployed on the result for that.
func (f *Factory) Deploy(ctx context.Context, args ...interface{}) (*Deployment, error) {
	if want := len(f.ABI.Constructor.Inputs); len(args) != want {
		return nil, fmt.Errorf("%w: %s expects %d, got %d", ErrConstructorArgs, f.Name, want, len(args))
	}
	opts := *f.opts
	opts.Context = ctx
	address, tx, _, err := deployContract(&opts, f.ABI, f.Bytecode, f.backend, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s deployment: %w", f.Name, err)
	}
	f.log.Info("deployment transaction sent",
		zap.String("contract", f.Name),
		zap.String("from", f.Signer().Hex()),
		zap.String("tx", tx.Hash().Hex()),
		zap.String("address", address.Hex()),
		zap.Uint64("nonce", tx.Nonce()),
	)
	return &Deployment{
		name:    f.Name,
		address: address,
		tx:      tx,
		backend: f.backend,
		log:     f.log,
	}, nil
}

// Deployment is a sent, possibly not yet mined, contract creation.
type Deployment struct {
	name    string
	address common.Address
	tx      *types.Transaction
	backend bind.DeployBackend
	log     luxlog.Logger
}

// Address returns the checksummed contract address.
func (d *Deployment) Address() string {
	return d.address.Hex()
}

// Deployed blocks until the creation transaction is mined and the contract
// code is present, or ctx is done.
func (d *Deployment) Deployed(ctx context.Context) error {
	d.log.Debug("waiting for deployment", zap.String("contract", d.name), zap.String("tx", d.tx.Hash().Hex()))
	receipt, err := bind.WaitMined(ctx, d.backend, d.tx)
	if err != nil {
		return fmt.Errorf("failed waiting for %s deployment tx %s: %w", d.name, d.tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: %s tx %s in block %v", ErrDeploymentReverted, d.name, d.tx.Hash().Hex(), receipt.BlockNumber)
	}
	if receipt.ContractAddress == (common.Address{}) {
		return fmt.Errorf("%w: tx %s", ErrNoAddressInReceipt, d.tx.Hash().Hex())
	}
	code, err := d.backend.CodeAt(ctx, receipt.ContractAddress, nil)
	if err != nil {
		return fmt.Errorf("failed to read code at %s: %w", receipt.ContractAddress.Hex(), err)
	}
	if len(code) == 0 {
		return fmt.Errorf("%w: %s", ErrNoCodeAfterDeploy, receipt.ContractAddress.Hex())
	}
	d.address = receipt.ContractAddress
	d.log.Info("contract deployed",
		zap.String("contract", d.name),
		zap.String("address", d.address.Hex()),
		zap.Uint64("gas-used", receipt.GasUsed),
	)
	return nil
}
