// Package deploy implements bootstrap of the Secret contract in Neo network.
package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/secret-contract/rpc/secret"
	"go.uber.org/zap"
)

// Actor groups functions needed to compose and send transactions to the
// blockchain and wait for them. Implemented by actor.Actor.
type Actor interface {
	secret.Actor

	// Sender returns the account paying for and signing the transactions.
	Sender() util.Uint160

	// Wait waits until the transaction is accepted or expires.
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// ContractStates provides states of the deployed contracts. Implemented by
// rpcclient.Client.
type ContractStates interface {
	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns error with 'Unknown
	// contract' substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Prm groups parameters of the Secret contract deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Sends the deployment transaction. Its sender becomes the contract
	// owner unless Owner is set.
	Actor Actor

	// Used to detect already deployed contract.
	Contracts ContractStates

	NEF      nef.File
	Manifest manifest.Manifest

	// Optional owner of the contract. Defaults to the Actor's sender.
	Owner util.Uint160
}

var managementHash = state.CreateNativeContractHash(nativenames.Management)

// Deploy deploys the Secret contract from Prm and returns its address. The
// owner is bound on deployment once and for all: if the contract is already
// deployed by the same sender, Deploy fails with secret.ErrAlreadyInitialized
// and returns address of the existing contract.
//
// Deploy aborts on context cancellation while waiting for the transaction,
// the transaction itself may still be accepted afterwards.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	if err := ctx.Err(); err != nil {
		return util.Uint160{}, err
	}

	sender := prm.Actor.Sender()
	owner := prm.Owner
	if owner.Equals(util.Uint160{}) {
		owner = sender
	}

	addr := state.CreateContractHash(sender, prm.NEF.Checksum, prm.Manifest.Name)
	log := prm.Logger.With(zap.Stringer("address", addr))

	_, err := prm.Contracts.GetContractStateByHash(addr)
	if err == nil {
		return addr, fmt.Errorf("contract %s: %w", addr.StringLE(), secret.ErrAlreadyInitialized)
	} else if !strings.Contains(err.Error(), "Unknown contract") {
		return util.Uint160{}, fmt.Errorf("get contract state: %w", err)
	}

	rawNEF, err := prm.NEF.Bytes()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode NEF: %w", err)
	}

	rawManifest, err := json.Marshal(prm.Manifest)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("encode manifest: %w", err)
	}

	var data any
	if !owner.Equals(sender) {
		data = []any{owner}
	}

	log.Info("deploying Secret contract...", zap.String("owner", owner.StringLE()))

	h, vub, err := prm.Actor.SendCall(managementHash, "deploy", rawNEF, rawManifest, data)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send deployment transaction: %w", err)
	}

	log.Info("deployment transaction sent, waiting...", zap.Stringer("tx", h), zap.Uint32("vub", vub))

	aer, err := wait(ctx, prm.Actor, h, vub)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deployment transaction %s: %w", h.StringLE(), err)
	}

	if aer.VMState != vmstate.Halt {
		return util.Uint160{}, fmt.Errorf("deployment transaction %s failed: %w", h.StringLE(), secret.ClassifyFault(aer.FaultException))
	}

	boundOwner, err := secret.NewReader(prm.Actor, addr).Owner()
	if err != nil {
		return addr, fmt.Errorf("read owner of the deployed contract: %w", err)
	}

	if !boundOwner.Equals(owner) {
		return addr, fmt.Errorf("deployed contract is owned by %s instead of %s", boundOwner.StringLE(), owner.StringLE())
	}

	log.Info("Secret contract successfully deployed")

	return addr, nil
}

var errNilResult = errors.New("nil execution result")

func wait(ctx context.Context, a Actor, h util.Uint256, vub uint32) (*state.AppExecResult, error) {
	type res struct {
		aer *state.AppExecResult
		err error
	}

	ch := make(chan res, 1)
	go func() {
		aer, err := a.Wait(h, vub, nil)
		ch <- res{aer, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err == nil && r.aer == nil {
			r.err = errNilResult
		}
		return r.aer, r.err
	}
}
