package deploy

import (
	"context"
	"errors"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/secret-contract/rpc/secret"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testActor struct {
	sender util.Uint160
	owner  util.Uint160

	sendErr error
	aer     *state.AppExecResult
	block   chan struct{}

	sentParams []any
}

func (a *testActor) Call(contract util.Uint160, method string, params ...any) (*result.Invoke, error) {
	if method != "owner" {
		return nil, errors.New("unexpected method " + method)
	}
	return &result.Invoke{State: vmstate.Halt.String(), Stack: []stackitem.Item{stackitem.Make(a.owner.BytesBE())}}, nil
}

func (a *testActor) MakeCall(util.Uint160, string, ...any) (*transaction.Transaction, error) {
	panic("not expected")
}

func (a *testActor) MakeUnsignedCall(util.Uint160, string, []transaction.Attribute, ...any) (*transaction.Transaction, error) {
	panic("not expected")
}

func (a *testActor) SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error) {
	a.sentParams = params
	return util.Uint256{1}, 100, a.sendErr
}

func (a *testActor) Sender() util.Uint160 { return a.sender }

func (a *testActor) Wait(util.Uint256, uint32, error) (*state.AppExecResult, error) {
	if a.block != nil {
		<-a.block
	}
	return a.aer, nil
}

type testStates struct {
	err error
}

func (s testStates) GetContractStateByHash(util.Uint160) (*state.Contract, error) {
	if s.err != nil {
		return nil, s.err
	}
	return new(state.Contract), nil
}

var unknownContract = testStates{err: errors.New("Unknown contract")}

func newPrm(t *testing.T, a *testActor, states ContractStates) Prm {
	n, err := nef.NewFile([]byte{1, 2, 3})
	require.NoError(t, err)

	return Prm{
		Logger:    zaptest.NewLogger(t),
		Actor:     a,
		Contracts: states,
		NEF:       *n,
		Manifest:  *manifest.DefaultManifest("Secret"),
	}
}

func halt() *state.AppExecResult {
	return &state.AppExecResult{Execution: state.Execution{VMState: vmstate.Halt}}
}

func TestDeploy(t *testing.T) {
	sender := util.Uint160{1}

	t.Run("sender is owner", func(t *testing.T) {
		a := &testActor{sender: sender, owner: sender, aer: halt()}
		prm := newPrm(t, a, unknownContract)

		addr, err := Deploy(context.Background(), prm)
		require.NoError(t, err)
		require.Equal(t, state.CreateContractHash(sender, prm.NEF.Checksum, "Secret"), addr)
		require.Len(t, a.sentParams, 3)
		require.Nil(t, a.sentParams[2])
	})

	t.Run("explicit owner", func(t *testing.T) {
		owner := util.Uint160{2}
		a := &testActor{sender: sender, owner: owner, aer: halt()}
		prm := newPrm(t, a, unknownContract)
		prm.Owner = owner

		_, err := Deploy(context.Background(), prm)
		require.NoError(t, err)
		require.Equal(t, []any{owner}, a.sentParams[2])
	})

	t.Run("owner mismatch", func(t *testing.T) {
		a := &testActor{sender: sender, owner: util.Uint160{3}, aer: halt()}

		_, err := Deploy(context.Background(), newPrm(t, a, unknownContract))
		require.ErrorContains(t, err, "owned by")
	})
}

func TestDeployAlreadyDeployed(t *testing.T) {
	a := &testActor{sender: util.Uint160{1}}

	addr, err := Deploy(context.Background(), newPrm(t, a, testStates{}))
	require.ErrorIs(t, err, secret.ErrAlreadyInitialized)
	require.False(t, addr.Equals(util.Uint160{}))
	require.Nil(t, a.sentParams)
}

func TestDeployFailures(t *testing.T) {
	t.Run("state", func(t *testing.T) {
		a := &testActor{sender: util.Uint160{1}}
		_, err := Deploy(context.Background(), newPrm(t, a, testStates{err: errors.New("connection lost")}))
		require.ErrorContains(t, err, "connection lost")
		require.Nil(t, a.sentParams)
	})

	t.Run("send", func(t *testing.T) {
		a := &testActor{sender: util.Uint160{1}, sendErr: errors.New("insufficient funds")}
		_, err := Deploy(context.Background(), newPrm(t, a, unknownContract))
		require.ErrorContains(t, err, "insufficient funds")
	})

	t.Run("fault", func(t *testing.T) {
		aer := &state.AppExecResult{Execution: state.Execution{
			VMState:        vmstate.Fault,
			FaultException: "unhandled exception: \"invalid owner\"",
		}}
		a := &testActor{sender: util.Uint160{1}, aer: aer}
		_, err := Deploy(context.Background(), newPrm(t, a, unknownContract))
		require.ErrorIs(t, err, secret.ErrFault)
	})

	t.Run("context", func(t *testing.T) {
		a := &testActor{sender: util.Uint160{1}, aer: halt(), block: make(chan struct{})}
		defer close(a.block)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Deploy(ctx, newPrm(t, a, unknownContract))
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cancel while waiting", func(t *testing.T) {
		a := &testActor{sender: util.Uint160{1}, aer: halt(), block: make(chan struct{})}
		defer close(a.block)

		ctx, cancel := context.WithCancel(context.Background())
		go cancel()

		_, err := Deploy(ctx, newPrm(t, a, unknownContract))
		require.ErrorIs(t, err, context.Canceled)
	})
}
