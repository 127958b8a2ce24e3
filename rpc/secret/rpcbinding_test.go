package secret

import (
	"errors"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/secret-contract/contracts/secret/secretconst"
	"github.com/stretchr/testify/require"
)

type testAct struct {
	res *result.Invoke
	err error

	tx  *transaction.Transaction
	txh util.Uint256
	vub uint32

	method string
	params []any
}

func (t *testAct) Call(contract util.Uint160, method string, params ...any) (*result.Invoke, error) {
	t.method, t.params = method, params
	return t.res, t.err
}

func (t *testAct) MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error) {
	t.method, t.params = method, params
	return t.tx, t.err
}

func (t *testAct) MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error) {
	t.method, t.params = method, params
	return t.tx, t.err
}

func (t *testAct) SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error) {
	t.method, t.params = method, params
	return t.txh, t.vub, t.err
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{State: vmstate.Halt.String(), Stack: items}
}

func fault(exception string) *result.Invoke {
	return &result.Invoke{State: vmstate.Fault.String(), FaultException: exception}
}

func TestReader(t *testing.T) {
	ta := new(testAct)
	r := NewReader(ta, util.Uint160{1, 2, 3})

	owner := util.Uint160{4, 5, 6}
	ta.res = halt(stackitem.Make(owner.BytesBE()))
	o, err := r.Owner()
	require.NoError(t, err)
	require.Equal(t, owner, o)
	require.Equal(t, "owner", ta.method)

	ta.res = halt(stackitem.Make(1000))
	v, err := r.Version()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1000), v)

	ta.res = halt(stackitem.Make([]byte("hello")))
	secret, err := r.GetSecret()
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), secret)
	require.Equal(t, "getSecret", ta.method)

	ta.res = halt(stackitem.Make(true))
	set, err := r.IsSet()
	require.NoError(t, err)
	require.True(t, set)

	ta.res = nil
	ta.err = errors.New("connection refused")
	_, err = r.GetSecret()
	require.ErrorIs(t, err, ta.err)
}

func TestReaderFaults(t *testing.T) {
	ta := new(testAct)
	r := NewReader(ta, util.Uint160{1, 2, 3})

	ta.res = fault("at instruction 42 (THROW): unhandled exception: \"" + secretconst.ErrUnauthorized + "\"")
	_, err := r.GetSecret()
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = r.IsSet()
	require.ErrorIs(t, err, ErrUnauthorized)

	ta.res = fault("unhandled exception: \"" + secretconst.ErrNotSet + "\"")
	_, err = r.GetSecret()
	require.ErrorIs(t, err, ErrNotSet)

	ta.res = fault("gas limit exceeded")
	_, err = r.GetSecret()
	require.ErrorIs(t, err, ErrFault)
	require.Contains(t, err.Error(), "gas limit exceeded")
}

func TestContract(t *testing.T) {
	ta := &testAct{txh: util.Uint256{7}, vub: 42, tx: new(transaction.Transaction)}
	c := New(ta, util.Uint160{1, 2, 3})

	h, vub, err := c.SetSecret([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, ta.txh, h)
	require.EqualValues(t, 42, vub)
	require.Equal(t, "setSecret", ta.method)
	require.Equal(t, []any{[]byte("hello")}, ta.params)

	tx, err := c.SetSecretTransaction([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, ta.tx, tx)

	tx, err = c.SetSecretUnsigned([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, ta.tx, tx)

	ta.err = errors.New("script failed (FAULT state) due to an error: at instruction 17 (THROW): unhandled exception: \"unauthorized\"")
	_, _, err = c.SetSecret([]byte("evil"))
	require.ErrorIs(t, err, ErrUnauthorized)
	require.ErrorIs(t, err, ta.err)

	_, err = c.SetSecretTransaction([]byte("evil"))
	require.ErrorIs(t, err, ErrUnauthorized)

	ta.err = errors.New("insufficient funds")
	_, _, err = c.Update(nil, nil, nil)
	require.Equal(t, ta.err, err)
	require.Equal(t, "update", ta.method)
}

func TestSecretChangedEvents(t *testing.T) {
	ev := func(name string, items ...stackitem.Item) state.NotificationEvent {
		return state.NotificationEvent{Name: name, Item: stackitem.NewArray(items)}
	}

	log := &result.ApplicationLog{
		Executions: []state.Execution{
			{Events: []state.NotificationEvent{
				ev("Transfer", stackitem.Make(1), stackitem.Make(2)),
				ev(secretconst.SecretChangedEvent, stackitem.Make(1)),
			}},
			{Events: []state.NotificationEvent{
				ev(secretconst.SecretChangedEvent, stackitem.Make(2)),
			}},
		},
	}

	events, err := SecretChangedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*SecretChangedEvent{{Seq: big.NewInt(1)}, {Seq: big.NewInt(2)}}, events)

	_, err = SecretChangedEventsFromApplicationLog(nil)
	require.Error(t, err)

	log.Executions[1].Events = append(log.Executions[1].Events, ev(secretconst.SecretChangedEvent))
	_, err = SecretChangedEventsFromApplicationLog(log)
	require.Error(t, err)

	log.Executions[1].Events[1] = ev(secretconst.SecretChangedEvent, stackitem.NewMap())
	_, err = SecretChangedEventsFromApplicationLog(log)
	require.Error(t, err)

	require.Error(t, new(SecretChangedEvent).FromStackItem(nil))
}

func TestClassifyFault(t *testing.T) {
	require.ErrorIs(t, ClassifyFault("...: "+secretconst.ErrUnauthorized), ErrUnauthorized)
	require.ErrorIs(t, ClassifyFault("...: "+secretconst.ErrNotSet), ErrNotSet)
	require.ErrorIs(t, ClassifyFault("...: "+secretconst.ErrAlreadyInitialized), ErrAlreadyInitialized)
	require.ErrorIs(t, ClassifyFault("ABORT"), ErrFault)
}
