// Package secret contains RPC wrappers for Secret contract.
package secret

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/secret-contract/contracts/secret/secretconst"
)

// SecretChangedEvent represents "SecretChanged" event emitted by the contract.
type SecretChangedEvent struct {
	Seq *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
//
// GetSecret and IsSet succeed only if the Invoker is created with the owner
// among its signers.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.call("owner"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.call("version"))
}

// GetSecret invokes `getSecret` method of contract.
func (c *ContractReader) GetSecret() ([]byte, error) {
	return unwrap.Bytes(c.call("getSecret"))
}

// IsSet invokes `isSet` method of contract.
func (c *ContractReader) IsSet() (bool, error) {
	return unwrap.Bool(c.call("isSet"))
}

// call performs test invocation and converts FAULT state into an error
// recognized by ClassifyFault.
func (c *ContractReader) call(method string, params ...any) (*result.Invoke, error) {
	r, err := c.invoker.Call(c.hash, method, params...)
	if err != nil {
		return nil, err
	}
	if r.State != vmstate.Halt.String() {
		return nil, fmt.Errorf("%s: %w", method, ClassifyFault(r.FaultException))
	}
	return r, nil
}

// SetSecret creates a transaction invoking `setSecret` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetSecret(value []byte) (util.Uint256, uint32, error) {
	h, vub, err := c.actor.SendCall(c.hash, "setSecret", value)
	return h, vub, classifyError(err)
}

// SetSecretTransaction creates a transaction invoking `setSecret` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetSecretTransaction(value []byte) (*transaction.Transaction, error) {
	tx, err := c.actor.MakeCall(c.hash, "setSecret", value)
	return tx, classifyError(err)
}

// SetSecretUnsigned creates a transaction invoking `setSecret` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetSecretUnsigned(value []byte) (*transaction.Transaction, error) {
	tx, err := c.actor.MakeUnsignedCall(c.hash, "setSecret", nil, value)
	return tx, classifyError(err)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	h, vub, err := c.actor.SendCall(c.hash, "update", script, manifest, data)
	return h, vub, classifyError(err)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	tx, err := c.actor.MakeCall(c.hash, "update", script, manifest, data)
	return tx, classifyError(err)
}

// SecretChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "SecretChanged" name from the provided [result.ApplicationLog].
func SecretChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SecretChangedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*SecretChangedEvent
	for i, ex := range log.Executions {
		events, err := SecretChangedEventsFromExecution(ex)
		if err != nil {
			return nil, fmt.Errorf("execution #%d: %w", i, err)
		}
		res = append(res, events...)
	}

	return res, nil
}

// SecretChangedEventsFromExecution retrieves a set of all emitted events with
// "SecretChanged" name from the provided [state.Execution], e.g. the one
// returned by actor's Wait.
func SecretChangedEventsFromExecution(ex state.Execution) ([]*SecretChangedEvent, error) {
	var res []*SecretChangedEvent
	for j, e := range ex.Events {
		if e.Name != secretconst.SecretChangedEvent {
			continue
		}
		event := new(SecretChangedEvent)
		err := event.FromStackItem(e.Item)
		if err != nil {
			return nil, fmt.Errorf("failed to deserialize SecretChangedEvent from stackitem (event #%d): %w", j, err)
		}
		res = append(res, event)
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to SecretChangedEvent or
// returns an error if it's not possible to do to so.
func (e *SecretChangedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	e.Seq, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field Seq: %w", err)
	}

	return nil
}
