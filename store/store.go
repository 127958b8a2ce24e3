/*
Package store implements an owner-guarded secret store for services that
authenticate their callers off-chain.

The owner is bound once by Initialize. Every Set and Get first passes the
access check comparing the caller with the owner in constant time, and only
then touches the secret. Each committed Set is reported to the configured
Notifier; a notifier failure never rolls the write back and is returned to
the caller in Receipt.NotifyErr.

Store keeps the secret in process memory. It controls who may read and write
the value, it does not encrypt it.
*/
package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is a lifecycle state of the Store.
type State uint8

const (
	// Uninitialized means the owner is not bound yet.
	Uninitialized State = iota
	// SecretUnset means the owner is bound but the secret has not been
	// written yet.
	SecretUnset
	// SecretSet means the secret has been written at least once.
	SecretSet
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case SecretUnset:
		return "unset"
	case SecretSet:
		return "set"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Receipt describes committed write.
type Receipt struct {
	// Seq is the sequence number of the write.
	Seq uint64
	// NotifyErr is a non-fatal notifier failure. The write is committed
	// regardless of it.
	NotifyErr error
}

// Store is a single-owner secret store. Store instances are independent:
// each one has its own owner. Store is safe for concurrent use.
type Store struct {
	id  uuid.UUID
	cfg config
	m   *metrics

	mtx   sync.RWMutex
	gate  gate
	value []byte
	isSet bool
	seq   uint64
}

// New returns uninitialized Store.
func New(opts ...Option) *Store {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	id := uuid.New()

	return &Store{
		id:  id,
		cfg: cfg,
		m:   newMetrics(cfg.registerer, id.String()),
	}
}

// ID returns unique identifier of the Store instance.
func (s *Store) ID() uuid.UUID {
	return s.id
}

// State returns current lifecycle state.
func (s *Store) State() State {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	switch {
	case !s.gate.bound:
		return Uninitialized
	case !s.isSet:
		return SecretUnset
	default:
		return SecretSet
	}
}

// Initialize binds the caller as the owner of the Store. It succeeds only
// once, any subsequent call fails with ErrAlreadyInitialized and changes
// nothing. Empty identity is rejected with ErrInvalidIdentity.
func (s *Store) Initialize(caller Identity) error {
	s.mtx.Lock()
	err := s.gate.bind(caller)
	s.mtx.Unlock()

	if err != nil {
		s.cfg.log.Debug("store initialization rejected",
			zap.Stringer("store", s.id), zap.Error(err))
		return err
	}

	s.cfg.log.Info("store initialized",
		zap.Stringer("store", s.id), zap.String("owner", caller.Fingerprint()))

	return nil
}

// Authorize checks whether the caller is the owner.
func (s *Store) Authorize(caller Identity) Decision {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.gate.authorize(caller)
}

// Set overwrites the secret with a copy of value on behalf of the caller. It
// fails with ErrUnauthorized and changes nothing if the caller is not the
// owner.
//
// Committed write is reported to the Notifier after the store is unlocked.
// Notifier failure is returned in Receipt.NotifyErr, the returned error is
// nil in this case.
func (s *Store) Set(caller Identity, value []byte) (Receipt, error) {
	s.mtx.Lock()

	d := s.gate.authorize(caller)
	s.m.decision("set", d)

	if d != Allow {
		s.mtx.Unlock()
		s.deny("set", caller)
		return Receipt{}, ErrUnauthorized
	}

	s.value = append(make([]byte, 0, len(value)), value...)
	s.isSet = true
	s.seq++

	e := Event{
		Seq:   s.seq,
		Store: s.id,
		Time:  s.cfg.now(),
	}

	s.mtx.Unlock()

	s.m.writes.Inc()

	return Receipt{Seq: e.Seq, NotifyErr: s.notify(e)}, nil
}

// Get returns a copy of the secret on behalf of the caller. It fails with
// ErrUnauthorized if the caller is not the owner, and with ErrNotSet if the
// owner reads before the first write (ErrUnauthorized when the Store is
// configured with WithConcealedUnset).
func (s *Store) Get(caller Identity) ([]byte, error) {
	s.mtx.RLock()

	d := s.gate.authorize(caller)
	s.m.decision("get", d)

	if d != Allow {
		s.mtx.RUnlock()
		s.deny("get", caller)
		return nil, ErrUnauthorized
	}

	if !s.isSet {
		s.mtx.RUnlock()
		if s.cfg.concealUnset {
			return nil, ErrUnauthorized
		}
		return nil, ErrNotSet
	}

	res := append(make([]byte, 0, len(s.value)), s.value...)

	s.mtx.RUnlock()

	return res, nil
}

func (s *Store) deny(op string, caller Identity) {
	s.cfg.log.Debug("access denied",
		zap.Stringer("store", s.id),
		zap.String("op", op),
		zap.String("caller", caller.Fingerprint()))
}

func (s *Store) notify(e Event) error {
	if s.cfg.notifier == nil {
		return nil
	}

	err := s.cfg.notifier.Notify(e)
	if err == nil {
		return nil
	}

	s.m.notifyFailures.Inc()
	s.cfg.log.Warn("failed to record secret change",
		zap.Stringer("store", s.id),
		zap.Uint64("seq", e.Seq),
		zap.Error(err))

	return fmt.Errorf("notify write %d: %w", e.Seq, err)
}
