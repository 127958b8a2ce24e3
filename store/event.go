package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEventExists is returned by event logs on an attempt to overwrite already
// appended event.
var ErrEventExists = errors.New("event already exists")

// Event is a record about a successful secret write. It never carries the
// written value.
type Event struct {
	// Seq is a sequence number of the write in the store starting from 1.
	Seq uint64 `cbor:"1,keyasint"`
	// Store is an ID of the store the write was committed to.
	Store uuid.UUID `cbor:"2,keyasint"`
	// Time is a wall-clock time of the commit.
	Time time.Time `cbor:"3,keyasint"`
}

// Notifier accepts events about committed writes.
type Notifier interface {
	Notify(Event) error
}

// Feed provides read-only access to the appended events. One Feed may serve
// any number of stores, events are identified by the store ID and sequence
// number pair.
type Feed interface {
	// Stores returns IDs of the stores having at least one event.
	Stores() ([]uuid.UUID, error)
	// Events returns events of the given store with sequence number not
	// less than from ordered by it.
	Events(store uuid.UUID, from uint64) ([]Event, error)
}

// MemoryLog is an in-process append-only event log. It implements both
// Notifier and Feed. Zero value is ready to use.
type MemoryLog struct {
	mtx    sync.RWMutex
	stores []uuid.UUID
	events map[uuid.UUID][]Event
}

// Notify appends the event to the log. Events are kept ordered by sequence
// number even if they arrive out of order. Notify fails with ErrEventExists
// if the store already has an event with the same sequence number.
func (l *MemoryLog) Notify(e Event) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if l.events == nil {
		l.events = make(map[uuid.UUID][]Event)
	}

	events, ok := l.events[e.Store]
	if !ok {
		l.stores = append(l.stores, e.Store)
	}

	i := sort.Search(len(events), func(i int) bool { return events[i].Seq >= e.Seq })
	if i < len(events) && events[i].Seq == e.Seq {
		return ErrEventExists
	}

	events = append(events, Event{})
	copy(events[i+1:], events[i:])
	events[i] = e
	l.events[e.Store] = events

	return nil
}

// Stores implements Feed. IDs are returned in order of the first event.
func (l *MemoryLog) Stores() ([]uuid.UUID, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return append([]uuid.UUID(nil), l.stores...), nil
}

// Events implements Feed.
func (l *MemoryLog) Events(store uuid.UUID, from uint64) ([]Event, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	events := l.events[store]
	i := sort.Search(len(events), func(i int) bool { return events[i].Seq >= from })
	res := make([]Event, len(events)-i)
	copy(res, events[i:])

	return res, nil
}
