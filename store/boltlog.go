package store

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

var eventsBucket = []byte("events")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.CoreDetEncOptions()
	encOpts.Time = cbor.TimeRFC3339Nano
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic("store: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("store: CBOR decoder initialization failed: " + err.Error())
	}
}

// BoltLog is a persistent append-only event log backed by a bbolt database
// file. It implements both Notifier and Feed. Every store gets its own
// nested bucket named by the store ID with events keyed by sequence number,
// so stores created after a restart never collide with the previous ones.
type BoltLog struct {
	db *bbolt.DB
}

// OpenBoltLog opens or creates bbolt database at the given path.
func OpenBoltLog(path string) (*BoltLog, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(eventsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create events bucket: %w", err)
	}

	return &BoltLog{db: db}, nil
}

// Notify appends the event to the database. It fails with ErrEventExists if
// the store already has an event with the same sequence number.
func (l *BoltLog) Notify(e Event) error {
	val, err := encMode.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	key := seqKey(e.Seq)

	return l.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.Bucket(eventsBucket).CreateBucketIfNotExists(e.Store[:])
		if err != nil {
			return fmt.Errorf("create bucket of store %s: %w", e.Store, err)
		}
		if b.Get(key) != nil {
			return fmt.Errorf("%w: store %s, seq %d", ErrEventExists, e.Store, e.Seq)
		}
		return b.Put(key, val)
	})
}

// Stores implements Feed. IDs are returned in byte order.
func (l *BoltLog) Stores() ([]uuid.UUID, error) {
	var res []uuid.UUID

	err := l.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(eventsBucket).ForEach(func(k, v []byte) error {
			if v != nil {
				return nil
			}
			id, err := uuid.FromBytes(k)
			if err != nil {
				return fmt.Errorf("invalid store bucket %x: %w", k, err)
			}
			res = append(res, id)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Events implements Feed.
func (l *BoltLog) Events(store uuid.UUID, from uint64) ([]Event, error) {
	var res []Event

	err := l.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(eventsBucket).Bucket(store[:])
		if b == nil {
			return nil
		}

		c := b.Cursor()
		for k, v := c.Seek(seqKey(from)); k != nil; k, v = c.Next() {
			var e Event
			if err := decMode.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode event %d: %w", binary.BigEndian.Uint64(k), err)
			}
			res = append(res, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// Close closes the database.
func (l *BoltLog) Close() error {
	return l.db.Close()
}

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
