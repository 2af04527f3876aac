package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var boltSlotsBucket = []byte("slots")

// BoltMedium keeps the slot as a key of the "slots" bucket in a bbolt database.
type BoltMedium struct {
	mu     sync.Mutex
	db     *bolt.DB
	slot   []byte
	closed bool
}

var _ Medium = (*BoltMedium)(nil)

func NewBoltMedium(path string, slot string) (*BoltMedium, error) {
	if path == "" {
		return nil, errors.New("bolt medium: empty path")
	}
	if slot == "" {
		slot = DefaultSlot
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "bolt medium: could not create directory")
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "bolt medium: could not open %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltSlotsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "bolt medium: could not create bucket")
	}
	return &BoltMedium{db: db, slot: []byte(slot)}, nil
}

func (b *BoltMedium) Read(_ context.Context) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return "", false, errors.New("bolt medium closed")
	}

	var (
		content string
		ok      bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltSlotsBucket)
		if bucket == nil {
			return nil
		}
		v := bucket.Get(b.slot)
		if v == nil {
			return nil
		}
		// v is only valid for the lifetime of the transaction
		content = string(v)
		ok = true
		return nil
	})
	if err != nil {
		return "", false, errors.Wrapf(err, "bolt medium: could not read slot %s", b.slot)
	}
	return content, ok, nil
}

func (b *BoltMedium) Write(_ context.Context, content string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("bolt medium closed")
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(boltSlotsBucket)
		if err != nil {
			return err
		}
		return bucket.Put(b.slot, []byte(content))
	})
	if err != nil {
		return errors.Wrapf(err, "bolt medium: could not write slot %s", b.slot)
	}
	return nil
}

func (b *BoltMedium) Remove(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("bolt medium closed")
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(boltSlotsBucket)
		if bucket == nil {
			return nil
		}
		return bucket.Delete(b.slot)
	})
	if err != nil {
		return errors.Wrapf(err, "bolt medium: could not remove slot %s", b.slot)
	}
	return nil
}

func (b *BoltMedium) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.db.Close()
}
