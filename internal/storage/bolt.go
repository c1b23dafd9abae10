package storage

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// dataBucket is the single bucket holding all collection keys.
var dataBucket = []byte("data")

// BoltMedium is the structured transactional medium, backed by an
// embedded bbolt database file. Multi-key writes commit in a single
// transaction.
type BoltMedium struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the database file. A locked or corrupted
// file fails here; the adapter treats that as permanent degradation.
func OpenBolt(path string) (*BoltMedium, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(dataBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltMedium{db: db}, nil
}

func (m *BoltMedium) Name() string { return "primary" }

func (m *BoltMedium) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	var found bool
	err := m.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(dataBucket).Get([]byte(key))
		if v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	return value, found, err
}

func (m *BoltMedium) Set(ctx context.Context, key, value string) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(dataBucket).Put([]byte(key), []byte(value))
	})
}

func (m *BoltMedium) SetMulti(ctx context.Context, values map[string]string) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(dataBucket)
		for k, v := range values {
			if err := b.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *BoltMedium) Remove(ctx context.Context, key string) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(dataBucket).Delete([]byte(key))
	})
}

func (m *BoltMedium) Clear(ctx context.Context) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(dataBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(dataBucket)
		return err
	})
}

func (m *BoltMedium) Close() error { return m.db.Close() }
