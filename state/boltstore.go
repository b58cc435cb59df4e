package state

import (
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

// BoltBackend persists tables in a bbolt database, one bucket per table.
type BoltBackend struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Backend = (*BoltBackend)(nil)

// OpenBoltBackend opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltBackend(dbPath string) (*BoltBackend, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("state: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("state: open bolt db: %w", err)
	}
	return &BoltBackend{db: db}, nil
}

// Apply writes every change in a single bbolt transaction.
func (s *BoltBackend) Apply(changes []Change) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, c := range changes {
			b, err := tx.CreateBucketIfNotExists([]byte(c.Bucket))
			if err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", c.Bucket, err)
			}
			if c.Delete {
				if err := b.Delete(c.Key); err != nil {
					return fmt.Errorf("boltstore: delete %q: %w", c.Bucket, err)
				}
				continue
			}
			if err := b.Put(c.Key, c.Value); err != nil {
				return fmt.Errorf("boltstore: put %q: %w", c.Bucket, err)
			}
		}
		return nil
	})
}

// ForEach visits rows of bucket in key order. A missing bucket has no rows.
func (s *BoltBackend) ForEach(bucket string, fn func(key, value []byte) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			// bbolt memory is only valid inside the transaction.
			return fn(append([]byte(nil), k...), append([]byte(nil), v...))
		})
	})
}

// Count returns the number of rows in bucket.
func (s *BoltBackend) Count(bucket string) (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket([]byte(bucket)); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}

// Close closes the underlying database.
func (s *BoltBackend) Close() error { return s.db.Close() }
