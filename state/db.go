// Package state provides journaled key-value tables. Every write records an
// undo entry so a caller can snapshot, run an operation, and either revert
// to the snapshot or commit the dirty rows to a persistent Backend.
package state

import (
	"fmt"
	"sort"
)

// Change is one row mutation handed to a Backend at commit.
type Change struct {
	Bucket string
	Key    []byte
	Value  []byte
	Delete bool
}

// Backend persists committed rows. Apply must be atomic: either every
// change lands or none does.
type Backend interface {
	Apply(changes []Change) error
	ForEach(bucket string, fn func(key, value []byte) error) error
	Close() error
}

type table interface {
	bucket() string
	changes() ([]Change, error)
	clearDirty()
	load(b Backend) error
}

// DB owns the undo journal and the tables registered against it.
// It is not safe for concurrent use; host.Env serializes access.
type DB struct {
	backend Backend
	undo    []func()
	tables  map[string]table
}

// NewDB creates a DB persisting to backend. A nil backend keeps state in
// memory only.
func NewDB(backend Backend) *DB {
	return &DB{backend: backend, tables: make(map[string]table)}
}

func (db *DB) register(t table) {
	if _, ok := db.tables[t.bucket()]; ok {
		panic(fmt.Sprintf("%v: %q", ErrDuplicateTable, t.bucket()))
	}
	db.tables[t.bucket()] = t
}

func (db *DB) record(fn func()) { db.undo = append(db.undo, fn) }

// Snapshot returns a marker for RevertTo.
func (db *DB) Snapshot() int { return len(db.undo) }

// RevertTo undoes every write made after snapshot s, newest first.
func (db *DB) RevertTo(s int) {
	for i := len(db.undo) - 1; i >= s; i-- {
		db.undo[i]()
	}
	db.undo = db.undo[:s]
}

// Commit flushes dirty rows to the backend and discards the journal.
// On a backend error the journal is kept so the caller can still revert.
func (db *DB) Commit() error {
	if db.backend != nil {
		var all []Change
		for _, name := range db.bucketNames() {
			cs, err := db.tables[name].changes()
			if err != nil {
				return err
			}
			all = append(all, cs...)
		}
		if len(all) > 0 {
			if err := db.backend.Apply(all); err != nil {
				return fmt.Errorf("state: commit: %w", err)
			}
		}
	}
	for _, t := range db.tables {
		t.clearDirty()
	}
	db.undo = db.undo[:0]
	return nil
}

// Load populates every registered table from the backend. Call it once
// after all components have registered their tables.
func (db *DB) Load() error {
	if db.backend == nil {
		return nil
	}
	for _, name := range db.bucketNames() {
		if err := db.tables[name].load(db.backend); err != nil {
			return fmt.Errorf("state: load %q: %w", name, err)
		}
	}
	return nil
}

// Close closes the backend, if any.
func (db *DB) Close() error {
	if db.backend == nil {
		return nil
	}
	return db.backend.Close()
}

func (db *DB) bucketNames() []string {
	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
