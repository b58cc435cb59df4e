package state

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Table is a journaled map persisted under one bucket. Values are stored by
// value and gob-encoded at commit, so V should not contain shared slices
// or maps that are mutated after Set.
type Table[K comparable, V any] struct {
	db    *DB
	name  string
	codec KeyCodec[K]
	rows  map[K]V
	dirty map[K]struct{}
}

// NewTable registers a table under bucket. It panics if the bucket name is
// already taken, which is a wiring bug.
func NewTable[K comparable, V any](db *DB, bucket string, codec KeyCodec[K]) *Table[K, V] {
	t := &Table[K, V]{
		db:    db,
		name:  bucket,
		codec: codec,
		rows:  make(map[K]V),
		dirty: make(map[K]struct{}),
	}
	db.register(t)
	return t
}

// Get returns the row for k.
func (t *Table[K, V]) Get(k K) (V, bool) {
	v, ok := t.rows[k]
	return v, ok
}

// GetOrZero returns the row for k or V's zero value.
func (t *Table[K, V]) GetOrZero(k K) V {
	return t.rows[k]
}

// Has reports whether a row exists for k.
func (t *Table[K, V]) Has(k K) bool {
	_, ok := t.rows[k]
	return ok
}

// Set writes v under k.
func (t *Table[K, V]) Set(k K, v V) {
	old, existed := t.rows[k]
	t.db.record(func() {
		if existed {
			t.rows[k] = old
		} else {
			delete(t.rows, k)
		}
	})
	t.rows[k] = v
	t.dirty[k] = struct{}{}
}

// Delete removes the row for k; deleting a missing row is a no-op.
func (t *Table[K, V]) Delete(k K) {
	old, existed := t.rows[k]
	if !existed {
		return
	}
	t.db.record(func() { t.rows[k] = old })
	delete(t.rows, k)
	t.dirty[k] = struct{}{}
}

// Len returns the number of rows.
func (t *Table[K, V]) Len() int { return len(t.rows) }

// Range calls fn for every row until fn returns false. Order is unspecified.
func (t *Table[K, V]) Range(fn func(K, V) bool) {
	for k, v := range t.rows {
		if !fn(k, v) {
			return
		}
	}
}

func (t *Table[K, V]) bucket() string { return t.name }

func (t *Table[K, V]) changes() ([]Change, error) {
	out := make([]Change, 0, len(t.dirty))
	for k := range t.dirty {
		key := t.codec.Encode(k)
		v, ok := t.rows[k]
		if !ok {
			out = append(out, Change{Bucket: t.name, Key: key, Delete: true})
			continue
		}
		data, err := encodeGob(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrEncode, t.name, err)
		}
		out = append(out, Change{Bucket: t.name, Key: key, Value: data})
	}
	return out, nil
}

func (t *Table[K, V]) clearDirty() {
	clear(t.dirty)
}

func (t *Table[K, V]) load(b Backend) error {
	return b.ForEach(t.name, func(key, value []byte) error {
		k, err := t.codec.Decode(key)
		if err != nil {
			return err
		}
		var v V
		if err := decodeGob(value, &v); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrDecode, t.name, err)
		}
		t.rows[k] = v
		return nil
	})
}

// Cell is a journaled single value stored in its own bucket.
type Cell[V any] struct {
	t *Table[string, V]
}

const cellKey = "value"

// NewCell registers a single-value table under bucket.
func NewCell[V any](db *DB, bucket string) *Cell[V] {
	return &Cell[V]{t: NewTable[string, V](db, bucket, StringKey)}
}

// Get returns the stored value, or V's zero value if unset.
func (c *Cell[V]) Get() V { return c.t.GetOrZero(cellKey) }

// IsSet reports whether a value was ever stored.
func (c *Cell[V]) IsSet() bool { return c.t.Has(cellKey) }

// Set stores v.
func (c *Cell[V]) Set(v V) { c.t.Set(cellKey, v) }

// EncodeValue gob-encodes v. Components use it to take byte-exact
// snapshots of records.
func EncodeValue(v any) ([]byte, error) {
	data, err := encodeGob(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return data, nil
}

func encodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
