package state

import (
	"sort"
	"sync"
)

// MemBackend is an in-memory Backend for testing persistence round trips
// without touching disk.
type MemBackend struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
	closed  bool

	// FailNext makes the next Apply return this error, then resets.
	FailNext error
}

// NewMemBackend creates an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{buckets: make(map[string]map[string][]byte)}
}

// Compile-time interface check.
var _ Backend = (*MemBackend)(nil)

// Apply stores or deletes every change.
func (m *MemBackend) Apply(changes []Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrBackendClosed
	}
	if m.FailNext != nil {
		err := m.FailNext
		m.FailNext = nil
		return err
	}
	for _, c := range changes {
		b, ok := m.buckets[c.Bucket]
		if !ok {
			b = make(map[string][]byte)
			m.buckets[c.Bucket] = b
		}
		if c.Delete {
			delete(b, string(c.Key))
			continue
		}
		b[string(c.Key)] = append([]byte(nil), c.Value...)
	}
	return nil
}

// ForEach visits rows of bucket in key order.
func (m *MemBackend) ForEach(bucket string, fn func(key, value []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrBackendClosed
	}
	b := m.buckets[bucket]
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), b[k]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of rows stored in bucket.
func (m *MemBackend) Len(bucket string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.buckets[bucket])
}

// Close marks the backend closed.
func (m *MemBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
