package kv

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memEntry struct {
	entry    Entry
	deadline time.Time
}

func (m memEntry) expired(now time.Time) bool {
	return !m.deadline.IsZero() && now.After(m.deadline)
}

// MemStore is an unbounded in-memory Store with lazy TTL expiry: expired
// entries are dropped when read or listed, not by a background sweeper.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]memEntry
}

func NewMemStore() *MemStore {
	return &MemStore{data: map[string]memEntry{}}
}

func (m *MemStore) Put(_ context.Context, key string, entry Entry, opts PutOptions) error {
	var deadline time.Time
	if opts.TTL > 0 {
		deadline = time.Now().Add(opts.TTL)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = memEntry{entry: entry, deadline: deadline}
	return nil
}

func (m *MemStore) Get(_ context.Context, key string) (entry Entry, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	me, ok := m.data[key]
	if !ok {
		return entry, ErrNotFound
	}
	if me.expired(time.Now()) {
		delete(m.data, key)
		return entry, ErrNotFound
	}

	return me.entry, nil
}

func (m *MemStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemStore) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	keys := make([]string, 0, len(m.data))
	for key, me := range m.data {
		if me.expired(now) {
			delete(m.data, key)
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

var _ Store = (*MemStore)(nil)
