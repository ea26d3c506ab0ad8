package es

import (
	"context"
)

// CacheBackend stores fully hydrated aggregates by id. Entries are advisory
// only and must never be treated as authoritative over the event log; the
// repository trusts a hit as the latest known committed state and removes
// the entry after a concurrency conflict.
//
// Backends are shared across all scopes for an aggregate type and must be
// safe under concurrent calls; a Remove racing a Set for the same id may
// leave either outcome.
type CacheBackend interface {
	// Get returns the cached aggregate for aggID, or ok=false on a miss.
	// A miss is never an error.
	Get(ctx context.Context, aggID string) (agg Aggregate, ok bool, err error)
	// Set stores the aggregate under its id.
	Set(ctx context.Context, agg Aggregate) error
	// Remove drops the entry for aggID, if any.
	Remove(ctx context.Context, aggID string) error
}

// NopCacheBackend always misses and no-ops on write/remove. It is the
// default, making the cache tier strictly opt-in.
type NopCacheBackend struct{}

func NewNopCacheBackend() *NopCacheBackend { return &NopCacheBackend{} }

func (n *NopCacheBackend) Get(context.Context, string) (Aggregate, bool, error) {
	return nil, false, nil
}
func (n *NopCacheBackend) Set(context.Context, Aggregate) error { return nil }
func (n *NopCacheBackend) Remove(context.Context, string) error { return nil }

var _ CacheBackend = (*NopCacheBackend)(nil)
