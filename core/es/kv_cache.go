package es

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codewandler/esrepo-go/ports/kv"
)

// KeyValueCacheBackend stores hydrated aggregates in a key-value store,
// serialized through the snapshot codec. Entries round-trip through bytes,
// so a cached aggregate handed to a later scope never aliases the one that
// was cached.
type KeyValueCacheBackend struct {
	store   kv.Store
	factory Factory
	ttl     time.Duration
}

type KeyValueCacheOption func(*KeyValueCacheBackend)

// WithCacheTTL expires cache entries after d. Zero keeps entries until
// removed or evicted by the underlying store.
func WithCacheTTL(d time.Duration) KeyValueCacheOption {
	return func(b *KeyValueCacheBackend) { b.ttl = d }
}

func NewKeyValueCacheBackend(store kv.Store, factory Factory, opts ...KeyValueCacheOption) *KeyValueCacheBackend {
	b := &KeyValueCacheBackend{store: store, factory: factory}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewInMemoryCacheBackend is the reference cache backend: a key-value cache
// over an unbounded in-memory store.
func NewInMemoryCacheBackend(factory Factory, opts ...KeyValueCacheOption) *KeyValueCacheBackend {
	return NewKeyValueCacheBackend(kv.NewMemStore(), factory, opts...)
}

func (b *KeyValueCacheBackend) key(aggID string) string {
	return "cache." + b.factory.AggregateType() + "." + aggID
}

func (b *KeyValueCacheBackend) Get(ctx context.Context, aggID string) (Aggregate, bool, error) {
	ss, err := kv.Get[*Snapshot](ctx, b.store, b.key(aggID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}

	agg := b.factory.New(aggID)
	if err := RestoreSnapshot(agg, ss); err != nil {
		return nil, false, err
	}
	return agg, true, nil
}

func (b *KeyValueCacheBackend) Set(ctx context.Context, agg Aggregate) error {
	ss, err := NewSnapshot(agg)
	if err != nil {
		return err
	}
	return kv.Put(ctx, b.store, b.key(agg.GetID()), ss, kv.PutOptions{TTL: b.ttl})
}

func (b *KeyValueCacheBackend) Remove(ctx context.Context, aggID string) error {
	return b.store.Delete(ctx, b.key(aggID))
}

var _ CacheBackend = (*KeyValueCacheBackend)(nil)
