package nats

import (
	"context"

	"github.com/codewandler/esrepo-go/core/es"
)

// NewSnapshotBackend builds a snapshot backend on a JetStream key-value
// bucket.
func NewSnapshotBackend(ctx context.Context, cfg StoreConfig) (*es.KeyValueSnapshotBackend, error) {
	store, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return es.NewKeyValueSnapshotBackend(store), nil
}

// NewCacheBackend builds a cache backend on a JetStream key-value bucket.
// Entry expiry is controlled by the bucket TTL in cfg, not per entry.
func NewCacheBackend(ctx context.Context, cfg StoreConfig, factory es.Factory) (*es.KeyValueCacheBackend, error) {
	store, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return es.NewKeyValueCacheBackend(store, factory), nil
}
