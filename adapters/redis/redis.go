// Package redis adapts a Redis instance to the kv.Store port, backing the
// snapshot and cache tiers with shared external storage.
package redis

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/codewandler/esrepo-go/core/es"
	"github.com/codewandler/esrepo-go/ports/kv"
)

// Store implements kv.Store on a Redis client. TTLs map directly to key
// expiry, prefix listing uses SCAN.
type Store struct {
	client redis.UniversalClient
}

func NewStore(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// NewStoreURL connects to a Redis URL (redis://...).
func NewStoreURL(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewStore(redis.NewClient(opts)), nil
}

// NewStoreDefault connects to REDIS_URL if set, the default local instance
// otherwise.
func NewStoreDefault() (*Store, error) {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return NewStoreURL(url)
	}
	return NewStoreURL("redis://localhost:6379")
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Put(ctx context.Context, key string, entry kv.Entry, opts kv.PutOptions) error {
	return s.client.Set(ctx, key, entry.Data, opts.TTL).Err()
}

func (s *Store) Get(ctx context.Context, key string) (kv.Entry, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return kv.Entry{}, kv.ErrNotFound
		}
		return kv.Entry{}, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return kv.Entry{Data: data}, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// NewSnapshotBackend builds a snapshot backend on client.
func NewSnapshotBackend(client redis.UniversalClient) *es.KeyValueSnapshotBackend {
	return es.NewKeyValueSnapshotBackend(NewStore(client))
}

// NewCacheBackend builds a cache backend on client.
func NewCacheBackend(client redis.UniversalClient, factory es.Factory, opts ...es.KeyValueCacheOption) *es.KeyValueCacheBackend {
	return es.NewKeyValueCacheBackend(NewStore(client), factory, opts...)
}

var _ kv.Store = (*Store)(nil)
