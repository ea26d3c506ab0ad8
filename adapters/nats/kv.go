// Package nats adapts a NATS JetStream key-value bucket to the kv.Store
// port, backing the snapshot and cache tiers with durable replicated
// storage.
package nats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/codewandler/esrepo-go/ports/kv"
)

type StoreConfig struct {
	Connect Connector // Connect creates the underlying NATS connection. If nil, ConnectDefault() is used.
	Bucket  string
	// TTL expires all entries in the bucket. JetStream enforces TTL per
	// bucket, so per-put TTLs are ignored by this adapter.
	TTL      time.Duration
	MaxBytes int64
}

// Store implements kv.Store on a JetStream key-value bucket.
type Store struct {
	kv      jetstream.KeyValue
	closeNc closeFunc
}

func NewStore(ctx context.Context, cfg StoreConfig) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket is required")
	}

	doConnect := cfg.Connect
	if doConnect == nil {
		doConnect = ConnectDefault()
	}

	nc, closeNc, err := doConnect()
	if err != nil {
		return nil, err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		closeNc()
		return nil, err
	}

	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = 64 * 1024 * 1024
	}

	bucket, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:   cfg.Bucket,
		Storage:  jetstream.FileStorage,
		TTL:      cfg.TTL,
		MaxBytes: maxBytes,
	})
	if err != nil {
		closeNc()
		return nil, fmt.Errorf("failed to ensure bucket %s: %w", cfg.Bucket, err)
	}

	return &Store{kv: bucket, closeNc: closeNc}, nil
}

func (s *Store) Close() error {
	s.closeNc()
	return nil
}

func (s *Store) Put(ctx context.Context, key string, entry kv.Entry, _ kv.PutOptions) error {
	_, err := s.kv.Put(ctx, key, entry.Data)
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (kv.Entry, error) {
	v, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return kv.Entry{}, kv.ErrNotFound
		}
		return kv.Entry{}, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return kv.Entry{Data: v.Value()}, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.kv.Purge(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lister.Stop() }()

	var keys []string
	for key := range lister.Keys() {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

var _ kv.Store = (*Store)(nil)
