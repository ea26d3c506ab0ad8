// Package kv defines the key-value port used by the persistence tiers and
// its JSON convenience helpers. Implementations live in adapters and in this
// package (in-memory and LRU reference stores).
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for keys that do not exist or have expired.
var ErrNotFound = errors.New("not found")

// Entry is a stored value plus optional implementation-defined metadata.
type Entry struct {
	Data []byte
	Meta map[string]any
}

type PutOptions struct {
	// TTL expires the entry after the given duration. Zero means no expiry.
	TTL time.Duration
}

type Store interface {
	Put(ctx context.Context, key string, entry Entry, opts PutOptions) error
	Get(ctx context.Context, key string) (entry Entry, err error)
	Delete(ctx context.Context, key string) error
	// Keys returns all live keys starting with prefix, in unspecified order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Put marshals v as JSON and stores it under key.
func Put[T any](ctx context.Context, store Store, key string, v T, opts PutOptions) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Put(ctx, key, Entry{Data: data}, opts)
}

// Get loads key and unmarshals its JSON value into T.
func Get[T any](ctx context.Context, store Store, key string) (T, error) {
	var out T
	entry, err := store.Get(ctx, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(entry.Data, &out); err != nil {
		return out, err
	}
	return out, nil
}
