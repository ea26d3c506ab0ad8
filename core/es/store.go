package es

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrStoreNoEvents = errors.New("no events to store")
)

// StoreLoadOptions controls which slice of a stream Load returns.
type StoreLoadOptions struct {
	// StartVersion is the minimum version to include (inclusive).
	// Zero loads the whole stream.
	StartVersion Version
}

type StoreLoadOption func(*StoreLoadOptions)

// WithStartAtVersion starts loading at the given version, inclusive.
func WithStartAtVersion(v Version) StoreLoadOption {
	return func(o *StoreLoadOptions) { o.StartVersion = v }
}

func NewStoreLoadOptions(opts ...StoreLoadOption) *StoreLoadOptions {
	o := &StoreLoadOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// EventStore stores and loads envelopes per aggregate stream.
//
// Load returns events ascending by version. A stream that does not exist is
// not an error; it loads as an empty slice.
//
// Append is an atomic compare-and-append: it succeeds only if the stream's
// current head version equals expect, and otherwise fails with
// [ErrConcurrencyConflict] without appending anything.
type EventStore interface {
	Load(ctx context.Context, aggType string, aggID string, opts ...StoreLoadOption) ([]Envelope, error)
	Append(ctx context.Context, aggType string, aggID string, expect Version, events []Envelope) error
}

// AppendEvents wraps plain events in envelopes and appends them to the store.
// Mostly useful for tests and backfill tooling; the repository builds its
// own envelopes.
func AppendEvents(
	ctx context.Context,
	store EventStore,
	aggType string,
	aggID string,
	expect Version,
	events ...any,
) error {
	if len(events) == 0 {
		return ErrStoreNoEvents
	}
	envelopes := make([]Envelope, 0, len(events))
	for i, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		envelopes = append(envelopes, Envelope{
			ID:            gonanoid.Must(),
			Type:          getEventTypeOf(ev),
			AggregateID:   aggID,
			AggregateType: aggType,
			Data:          data,
			OccurredAt:    time.Now(),
			Version:       expect + Version(i+1),
		})
	}
	return store.Append(ctx, aggType, aggID, expect, envelopes)
}
