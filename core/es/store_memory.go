package es

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// InMemoryStore is a simple, correct (optimistic) store for tests/dev.
type InMemoryStore struct {
	mu      sync.Mutex
	log     *slog.Logger
	streams map[string][]Envelope
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		log:     slog.Default().With(slog.String("store", "memory")),
		streams: map[string][]Envelope{},
	}
}

func (s *InMemoryStore) streamKey(aggType, aggID string) string {
	return fmt.Sprintf("%s-%s", aggType, aggID)
}

func (s *InMemoryStore) Load(
	_ context.Context,
	aggType,
	aggID string,
	opts ...StoreLoadOption,
) ([]Envelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loadOpts := NewStoreLoadOptions(opts...)

	out := make([]Envelope, 0)
	for _, e := range s.streams[s.streamKey(aggType, aggID)] {
		if e.Version < loadOpts.StartVersion {
			continue
		}
		out = append(out, e)
	}

	return out, nil
}

func (s *InMemoryStore) Append(
	_ context.Context,
	aggType string,
	aggID string,
	expect Version,
	events []Envelope,
) error {
	if len(events) == 0 {
		return ErrStoreNoEvents
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		sk         = s.streamKey(aggType, aggID)
		curStream  = s.streams[sk]
		curVersion = Version(0)
	)

	if len(curStream) > 0 {
		curVersion = curStream[len(curStream)-1].Version
	}
	if curVersion != expect {
		return fmt.Errorf(
			"%w: expected version %d, got %d (agg_type=%s agg_id=%s)",
			ErrConcurrencyConflict, expect, curVersion, aggType, aggID,
		)
	}

	for i, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
		if want := expect + Version(i+1); e.Version != want {
			return fmt.Errorf("expect version %d, got %d", want, e.Version)
		}
	}
	s.streams[sk] = append(curStream, events...)

	s.log.Debug(
		"append",
		slog.Group(
			"agg",
			slog.String("type", aggType),
			slog.String("id", aggID),
		),
		slog.Int("num_events", len(events)),
	)

	return nil
}

var _ EventStore = (*InMemoryStore)(nil)
