package es

import (
	"errors"
	"fmt"
	"time"

	"github.com/codewandler/esrepo-go/core/es/assert"
)

var (
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrUnknownEventType    = errors.New("unknown event type")
)

// Applier is the interface for types that can apply events to update their state.
type Applier interface {
	Apply(event any) error
}

// Aggregate is the core interface for event-sourced domain objects.
//
// An aggregate maintains:
//   - Identity: type and ID that uniquely identify the aggregate stream
//   - Version: the version of the last applied event, 0 if none applied
//   - Timestamps: when the last event was applied and the last snapshot taken
//   - Uncommitted events: events raised but not yet persisted
//
// The lifecycle is driven by [Repository.Acquire]: the repository
// materializes the aggregate, the caller's scope raises events via Raise
// (typically through [RaiseAndApply]), and on a clean exit the repository
// publishes the uncommitted buffer and calls ClearUncommitted. The buffer
// never survives the scope: a failed scope discards it.
type Aggregate interface {
	// GetAggType returns the aggregate type name used for stream identification.
	GetAggType() string
	// GetID returns the unique identifier of this aggregate instance.
	GetID() string
	// SetID sets the aggregate ID. Typically called by the factory.
	SetID(string)

	// GetVersion returns the version of the last applied event.
	GetVersion() Version
	setVersion(Version)

	// GetLastEventAt returns when the most recent event was applied.
	GetLastEventAt() time.Time
	setLastEventAt(time.Time)

	// GetLastSnapshotAt returns when the aggregate was last snapshotted.
	GetLastSnapshotAt() time.Time
	setLastSnapshotAt(time.Time)

	// Register registers event types with the provided Registrar.
	Register(r Registrar)
	// Raise records an event as uncommitted without applying it.
	Raise(event any)
	// Apply updates the aggregate state from an event.
	Apply(event any) error

	// Uncommitted returns a copy of events raised but not yet persisted.
	Uncommitted() []any
	// ClearUncommitted removes all uncommitted events.
	ClearUncommitted()
}

// BaseAggregate is an embeddable helper that tracks identity, version,
// timestamps and the uncommitted event buffer. The timestamps are exported
// so they round-trip through JSON snapshots and cache entries.
type BaseAggregate struct {
	LastEventAt    time.Time `json:"last_event_at"`
	LastSnapshotAt time.Time `json:"last_snapshot_at"`

	id          string
	version     Version
	uncommitted []any
}

func (b *BaseAggregate) GetID() string                 { return b.id }
func (b *BaseAggregate) SetID(id string)               { b.id = id }
func (b *BaseAggregate) GetVersion() Version           { return b.version }
func (b *BaseAggregate) setVersion(v Version)          { b.version = v }
func (b *BaseAggregate) GetLastEventAt() time.Time     { return b.LastEventAt }
func (b *BaseAggregate) setLastEventAt(t time.Time)    { b.LastEventAt = t }
func (b *BaseAggregate) GetLastSnapshotAt() time.Time  { return b.LastSnapshotAt }
func (b *BaseAggregate) setLastSnapshotAt(t time.Time) { b.LastSnapshotAt = t }

// Raise records an event as uncommitted.
// (Typically you call Raise+Apply together via RaiseAndApply.)
func (b *BaseAggregate) Raise(event any)   { b.uncommitted = append(b.uncommitted, event) }
func (b *BaseAggregate) ClearUncommitted() { b.uncommitted = nil }
func (b *BaseAggregate) Uncommitted() []any {
	out := make([]any, len(b.uncommitted))
	copy(out, b.uncommitted)
	return out
}

// Checked runs thenFunc only if the condition holds.
func (b *BaseAggregate) Checked(c assert.Cond, thenFunc func() error) error {
	err := c.Check()
	if err != nil {
		return err
	}
	return thenFunc()
}

// === Helpers ===

type raiseApplier interface {
	Raise(event any)
	Apply(event any) error
}

// RaiseAndApply records each event as uncommitted and applies it to mutate
// state. Events implementing Validate() error are validated first; nothing
// is raised if any event is invalid.
func RaiseAndApply(a raiseApplier, events ...any) (err error) {
	if len(events) == 0 {
		return
	}

	for _, e := range events {
		if ev, ok := e.(interface{ Validate() error }); ok {
			err = ev.Validate()
			if err != nil {
				return fmt.Errorf("invalid event %T: %w", ev, err)
			}
		}
	}

	for _, e := range events {
		a.Raise(e)
		err = a.Apply(e)
		if err != nil {
			return
		}
	}
	return
}
