package es

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

type (
	// Snapshot is a compacted copy of an aggregate at a known version.
	Snapshot struct {
		SnapshotID string `json:"snapshot_id"`

		ObjID      string  `json:"obj_id"`      // ObjID is the ID of the aggregate that was snapshotted
		ObjType    string  `json:"obj_type"`    // ObjType is the type of the aggregate that was snapshotted
		ObjVersion Version `json:"obj_version"` // ObjVersion is the version of the aggregate at the time of snapshot

		TakenAt        time.Time `json:"taken_at"`
		LastEventAt    time.Time `json:"last_event_at"`
		LastSnapshotAt time.Time `json:"last_snapshot_at"`

		SchemaVersion int    `json:"schema_version"`
		Encoding      string `json:"encoding"`
		Data          []byte `json:"data"`
	}

	// Snapshottable lets an aggregate control its own snapshot encoding.
	// Aggregates that do not implement it are JSON-marshaled.
	Snapshottable interface {
		Snapshot() (data []byte, err error)
		RestoreSnapshot(data []byte) error
	}

	// SnapshotBackend persists compacted aggregate state. The backend decides
	// whether to retain one snapshot per aggregate (overwrite) or many.
	//
	// Load returns the most recent snapshot, or with [WithMaxVersion] the
	// latest snapshot whose version is <= the bound - never a newer one.
	// Backends retaining only the single latest snapshot apply the same
	// semantics by returning their one snapshot only when it satisfies the
	// bound; callers fall back to full event replay on ErrSnapshotNotFound.
	//
	// ListIDs returns the ids with at least one snapshot of the given type.
	SnapshotBackend interface {
		Save(ctx context.Context, ss *Snapshot) error
		Load(ctx context.Context, objType, objID string, opts ...SnapshotLoadOption) (*Snapshot, error)
		ListIDs(ctx context.Context, objType string) ([]string, error)
	}
)

// SnapshotLoadOptions bounds which snapshot Load may return.
type SnapshotLoadOptions struct {
	MaxVersion    Version
	HasMaxVersion bool
}

type SnapshotLoadOption func(*SnapshotLoadOptions)

// WithMaxVersion restricts Load to snapshots at or before version v.
func WithMaxVersion(v Version) SnapshotLoadOption {
	return func(o *SnapshotLoadOptions) {
		o.MaxVersion = v
		o.HasMaxVersion = true
	}
}

func NewSnapshotLoadOptions(opts ...SnapshotLoadOption) *SnapshotLoadOptions {
	o := &SnapshotLoadOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *SnapshotLoadOptions) admits(ss *Snapshot) bool {
	return !o.HasMaxVersion || ss.ObjVersion <= o.MaxVersion
}

func (s *Snapshot) logAttrs() slog.Attr {
	return slog.Group(
		"snapshot",
		slog.String("id", s.SnapshotID),
		slog.String("obj_type", s.ObjType),
		slog.String("obj_id", s.ObjID),
		s.ObjVersion.SlogAttrWithKey("obj_version"),
		slog.Time("taken_at", s.TakenAt),
		slog.Int("size", len(s.Data)),
	)
}

// NewSnapshot serializes agg into a Snapshot at its current version.
func NewSnapshot(agg Aggregate) (ss *Snapshot, err error) {
	var data []byte
	s, ok := any(agg).(Snapshottable)
	if ok {
		data, err = s.Snapshot()
	} else {
		data, err = json.Marshal(agg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	ss = &Snapshot{
		SnapshotID:     gonanoid.Must(),
		ObjID:          agg.GetID(),
		ObjType:        agg.GetAggType(),
		ObjVersion:     agg.GetVersion(),
		TakenAt:        time.Now(),
		LastEventAt:    agg.GetLastEventAt(),
		LastSnapshotAt: agg.GetLastSnapshotAt(),
		Encoding:       "json",
		Data:           data,
		SchemaVersion:  1,
	}
	return
}

// RestoreSnapshot deserializes ss into agg and sets version and timestamps
// from the snapshot metadata.
func RestoreSnapshot(agg Aggregate, ss *Snapshot) (err error) {
	if sss, ok := any(agg).(Snapshottable); ok {
		err = sss.RestoreSnapshot(ss.Data)
	} else {
		err = json.Unmarshal(ss.Data, agg)
	}
	if err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}
	agg.setVersion(ss.ObjVersion)
	agg.setLastEventAt(ss.LastEventAt)
	agg.setLastSnapshotAt(ss.LastSnapshotAt)
	return nil
}

// === Nop backend ===

// NopSnapshotBackend never stores anything: Load always misses and Save is
// a no-op. It is the default, making the snapshot tier strictly opt-in.
type NopSnapshotBackend struct{}

func NewNopSnapshotBackend() *NopSnapshotBackend { return &NopSnapshotBackend{} }

func (n *NopSnapshotBackend) Save(context.Context, *Snapshot) error { return nil }
func (n *NopSnapshotBackend) Load(context.Context, string, string, ...SnapshotLoadOption) (*Snapshot, error) {
	return nil, ErrSnapshotNotFound
}
func (n *NopSnapshotBackend) ListIDs(context.Context, string) ([]string, error) { return nil, nil }

var _ SnapshotBackend = (*NopSnapshotBackend)(nil)

// === In-memory multi-version backend ===

// InMemorySnapshotBackend retains every saved snapshot per aggregate,
// ordered by save time. Load scans backward for the closest version
// satisfying the bound; the linear scan is reference behavior, production
// backends may index however they like.
type InMemorySnapshotBackend struct {
	mu        sync.Mutex
	snapshots map[string]map[string][]*Snapshot // objType -> objID -> snapshots in save order
}

func NewInMemorySnapshotBackend() *InMemorySnapshotBackend {
	return &InMemorySnapshotBackend{
		snapshots: map[string]map[string][]*Snapshot{},
	}
}

func (i *InMemorySnapshotBackend) Save(_ context.Context, ss *Snapshot) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	byID, ok := i.snapshots[ss.ObjType]
	if !ok {
		byID = map[string][]*Snapshot{}
		i.snapshots[ss.ObjType] = byID
	}
	byID[ss.ObjID] = append(byID[ss.ObjID], ss)
	return nil
}

func (i *InMemorySnapshotBackend) Load(
	_ context.Context,
	objType, objID string,
	opts ...SnapshotLoadOption,
) (*Snapshot, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	options := NewSnapshotLoadOptions(opts...)

	all := i.snapshots[objType][objID]
	for n := len(all) - 1; n >= 0; n-- {
		if options.admits(all[n]) {
			return all[n], nil
		}
	}
	return nil, ErrSnapshotNotFound
}

func (i *InMemorySnapshotBackend) ListIDs(_ context.Context, objType string) ([]string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	byID := i.snapshots[objType]
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	return ids, nil
}

var _ SnapshotBackend = (*InMemorySnapshotBackend)(nil)
