package es

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Repository mediates between the cache, snapshot and event-log tiers.
//
// Acquire gives the caller-provided scope exclusive, in-process access to a
// materialized aggregate and guarantees exactly one consistent outcome per
// scope: a save if the scope returned nil and changed the aggregate, a
// discard otherwise. The repository never retries a conflicted publish.
//
// ListAllIDs reflects only ids with at least one snapshot; ids that were
// never snapshotted are invisible to this listing.
type Repository interface {
	Acquire(ctx context.Context, aggID string, fn func(agg Aggregate) error) error
	ListAllIDs(ctx context.Context) ([]string, error)
	AggregateType() string
}

// repository materializes aggregates tier by tier and persists new events
// with optimistic concurrency.
type repository struct {
	log              *slog.Logger
	store            EventStore
	registry         *EventRegistry
	factory          Factory
	cache            CacheBackend
	cacheStrategy    CacheStrategy
	snapshots        SnapshotBackend
	snapshotStrategy SnapshotStrategy
	metrics          Metrics
}

func NewRepository(
	log *slog.Logger,
	store EventStore,
	factory Factory,
	opts ...RepositoryOption,
) Repository {
	options := repoOptions{
		cache:            NewNopCacheBackend(),
		cacheStrategy:    CacheNever(),
		snapshots:        NewNopSnapshotBackend(),
		snapshotStrategy: SnapshotNever(),
		metrics:          NopMetrics(),
	}
	for _, opt := range opts {
		opt.applyToRepository(&options)
	}

	registry := options.registry
	if registry == nil {
		registry = NewRegistry()
		factory.New("").Register(registry)
	}

	return &repository{
		log:              log.With(slog.String("repo", factory.AggregateType())),
		store:            store,
		registry:         registry,
		factory:          factory,
		cache:            options.cache,
		cacheStrategy:    options.cacheStrategy,
		snapshots:        options.snapshots,
		snapshotStrategy: options.snapshotStrategy,
		metrics:          options.metrics,
	}
}

func (r *repository) AggregateType() string { return r.factory.AggregateType() }

// Acquire materializes the aggregate for aggID, runs fn against it and
// performs the save-or-discard step on exit.
//
// If fn returns an error (including cancellation) the uncommitted event
// buffer is discarded and the error propagates unchanged; nothing is
// written to any tier. After a concurrency conflict the cache entry for
// aggID is removed before the conflict propagates.
func (r *repository) Acquire(ctx context.Context, aggID string, fn func(agg Aggregate) error) error {
	if aggID == "" {
		return errors.New("aggregate id is empty")
	}

	aggType := r.factory.AggregateType()

	agg, base, err := r.materialize(ctx, aggType, aggID)
	if err != nil {
		return err
	}

	if err := fn(agg); err != nil {
		agg.ClearUncommitted()
		return err
	}

	return r.save(ctx, agg, base)
}

// materialize loads the aggregate through the tiers in ascending cost
// order. base is the version the aggregate had before any tier was applied:
// the cached version on a hit, 0 otherwise. The save step compares against
// it to detect whether the scope is worth caching.
func (r *repository) materialize(ctx context.Context, aggType, aggID string) (agg Aggregate, base Version, err error) {
	defer r.metrics.RepoLoadDuration(aggType).ObserveDuration()

	log := r.log.With(
		slog.Group(
			"agg",
			slog.String("type", aggType),
			slog.String("id", aggID),
		),
	)

	// tier 1: cache. A hit is trusted as the latest known committed state,
	// no deeper tier is consulted.
	cached, ok, err := r.cache.Get(ctx, aggID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get cache entry: %w", err)
	}
	if ok {
		r.metrics.CacheHit(aggType)
		log.Debug("cache hit", cached.GetVersion().SlogAttr())
		return cached, cached.GetVersion(), nil
	}
	r.metrics.CacheMiss(aggType)

	// tier 2: snapshot, latest available. Absence falls through to replay
	// from version 0.
	agg = r.factory.New(aggID)
	ssTimer := r.metrics.SnapshotLoadDuration(aggType)
	ss, err := r.snapshots.Load(ctx, aggType, aggID)
	ssTimer.ObserveDuration()
	if err != nil && !errors.Is(err, ErrSnapshotNotFound) {
		return nil, 0, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if err == nil {
		if err := RestoreSnapshot(agg, ss); err != nil {
			return nil, 0, err
		}
		log.Debug("snapshot applied", ss.logAttrs())
	}

	// tier 3: event replay from the snapshot base.
	loaded, err := r.store.Load(
		ctx,
		aggType,
		aggID,
		WithStartAtVersion(agg.GetVersion()+1),
	)
	if err != nil {
		return nil, 0, err
	}

	for _, e := range loaded {
		expectVersion := agg.GetVersion() + 1
		if e.Version != expectVersion {
			return nil, 0, fmt.Errorf("expect version %d, got %d", expectVersion, e.Version)
		}

		evt, err := r.registry.Decode(e)
		if err != nil {
			return nil, 0, err
		}
		if err := agg.Apply(evt); err != nil {
			return nil, 0, err
		}

		agg.setVersion(e.Version)
		agg.setLastEventAt(e.OccurredAt)
	}

	log.Debug("loaded", agg.GetVersion().SlogAttr(), slog.Int("replayed", len(loaded)))

	return agg, 0, nil
}

// save runs the commit/invalidate/compact sequence. It is a no-op unless
// the aggregate changed since its tier base (version moved or events are
// pending).
func (r *repository) save(ctx context.Context, agg Aggregate, base Version) error {
	var (
		aggType     = agg.GetAggType()
		aggID       = agg.GetID()
		uncommitted = agg.Uncommitted()
	)

	if agg.GetVersion() == base && len(uncommitted) == 0 {
		return nil
	}

	defer r.metrics.RepoSaveDuration(aggType).ObserveDuration()

	log := r.log.With(
		slog.Group(
			"agg",
			slog.String("type", aggType),
			slog.String("id", aggID),
			agg.GetVersion().SlogAttr(),
		),
	)

	// read-acceleration path: the scope produced no events but the
	// materialized state is newer than what the cheap tiers held.
	if len(uncommitted) == 0 {
		if r.cacheStrategy.ShouldCache(agg) {
			if err := r.cache.Set(ctx, agg); err != nil {
				return fmt.Errorf("failed to cache agg_type=%s agg_id=%s: %w", aggType, aggID, err)
			}
			log.Debug("cached")
		}
		return nil
	}

	// publish with the version observed at load time as expected version
	expect := agg.GetVersion()
	newEnvs := make([]Envelope, 0, len(uncommitted))
	v := expect

	for _, ev := range uncommitted {
		data, err := json.Marshal(ev)
		if err != nil {
			return err
		}

		v++

		env := Envelope{
			ID:            gonanoid.Must(),
			Type:          getEventTypeOf(ev),
			AggregateID:   aggID,
			AggregateType: aggType,
			Version:       v,
			OccurredAt:    time.Now(),
			Data:          data,
		}

		if err := env.Validate(); err != nil {
			return err
		}

		newEnvs = append(newEnvs, env)
	}

	if err := r.store.Append(ctx, aggType, aggID, expect, newEnvs); err != nil {
		agg.ClearUncommitted()

		if errors.Is(err, ErrConcurrencyConflict) {
			r.metrics.ConcurrencyConflict(aggType)
			// the cache may reflect the losing branch's assumed state
			if rmErr := r.cache.Remove(ctx, aggID); rmErr != nil {
				log.Error("failed to invalidate cache entry", slog.Any("error", rmErr))
			} else {
				log.Debug("cache invalidated")
			}
		}
		return err
	}

	agg.setVersion(v)
	agg.setLastEventAt(newEnvs[len(newEnvs)-1].OccurredAt)
	agg.ClearUncommitted()
	r.metrics.EventsAppended(aggType, len(newEnvs))

	log.Debug("saved", slog.Int("num_events", len(newEnvs)), v.SlogAttrWithKey("new_version"))

	// compaction runs only after the authoritative write succeeded; a
	// failure here propagates but cannot un-commit the events.
	if r.snapshotStrategy.ShouldSnapshot(agg) {
		agg.setLastSnapshotAt(time.Now())
		ss, err := NewSnapshot(agg)
		if err != nil {
			return err
		}
		ssTimer := r.metrics.SnapshotSaveDuration(aggType)
		err = r.snapshots.Save(ctx, ss)
		ssTimer.ObserveDuration()
		if err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		log.Debug("snapshot saved", ss.logAttrs())
	}

	return nil
}

func (r *repository) ListAllIDs(ctx context.Context) ([]string, error) {
	return r.snapshots.ListIDs(ctx, r.factory.AggregateType())
}

var _ Repository = (*repository)(nil)
