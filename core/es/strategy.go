package es

import "time"

type (
	// CacheStrategy decides whether an aggregate should be cached after a
	// scope that ended changed but without uncommitted events.
	CacheStrategy interface {
		ShouldCache(agg Aggregate) bool
	}

	// SnapshotStrategy decides whether a snapshot should be taken after a
	// successful publish. It is consulted before the snapshot timestamp is
	// updated.
	SnapshotStrategy interface {
		ShouldSnapshot(agg Aggregate) bool
	}
)

// === Cache strategies ===

type cacheAlways struct{}
type cacheNever struct{}

func (cacheAlways) ShouldCache(Aggregate) bool { return true }
func (cacheNever) ShouldCache(Aggregate) bool  { return false }

// CacheAlways caches every eligible aggregate.
func CacheAlways() CacheStrategy { return cacheAlways{} }

// CacheNever never caches. It is the default.
func CacheNever() CacheStrategy { return cacheNever{} }

// === Snapshot strategies ===

type snapshotNever struct{}

func (snapshotNever) ShouldSnapshot(Aggregate) bool { return false }

// SnapshotNever never snapshots. It is the default.
func SnapshotNever() SnapshotStrategy { return snapshotNever{} }

type snapshotEvery struct{ n uint64 }

func (s snapshotEvery) ShouldSnapshot(agg Aggregate) bool {
	v := agg.GetVersion().Uint64()
	return v > 0 && v%s.n == 0
}

// SnapshotEvery snapshots whenever the aggregate version is a multiple of n,
// so it recurs at versions n, 2n, 3n, ...
func SnapshotEvery(n uint64) SnapshotStrategy {
	if n == 0 {
		n = 1
	}
	return snapshotEvery{n: n}
}

type snapshotInterval struct{ d time.Duration }

func (s snapshotInterval) ShouldSnapshot(agg Aggregate) bool {
	return !agg.GetLastEventAt().Before(agg.GetLastSnapshotAt().Add(s.d))
}

// SnapshotInterval snapshots when the last event time has moved at least d
// past the last snapshot time.
func SnapshotInterval(d time.Duration) SnapshotStrategy {
	return snapshotInterval{d: d}
}
