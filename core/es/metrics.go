package es

import "github.com/codewandler/esrepo-go/core/metrics"

// Metrics defines the instrumentation surface of the repository and its
// tiers. All methods return a Timer or increment a counter; implementations
// must be safe for concurrent use.
type Metrics interface {
	// Repository operations
	RepoLoadDuration(aggType string) metrics.Timer
	RepoSaveDuration(aggType string) metrics.Timer
	EventsAppended(aggType string, count int)
	ConcurrencyConflict(aggType string)

	// Cache tier
	CacheHit(aggType string)
	CacheMiss(aggType string)

	// Snapshot tier
	SnapshotLoadDuration(aggType string) metrics.Timer
	SnapshotSaveDuration(aggType string) metrics.Timer
}

// nopMetrics is a no-op implementation of Metrics.
type nopMetrics struct{}

func (nopMetrics) RepoLoadDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) RepoSaveDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) EventsAppended(string, int)            {}
func (nopMetrics) ConcurrencyConflict(string)            {}

func (nopMetrics) CacheHit(string)  {}
func (nopMetrics) CacheMiss(string) {}

func (nopMetrics) SnapshotLoadDuration(string) metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) SnapshotSaveDuration(string) metrics.Timer { return metrics.NopTimer() }

// NopMetrics returns a no-op Metrics implementation.
func NopMetrics() Metrics { return nopMetrics{} }
