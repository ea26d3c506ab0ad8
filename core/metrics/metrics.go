// Package metrics defines the small instrumentation vocabulary used by the
// repository, keeping the core decoupled from any concrete backend
// (Prometheus lives in an adapter).
package metrics

// Counter is a monotonically increasing metric.
type Counter interface {
	// Inc increments the counter by 1.
	Inc()
	// Add increments the counter by delta. delta must be >= 0.
	Add(delta float64)
}

// Histogram samples observations (e.g. load latencies) into buckets.
type Histogram interface {
	// Observe adds a single observation to the histogram.
	Observe(value float64)
}

// Timer measures the duration of an operation. Call ObserveDuration when
// the operation completes to record the elapsed time, typically deferred:
//
//	defer m.RepoLoadDuration("account").ObserveDuration()
type Timer interface {
	ObserveDuration()
}
