// Package prometheus provides the Prometheus implementation of the
// repository metrics interface.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/codewandler/esrepo-go/core/metrics"
)

// timer records the elapsed time since its creation into a histogram.
type timer struct {
	obs   prometheus.Observer
	began time.Time
}

func newTimer(obs prometheus.Observer) metrics.Timer {
	return &timer{obs: obs, began: time.Now()}
}

func (t *timer) ObserveDuration() {
	t.obs.Observe(time.Since(t.began).Seconds())
}

// Latency buckets in seconds, 1ms up to 10s.
var defaultBuckets = []float64{
	.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10,
}
