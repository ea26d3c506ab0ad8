package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewESMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewESMetrics(reg)

	require.NotNil(t, m)

	// Test repository operations
	timer := m.RepoLoadDuration("user")
	assert.NotNil(t, timer)
	timer.ObserveDuration()

	timer = m.RepoSaveDuration("user")
	assert.NotNil(t, timer)
	timer.ObserveDuration()

	m.EventsAppended("user", 5)
	m.ConcurrencyConflict("user")

	// Test cache
	m.CacheHit("user")
	m.CacheMiss("user")

	// Test snapshots
	timer = m.SnapshotLoadDuration("user")
	assert.NotNil(t, timer)
	timer.ObserveDuration()

	timer = m.SnapshotSaveDuration("user")
	assert.NotNil(t, timer)
	timer.ObserveDuration()

	// Verify metrics were registered
	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}

	assert.True(t, names["esrepo_load_duration_seconds"])
	assert.True(t, names["esrepo_save_duration_seconds"])
	assert.True(t, names["esrepo_events_appended_total"])
	assert.True(t, names["esrepo_cache_hits_total"])
	assert.True(t, names["esrepo_snapshot_save_duration_seconds"])
}
