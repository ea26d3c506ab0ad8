package es

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type strategyAgg struct {
	BaseAggregate
}

func (a *strategyAgg) GetAggType() string    { return "strategy_agg" }
func (a *strategyAgg) Register(r Registrar)  {}
func (a *strategyAgg) Apply(event any) error { return nil }

func aggAt(version Version) *strategyAgg {
	a := &strategyAgg{}
	a.SetID("a1")
	a.setVersion(version)
	return a
}

func TestCacheStrategies(t *testing.T) {
	a := aggAt(3)
	require.True(t, CacheAlways().ShouldCache(a))
	require.False(t, CacheNever().ShouldCache(a))
}

func TestSnapshotEvery(t *testing.T) {
	s := SnapshotEvery(3)

	for version, want := range map[Version]bool{
		0:  false,
		1:  false,
		2:  false,
		3:  true,
		4:  false,
		6:  true,
		9:  true,
		10: false,
	} {
		require.Equal(t, want, s.ShouldSnapshot(aggAt(version)), "version %d", version)
	}

	// zero interval degrades to every event
	require.True(t, SnapshotEvery(0).ShouldSnapshot(aggAt(1)))
}

func TestSnapshotInterval(t *testing.T) {
	var (
		s    = SnapshotInterval(time.Hour)
		base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	)

	a := aggAt(5)
	a.setLastSnapshotAt(base)

	a.setLastEventAt(base.Add(30 * time.Minute))
	require.False(t, s.ShouldSnapshot(a))

	a.setLastEventAt(base.Add(time.Hour))
	require.True(t, s.ShouldSnapshot(a))

	a.setLastEventAt(base.Add(2 * time.Hour))
	require.True(t, s.ShouldSnapshot(a))
}

func TestSnapshotNever(t *testing.T) {
	require.False(t, SnapshotNever().ShouldSnapshot(aggAt(100)))
}
