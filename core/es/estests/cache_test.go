package estests

import (
	"testing"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/stretchr/testify/require"

	"github.com/codewandler/esrepo-go/core/es"
	"github.com/codewandler/esrepo-go/core/es/estests/domain"
)

func TestCacheBackend_KeyValue(t *testing.T) {
	var (
		factory = es.NewFactory[*domain.Account]()
		cache   = es.NewInMemoryCacheBackend(factory)
		aggID   = gonanoid.Must()
	)

	_, ok, err := cache.Get(t.Context(), aggID)
	require.NoError(t, err)
	require.False(t, ok)

	a := domain.NewAccount(aggID)
	require.NoError(t, a.Open("alice", 100))
	require.NoError(t, cache.Set(t.Context(), a))

	cached, ok, err := cache.Get(t.Context(), aggID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 100, cached.(*domain.Account).Balance)

	t.Run("no aliasing", func(t *testing.T) {
		// mutating the cached copy must not leak into the next read
		cached.(*domain.Account).Balance = -1

		again, ok, err := cache.Get(t.Context(), aggID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, 100, again.(*domain.Account).Balance)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, cache.Remove(t.Context(), aggID))
		_, ok, err := cache.Get(t.Context(), aggID)
		require.NoError(t, err)
		require.False(t, ok)

		// removing a missing entry is not an error
		require.NoError(t, cache.Remove(t.Context(), aggID))
	})
}

func TestCacheBackend_TTL(t *testing.T) {
	var (
		factory = es.NewFactory[*domain.Account]()
		cache   = es.NewInMemoryCacheBackend(factory, es.WithCacheTTL(10*time.Millisecond))
		aggID   = gonanoid.Must()
	)

	a := domain.NewAccount(aggID)
	require.NoError(t, a.Open("alice", 100))
	require.NoError(t, cache.Set(t.Context(), a))

	_, ok, err := cache.Get(t.Context(), aggID)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	_, ok, err = cache.Get(t.Context(), aggID)
	require.NoError(t, err)
	require.False(t, ok)
}
