// Package integration exercises the repository against real backends: the
// snapshot tier on NATS JetStream KV and the cache tier on Redis.
package integration

import (
	"log/slog"
	"testing"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/stretchr/testify/require"

	natsadapter "github.com/codewandler/esrepo-go/adapters/nats"
	redisadapter "github.com/codewandler/esrepo-go/adapters/redis"
	"github.com/codewandler/esrepo-go/core/es"
	"github.com/codewandler/esrepo-go/core/es/estests/domain"
)

func TestIntegration(t *testing.T) {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	var (
		store   = es.NewInMemoryStore()
		factory = es.NewFactory[*domain.Account]()
		aggID   = gonanoid.Must()
	)

	snapshots, err := natsadapter.NewSnapshotBackend(t.Context(), natsadapter.StoreConfig{
		Connect: natsadapter.NewTestContainer(t),
		Bucket:  "snapshots",
	})
	require.NoError(t, err)

	redisStore, err := redisadapter.NewStoreURL(redisadapter.NewTestContainer(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisStore.Close() })

	cache := es.NewKeyValueCacheBackend(redisStore, factory)

	newRepo := func() es.TypedRepository[*domain.Account] {
		return es.NewTypedRepository[*domain.Account](
			slog.Default(), store,
			es.WithSnapshotBackend(snapshots),
			es.WithSnapshotStrategy(es.SnapshotEvery(2)),
			es.WithCacheBackend(cache),
			es.WithCacheStrategy(es.CacheAlways()),
		)
	}

	repo := newRepo()

	require.NoError(t, repo.Acquire(t.Context(), aggID, func(a *domain.Account) error {
		if err := a.Open("alice", 100); err != nil {
			return err
		}
		return a.Deposit(50)
	}))

	// snapshot was taken at version 2
	ss, err := snapshots.Load(t.Context(), "account", aggID)
	require.NoError(t, err)
	require.Equal(t, es.Version(2), ss.ObjVersion)

	// read fills the redis cache
	require.NoError(t, repo.Acquire(t.Context(), aggID, func(a *domain.Account) error {
		require.Equal(t, 150, a.Balance)
		return nil
	}))

	// a second repository instance shares state through the backends
	repo2 := newRepo()
	require.NoError(t, repo2.Acquire(t.Context(), aggID, func(a *domain.Account) error {
		require.Equal(t, es.Version(2), a.GetVersion())
		require.Equal(t, 150, a.Balance)
		return a.Withdraw(30)
	}))

	// the cache is advisory: it still serves the state cached at read time
	// until the entry is removed or expires
	require.NoError(t, repo.Acquire(t.Context(), aggID, func(a *domain.Account) error {
		require.Equal(t, es.Version(2), a.GetVersion())
		return nil
	}))

	require.NoError(t, cache.Remove(t.Context(), aggID))
	require.NoError(t, repo.Acquire(t.Context(), aggID, func(a *domain.Account) error {
		require.Equal(t, es.Version(3), a.GetVersion())
		require.Equal(t, 120, a.Balance)
		return nil
	}))

	ids, err := repo.ListAllIDs(t.Context())
	require.NoError(t, err)
	require.Contains(t, ids, aggID)
}
