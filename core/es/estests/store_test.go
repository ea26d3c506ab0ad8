package estests

import (
	"testing"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/stretchr/testify/require"

	"github.com/codewandler/esrepo-go/core/es"
	"github.com/codewandler/esrepo-go/core/es/estests/domain"
)

func TestStore_Memory(t *testing.T) {
	var (
		store = es.NewInMemoryStore()
		aggID = gonanoid.Must()
	)

	// a stream that does not exist loads as empty, not as an error
	loaded, err := store.Load(t.Context(), "account", aggID)
	require.NoError(t, err)
	require.Empty(t, loaded)

	require.NoError(t, es.AppendEvents(
		t.Context(), store, "account", aggID, 0,
		&domain.AccountOpened{Owner: "alice", InitialBalance: 100},
		&domain.MoneyDeposited{Amount: 50},
	))

	loaded, err = store.Load(t.Context(), "account", aggID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, es.Version(1), loaded[0].Version)
	require.Equal(t, es.Version(2), loaded[1].Version)
	require.Equal(t, aggID, loaded[0].AggregateID)
	require.Equal(t, "account", loaded[0].AggregateType)

	t.Run("start version", func(t *testing.T) {
		loaded, err := store.Load(t.Context(), "account", aggID, es.WithStartAtVersion(2))
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		require.Equal(t, es.Version(2), loaded[0].Version)
	})

	t.Run("append at stale version conflicts", func(t *testing.T) {
		err := es.AppendEvents(
			t.Context(), store, "account", aggID, 1,
			&domain.MoneyDeposited{Amount: 1},
		)
		require.ErrorIs(t, err, es.ErrConcurrencyConflict)

		// nothing was appended
		loaded, err := store.Load(t.Context(), "account", aggID)
		require.NoError(t, err)
		require.Len(t, loaded, 2)
	})

	t.Run("append at head succeeds", func(t *testing.T) {
		require.NoError(t, es.AppendEvents(
			t.Context(), store, "account", aggID, 2,
			&domain.MoneyWithdrawn{Amount: 30},
		))

		loaded, err := store.Load(t.Context(), "account", aggID)
		require.NoError(t, err)
		require.Len(t, loaded, 3)
		require.Equal(t, es.Version(3), loaded[2].Version)
	})

	t.Run("no events", func(t *testing.T) {
		err := es.AppendEvents(t.Context(), store, "account", aggID, 3)
		require.ErrorIs(t, err, es.ErrStoreNoEvents)
	})

	t.Run("streams are isolated", func(t *testing.T) {
		otherID := gonanoid.Must()
		require.NoError(t, es.AppendEvents(
			t.Context(), store, "account", otherID, 0,
			&domain.AccountOpened{Owner: "bob", InitialBalance: 1},
		))

		loaded, err := store.Load(t.Context(), "account", otherID)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
	})
}
