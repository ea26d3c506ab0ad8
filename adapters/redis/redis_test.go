package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/esrepo-go/ports/kv"
)

func TestStore(t *testing.T) {
	type fooBar struct {
		Fruit string
		Count int
	}
	store, err := NewStoreURL(NewTestContainer(t))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = kv.Get[fooBar](t.Context(), store, "missing")
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, kv.Put(t.Context(), store, "cache.acc.a1", fooBar{Fruit: "apple", Count: 10}, kv.PutOptions{}))
	require.NoError(t, kv.Put(t.Context(), store, "cache.acc.a2", fooBar{Fruit: "pear", Count: 3}, kv.PutOptions{}))
	require.NoError(t, kv.Put(t.Context(), store, "snapshot.acc.a1", fooBar{Fruit: "plum", Count: 1}, kv.PutOptions{}))

	v, err := kv.Get[fooBar](t.Context(), store, "cache.acc.a1")
	require.NoError(t, err)
	require.Equal(t, fooBar{Fruit: "apple", Count: 10}, v)

	keys, err := store.Keys(t.Context(), "cache.acc.")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"cache.acc.a1", "cache.acc.a2"}, keys)

	require.NoError(t, store.Delete(t.Context(), "cache.acc.a1"))
	_, err = kv.Get[fooBar](t.Context(), store, "cache.acc.a1")
	require.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStore_TTL(t *testing.T) {
	store, err := NewStoreURL(NewTestContainer(t))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Put(t.Context(), "k", kv.Entry{Data: []byte("v")}, kv.PutOptions{TTL: time.Second}))

	_, err = store.Get(t.Context(), "k")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := store.Get(t.Context(), "k")
		return err != nil
	}, 5*time.Second, 100*time.Millisecond)
}
