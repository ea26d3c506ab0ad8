package nats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/esrepo-go/core/es"
	"github.com/codewandler/esrepo-go/ports/kv"
)

func TestStore(t *testing.T) {
	type fooBar struct {
		Fruit string
		Count int
	}
	connectNats := NewTestContainer(t)
	store, err := NewStore(t.Context(), StoreConfig{
		Bucket:  "fruits",
		Connect: connectNats,
	})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = kv.Get[fooBar](t.Context(), store, "missing")
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, kv.Put(t.Context(), store, "apple", fooBar{Fruit: "apple", Count: 10}, kv.PutOptions{}))
	require.NoError(t, kv.Put(t.Context(), store, "pear", fooBar{Fruit: "pear", Count: 3}, kv.PutOptions{}))

	v, err := kv.Get[fooBar](t.Context(), store, "apple")
	require.NoError(t, err)
	require.Equal(t, fooBar{Fruit: "apple", Count: 10}, v)

	keys, err := store.Keys(t.Context(), "")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"apple", "pear"}, keys)

	require.NoError(t, store.Delete(t.Context(), "apple"))
	_, err = kv.Get[fooBar](t.Context(), store, "apple")
	require.ErrorIs(t, err, kv.ErrNotFound)

	keys, err = store.Keys(t.Context(), "")
	require.NoError(t, err)
	require.Equal(t, []string{"pear"}, keys)
}

func TestSnapshotBackend(t *testing.T) {
	connectNats := NewTestContainer(t)
	backend, err := NewSnapshotBackend(t.Context(), StoreConfig{
		Bucket:  "snapshots",
		Connect: connectNats,
	})
	require.NoError(t, err)

	_, err = backend.Load(t.Context(), "acc", "a1")
	require.ErrorIs(t, err, es.ErrSnapshotNotFound)

	ss := &es.Snapshot{
		SnapshotID: "s1",
		ObjID:      "a1",
		ObjType:    "acc",
		ObjVersion: 3,
		Encoding:   "json",
		Data:       []byte(`{"balance":42}`),
	}
	require.NoError(t, backend.Save(t.Context(), ss))

	loaded, err := backend.Load(t.Context(), "acc", "a1")
	require.NoError(t, err)
	require.Equal(t, es.Version(3), loaded.ObjVersion)
	require.JSONEq(t, `{"balance":42}`, string(loaded.Data))

	// bounded below the stored version falls back to not found
	_, err = backend.Load(t.Context(), "acc", "a1", es.WithMaxVersion(2))
	require.ErrorIs(t, err, es.ErrSnapshotNotFound)

	ids, err := backend.ListIDs(t.Context(), "acc")
	require.NoError(t, err)
	require.Equal(t, []string{"a1"}, ids)
}
