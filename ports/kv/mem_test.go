package kv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Memory(t *testing.T) {
	type Foo struct {
		Name string
		Age  int
	}
	s := NewMemStore()

	_, err := Get[Foo](t.Context(), s, "foobar")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, Put[Foo](t.Context(), s, "p1", Foo{Name: "P1", Age: 10}, PutOptions{}))
	require.NoError(t, Put[Foo](t.Context(), s, "p2", Foo{Name: "P2", Age: 20}, PutOptions{}))

	loaded, err := Get[Foo](t.Context(), s, "p1")
	require.NoError(t, err)
	require.Equal(t, Foo{Name: "P1", Age: 10}, loaded)

	require.NoError(t, s.Delete(t.Context(), "p1"))
	_, err = Get[Foo](t.Context(), s, "p1")
	require.ErrorIs(t, err, ErrNotFound)
}

func Test_Memory_Keys(t *testing.T) {
	s := NewMemStore()

	require.NoError(t, s.Put(t.Context(), "a.1", Entry{Data: []byte("x")}, PutOptions{}))
	require.NoError(t, s.Put(t.Context(), "a.2", Entry{Data: []byte("y")}, PutOptions{}))
	require.NoError(t, s.Put(t.Context(), "b.1", Entry{Data: []byte("z")}, PutOptions{}))

	keys, err := s.Keys(t.Context(), "a.")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a.1", "a.2"}, keys)
}

func Test_Memory_TTL(t *testing.T) {
	s := NewMemStore()

	require.NoError(t, s.Put(t.Context(), "k", Entry{Data: []byte("v")}, PutOptions{TTL: 10 * time.Millisecond}))

	_, err := s.Get(t.Context(), "k")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = s.Get(t.Context(), "k")
	require.ErrorIs(t, err, ErrNotFound)

	keys, err := s.Keys(t.Context(), "")
	require.NoError(t, err)
	require.Empty(t, keys)
}
