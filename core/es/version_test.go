package es

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	v1, v2 := Version(1), Version(2)
	require.True(t, v1 < v2)
	require.Equal(t, uint64(1), v1.Uint64())

	data, err := json.Marshal(v2)
	require.NoError(t, err)
	require.Equal(t, `2`, string(data))

	var x Version
	require.NoError(t, json.Unmarshal([]byte("77"), &x))
	require.Equal(t, Version(77), x)
}
