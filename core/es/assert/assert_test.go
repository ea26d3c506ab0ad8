package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssert(t *testing.T) {
	mustBeTrue := True(true, "must be true")
	require.True(t, mustBeTrue.Eval())
	require.NoError(t, mustBeTrue.Check())
	require.Equal(t, "must be true", mustBeTrue.String())

	mustBeFalse := False(false, "must be false")
	require.True(t, mustBeFalse.Eval())
	require.NoError(t, mustBeFalse.Check())

	require.NoError(t, All(mustBeTrue, mustBeFalse).Check())

	failing := Condf(func() bool { return false }, "balance %d >= amount", 5)
	require.False(t, failing.Eval())
	require.ErrorContains(t, failing.Check(), "balance 5 >= amount")
	require.Error(t, All(mustBeTrue, failing).Check())
	require.True(t, Not(failing).Eval())

	require.Error(t, Assert(mustBeTrue, failing)())
}
