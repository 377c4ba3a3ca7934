package binding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeRestoreRoundTrip(t *testing.T) {
	g := NewGroup(Uniform([]byte{1, 2, 3, 4}), Empty())

	e, err := g.Take(0)
	require.NoError(t, err)
	assert.Equal(t, KindUniform, e.Kind())
	assert.Equal(t, []byte{1, 2, 3, 4}, e.UniformBytes())

	err = g.Restore(0, e)
	require.NoError(t, err)
	assert.NoError(t, g.CheckRestored())
}

func TestCheckRestoredFailsWhenNotGivenBack(t *testing.T) {
	g := NewGroup(Uniform([]byte{1}))
	_, err := g.Take(0)
	require.NoError(t, err)

	err = g.CheckRestored()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBindingNotRestored))
}

func TestTableChecksAllGroups(t *testing.T) {
	tbl := NewTable()
	g0 := NewGroup(Empty())
	g1 := NewGroup(Uniform([]byte{9}))
	tbl.SetGroup(0, g0)
	tbl.SetGroup(1, g1)

	_, err := g1.Take(0)
	require.NoError(t, err)

	err = tbl.CheckAllRestored()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBindingNotRestored))
}

func TestTakeOutOfRange(t *testing.T) {
	g := NewGroup(Empty())
	_, err := g.Take(5)
	require.Error(t, err)
}
