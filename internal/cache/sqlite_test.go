package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mmwave/internal/atom"
)

var key = atom.ElementKey{N1: 6, L1: 0, J1: 0.5, N2: 6, L2: 1, J2: 1.5, Power: 1}

func TestMemoryRoundTrip(t *testing.T) {
	c, err := Open(Memory, "Cs133", 0.005)
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(key, -5.47))
	v, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, -5.47, v)

	require.NoError(t, c.Put(key, -5.48))
	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPartitionedByStep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "elements.db")

	fine, err := Open(path, "Cs133", 0.005)
	require.NoError(t, err)
	require.NoError(t, fine.Put(key, 1.5))
	require.NoError(t, fine.Close())

	coarse, err := Open(path, "Cs133", 0.01)
	require.NoError(t, err)
	defer coarse.Close()
	_, ok, err := coarse.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := Open(path, "Cs133", 0.005)
	require.NoError(t, err)
	defer again.Close()
	v, ok, err := again.Get(key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	require.NoError(t, again.Purge())
	n, err := again.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBacksAtom(t *testing.T) {
	c, err := Open(Memory, "Cs133", 0.005)
	require.NoError(t, err)
	defer c.Close()

	cs := atom.Cesium(atom.WithCache(c))
	r, err := cs.RadialMatrixElement(atom.Level{N: 6, L: 0, J: 0.5}, atom.Level{N: 6, L: 1, J: 1.5}, 1)
	require.NoError(t, err)

	n, err := c.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, ok, err := c.Get(atom.ElementKey{N1: 6, L1: 0, J1: 0.5, N2: 6, L2: 1, J2: 1.5, Power: 1})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, r, stored)
}
