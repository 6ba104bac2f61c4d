package octree3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDiagonalPointIndex(t *testing.T) *PointIndex[int] {
	idx, err := NewPointIndex[int](50, V3{}, 1)
	require.NoError(t, err)
	for i := 1; i <= 99; i++ {
		c := float32(i)
		require.True(t, idx.Add(i, V3{c, c, c}))
	}
	return idx
}

func TestPointIndex_NearbyExactRadiusZero(t *testing.T) {
	idx := buildDiagonalPointIndex(t)

	for i := 1; i <= 99; i++ {
		c := float32(i)
		assert.Len(t, idx.GetNearby(V3{c, c, c}, 0), 1, "i=%d", i)
	}
	assert.Len(t, idx.GetNearby(V3{100, 100, 100}, 0), 0)
}

func TestPointIndex_NearbyMissAndRanges(t *testing.T) {
	idx := buildDiagonalPointIndex(t)

	assert.Len(t, idx.GetNearby(V3{0.5, 0.5, 0.5}, 0.2), 0)
	assert.Len(t, idx.GetNearby(V3{50, 50, 50}, 100), 99)
	assert.Len(t, idx.GetNearby(V3{50, 50, 50}, 10), 11)
}

func TestPointIndex_NearbyRay(t *testing.T) {
	idx := buildDiagonalPointIndex(t)

	onDiagonal := NewRay(V3{}, V3{1, 1, 1})
	assert.Len(t, idx.GetNearbyRay(onDiagonal, 0), 99)

	alongX := NewRay(V3{}, V3{1, 0, 0})
	assert.Len(t, idx.GetNearbyRay(alongX, 0), 0)

	skew := NewRay(V3{100, 0, 0}, V3{-1, 1, 1})
	assert.Len(t, idx.GetNearbyRay(skew, 0), 1)
}

func TestPointIndex_GrowAndShrinkRoundTrip(t *testing.T) {
	idx := buildDiagonalPointIndex(t)

	initial, err := NewPointIndex[int](50, V3{}, 1)
	require.NoError(t, err)
	initialBounds := initial.MaxBounds()

	assert.Equal(t, 99, idx.Count())
	assert.Greater(t, len(idx.GetChildBounds()), 1)

	for i := 1; i <= 99; i++ {
		assert.True(t, idx.Remove(i))
	}

	assert.Equal(t, 0, idx.Count())
	assert.Equal(t, initialBounds, idx.MaxBounds())
}

func TestPointIndex_RemoveAt(t *testing.T) {
	idx, err := NewPointIndex[string](50, V3{}, 1)
	require.NoError(t, err)
	// Filling the root up to the split threshold first makes "a" split
	// the root and land in the +X+Y+Z child; a wrong anchor then leads
	// removeAt into the -X-Y-Z child, which only holds the fillers.
	for i := 0; i < NumObjectsAllowed; i++ {
		idx.Add(string(rune('b'+i)), V3{-10, -10, -10})
	}
	idx.Add("a", V3{3, 3, 3})

	assert.False(t, idx.RemoveAt("a", V3{-3, -3, -3}))
	assert.True(t, idx.RemoveAt("a", V3{3, 3, 3}))
	assert.Equal(t, NumObjectsAllowed, idx.Count())
}

func TestPointIndex_InvalidConfiguration(t *testing.T) {
	_, err := NewPointIndex[int](0, V3{}, 1)
	assert.Error(t, err)

	_, err = NewPointIndex[int](10, V3{}, 0)
	assert.Error(t, err)
}
