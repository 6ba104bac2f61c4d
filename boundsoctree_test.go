package octree3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsIndex_SelfCollisionAndMiss(t *testing.T) {
	idx, err := NewBoundsIndex[int](50, V3{}, 1, 1.0)
	require.NoError(t, err)

	for i := 1; i <= 99; i++ {
		c := float32(i)
		idx.Add(i, NewAABB(V3{c, c, c}, V3{}))
	}

	for i := 1; i <= 99; i++ {
		c := float32(i)
		assert.True(t, idx.IsColliding(NewAABB(V3{c, c, c}, V3{})), "item %d should collide with itself", i)
	}
	assert.False(t, idx.IsColliding(NewAABB(V3{100, 100, 100}, V3{})))
}

func TestBoundsIndex_GetCollidingCounts(t *testing.T) {
	idx, err := NewBoundsIndex[int](50, V3{}, 1, 1.0)
	require.NoError(t, err)

	for i := 1; i <= 99; i++ {
		c := float32(i)
		idx.Add(i, NewAABB(V3{c, c, c}, V3{}))
	}

	assert.Len(t, idx.GetColliding(NewAABB(V3{50, 50, 50}, V3{100, 100, 100})), 99)
	assert.Len(t, idx.GetColliding(NewAABB(V3{50, 50, 50}, V3{50, 50, 50})), 51)
}

func TestBoundsIndex_GetCollidingRayCounts(t *testing.T) {
	idx, err := NewBoundsIndex[int](50, V3{}, 1, 1.0)
	require.NoError(t, err)

	for i := 1; i <= 99; i++ {
		c := float32(i)
		idx.Add(i, NewAABB(V3{c, c, c}, V3{}))
	}

	originRay := NewRay(V3{}, V3{1, 1, 1})
	assert.Len(t, idx.GetCollidingRay(originRay, 2), 1)
	assert.Len(t, idx.GetCollidingRay(originRay, 5), 2)

	fromMiddle := NewRay(V3{50, 50, 50}, V3{1, 1, 1})
	assert.Len(t, idx.GetCollidingRay(fromMiddle, 5), 3)
}

func TestBoundsIndex_WideItemCollides(t *testing.T) {
	idx, err := NewBoundsIndex[int](50, V3{}, 1, 1.0)
	require.NoError(t, err)
	idx.Add(100, NewAABB(V3{5, 5, 5}, V3{10, 10, 20}))

	assert.True(t, idx.IsColliding(NewAABB(V3{15, 15, 15}, V3{10, 10, 10})))
}

func TestBoundsIndex_GrowAndShrinkRoundTrip(t *testing.T) {
	idx, err := NewBoundsIndex[int](50, V3{}, 1, 1.0)
	require.NoError(t, err)

	initialBounds := idx.MaxBounds()
	assert.Len(t, idx.GetChildBounds(), 1)

	var payloads []int
	for i := 1; i <= 99; i++ {
		c := float32(i)
		idx.Add(i, NewAABB(V3{c, c, c}, V3{1, 1, 1}))
		payloads = append(payloads, i)
	}

	assert.Equal(t, 99, idx.Count())
	assert.Greater(t, len(idx.GetChildBounds()), 1, "insertion spanning the whole diagonal should have grown and split the tree")
	assert.True(t, idx.MaxBounds().ContainsBox(NewAABB(V3{99, 99, 99}, V3{1, 1, 1})))

	for _, p := range payloads {
		assert.True(t, idx.Remove(p))
	}

	assert.Equal(t, 0, idx.Count())
	assert.Equal(t, initialBounds, idx.MaxBounds())
}

func TestBoundsIndex_ShrinkIsIdempotent(t *testing.T) {
	idx, err := NewBoundsIndex[int](50, V3{}, 1, 1.0)
	require.NoError(t, err)
	idx.Add(1, NewAABB(V3{200, 200, 200}, V3{1, 1, 1}))
	idx.Remove(1)

	first := idx.MaxBounds()
	idx.shrinkIfPossible()
	assert.Equal(t, first, idx.MaxBounds())
}

func TestBoundsIndex_RemoveAt(t *testing.T) {
	idx, err := NewBoundsIndex[string](50, V3{}, 1, 1.0)
	require.NoError(t, err)
	// Filling the root up to the split threshold first makes "a" split
	// the root and land in the +X+Y+Z child; a wrong anchor then leads
	// removeAt into the -X-Y-Z child, which only holds the fillers.
	for i := 0; i < NumObjectsAllowed; i++ {
		idx.Add(string(rune('b'+i)), NewAABB(V3{-10, -10, -10}, V3{}))
	}
	bounds := NewAABB(V3{3, 3, 3}, V3{1, 1, 1})
	idx.Add("a", bounds)

	assert.False(t, idx.RemoveAt("a", NewAABB(V3{-3, -3, -3}, V3{1, 1, 1})))
	assert.True(t, idx.RemoveAt("a", bounds))
	assert.Equal(t, NumObjectsAllowed, idx.Count())
}

func TestBoundsIndex_InvalidConfiguration(t *testing.T) {
	_, err := NewBoundsIndex[int](0, V3{}, 1, 1.0)
	assert.Error(t, err)

	_, err = NewBoundsIndex[int](10, V3{}, 0, 1.0)
	assert.Error(t, err)

	_, err = NewBoundsIndex[int](10, V3{}, 25, 1.5)
	assert.Error(t, err)
}

func TestBoundsIndex_MinNodeSizeLargerThanInitialClamps(t *testing.T) {
	idx, err := NewBoundsIndex[int](10, V3{}, 20, 1.0)
	require.NoError(t, err)
	assert.Equal(t, float32(10), idx.minSide)
}
