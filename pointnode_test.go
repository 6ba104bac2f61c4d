package octree3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointNode_SplitsAfterThreshold(t *testing.T) {
	n := newPointNode[int](V3{}, 16, 0.5)

	for i := 0; i < NumObjectsAllowed; i++ {
		c := float32(i) + 1
		assert.True(t, n.add(i, V3{c, c, c}))
	}
	assert.True(t, n.isLeaf())

	assert.True(t, n.add(NumObjectsAllowed, V3{6, 6, 6}))
	assert.False(t, n.isLeaf())
	assert.Equal(t, NumObjectsAllowed+1, n.itemCount())
}

func TestPointNode_SplitRefusedBelowMinSide(t *testing.T) {
	n := newPointNode[int](V3{}, 2, 4)
	for i := 0; i < NumObjectsAllowed+5; i++ {
		assert.True(t, n.add(i, V3{}))
	}
	assert.True(t, n.isLeaf())
}

func TestPointNode_RemoveMergesBackToLeaf(t *testing.T) {
	n := newPointNode[int](V3{}, 16, 0.5)
	for i := 0; i <= NumObjectsAllowed; i++ {
		c := float32(i) - 4
		n.add(i, V3{c, c, c})
	}
	assert.False(t, n.isLeaf())

	for i := 0; i <= NumObjectsAllowed; i++ {
		n.removeAny(i)
	}
	assert.True(t, n.isLeaf())
	assert.Equal(t, 0, n.itemCount())
}

func TestPointNode_RemovingStraddlerTriggersMerge(t *testing.T) {
	n := newPointNode[int](V3{}, 16, 0.5)
	for i := 0; i < NumObjectsAllowed; i++ {
		sign := func(bit int) float32 {
			if i&bit != 0 {
				return 3
			}
			return -3
		}
		assert.True(t, n.add(i, V3{sign(1), sign(2), sign(4)}))
	}
	// The origin sits on the boundary shared by all eight children, so
	// it stays at the parent after the split below, the same way a
	// straddling AABB does in the bounds tree.
	assert.True(t, n.add(NumObjectsAllowed, V3{}))
	assert.False(t, n.isLeaf(), "9 items, one straddling, should have split")

	assert.True(t, n.removeAny(NumObjectsAllowed))
	assert.True(t, n.isLeaf(), "removing the straddling parent item should drop the subtree back under threshold and merge")
	assert.Equal(t, NumObjectsAllowed, n.itemCount())
}

func TestPointNode_OutOfCellRejected(t *testing.T) {
	n := newPointNode[int](V3{}, 4, 0.5)
	assert.False(t, n.add(1, V3{10, 10, 10}))
}

func TestPointNode_CellHasNoLooseness(t *testing.T) {
	n := newPointNode[int](V3{}, 10, 1)
	assert.Equal(t, V3{10, 10, 10}, n.cell().Size)
}
