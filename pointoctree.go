package octree3

import "github.com/mcserep/octree3/metrics"

// PointIndex is a dynamic octree indexing payloads tagged by a single
// point, with no looseness concept.
type PointIndex[T comparable] struct {
	root *pointNode[T]

	initialSize   float32
	initialCenter V3
	minSide       float32

	count int
}

// NewPointIndex builds a PointIndex. Looseness does not apply to point
// trees, so only initialSize, initialCenter and minNodeSize are
// validated.
func NewPointIndex[T comparable](initialSize float32, initialCenter V3, minNodeSize float32) (*PointIndex[T], error) {
	minSide, _, err := validateConfiguration(initialSize, initialCenter, minNodeSize, 1)
	if err != nil {
		return nil, err
	}

	return &PointIndex[T]{
		root:          newPointNode[T](initialCenter, initialSize, minSide),
		initialSize:   initialSize,
		initialCenter: initialCenter,
		minSide:       minSide,
	}, nil
}

// Add inserts payload at position, growing the root until it contains
// position.
func (idx *PointIndex[T]) Add(payload T, position V3) bool {
	if idx.root.add(payload, position) {
		idx.count++
		return true
	}

	for i := 0; i < MaxGrowAttempts; i++ {
		idx.grow(position)
		if idx.root.add(payload, position) {
			idx.count++
			return true
		}
	}

	metrics.RecordAddOverflow("point")
	logGrowExhausted("point", MaxGrowAttempts)
	return false
}

// grow doubles the root. Unlike the bounds tree, the point tree always
// subdivides into eight children on grow, even when the current root
// is empty: an empty point-tree root still costs nothing extra to
// subdivide, since there's no looseness-inflated cell to keep
// collapsed the way there is for BoundsIndex.grow.
func (idx *PointIndex[T]) grow(itemAnchor V3) {
	dir := itemAnchor.Sub(idx.root.center).Sign()
	oldBaseSide := idx.root.baseSide
	newCenter := idx.root.center.Add(dir.Mult(oldBaseSide / 2))
	newRoot := newPointNode[T](newCenter, oldBaseSide*2, idx.minSide)

	oldRootOctant := octantIndex(dir.Neg())
	var children [8]*pointNode[T]
	for i := 0; i < 8; i++ {
		if i == oldRootOctant {
			children[i] = idx.root
			continue
		}
		offset := octantSign(i).Mult(oldBaseSide / 2)
		children[i] = newPointNode[T](newCenter.Add(offset), oldBaseSide, idx.minSide)
	}
	newRoot.children = &children

	idx.root = newRoot
	metrics.RecordGrow("point")
}

// Remove removes the first item found anywhere in the tree whose
// payload equals the given one.
func (idx *PointIndex[T]) Remove(payload T) bool {
	if !idx.root.removeAny(payload) {
		return false
	}
	idx.count--
	idx.shrinkIfPossible()
	return true
}

// RemoveAt removes payload, descending only into the unique child
// containing position.
func (idx *PointIndex[T]) RemoveAt(payload T, position V3) bool {
	if !idx.root.removeAt(payload, position) {
		return false
	}
	idx.count--
	idx.shrinkIfPossible()
	return true
}

// shrinkIfPossible mirrors BoundsIndex.shrinkIfPossible: an emptied
// tree resets straight to the original root rather than picking among
// equally-empty children.
func (idx *PointIndex[T]) shrinkIfPossible() {
	if idx.count == 0 {
		idx.root = newPointNode[T](idx.initialCenter, idx.initialSize, idx.minSide)
		return
	}

	for {
		if idx.root.baseSide/2 < idx.initialSize || idx.root.isLeaf() {
			return
		}
		bestIdx, ok := idx.bestShrinkChild()
		if !ok {
			return
		}
		idx.root = idx.root.children[bestIdx]
		metrics.RecordShrink("point")
	}
}

func (idx *PointIndex[T]) bestShrinkChild() (int, bool) {
	var items []pointItem[T]
	idx.root.collectItems(&items)

	best := -1
	for i, c := range idx.root.children {
		cell := c.cell()
		fits := true
		for _, it := range items {
			if !cell.Contains(it.position) {
				fits = false
				break
			}
		}
		if fits && c.itemCount() == len(items) {
			if best != -1 {
				return 0, false
			}
			best = i
		}
	}
	return best, best != -1
}

// GetNearby returns every payload within radius of center.
func (idx *PointIndex[T]) GetNearby(center V3, radius float32) []T {
	defer metrics.ObserveQuery("point", "radius")()
	var out []T
	idx.root.nearbyPoint(center, radius, &out)
	return out
}

// GetNearbyRay returns every payload within radius of ray.
func (idx *PointIndex[T]) GetNearbyRay(ray Ray, radius float32) []T {
	defer metrics.ObserveQuery("point", "ray")()
	var out []T
	idx.root.nearbyRay(ray, radius, &out)
	return out
}

// WalkNearby calls visit for every payload within radius of center
// (the callback-style counterpart to GetNearby, mirrored on
// BoundsIndex.WalkColliding). The matches are first collected into a
// slice, so it allocates the same result slice GetNearby does.
func (idx *PointIndex[T]) WalkNearby(center V3, radius float32, visit func(T)) {
	defer metrics.ObserveQuery("point", "radius")()
	var out []T
	idx.root.nearbyPoint(center, radius, &out)
	for _, payload := range out {
		visit(payload)
	}
}

// Count returns the number of items currently stored.
func (idx *PointIndex[T]) Count() int {
	return idx.count
}

// MaxBounds returns the root's cell.
func (idx *PointIndex[T]) MaxBounds() AABB {
	return idx.root.cell()
}

// GetChildBounds returns the cell of every live node, depth-first.
func (idx *PointIndex[T]) GetChildBounds() []AABB {
	var out []AABB
	idx.root.collectBounds(&out)
	return out
}

// AllItems returns every payload currently stored, in no particular
// order.
func (idx *PointIndex[T]) AllItems() []T {
	var items []pointItem[T]
	idx.root.collectItems(&items)
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.payload
	}
	return out
}

// MaxDepth returns the depth of the deepest leaf, counting the root as
// depth 1.
func (idx *PointIndex[T]) MaxDepth() int {
	return idx.root.maxDepth()
}
