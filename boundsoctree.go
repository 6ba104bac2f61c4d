package octree3

import "github.com/mcserep/octree3/metrics"

// BoundsIndex is a dynamic octree indexing payloads tagged by an
// axis-aligned bounding box, with optional looseness.
type BoundsIndex[T comparable] struct {
	root *boundsNode[T]

	initialSize   float32
	initialCenter V3
	minSide       float32
	looseness     float32

	count int
}

// NewBoundsIndex builds a BoundsIndex. It fails with an
// InvalidConfiguration error when minNodeSize or initialSize are not
// positive, or when looseness and minNodeSize cannot be reconciled
// with initialSize; it only warns and clamps when minNodeSize simply
// exceeds initialSize.
func NewBoundsIndex[T comparable](initialSize float32, initialCenter V3, minNodeSize float32, looseness float32) (*BoundsIndex[T], error) {
	minSide, clampedLooseness, err := validateConfiguration(initialSize, initialCenter, minNodeSize, looseness)
	if err != nil {
		return nil, err
	}

	return &BoundsIndex[T]{
		root:          newBoundsNode[T](initialCenter, initialSize, minSide, clampedLooseness),
		initialSize:   initialSize,
		initialCenter: initialCenter,
		minSide:       minSide,
		looseness:     clampedLooseness,
	}, nil
}

// Add inserts payload under bounds, growing the root (doubling it, up
// to MaxGrowAttempts times) until it fully contains bounds. It
// returns false, without mutating Count, if bounds could not be
// contained even after exhausting grow attempts.
func (idx *BoundsIndex[T]) Add(payload T, bounds AABB) bool {
	if idx.root.add(payload, bounds) {
		idx.count++
		return true
	}

	for i := 0; i < MaxGrowAttempts; i++ {
		idx.grow(bounds.Center)
		if idx.root.add(payload, bounds) {
			idx.count++
			return true
		}
	}

	metrics.RecordAddOverflow("bounds")
	logGrowExhausted("bounds", MaxGrowAttempts)
	return false
}

// grow doubles the root, placing the current root as the child of the
// new, bigger root that sits on the opposite side of the growth
// direction (the escaping item's anchor is on the `dir` side of the
// old center, so the old root — which still covers the same physical
// region — ends up on the `-dir` side of the new, recentered root).
func (idx *BoundsIndex[T]) grow(itemAnchor V3) {
	dir := itemAnchor.Sub(idx.root.center).Sign()
	oldBaseSide := idx.root.baseSide
	newCenter := idx.root.center.Add(dir.Mult(oldBaseSide / 2))
	newRoot := newBoundsNode[T](newCenter, oldBaseSide*2, idx.minSide, idx.looseness)

	if idx.root.itemCount() > 0 {
		oldRootOctant := octantIndex(dir.Neg())
		var children [8]*boundsNode[T]
		for i := 0; i < 8; i++ {
			if i == oldRootOctant {
				children[i] = idx.root
				continue
			}
			offset := octantSign(i).Mult(oldBaseSide / 2)
			children[i] = newBoundsNode[T](newCenter.Add(offset), oldBaseSide, idx.minSide, idx.looseness)
		}
		newRoot.children = &children
	}

	idx.root = newRoot
	metrics.RecordGrow("bounds")
}

// Remove removes the first item found anywhere in the tree whose
// payload equals the given one.
func (idx *BoundsIndex[T]) Remove(payload T) bool {
	if !idx.root.removeAny(payload) {
		return false
	}
	idx.count--
	idx.shrinkIfPossible()
	return true
}

// RemoveAt removes payload, descending only into the unique child
// containing bounds. It is faster than Remove when the caller still
// knows the item's last-inserted bounds.
func (idx *BoundsIndex[T]) RemoveAt(payload T, bounds AABB) bool {
	if !idx.root.removeAt(payload, bounds) {
		return false
	}
	idx.count--
	idx.shrinkIfPossible()
	return true
}

// shrinkIfPossible walks the root down into whichever child still
// contains every remaining item, for as long as a unique such child
// exists and the root is bigger than the container's initial size.
// When the tree has just become empty it resets directly to the
// container's original root rather than attempting to pick a shrink
// target: with zero items left, every child of an empty subtree
// trivially "contains all remaining items", so no child is uniquely
// correct — resetting is the only choice that reliably returns
// MaxBounds to exactly the initial cell once everything has been
// removed, regardless of removal order.
func (idx *BoundsIndex[T]) shrinkIfPossible() {
	if idx.count == 0 {
		idx.root = newBoundsNode[T](idx.initialCenter, idx.initialSize, idx.minSide, idx.looseness)
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
		metrics.RecordShrink("bounds")
	}
}

// bestShrinkChild finds the unique child whose effective cell contains
// every item left in the tree and whose subtree holds all of them, so
// that no item stored in the root or in a sibling is left behind.
func (idx *BoundsIndex[T]) bestShrinkChild() (int, bool) {
	var items []boundsItem[T]
	idx.root.collectItems(&items)

	best := -1
	for i, c := range idx.root.children {
		cell := c.bounds()
		fits := true
		for _, it := range items {
			if !cell.ContainsBox(it.bounds) {
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

// IsColliding reports whether any item's bounds intersects query,
// without collecting the matches.
func (idx *BoundsIndex[T]) IsColliding(query AABB) bool {
	defer metrics.ObserveQuery("bounds", "bounds")()
	return idx.root.isCollidingAABB(query)
}

// GetColliding returns every payload whose bounds intersects query.
func (idx *BoundsIndex[T]) GetColliding(query AABB) []T {
	defer metrics.ObserveQuery("bounds", "bounds")()
	var out []T
	idx.root.collideAABB(query, &out)
	return out
}

// WalkColliding calls visit for every payload whose bounds intersects
// query, as a callback-style alternative to GetColliding. The matches
// are first collected into a slice, so it allocates the same result
// slice GetColliding does.
func (idx *BoundsIndex[T]) WalkColliding(query AABB, visit func(T)) {
	defer metrics.ObserveQuery("bounds", "bounds")()
	var out []T
	idx.root.collideAABB(query, &out)
	for _, payload := range out {
		visit(payload)
	}
}

// IsCollidingRay reports whether any item's bounds intersects ray
// within maxDistance.
func (idx *BoundsIndex[T]) IsCollidingRay(ray Ray, maxDistance float32) bool {
	defer metrics.ObserveQuery("bounds", "ray")()
	return idx.root.isCollidingRay(ray, maxDistance)
}

// GetCollidingRay returns every payload whose bounds intersects ray
// within maxDistance.
func (idx *BoundsIndex[T]) GetCollidingRay(ray Ray, maxDistance float32) []T {
	defer metrics.ObserveQuery("bounds", "ray")()
	var out []T
	idx.root.collideRay(ray, maxDistance, &out)
	return out
}

// Count returns the number of items currently stored.
func (idx *BoundsIndex[T]) Count() int {
	return idx.count
}

// MaxBounds returns the root's effective cell.
func (idx *BoundsIndex[T]) MaxBounds() AABB {
	return idx.root.bounds()
}

// GetChildBounds returns the effective cell of every live node,
// depth-first.
func (idx *BoundsIndex[T]) GetChildBounds() []AABB {
	var out []AABB
	idx.root.collectBounds(&out)
	return out
}

// AllItems returns every payload currently stored, in no particular
// order.
func (idx *BoundsIndex[T]) AllItems() []T {
	var items []boundsItem[T]
	idx.root.collectItems(&items)
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.payload
	}
	return out
}

// MaxDepth returns the depth of the deepest leaf, counting the root as
// depth 1.
func (idx *BoundsIndex[T]) MaxDepth() int {
	return idx.root.maxDepth()
}
