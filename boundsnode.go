package octree3

import "github.com/mcserep/octree3/metrics"

// boundsItem pairs an opaque payload with the AABB it was inserted
// under.
type boundsItem[T comparable] struct {
	payload T
	bounds  AABB
}

// boundsNode is the recursive structure backing BoundsIndex. It is
// either a leaf (children == nil) or an internal node, but an
// internal node may still hold items directly in items: anything
// whose bounds straddle more than one child stays at the parent
// rather than being duplicated or shrunk to fit.
type boundsNode[T comparable] struct {
	center    V3
	baseSide  float32
	looseness float32
	minSide   float32

	children *[8]*boundsNode[T]
	items    []boundsItem[T]
}

func newBoundsNode[T comparable](center V3, baseSide, minSide, looseness float32) *boundsNode[T] {
	return &boundsNode[T]{
		center:    center,
		baseSide:  baseSide,
		minSide:   minSide,
		looseness: looseness,
	}
}

// bounds is the node's effective cell: baseSide*looseness centered at
// center. Looseness inflates the cell beyond baseSide so items sitting
// near a boundary don't thrash between split and merge as they move.
func (n *boundsNode[T]) bounds() AABB {
	side := n.baseSide * n.looseness
	return NewAABB(n.center, V3{X: side, Y: side, Z: side})
}

func (n *boundsNode[T]) isLeaf() bool {
	return n.children == nil
}

// add reports false iff itemBounds is not fully contained in n's
// effective cell — the caller (the container) must then grow the root
// and retry.
func (n *boundsNode[T]) add(payload T, itemBounds AABB) bool {
	if !n.bounds().ContainsBox(itemBounds) {
		return false
	}
	n.addUnchecked(payload, itemBounds)
	return true
}

// addUnchecked places an item that is already known to fit in n's
// cell, splitting or descending as needed.
func (n *boundsNode[T]) addUnchecked(payload T, itemBounds AABB) {
	if n.isLeaf() {
		if len(n.items) < NumObjectsAllowed || n.baseSide/2 < n.minSide {
			n.items = append(n.items, boundsItem[T]{payload: payload, bounds: itemBounds})
			return
		}
		n.split()
		n.addToChildOrKeep(payload, itemBounds)
		return
	}

	n.addToChildOrKeep(payload, itemBounds)
}

func (n *boundsNode[T]) addToChildOrKeep(payload T, itemBounds AABB) {
	if idx, ok := n.uniqueContainingChild(itemBounds); ok {
		n.children[idx].addUnchecked(payload, itemBounds)
		return
	}
	n.items = append(n.items, boundsItem[T]{payload: payload, bounds: itemBounds})
}

// split subdivides n into eight fresh children of half n's base side,
// re-homing n's existing items into whichever child fully contains
// them.
func (n *boundsNode[T]) split() {
	metrics.RecordSplit("bounds")
	childSide := n.baseSide / 2
	var children [8]*boundsNode[T]
	for i := 0; i < 8; i++ {
		offset := octantSign(i).Mult(childSide / 2)
		children[i] = newBoundsNode[T](n.center.Add(offset), childSide, n.minSide, n.looseness)
	}
	n.children = &children

	oldItems := n.items
	n.items = nil
	for _, it := range oldItems {
		n.addToChildOrKeep(it.payload, it.bounds)
	}
}

// uniqueContainingChild returns the single child whose effective cell
// fully contains b. If zero or more than one child qualifies, ok is
// false and the item must stay in n.items.
func (n *boundsNode[T]) uniqueContainingChild(b AABB) (idx int, ok bool) {
	idx = -1
	for i, c := range n.children {
		if c.bounds().ContainsBox(b) {
			if idx != -1 {
				return 0, false
			}
			idx = i
		}
	}
	return idx, idx != -1
}

// removeAny does a full scan for payload, unbounded by geometry: it
// checks n.items and then recurses into every child in turn until it
// finds a match.
func (n *boundsNode[T]) removeAny(payload T) bool {
	for i, it := range n.items {
		if it.payload == payload {
			n.items = append(n.items[:i], n.items[i+1:]...)
			n.tryMerge()
			return true
		}
	}
	if n.isLeaf() {
		return false
	}
	for _, c := range n.children {
		if c.removeAny(payload) {
			n.tryMerge()
			return true
		}
	}
	return false
}

// removeAt descends only into the unique child whose cell contains
// anchor, which is faster than removeAny's full scan when the caller
// still knows the item's last-inserted bounds.
func (n *boundsNode[T]) removeAt(payload T, anchor AABB) bool {
	for i, it := range n.items {
		if it.payload == payload {
			n.items = append(n.items[:i], n.items[i+1:]...)
			n.tryMerge()
			return true
		}
	}
	if n.isLeaf() {
		return false
	}
	idx, ok := n.uniqueContainingChild(anchor)
	if !ok {
		return false
	}
	if n.children[idx].removeAt(payload, anchor) {
		n.tryMerge()
		return true
	}
	return false
}

// tryMerge collapses n back into a leaf when every child is itself a
// leaf and the whole subtree holds at most NumObjectsAllowed items.
func (n *boundsNode[T]) tryMerge() bool {
	if n.isLeaf() {
		return false
	}
	total := len(n.items)
	for _, c := range n.children {
		if !c.isLeaf() {
			return false
		}
		total += len(c.items)
	}
	if total > NumObjectsAllowed {
		return false
	}
	for _, c := range n.children {
		n.items = append(n.items, c.items...)
	}
	n.children = nil
	metrics.RecordMerge("bounds")
	return true
}

func (n *boundsNode[T]) itemCount() int {
	total := len(n.items)
	if !n.isLeaf() {
		for _, c := range n.children {
			total += c.itemCount()
		}
	}
	return total
}

func (n *boundsNode[T]) collectItems(out *[]boundsItem[T]) {
	*out = append(*out, n.items...)
	if !n.isLeaf() {
		for _, c := range n.children {
			c.collectItems(out)
		}
	}
}

// collectBounds appends the effective cell of n and every descendant,
// depth-first, for BoundsIndex.GetChildBounds.
func (n *boundsNode[T]) collectBounds(out *[]AABB) {
	*out = append(*out, n.bounds())
	if !n.isLeaf() {
		for _, c := range n.children {
			c.collectBounds(out)
		}
	}
}

func (n *boundsNode[T]) maxDepth() int {
	if n.isLeaf() {
		return 1
	}
	max := 0
	for _, c := range n.children {
		if d := c.maxDepth(); d > max {
			max = d
		}
	}
	return max + 1
}

// collideAABB walks the subtree rooted at n, appending the payload of
// every item whose bounds intersects query, pruning whole subtrees
// whose effective cell doesn't intersect query at all.
func (n *boundsNode[T]) collideAABB(query AABB, out *[]T) {
	if !n.bounds().Intersects(query) {
		return
	}
	for _, it := range n.items {
		if it.bounds.Intersects(query) {
			*out = append(*out, it.payload)
		}
	}
	if !n.isLeaf() {
		for _, c := range n.children {
			c.collideAABB(query, out)
		}
	}
}

func (n *boundsNode[T]) isCollidingAABB(query AABB) bool {
	if !n.bounds().Intersects(query) {
		return false
	}
	for _, it := range n.items {
		if it.bounds.Intersects(query) {
			return true
		}
	}
	if !n.isLeaf() {
		for _, c := range n.children {
			if c.isCollidingAABB(query) {
				return true
			}
		}
	}
	return false
}

// collideRay walks the subtree rooted at n, appending the payload of
// every item whose bounds is hit by ray within maxDistance, pruning
// both by cell intersection and by maxDistance.
func (n *boundsNode[T]) collideRay(ray Ray, maxDistance float32, out *[]T) {
	hit, t := n.bounds().intersectRayT(ray)
	if !hit || t > maxDistance {
		return
	}
	for _, it := range n.items {
		if ih, it2 := it.bounds.intersectRayT(ray); ih && it2 <= maxDistance {
			*out = append(*out, it.payload)
		}
	}
	if !n.isLeaf() {
		for _, c := range n.children {
			c.collideRay(ray, maxDistance, out)
		}
	}
}

func (n *boundsNode[T]) isCollidingRay(ray Ray, maxDistance float32) bool {
	hit, t := n.bounds().intersectRayT(ray)
	if !hit || t > maxDistance {
		return false
	}
	for _, it := range n.items {
		if ih, it2 := it.bounds.intersectRayT(ray); ih && it2 <= maxDistance {
			return true
		}
	}
	if !n.isLeaf() {
		for _, c := range n.children {
			if c.isCollidingRay(ray, maxDistance) {
				return true
			}
		}
	}
	return false
}
