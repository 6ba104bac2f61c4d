package octree3

import "github.com/mcserep/octree3/metrics"

// pointItem pairs an opaque payload with the point it was inserted
// under.
type pointItem[T comparable] struct {
	payload  T
	position V3
}

// pointNode is the recursive structure backing PointIndex. It mirrors
// boundsNode but has no looseness concept: its effective cell is
// exactly baseSide wide on every axis.
type pointNode[T comparable] struct {
	center   V3
	baseSide float32
	minSide  float32

	children *[8]*pointNode[T]
	items    []pointItem[T]
}

func newPointNode[T comparable](center V3, baseSide, minSide float32) *pointNode[T] {
	return &pointNode[T]{center: center, baseSide: baseSide, minSide: minSide}
}

func (n *pointNode[T]) cell() AABB {
	return NewAABB(n.center, V3{X: n.baseSide, Y: n.baseSide, Z: n.baseSide})
}

func (n *pointNode[T]) isLeaf() bool {
	return n.children == nil
}

func (n *pointNode[T]) add(payload T, position V3) bool {
	if !n.cell().Contains(position) {
		return false
	}
	n.addUnchecked(payload, position)
	return true
}

func (n *pointNode[T]) addUnchecked(payload T, position V3) {
	if n.isLeaf() {
		if len(n.items) < NumObjectsAllowed || n.baseSide/2 < n.minSide {
			n.items = append(n.items, pointItem[T]{payload: payload, position: position})
			return
		}
		n.split()
		n.addToChildOrKeep(payload, position)
		return
	}

	n.addToChildOrKeep(payload, position)
}

func (n *pointNode[T]) addToChildOrKeep(payload T, position V3) {
	if idx, ok := n.uniqueContainingChild(position); ok {
		n.children[idx].addUnchecked(payload, position)
		return
	}
	n.items = append(n.items, pointItem[T]{payload: payload, position: position})
}

func (n *pointNode[T]) split() {
	metrics.RecordSplit("point")
	childSide := n.baseSide / 2
	var children [8]*pointNode[T]
	for i := 0; i < 8; i++ {
		offset := octantSign(i).Mult(childSide / 2)
		children[i] = newPointNode[T](n.center.Add(offset), childSide, n.minSide)
	}
	n.children = &children

	oldItems := n.items
	n.items = nil
	for _, it := range oldItems {
		n.addToChildOrKeep(it.payload, it.position)
	}
}

func (n *pointNode[T]) uniqueContainingChild(p V3) (idx int, ok bool) {
	idx = -1
	for i, c := range n.children {
		if c.cell().Contains(p) {
			if idx != -1 {
				return 0, false
			}
			idx = i
		}
	}
	return idx, idx != -1
}

func (n *pointNode[T]) removeAny(payload T) bool {
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

func (n *pointNode[T]) removeAt(payload T, anchor V3) bool {
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

func (n *pointNode[T]) tryMerge() bool {
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
	metrics.RecordMerge("point")
	return true
}

func (n *pointNode[T]) itemCount() int {
	total := len(n.items)
	if !n.isLeaf() {
		for _, c := range n.children {
			total += c.itemCount()
		}
	}
	return total
}

func (n *pointNode[T]) collectItems(out *[]pointItem[T]) {
	*out = append(*out, n.items...)
	if !n.isLeaf() {
		for _, c := range n.children {
			c.collectItems(out)
		}
	}
}

func (n *pointNode[T]) collectBounds(out *[]AABB) {
	*out = append(*out, n.cell())
	if !n.isLeaf() {
		for _, c := range n.children {
			c.collectBounds(out)
		}
	}
}

func (n *pointNode[T]) maxDepth() int {
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

// nearbyPoint walks the subtree rooted at n, appending the payload of
// every item within radius of center, pruning subtrees whose cell
// doesn't intersect the query's bounding box.
func (n *pointNode[T]) nearbyPoint(center V3, radius float32, out *[]T) {
	queryBox := NewAABB(center, V3{X: radius * 2, Y: radius * 2, Z: radius * 2})
	if !n.cell().Intersects(queryBox) {
		return
	}
	for _, it := range n.items {
		if it.position.Distance(center) <= radius {
			*out = append(*out, it.payload)
		}
	}
	if !n.isLeaf() {
		for _, c := range n.children {
			c.nearbyPoint(center, radius, out)
		}
	}
}

// nearbyRay walks the subtree rooted at n, appending the payload of
// every item within radius of ray, pruning subtrees whose expanded
// cell the ray misses entirely.
func (n *pointNode[T]) nearbyRay(ray Ray, radius float32, out *[]T) {
	if !n.cell().Expand(radius * 2).IntersectRay(ray) {
		return
	}
	for _, it := range n.items {
		if ray.DistanceToPoint(it.position) <= radius {
			*out = append(*out, it.payload)
		}
	}
	if !n.isLeaf() {
		for _, c := range n.children {
			c.nearbyRay(ray, radius, out)
		}
	}
}
