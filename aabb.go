package octree3

import "math"

// AABB is an axis-aligned bounding box described by its center and a
// non-negative size. Extents, min and max are always derived from
// these two fields, never stored separately, so an AABB can never
// drift out of sync with itself.
type AABB struct {
	Center V3
	Size   V3
}

// NewAABB builds an AABB from a center and a size. Negative size
// components are not rejected here; callers that build sizes from
// user input should clamp them to zero themselves.
func NewAABB(center, size V3) AABB {
	return AABB{Center: center, Size: size}
}

// NewAABBFromExtents builds an AABB from a center and half-extents.
func NewAABBFromExtents(center, extents V3) AABB {
	return AABB{Center: center, Size: extents.Mult(2)}
}

func (b AABB) Extents() V3 {
	return b.Size.Mult(0.5)
}

func (b AABB) Min() V3 {
	return b.Center.Sub(b.Extents())
}

func (b AABB) Max() V3 {
	return b.Center.Add(b.Extents())
}

// Contains reports whether point lies inside b, inclusive of every
// face.
func (b AABB) Contains(point V3) bool {
	min, max := b.Min(), b.Max()
	return point.X >= min.X && point.X <= max.X &&
		point.Y >= min.Y && point.Y <= max.Y &&
		point.Z >= min.Z && point.Z <= max.Z
}

// ContainsBox reports whether other lies entirely inside b, inclusive
// of touching faces.
func (b AABB) ContainsBox(other AABB) bool {
	bMin, bMax := b.Min(), b.Max()
	oMin, oMax := other.Min(), other.Max()
	return bMin.X <= oMin.X && bMax.X >= oMax.X &&
		bMin.Y <= oMin.Y && bMax.Y >= oMax.Y &&
		bMin.Z <= oMin.Z && bMax.Z >= oMax.Z
}

// Intersects reports whether b and other overlap on all three axes.
// Touching faces count as intersecting.
func (b AABB) Intersects(other AABB) bool {
	bMin, bMax := b.Min(), b.Max()
	oMin, oMax := other.Min(), other.Max()
	return bMin.X <= oMax.X && oMin.X <= bMax.X &&
		bMin.Y <= oMax.Y && oMin.Y <= bMax.Y &&
		bMin.Z <= oMax.Z && oMin.Z <= bMax.Z
}

// Encapsulate returns the smallest AABB that contains both b and
// point.
func (b AABB) Encapsulate(point V3) AABB {
	min := b.Min().Min(point)
	max := b.Max().Max(point)
	return aabbFromMinMax(min, max)
}

// EncapsulateBox returns the smallest AABB that contains both b and
// other.
func (b AABB) EncapsulateBox(other AABB) AABB {
	min := b.Min().Min(other.Min())
	max := b.Max().Max(other.Max())
	return aabbFromMinMax(min, max)
}

// Expand grows b's size uniformly by amount along every axis, keeping
// the center fixed.
func (b AABB) Expand(amount float32) AABB {
	return AABB{Center: b.Center, Size: b.Size.Add(V3{amount, amount, amount})}
}

// SetMinMax returns the AABB whose min/max corners are exactly the
// given points.
func (b AABB) SetMinMax(min, max V3) AABB {
	return aabbFromMinMax(min, max)
}

func aabbFromMinMax(min, max V3) AABB {
	center := min.Add(max).Mult(0.5)
	size := max.Sub(min)
	return AABB{Center: center, Size: size}
}

// IntersectRay reports whether ray hits b, using the slab method
// across X, Y and Z. A ray tangent to a face counts as a hit.
func (b AABB) IntersectRay(r Ray) bool {
	hit, _ := b.intersectRayT(r)
	return hit
}

// intersectRayT returns whether r hits b and, when it does, the
// entry distance along r (clamped to 0 when the origin is already
// inside b).
func (b AABB) intersectRayT(r Ray) (bool, float32) {
	min, max := b.Min(), b.Max()

	tMin := float32(math.Inf(-1))
	tMax := float32(math.Inf(1))

	for axis := 0; axis < 3; axis++ {
		origin := component(r.Origin, axis)
		dir := component(r.Direction, axis)
		lo := component(min, axis)
		hi := component(max, axis)

		if dir == 0 {
			if origin < lo || origin > hi {
				return false, 0
			}
			continue
		}

		inv := 1 / dir
		t1 := (lo - origin) * inv
		t2 := (hi - origin) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = fmax32(tMin, t1)
		tMax = fmin32(tMax, t2)
	}

	if tMin > tMax || tMax < 0 {
		return false, 0
	}
	return true, fmax32(tMin, 0)
}

func component(v V3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
