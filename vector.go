package octree3

import (
	"fmt"
	"math"
)

// V3 is a 3-D point/vector with single-precision components. It is the
// value type every AABB, Ray and Node in this package is built on top
// of.
type V3 struct {
	X, Y, Z float32
}

func (v V3) String() string {
	return fmt.Sprintf("%f,%f,%f", v.X, v.Y, v.Z)
}

// Equal reports approximate equality: the squared distance between the
// two points must be smaller than 1e-10.
func (v V3) Equal(other V3) bool {
	return v.DistanceSq(other) < 1e-10
}

func (v V3) Add(other V3) V3 {
	return V3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v V3) Sub(other V3) V3 {
	return V3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

func (v V3) Neg() V3 {
	return V3{-v.X, -v.Y, -v.Z}
}

func (v V3) Mult(s float32) V3 {
	return V3{v.X * s, v.Y * s, v.Z * s}
}

func (v V3) Div(s float32) V3 {
	return V3{v.X / s, v.Y / s, v.Z / s}
}

func (v V3) Dot(other V3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v V3) Cross(other V3) V3 {
	return V3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

func (v V3) LengthSq() float32 {
	return v.Dot(v)
}

func (v V3) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSq())))
}

// Normalize returns a unit-length copy of v, or the zero vector if v is
// too small to normalize safely.
func (v V3) Normalize() V3 {
	l := v.Length()
	if l < 1e-5 {
		return V3{}
	}
	return v.Mult(1 / l)
}

func (v V3) Distance(other V3) float32 {
	return v.Sub(other).Length()
}

func (v V3) DistanceSq(other V3) float32 {
	return v.Sub(other).LengthSq()
}

// Min returns the componentwise minimum of v and other.
func (v V3) Min(other V3) V3 {
	return V3{
		fmin32(v.X, other.X),
		fmin32(v.Y, other.Y),
		fmin32(v.Z, other.Z),
	}
}

// Max returns the componentwise maximum of v and other.
func (v V3) Max(other V3) V3 {
	return V3{
		fmax32(v.X, other.X),
		fmax32(v.Y, other.Y),
		fmax32(v.Z, other.Z),
	}
}

// Sign returns the componentwise sign of v, mapping a zero component to
// +1 so it can be used directly to pick a grow octant.
func (v V3) Sign() V3 {
	return V3{signOrPositive(v.X), signOrPositive(v.Y), signOrPositive(v.Z)}
}

func signOrPositive(f float32) float32 {
	if f < 0 {
		return -1
	}
	return 1
}

func fmin32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func fmax32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func clamp32(f, lo, hi float32) float32 {
	return fmax32(lo, fmin32(f, hi))
}
