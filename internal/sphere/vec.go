package sphere

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-12

// NormalizeOrZero returns v scaled to unit length, or the zero vector when v
// is too short to normalize.
func NormalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Latitude returns the signed latitude of dir in radians; +Y is north.
func Latitude(dir mgl64.Vec3) float64 {
	n := NormalizeOrZero(dir)
	return math.Asin(mgl64.Clamp(n[1], -1, 1))
}

// East returns the local eastward unit tangent at pos. At the poles, where
// the Y axis is parallel to pos, the X axis stands in.
func East(pos mgl64.Vec3) mgl64.Vec3 {
	up := NormalizeOrZero(pos)
	e := mgl64.Vec3{0, 1, 0}.Cross(up)
	if e.Len() < 1e-6 {
		e = mgl64.Vec3{1, 0, 0}.Cross(up)
	}
	return NormalizeOrZero(e)
}

// North returns the local northward unit tangent at pos.
func North(pos mgl64.Vec3) mgl64.Vec3 {
	up := NormalizeOrZero(pos)
	return NormalizeOrZero(up.Cross(East(up)))
}

// ProjectTangent removes the component of v along the unit normal n.
func ProjectTangent(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// Chord is the straight-line distance between two unit vectors.
func Chord(a, b mgl64.Vec3) float64 {
	d := 2 * (1 - a.Dot(b))
	if d < 0 {
		return 0
	}
	return math.Sqrt(d)
}

// Lerp interpolates between two scalars.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Smoothstep is the cubic Hermite ease on t clamped to [0,1].
func Smoothstep(t float64) float64 {
	t = mgl64.Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}
