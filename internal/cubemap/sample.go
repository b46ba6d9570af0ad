package cubemap

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"

	"github.com/talgya/planetgen/internal/sphere"
)

// LerpFunc blends two values by t ∈ [0,1].
type LerpFunc[T any] func(a, b T, t float64) T

// LerpScalar blends floats.
func LerpScalar(a, b, t float64) float64 { return a + (b-a)*t }

// LerpVec blends vectors component-wise.
func LerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 { return a.Add(b.Sub(a).Mul(t)) }

// Sample bilinearly interpolates the field at dir. Corner cells go through
// Fetch, so a sample touching the far edge pulls from the neighbouring face.
func Sample[T any](f *Field[T], dir mgl64.Vec3, lerp LerpFunc[T]) T {
	face, gx, gy := f.Locate(dir)
	return sampleGrid(f, face, gx, gy, lerp)
}

// SampleFaceUV interpolates at explicit face coordinates, which may lie on
// an edge shared with another face.
func SampleFaceUV[T any](f *Field[T], face int, u, v float64, lerp LerpFunc[T]) T {
	return sampleGrid(f, face, sphere.UVToGrid(u, f.Resolution), sphere.UVToGrid(v, f.Resolution), lerp)
}

func sampleGrid[T any](f *Field[T], face int, gx, gy float64, lerp LerpFunc[T]) T {
	x0, y0 := math.Floor(gx), math.Floor(gy)
	tx, ty := gx-x0, gy-y0
	ix, iy := int(x0), int(y0)

	v00 := f.Fetch(face, ix, iy)
	v10 := f.Fetch(face, ix+1, iy)
	v01 := f.Fetch(face, ix, iy+1)
	v11 := f.Fetch(face, ix+1, iy+1)

	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), ty)
}

// SampleScalar is Sample for float fields.
func SampleScalar(f *Field[float64], dir mgl64.Vec3) float64 {
	return Sample(f, dir, LerpScalar)
}

// SampleVec is Sample for vector fields.
func SampleVec(f *Field[mgl64.Vec3], dir mgl64.Vec3) mgl64.Vec3 {
	return Sample(f, dir, LerpVec)
}

// Blur applies passes of a 3×3 box filter with cross-face neighbours and
// returns a new field.
func Blur(f *Field[float64], passes int) *Field[float64] {
	cur := f.Clone()
	next := New[float64](f.Resolution)
	n := f.Resolution
	for p := 0; p < passes; p++ {
		var wg sync.WaitGroup
		for face := 0; face < sphere.FaceCount; face++ {
			wg.Add(1)
			go func(face int) {
				defer wg.Done()
				for y := 0; y < n; y++ {
					for x := 0; x < n; x++ {
						sum := cur.At(face, x, y)
						for _, o := range Offsets8 {
							sum += cur.Fetch(face, x+o[0], y+o[1])
						}
						next.Set(face, x, y, sum/9)
					}
				}
			}(face)
		}
		wg.Wait()
		cur, next = next, cur
	}
	return cur
}

// Range returns the minimum and maximum over all faces.
func Range(f *Field[float64]) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, face := range f.Faces {
		if len(face) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(face))
		hi = math.Max(hi, floats.Max(face))
	}
	return lo, hi
}
