package climate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"

	"github.com/talgya/planetgen/internal/cubemap"
	"github.com/talgya/planetgen/internal/sphere"
)

// VerticalAir is the normalized surface divergence of the wind in [-1,1].
// Negative values are rising (converging) air, positive values sinking.
type VerticalAir struct {
	Field *cubemap.Field[float64]
}

// BuildVertical takes central differences of the wind along each face's u
// and v axes, projected onto the local tangent basis. Neighbours past a face
// edge come from the adjacent face. The result is scaled by the largest
// magnitude so it spans [-1,1].
func BuildVertical(w *Wind) *VerticalAir {
	f := w.Field
	div := cubemap.Fill(f.Resolution, func(face, x, y int, dir mgl64.Vec3) float64 {
		return divergence(f, face, x, y, dir)
	})

	peak := 0.0
	for _, face := range div.Faces {
		if len(face) == 0 {
			continue
		}
		peak = math.Max(peak, math.Max(floats.Max(face), -floats.Min(face)))
	}
	if peak > 1e-12 {
		for _, face := range div.Faces {
			floats.Scale(1/peak, face)
		}
	}
	return &VerticalAir{Field: div}
}

func divergence(f *cubemap.Field[mgl64.Vec3], face, x, y int, dir mgl64.Vec3) float64 {
	total := 0.0
	for _, axis := range [2][2]int{{1, 0}, {0, 1}} {
		pf, px, py := f.Resolve(face, x+axis[0], y+axis[1])
		mf, mx, my := f.Resolve(face, x-axis[0], y-axis[1])
		pPos, mPos := f.Direction(pf, px, py), f.Direction(mf, mx, my)
		step := pPos.Sub(mPos)
		span := step.Len()
		basis := sphere.NormalizeOrZero(sphere.ProjectTangent(step, dir))
		if span < 1e-12 || basis == (mgl64.Vec3{}) {
			continue
		}
		total += (f.At(pf, px, py).Dot(basis) - f.At(mf, mx, my).Dot(basis)) / span
	}
	return total
}

// Sample returns the interpolated vertical motion at dir.
func (v *VerticalAir) Sample(dir mgl64.Vec3) float64 {
	return cubemap.SampleScalar(v.Field, dir)
}

// SampleColor maps the vertical motion at dir through DivergenceColor.
func (v *VerticalAir) SampleColor(dir mgl64.Vec3) [3]float64 {
	return DivergenceColor(v.Sample(dir))
}

// DivergenceColor shades rising air blue and sinking air red, white at rest.
func DivergenceColor(value float64) [3]float64 {
	c := mgl64.Clamp(value, -1, 1)
	if c < 0 {
		t := -c
		return [3]float64{1 - t, 1 - t, 1}
	}
	return [3]float64{1, 1 - c, 1 - c}
}
