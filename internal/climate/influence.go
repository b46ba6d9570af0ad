package climate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/config"
	"github.com/talgya/planetgen/internal/cubemap"
	"github.com/talgya/planetgen/internal/sphere"
)

// MountainInfluence marks where terrain obstructs wind. Cost is 0 on open
// ground and 1 over high ridges; Ridge holds the unit tangent running along
// the ridge line.
type MountainInfluence struct {
	Cost  *cubemap.Field[float64]
	Ridge *cubemap.Field[mgl64.Vec3]
}

// BuildInfluence derives obstruction cost from heights and spreads it
// SpreadRadius cells outward, decaying by SpreadDecay per step.
func BuildInfluence(heights HeightSampler, res int, cfg config.Deflection) *MountainInfluence {
	eps := 1.0 / float64(res)

	cost := cubemap.Fill(res, func(_, _, _ int, dir mgl64.Vec3) float64 {
		return mgl64.Clamp((heights.SampleHeight(dir)-cfg.HeightThreshold)/cfg.HeightScale, 0, 1)
	})
	ridge := cubemap.Fill(res, func(face, x, y int, dir mgl64.Vec3) mgl64.Vec3 {
		if cost.At(face, x, y) <= 0 {
			return mgl64.Vec3{}
		}
		east, north := sphere.East(dir), sphere.North(dir)
		at := func(offset mgl64.Vec3) float64 {
			return heights.SampleHeight(sphere.NormalizeOrZero(dir.Add(offset)))
		}
		gradE := (at(east.Mul(eps)) - at(east.Mul(-eps))) / (2 * eps)
		gradN := (at(north.Mul(eps)) - at(north.Mul(-eps))) / (2 * eps)
		gradient := east.Mul(gradE).Add(north.Mul(gradN))
		return sphere.NormalizeOrZero(dir.Cross(gradient))
	})

	for pass := 0; pass < cfg.SpreadRadius; pass++ {
		prevCost, prevRidge := cost.Clone(), ridge.Clone()
		for face := range prevCost.Faces {
			for y := 0; y < res; y++ {
				for x := 0; x < res; x++ {
					c := prevCost.At(face, x, y)
					if c <= 0 {
						continue
					}
					spread := c * cfg.SpreadDecay
					for _, o := range cubemap.Offsets4 {
						nf, nx, ny := cost.Resolve(face, x+o[0], y+o[1])
						if spread > cost.At(nf, nx, ny) {
							cost.Set(nf, nx, ny, spread)
							ridge.Set(nf, nx, ny, prevRidge.At(face, x, y))
						}
					}
				}
			}
		}
	}
	return &MountainInfluence{Cost: cost, Ridge: ridge}
}

// Sample returns the interpolated cost and unit ridge tangent at dir.
func (m *MountainInfluence) Sample(dir mgl64.Vec3) (float64, mgl64.Vec3) {
	return cubemap.SampleScalar(m.Cost, dir), sphere.NormalizeOrZero(cubemap.SampleVec(m.Ridge, dir))
}

// Deflect returns a new wind field in which flow crossing a ridge is turned
// to run along it, blended by cost·Strength, for Iterations passes. Speed
// is preserved at every cell.
func Deflect(w *Wind, infl *MountainInfluence, cfg config.Deflection) *Wind {
	cur := w.Field
	for it := 0; it < cfg.Iterations; it++ {
		prev := cur
		cur = cubemap.Fill(prev.Resolution, func(face, x, y int, dir mgl64.Vec3) mgl64.Vec3 {
			wind := prev.At(face, x, y)
			cost, ridge := infl.Sample(dir)
			if cost < cfg.MinCost {
				return wind
			}
			speed := wind.Len()
			if speed < 1e-6 {
				return wind
			}
			across := sphere.NormalizeOrZero(dir.Cross(ridge))
			if across == (mgl64.Vec3{}) {
				return wind
			}
			along := wind.Dot(ridge)
			sign := 1.0
			if along < 0 {
				sign = -1
			}
			redirected := ridge.Mul(along).Add(ridge.Mul(math.Abs(wind.Dot(across)) * sign))
			blended := cubemap.LerpVec(wind, redirected, cost*cfg.Strength)
			tangent := sphere.ProjectTangent(blended, dir)
			if l := tangent.Len(); l > 1e-6 {
				return tangent.Mul(speed / l)
			}
			return wind
		})
	}
	return newWind(cur)
}
