package plates

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/cubemap"
	"github.com/talgya/planetgen/internal/sphere"
)

type assignTarget struct {
	dir mgl64.Vec3
	w2  float64
	id  int
}

// Assign labels every cell with the plate of lowest score
// weight²·(1 - dot(warped, centre)). Ties keep the lower id.
func (g *Generator) Assign(plates []*Plate) *cubemap.Field[int] {
	targets := make([]assignTarget, len(plates))
	for i, p := range plates {
		w := p.Weight(g.cfg.MicroWeight)
		targets[i] = assignTarget{dir: p.Direction, w2: w * w, id: p.ID}
	}
	return cubemap.Fill(g.size, func(_, _, _ int, dir mgl64.Vec3) int {
		warped := g.Warp(dir)
		best, bestScore := 0, math.Inf(1)
		for _, t := range targets {
			dot := mgl64.Clamp(warped.Dot(t.dir), -1, 1)
			if score := t.w2 * (1 - dot); score < bestScore {
				best, bestScore = t.id, score
			}
		}
		return best
	})
}

// Warp roughens plate boundaries. A tangential offset from three noise
// channels is applied first, then the direction is bent FlowWarpSteps times
// toward a noise-driven tangent by FlowWarpStepAngle radians.
func (g *Generator) Warp(dir mgl64.Vec3) mgl64.Vec3 {
	offset := sphere.ProjectTangent(g.warp.Vector(dir), dir).Mul(g.cfg.WarpMultiplier)
	d := sphere.NormalizeOrZero(dir.Add(offset))
	if d == (mgl64.Vec3{}) {
		d = dir
	}

	sin, cos := math.Sincos(g.cfg.FlowWarpStepAngle)
	for s := 0; s < g.cfg.FlowWarpSteps; s++ {
		t := sphere.NormalizeOrZero(sphere.ProjectTangent(g.flow.Vector(d), d))
		if t == (mgl64.Vec3{}) {
			break
		}
		d = sphere.NormalizeOrZero(d.Mul(cos).Add(t.Mul(sin)))
	}
	return d
}
