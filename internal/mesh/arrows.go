package mesh

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/planet"
	"github.com/talgya/planetgen/internal/sphere"
)

// Arrow marks a plate's motion: placed above the plate's centroid and
// rotated so its local +Z points along the surface velocity.
type Arrow struct {
	PlateID  int
	Position mgl64.Vec3
	Heading  mgl64.Vec3 // unit tangent
	Rotation mgl64.Quat
	Scale    float64
}

// PlateArrows returns one arrow per plate that owns at least one cell.
// Arrows sit one unit above the surface; scale is a fraction of the radius.
func PlateArrows(p *planet.Planet, scale float64) []Arrow {
	n := p.GridSize
	sums := make([]mgl64.Vec3, len(p.Plates))
	counts := make([]int, len(p.Plates))
	for face := range p.PlateMap.Faces {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				id := p.PlateMap.At(face, x, y)
				pos := p.Heights.Direction(face, x, y).Mul(p.Radius + p.Heights.At(face, x, y))
				sums[id] = sums[id].Add(pos)
				counts[id]++
			}
		}
	}

	arrows := make([]Arrow, 0, len(p.Plates))
	for id, pl := range p.Plates {
		if counts[id] == 0 {
			continue
		}
		up := sphere.NormalizeOrZero(sums[id])
		if up == (mgl64.Vec3{}) {
			up = pl.Direction
		}
		heading := sphere.NormalizeOrZero(sphere.ProjectTangent(pl.VelocityAt(up), up))
		if heading == (mgl64.Vec3{}) {
			heading = sphere.East(up)
		}
		arrows = append(arrows, Arrow{
			PlateID:  pl.ID,
			Position: up.Mul(p.Radius + 1),
			Heading:  heading,
			Rotation: mgl64.QuatBetweenVectors(mgl64.Vec3{0, 0, 1}, heading),
			Scale:    p.Radius * scale,
		})
	}
	return arrows
}
