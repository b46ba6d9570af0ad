package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/boundary"
	"github.com/talgya/planetgen/internal/config"
	"github.com/talgya/planetgen/internal/cubemap"
	"github.com/talgya/planetgen/internal/plates"
)

// Uplift is the mountain height at angular distance d (radians) from a
// convergent boundary.
func Uplift(cfg config.Mountains, d float64) float64 {
	r := d / cfg.Width
	return cfg.Height * math.Exp(-r*r)
}

// Heights assembles the final heightmap: continent shape, mountain uplift
// inside convergent boundary bands, and the plate texture layer.
func Heights(cfg config.Config, c *Continents, plateMap *cubemap.Field[int], list []*plates.Plate, bounds *boundary.Data) *cubemap.Field[float64] {
	n := plateMap.Resolution
	cellAngle := (math.Pi / 2) / float64(n-1)
	mc := cfg.Mountains
	weight := cfg.Plates.DetailWeight

	return cubemap.Fill(n, func(face, x, y int, dir mgl64.Vec3) float64 {
		h := c.Height(dir)

		if bounds != nil {
			if t, ok := bounds.Type(face, x, y); ok && t == boundary.Convergent {
				dist := bounds.Distance.At(face, x, y)
				u := Uplift(mc, dist*cellAngle)
				if h <= 0 {
					u *= mc.OceanicFactor
				}
				h += u
			}
		}

		p := list[plateMap.At(face, x, y)]
		return h + p.Detail(dir)*weight
	})
}
