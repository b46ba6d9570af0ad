// Package planet is the generation entry point. Generate runs the surface
// pipeline (plates, boundaries, continents, mountains) plus the wind field
// and returns an immutable Planet. The rest of the atmosphere is derived
// on demand by Atmosphere.
package planet

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/boundary"
	"github.com/talgya/planetgen/internal/climate"
	"github.com/talgya/planetgen/internal/config"
	"github.com/talgya/planetgen/internal/cubemap"
	"github.com/talgya/planetgen/internal/plates"
	"github.com/talgya/planetgen/internal/terrain"
)

// Planet is a generated surface.
type Planet struct {
	Heights    *cubemap.Field[float64]
	GridSize   int
	Radius     float64
	PlateMap   *cubemap.Field[int]
	Plates     []*plates.Plate
	Continents *terrain.Continents
	Boundaries *boundary.Data
	Wind       *climate.Wind
	Seed       uint64

	// Seeded is the plate count before merging.
	Seeded int
}

// Generate builds a planet from cfg. The same configuration always yields
// the same planet.
func Generate(cfg config.Config) (*Planet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	start := time.Now()

	gen, err := plates.NewGenerator(cfg)
	if err != nil {
		return nil, fmt.Errorf("plate generator: %w", err)
	}
	res, err := gen.Generate()
	if err != nil {
		return nil, fmt.Errorf("plates: %w", err)
	}

	bounds := boundary.Build(res.Map, res.Plates, cfg.Boundaries)
	slog.Debug("boundaries classified", "width", bounds.Width, "elapsed", time.Since(start))

	cont, err := terrain.NewContinents(cfg)
	if err != nil {
		return nil, fmt.Errorf("continents: %w", err)
	}

	p := &Planet{
		Heights:    terrain.Heights(cfg, cont, res.Map, res.Plates, bounds),
		GridSize:   res.Map.Resolution,
		Radius:     cfg.Generation.Radius,
		PlateMap:   res.Map,
		Plates:     res.Plates,
		Continents: cont,
		Boundaries: bounds,
		Seed:       cfg.Generation.Seed,
		Seeded:     res.Seeded,
	}
	slog.Debug("heights built", "grid", p.GridSize, "elapsed", time.Since(start))

	p.Wind = climate.BuildWind(cfg.Wind)
	if cfg.Wind.Deflection.Enabled {
		infl := climate.BuildInfluence(p, cfg.Wind.Resolution, cfg.Wind.Deflection)
		p.Wind = climate.Deflect(p.Wind, infl, cfg.Wind.Deflection)
	}
	slog.Debug("planet generated", "seed", p.Seed, "plates", len(p.Plates), "elapsed", time.Since(start))
	return p, nil
}

// SampleHeight returns the interpolated terrain height at dir.
func (p *Planet) SampleHeight(dir mgl64.Vec3) float64 {
	return cubemap.SampleScalar(p.Heights, dir)
}

// SampleContinentMask returns the land mask in [0,1] at dir.
func (p *Planet) SampleContinentMask(dir mgl64.Vec3) float64 {
	return p.Continents.Mask(dir)
}

// PlateAt returns the plate owning a cell.
func (p *Planet) PlateAt(face, x, y int) *plates.Plate {
	return p.Plates[p.PlateMap.At(face, x, y)]
}

// PlateAtDir returns the plate owning the cell nearest dir.
func (p *Planet) PlateAtDir(dir mgl64.Vec3) *plates.Plate {
	return p.Plates[p.PlateMap.Nearest(dir)]
}

// LandFraction is the share of cells above sea level.
func (p *Planet) LandFraction() float64 {
	land, total := 0, 0
	for _, face := range p.Heights.Faces {
		for _, h := range face {
			if h > 0 {
				land++
			}
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(land) / float64(total)
}

// Digest fingerprints the generated grids: plate map, heights, boundary
// types and wind. Two planets with equal digests are bit-identical.
func (p *Planet) Digest() string {
	h := sha256.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	put(uint64(p.GridSize))
	put(uint64(len(p.Plates)))
	for face := range p.PlateMap.Faces {
		for _, id := range p.PlateMap.Faces[face] {
			put(uint64(id))
		}
		for _, v := range p.Heights.Faces[face] {
			put(math.Float64bits(v))
		}
		for _, t := range p.Boundaries.Types.Faces[face] {
			put(uint64(t))
		}
	}
	for _, face := range p.Wind.Field.Faces {
		for _, v := range face {
			put(math.Float64bits(v[0]))
			put(math.Float64bits(v[1]))
			put(math.Float64bits(v[2]))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
