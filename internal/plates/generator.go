package plates

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/config"
	"github.com/talgya/planetgen/internal/cubemap"
	"github.com/talgya/planetgen/internal/entropy"
	"github.com/talgya/planetgen/internal/noise"
)

// Generator runs the plate pipeline for one configuration and seed.
type Generator struct {
	cfg     config.Plates
	seed    uint64
	backend string
	size    int

	warp *noise.Field
	flow *noise.Field
}

// Result is the finished partition.
type Result struct {
	Plates []*Plate
	Map    *cubemap.Field[int]
	Seeded int // majors plus microplates, before merging
	Merged int // plates absorbed by merging
}

// NewGenerator prepares a generator for a grid of size cells per face edge.
func NewGenerator(cfg config.Config) (*Generator, error) {
	g := &Generator{
		cfg:     cfg.Plates,
		seed:    cfg.Generation.Seed,
		backend: cfg.Generation.NoiseBackend,
		size:    cfg.GridSize(),
	}
	var err error
	g.warp, err = noise.NewField(g.backend, noise.Params{
		Frequency: g.cfg.WarpFrequency,
		Amplitude: 1,
		Seed:      entropy.NoiseSeed(g.seed, "plates/warp"),
	})
	if err != nil {
		return nil, fmt.Errorf("warp noise: %w", err)
	}
	g.flow, err = noise.NewField(g.backend, noise.Params{
		Frequency: g.cfg.FlowWarpFreq,
		Amplitude: 1,
		Seed:      entropy.NoiseSeed(g.seed, "plates/flow"),
	})
	if err != nil {
		return nil, fmt.Errorf("flow noise: %w", err)
	}
	return g, nil
}

// Generate runs placement, relaxation, microplates, assignment, merging,
// smoothing and id compaction in that order.
func (g *Generator) Generate() (*Result, error) {
	start := time.Now()

	dirs := SeedDirections(g.seed, g.cfg.Count)
	passes := Relax(dirs, g.cfg.MinSeparation, g.cfg.RelaxationIterations)

	plates := make([]*Plate, 0, g.cfg.Count+g.cfg.MicroCount)
	for i, d := range dirs {
		kind := Oceanic
		if entropy.New(g.seed, plateDomain("kind", i)).Float64() < g.cfg.ContinentalFraction {
			kind = Continental
		}
		freq, amp := g.cfg.ContinentalFrequency, g.cfg.ContinentalAmplitude
		if kind == Oceanic {
			freq, amp = freq/g.cfg.OceanicFreqDivisor, amp/g.cfg.OceanicAmpDivisor
		}
		p, err := g.newPlate(i, d, kind, Regular, freq, amp)
		if err != nil {
			return nil, err
		}
		plates = append(plates, p)
	}

	majorMap := g.Assign(plates)
	micros, err := g.Microplates(plates, majorMap)
	if err != nil {
		return nil, err
	}
	plates = append(plates, micros...)
	seeded := len(plates)

	m := g.Assign(plates)
	slog.Debug("plates assigned", "plates", seeded, "relax_passes", passes, "elapsed", time.Since(start))

	merged := Merge(m, len(plates), g.cfg.MergeProbability, g.cfg.MergeTwoProbability, entropy.New(g.seed, "plates/merge"))
	for i := 0; i < g.cfg.SmoothingPasses; i++ {
		m = Smooth(m)
	}
	plates = Compact(m, plates)

	slog.Debug("plates finalized", "plates", len(plates), "merged", merged, "elapsed", time.Since(start))
	return &Result{Plates: plates, Map: m, Seeded: seeded, Merged: merged}, nil
}

// Microplates seeds MicroCount small plates next to boundaries of m.
func (g *Generator) Microplates(plates []*Plate, m *cubemap.Field[int]) ([]*Plate, error) {
	out := make([]*Plate, 0, g.cfg.MicroCount)
	for i := 0; i < g.cfg.MicroCount; i++ {
		rng := entropy.New(g.seed, plateDomain("micro", i))
		face, x, y, _ := g.microAnchor(rng, m)
		base := m.Direction(face, x, y)
		j := g.cfg.MicroJitter
		jitter := mgl64.Vec3{
			(rng.Float64()*2 - 1) * j,
			(rng.Float64()*2 - 1) * j,
			(rng.Float64()*2 - 1) * j,
		}
		dir := base.Add(jitter).Normalize()
		p, err := g.newPlate(len(plates)+i, dir, Continental, Micro,
			g.cfg.ContinentalFrequency*g.cfg.MicroFreqScale, g.cfg.ContinentalAmplitude*g.cfg.MicroAmpScale)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// microAnchor draws cells until one has its right or down neighbour on
// another plate. After MicroMaxAttempts it keeps the last draw and reports
// false.
func (g *Generator) microAnchor(rng *rand.Rand, m *cubemap.Field[int]) (face, x, y int, ok bool) {
	n := m.Resolution
	for attempt := 0; attempt < g.cfg.MicroMaxAttempts; attempt++ {
		face, x, y = rng.IntN(6), rng.IntN(n), rng.IntN(n)
		c := m.At(face, x, y)
		if m.Fetch(face, x+1, y) != c || m.Fetch(face, x, y+1) != c {
			return face, x, y, true
		}
	}
	return face, x, y, false
}

func plateDomain(purpose string, id int) string {
	return fmt.Sprintf("plates/%s/%d", purpose, id)
}
