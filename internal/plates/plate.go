// Package plates partitions the cube-sphere into tectonic plates: seed
// placement with minimum-separation relaxation, microplates along existing
// boundaries, noise-warped nearest-plate assignment, probabilistic merging
// and majority smoothing.
package plates

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/entropy"
	"github.com/talgya/planetgen/internal/noise"
	"github.com/talgya/planetgen/internal/sphere"
)

// SizeClass distinguishes major plates from microplates.
type SizeClass uint8

const (
	Regular SizeClass = iota
	Micro
)

// Kind is the crust type of a plate.
type Kind uint8

const (
	Continental Kind = iota
	Oceanic
)

func (k Kind) String() string {
	if k == Oceanic {
		return "oceanic"
	}
	return "continental"
}

func (s SizeClass) String() string {
	if s == Micro {
		return "micro"
	}
	return "regular"
}

// Plate is one tectonic plate.
type Plate struct {
	ID              int
	Direction       mgl64.Vec3 // unit seed location
	Kind            Kind
	Size            SizeClass
	Noise           noise.Params
	AngularVelocity mgl64.Vec3
	Color           [4]float64

	detail *noise.Field
}

// Weight is the assignment weight: 1 for regular plates, microWeight for
// microplates.
func (p *Plate) Weight(microWeight float64) float64 {
	if p.Size == Micro {
		return microWeight
	}
	return 1
}

// VelocityAt is the surface velocity of the plate at pos: ω × pos.
func (p *Plate) VelocityAt(pos mgl64.Vec3) mgl64.Vec3 {
	return p.AngularVelocity.Cross(pos)
}

// Detail samples the plate's own noise layer.
func (p *Plate) Detail(dir mgl64.Vec3) float64 {
	if p.detail == nil {
		return 0
	}
	return p.detail.Sample(dir)
}

var debugColors = [][4]float64{
	{1, 0, 0, 1},
	{0, 1, 0, 1},
	{0, 0, 1, 1},
	{1, 1, 0, 1},
	{1, 0, 1, 1},
	{0, 1, 1, 1},
	{1, 0.5, 0, 1},
	{0.5, 0, 1, 1},
	{0, 0.5, 1, 1},
	{0.5, 1, 0, 1},
}

// DebugColor returns the display colour for a plate id.
func DebugColor(id int) [4]float64 {
	return debugColors[id%len(debugColors)]
}

// newPlate finishes a plate at dir: noise layer, motion and colour. Every
// random draw comes from streams keyed by id.
func (g *Generator) newPlate(id int, dir mgl64.Vec3, kind Kind, size SizeClass, freq, amp float64) (*Plate, error) {
	p := &Plate{
		ID:        id,
		Direction: dir,
		Kind:      kind,
		Size:      size,
		Noise: noise.Params{
			Frequency: freq,
			Amplitude: amp,
			Seed:      entropy.NoiseSeed(g.seed, plateDomain("noise", id)),
		},
		Color: DebugColor(id),
	}
	field, err := noise.NewField(g.backend, p.Noise)
	if err != nil {
		return nil, err
	}
	p.detail = field
	p.AngularVelocity = g.motion(id, dir)
	return p, nil
}

// motion draws a heading tangent t and speed s, and returns the angular
// velocity that moves the plate centre along t at speed s.
func (g *Generator) motion(id int, dir mgl64.Vec3) mgl64.Vec3 {
	rng := entropy.New(g.seed, plateDomain("motion", id))
	theta := rng.Float64() * 2 * math.Pi
	heading := sphere.East(dir).Mul(math.Cos(theta)).Add(sphere.North(dir).Mul(math.Sin(theta)))
	speed := g.cfg.MinSpeed + rng.Float64()*(g.cfg.MaxSpeed-g.cfg.MinSpeed)
	return sphere.NormalizeOrZero(dir.Cross(heading)).Mul(speed)
}
