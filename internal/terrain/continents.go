// Package terrain synthesizes surface elevation: continent and ocean
// shaping from layered noise, mountain uplift along convergent plate
// boundaries and a small per-plate texture.
package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/config"
	"github.com/talgya/planetgen/internal/entropy"
	"github.com/talgya/planetgen/internal/noise"
	"github.com/talgya/planetgen/internal/sphere"
)

// Continents is the continent/ocean height model. It depends only on the
// direction, never on plates.
type Continents struct {
	cfg        config.Continents
	shape      *noise.Field
	distortion *noise.Field
	detail     *noise.Field
}

// NewContinents seeds the three noise layers from the master seed.
func NewContinents(cfg config.Config) (*Continents, error) {
	c := cfg.Continents
	layer := func(domain string, freq, amp float64) (*noise.Field, error) {
		f, err := noise.NewField(cfg.Generation.NoiseBackend, noise.Params{
			Frequency: freq,
			Amplitude: amp,
			Seed:      entropy.NoiseSeed(cfg.Generation.Seed, domain),
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", domain, err)
		}
		return f, nil
	}

	out := &Continents{cfg: c}
	var err error
	if out.shape, err = layer("continents/shape", c.ContinentFrequency, c.ContinentAmplitude); err != nil {
		return nil, err
	}
	if out.distortion, err = layer("continents/distortion", c.DistortionFrequency, c.DistortionAmplitude); err != nil {
		return nil, err
	}
	if out.detail, err = layer("continents/detail", c.DetailFrequency, c.DetailAmplitude); err != nil {
		return nil, err
	}
	return out, nil
}

// sample evaluates the shape layer at the domain-warped position and the
// detail layer at the raw one, and returns them with the coast threshold.
func (c *Continents) sample(dir mgl64.Vec3) (shape, detail, threshold float64) {
	tangent := sphere.NormalizeOrZero(dir.Cross(mgl64.Vec3{0, 1, 0}))
	if tangent == (mgl64.Vec3{}) {
		tangent = sphere.NormalizeOrZero(dir.Cross(mgl64.Vec3{1, 0, 0}))
	}
	warped := sphere.NormalizeOrZero(dir.Add(tangent.Mul(c.distortion.Sample(dir))))
	if warped == (mgl64.Vec3{}) {
		warped = dir
	}
	shape = c.shape.Raw(warped)
	detail = c.detail.Sample(dir)
	threshold = c.cfg.Threshold + detail*c.cfg.CoastRoughness
	return shape, detail, threshold
}

// Height returns the surface elevation at dir: non-negative on land,
// negative in the ocean.
func (c *Continents) Height(dir mgl64.Vec3) float64 {
	cfg := c.cfg
	shape, detail, threshold := c.sample(dir)

	if shape > threshold {
		above := shape - threshold
		growth := mgl64.Clamp(above/cfg.GrowthSpan, 0, 1)
		h := cfg.ContinentalBase + above*cfg.ContinentAmplitude + detail*growth
		return max(h, 0)
	}

	below := threshold - shape
	floor := cfg.OceanFloorBase + below*cfg.OceanDepthAmplitude + detail*cfg.OceanDetailFactor
	depth := floor
	if cfg.ShelfWidth > 0 && below < cfg.ShelfWidth {
		shelf := cfg.ShelfDepth + detail*cfg.OceanDetailFactor
		depth = sphere.Lerp(shelf, floor, sphere.Smoothstep(below/cfg.ShelfWidth))
	}
	return -max(depth, 0)
}

// Mask is 0 in the ocean and rises toward 1 in continental interiors.
func (c *Continents) Mask(dir mgl64.Vec3) float64 {
	shape, _, threshold := c.sample(dir)
	if shape <= threshold {
		return 0
	}
	t := c.cfg.Threshold
	if t >= 1 {
		return 1
	}
	return mgl64.Clamp((shape-t)/(1-t), 0, 1)
}

// IsLand reports whether dir falls on a continent.
func (c *Continents) IsLand(dir mgl64.Vec3) bool {
	shape, _, threshold := c.sample(dir)
	return shape > threshold
}
