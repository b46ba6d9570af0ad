package climate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/config"
	"github.com/talgya/planetgen/internal/cubemap"
	"github.com/talgya/planetgen/internal/sphere"
)

// Temperature is a surface temperature map in degrees. Lo and Hi fix the
// colour scale.
type Temperature struct {
	Field  *cubemap.Field[float64]
	Lo, Hi float64
}

// BaseTemperature falls off from equator to pole with cos(latitude).
func BaseTemperature(dir mgl64.Vec3, cfg config.Temperature) float64 {
	return cfg.PoleTemp + (cfg.EquatorTemp-cfg.PoleTemp)*math.Cos(sphere.Latitude(dir))
}

// BuildTemperature evaluates the latitude model. When heights is not nil,
// land cells gain LandBonus.
func BuildTemperature(cfg config.Temperature, heights HeightSampler) *Temperature {
	f := cubemap.Fill(cfg.Resolution, func(_, _, _ int, dir mgl64.Vec3) float64 {
		t := BaseTemperature(dir, cfg)
		if heights != nil && cfg.LandBonus != 0 && heights.SampleHeight(dir) > 0 {
			t += cfg.LandBonus
		}
		return t
	})
	return &Temperature{Field: f, Lo: cfg.PoleTemp, Hi: cfg.EquatorTemp}
}

// Sample returns the interpolated temperature at dir.
func (t *Temperature) Sample(dir mgl64.Vec3) float64 {
	return cubemap.SampleScalar(t.Field, dir)
}

// SampleColor maps the temperature at dir onto the colour ramp.
func (t *Temperature) SampleColor(dir mgl64.Vec3) [3]float64 {
	return TemperatureColor(t.Sample(dir), t.Lo, t.Hi)
}

// Advect moves the field along the wind by one semi-Lagrangian step: each
// cell traces back along -velocity·dt, renormalizes onto the sphere and
// reads the previous field there. The receiver is left untouched; the
// colour scale carries over from the current value range.
func (t *Temperature) Advect(w *Wind, dt float64) *Temperature {
	prev := t.Field
	lo, hi := cubemap.Range(prev)
	next := cubemap.Fill(prev.Resolution, func(_, _, _ int, dir mgl64.Vec3) float64 {
		back := sphere.NormalizeOrZero(dir.Sub(w.Sample(dir).Mul(dt)))
		if back == (mgl64.Vec3{}) {
			back = dir
		}
		return cubemap.SampleScalar(prev, back)
	})
	return &Temperature{Field: next, Lo: lo, Hi: hi}
}

// AdvectSteps applies Advect steps times.
func (t *Temperature) AdvectSteps(w *Wind, dt float64, steps int) *Temperature {
	cur := t
	for i := 0; i < steps; i++ {
		cur = cur.Advect(w, dt)
	}
	return cur
}

type colorStop struct {
	at  float64
	rgb [3]float64
}

// Light blue, cyan, green, yellow, orange, red.
var temperatureRamp = []colorStop{
	{0.0, [3]float64{0.5, 0.8, 1.0}},
	{0.2, [3]float64{0.5, 1.0, 1.0}},
	{0.4, [3]float64{0.2, 0.8, 0.5}},
	{0.6, [3]float64{1.0, 1.0, 0.0}},
	{0.8, [3]float64{1.0, 0.5, 0.0}},
	{1.0, [3]float64{1.0, 0.0, 0.0}},
}

// TemperatureColor maps temp onto the ramp between lo and hi.
func TemperatureColor(temp, lo, hi float64) [3]float64 {
	t := 0.5
	if hi-lo > 1e-9 {
		t = mgl64.Clamp((temp-lo)/(hi-lo), 0, 1)
	}
	last := temperatureRamp[len(temperatureRamp)-1]
	if t >= last.at {
		return last.rgb
	}
	for i := 1; i < len(temperatureRamp); i++ {
		a, b := temperatureRamp[i-1], temperatureRamp[i]
		if t <= b.at {
			s := (t - a.at) / (b.at - a.at)
			return [3]float64{
				sphere.Lerp(a.rgb[0], b.rgb[0], s),
				sphere.Lerp(a.rgb[1], b.rgb[1], s),
				sphere.Lerp(a.rgb[2], b.rgb[2], s),
			}
		}
	}
	return last.rgb
}
