// Package climate builds the atmospheric cubemaps: wind, mountain
// influence, vertical air motion, temperature and precipitation. Every map
// is an immutable cubemap.Field sampled bilinearly across face seams.
package climate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/config"
	"github.com/talgya/planetgen/internal/cubemap"
	"github.com/talgya/planetgen/internal/sphere"
)

// HeightSampler reports surface elevation at a direction. Sea level is 0.
type HeightSampler interface {
	SampleHeight(dir mgl64.Vec3) float64
}

// bandSign interpolates signs across the circulation cells bounded by
// turn points (degrees), easing each segment with a smoothstep.
func bandSign(absLat float64, turns, signs [4]float64) float64 {
	seg := 2
	for i := 0; i < 2; i++ {
		if absLat < turns[i+1] {
			seg = i
			break
		}
	}
	t := (absLat - turns[seg]) / (turns[seg+1] - turns[seg])
	s := sphere.Smoothstep(t)
	return signs[seg] + (signs[seg+1]-signs[seg])*s
}

// LatitudinalSpeed is the target north/south speed at pos; positive means
// northward. The southern hemisphere mirrors the northern one.
func LatitudinalSpeed(pos mgl64.Vec3, cfg config.Wind) float64 {
	lat := mgl64.RadToDeg(sphere.Latitude(pos))
	v := cfg.MeridionalSpeed * bandSign(math.Abs(lat), cfg.TurnPoints, cfg.MeridionalSigns)
	if lat < 0 {
		return -v
	}
	return v
}

// ZonalVelocity is the east/west wind vector at pos.
func ZonalVelocity(pos mgl64.Vec3, cfg config.Wind) mgl64.Vec3 {
	lat := mgl64.RadToDeg(sphere.Latitude(pos))
	sign := bandSign(math.Abs(lat), cfg.TurnPoints, cfg.ZonalSigns)
	return sphere.East(pos).Mul(sign * cfg.ZonalSpeed)
}

// Velocity combines a meridional speed with the zonal wind at pos.
func Velocity(pos mgl64.Vec3, latSpeed float64, cfg config.Wind) mgl64.Vec3 {
	return sphere.North(pos).Mul(latSpeed).Add(ZonalVelocity(pos, cfg))
}

// UpdateLatitudinalSpeed relaxes current toward desired with time
// constant tau.
func UpdateLatitudinalSpeed(current, desired, dt, tau float64) float64 {
	return current + (desired-current)*(dt/tau)
}

// Wind is a precomputed tangent velocity field.
type Wind struct {
	Field *cubemap.Field[mgl64.Vec3]

	peak float64 // fastest cell, for colouring
}

func newWind(f *cubemap.Field[mgl64.Vec3]) *Wind {
	w := &Wind{Field: f}
	for _, face := range f.Faces {
		for _, v := range face {
			w.peak = math.Max(w.peak, v.Len())
		}
	}
	return w
}

// BuildWind evaluates the circulation model on a cubemap.
func BuildWind(cfg config.Wind) *Wind {
	return newWind(cubemap.Fill(cfg.Resolution, func(_, _, _ int, dir mgl64.Vec3) mgl64.Vec3 {
		return Velocity(dir, LatitudinalSpeed(dir, cfg), cfg)
	}))
}

// Sample returns the interpolated wind at dir.
func (w *Wind) Sample(dir mgl64.Vec3) mgl64.Vec3 {
	return cubemap.SampleVec(w.Field, dir)
}

// SampleColor maps the wind at dir through WindColor, scaled by the
// fastest cell of the field.
func (w *Wind) SampleColor(dir mgl64.Vec3) [3]float64 {
	return WindColor(w.Sample(dir), dir, w.peak)
}

// PeakSpeed is the fastest cell speed.
func (w *Wind) PeakSpeed() float64 { return w.peak }

// WindColor encodes heading as hue (east red, then green and blue going
// counter-clockwise) and speed relative to peak as brightness. Calm air and
// a zero peak give black.
func WindColor(vel, pos mgl64.Vec3, peak float64) [3]float64 {
	speed := vel.Len()
	if peak <= 0 || speed == 0 {
		return [3]float64{}
	}
	theta := math.Atan2(vel.Dot(sphere.North(pos)), vel.Dot(sphere.East(pos)))
	b := mgl64.Clamp(speed/peak, 0, 1)
	return [3]float64{
		b * (0.5 + 0.5*math.Cos(theta)),
		b * (0.5 + 0.5*math.Cos(theta-2*math.Pi/3)),
		b * (0.5 + 0.5*math.Cos(theta+2*math.Pi/3)),
	}
}

// Resolution of the underlying cubemap.
func (w *Wind) Resolution() int { return w.Field.Resolution }

// MeanSpeed averages wind speed over all cells.
func (w *Wind) MeanSpeed() float64 {
	total, count := 0.0, 0
	for _, face := range w.Field.Faces {
		for _, v := range face {
			total += v.Len()
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}
