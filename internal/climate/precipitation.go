package climate

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/config"
	"github.com/talgya/planetgen/internal/cubemap"
)

// Precipitation is a normalized rainfall map in [0,1].
type Precipitation struct {
	Field *cubemap.Field[float64]
}

// BuildPrecipitation combines uplift from the vertical air map with
// moisture capacity from temperature and water availability from the
// land/ocean split. temp and heights may be nil; the missing factor then
// takes its neutral value.
func BuildPrecipitation(v *VerticalAir, temp *Temperature, heights HeightSampler, cfg config.Precipitation, tcfg config.Temperature) *Precipitation {
	span := tcfg.EquatorTemp - tcfg.PoleTemp
	raw := cubemap.Fill(cfg.Resolution, func(_, _, _ int, dir mgl64.Vec3) float64 {
		uplift := (1 - v.Sample(dir)) / 2

		normT := 0.5
		if temp != nil && span > 1e-9 {
			normT = mgl64.Clamp((temp.Sample(dir)-tcfg.PoleTemp)/span, 0, 1)
		}
		capacity := 1 - cfg.TemperatureWeight*(1-normT)

		water := 0.5
		if heights != nil {
			if heights.SampleHeight(dir) <= 0 {
				water = cfg.OceanWaterBase + cfg.OceanWaterGain*normT
			} else {
				water = cfg.LandWaterBase + cfg.LandWaterGain*normT
			}
		}
		water = 1 - cfg.OceanWeight*(1-water)

		return mgl64.Clamp(uplift*capacity*water, 0, 1)
	})
	return &Precipitation{Field: cubemap.Blur(raw, cfg.BlurPasses)}
}

// Sample returns the interpolated precipitation at dir.
func (p *Precipitation) Sample(dir mgl64.Vec3) float64 {
	return cubemap.SampleScalar(p.Field, dir)
}

// SampleColor maps precipitation at dir through PrecipitationColor.
func (p *Precipitation) SampleColor(dir mgl64.Vec3) [3]float64 {
	return PrecipitationColor(p.Sample(dir))
}

// PrecipitationColor runs from pale yellow (dry) through green to blue (wet).
func PrecipitationColor(value float64) [3]float64 {
	t := mgl64.Clamp(value, 0, 1)
	if t < 0.5 {
		s := t / 0.5
		return [3]float64{1 - 0.5*s, 1 - 0.2*s, 0.2 + 0.8*s}
	}
	s := (t - 0.5) / 0.5
	return [3]float64{0.5 - 0.4*s, 0.8 - 0.4*s, 1}
}
