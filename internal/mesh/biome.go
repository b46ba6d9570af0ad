package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"

	"github.com/talgya/planetgen/internal/config"
)

// Sampler reads a scalar climate map at a unit direction.
// *climate.Temperature and *climate.Precipitation satisfy it.
type Sampler interface {
	Sample(dir mgl64.Vec3) float64
}

// BiomeColors recolours mesh vertices from temperature and precipitation.
// Height is recovered from each vertex's distance to the centre. Land
// vertices get landBonus added to their temperature.
func BiomeColors(positions []mgl32.Vec3, radius, threshold, landBonus float64, cfg config.Biomes, temp, precip Sampler) []mgl32.Vec4 {
	out := make([]mgl32.Vec4, len(positions))
	for i, p := range positions {
		pos := mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
		r := pos.Len()
		if r == 0 {
			out[i] = seaFloorColor(0)
			continue
		}
		dir := pos.Mul(1 / r)
		h := r - radius
		t := temp.Sample(dir)
		if h > 0 {
			t += landBonus
		}
		out[i] = BiomeColor(h, t, precip.Sample(dir), threshold, cfg)
	}
	return out
}

// BiomeColor colours one land or sea-floor point. Land blends the biome
// palette by climate, then eases into a sandy strip at the coast and into
// snow over the top 15% below the snow line.
func BiomeColor(h, temp, precip, threshold float64, cfg config.Biomes) mgl32.Vec4 {
	if h <= 0 {
		return seaFloorColor(h)
	}
	snow := cfg.SnowThreshold
	if h > snow {
		return snowColor
	}

	snowStart := snow * 0.85
	snowBlend := 0.0
	if h > snowStart {
		snowBlend = clamp01((h - snowStart) / (snow - snowStart))
	}
	shoreBlend := 0.0
	if shore := threshold * 0.05; shore > 0 && h < shore {
		shoreBlend = 1 - clamp01(h/shore)
	}

	c := biomeBase(temp, precip, cfg)
	c = lerp4(c, shoreColor, shoreBlend)
	return lerp4(c, snowColor, snowBlend)
}

type biomeCenter struct {
	temp, tempSpread     float64
	precip, precipSpread float64 // precipSpread 0 means precipitation-independent
}

// biomeCenters places ice, tundra, desert, savanna, temperate and jungle in
// temperature/precipitation space. Centres and spreads follow the
// thresholds so moving a threshold moves the blend.
func biomeCenters(c config.Biomes) [6]biomeCenter {
	spread := func(a, b float64) float64 { return math.Max(math.Abs(a-b), 3) }
	hot := c.HotTemp + 5
	return [6]biomeCenter{
		{temp: c.IceTemp - 5, tempSpread: spread(c.TundraTemp, c.IceTemp)},
		{temp: (c.IceTemp + c.BorealTemp) / 2, tempSpread: spread(c.BorealTemp, c.IceTemp)/2 + 2},
		{
			temp: hot, tempSpread: spread(c.HotTemp, c.BorealTemp),
			precip: c.DesertPrecip / 2, precipSpread: math.Max(c.DesertPrecip, 0.05) + 0.05,
		},
		{
			temp: hot, tempSpread: spread(c.HotTemp, c.TemperateTemp),
			precip:       (c.DesertPrecip + c.JunglePrecip) / 2,
			precipSpread: math.Max(math.Abs(c.JunglePrecip-c.DesertPrecip), 0.05)/2 + 0.05,
		},
		{
			temp: (c.BorealTemp + c.HotTemp) / 2, tempSpread: spread(c.HotTemp, c.BorealTemp)/2 + 2,
			precip: (c.TemperatePrecip + c.JunglePrecip) / 2, precipSpread: 0.25,
		},
		{
			temp: hot, tempSpread: spread(c.HotTemp, c.TemperateTemp),
			precip: c.JunglePrecip + 0.15, precipSpread: 0.2,
		},
	}
}

// BiomeWeights returns unnormalized Gaussian weights in the order ice,
// tundra, desert, savanna, temperate, jungle.
func BiomeWeights(temp, precip float64, cfg config.Biomes) [6]float64 {
	var w [6]float64
	for i, b := range biomeCenters(cfg) {
		dt := (temp - b.temp) / b.tempSpread
		d2 := dt * dt
		if b.precipSpread > 0 {
			dp := (precip - b.precip) / b.precipSpread
			d2 += dp * dp
		}
		w[i] = math.Exp(-0.5 * d2)
	}
	return w
}

func biomeBase(temp, precip float64, cfg config.Biomes) mgl32.Vec4 {
	pal := cfg.Colors
	colors := [6]config.RGB{pal.Ice, pal.Tundra, pal.Desert, pal.Savanna, pal.Temperate, pal.Jungle}

	w := BiomeWeights(temp, precip, cfg)
	total := floats.Sum(w[:])
	if total < 1e-10 {
		return rgba(pal.Temperate[0], pal.Temperate[1], pal.Temperate[2])
	}
	var r, g, b float64
	for i, c := range colors {
		k := w[i] / total
		r += k * c[0]
		g += k * c[1]
		b += k * c[2]
	}
	return rgba(r, g, b)
}

func lerp4(a, b mgl32.Vec4, t float64) mgl32.Vec4 {
	return a.Add(b.Sub(a).Mul(float32(t)))
}
