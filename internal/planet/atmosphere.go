package planet

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/planetgen/internal/climate"
	"github.com/talgya/planetgen/internal/config"
)

// Atmosphere holds the climate maps derived from a planet.
type Atmosphere struct {
	Wind          *climate.Wind
	Influence     *climate.MountainInfluence
	Vertical      *climate.VerticalAir
	Temperature   *climate.Temperature
	Precipitation *climate.Precipitation
}

// Atmosphere derives vertical air, temperature (advected by the planet's
// wind) and precipitation. The planet is not modified.
func (p *Planet) Atmosphere(cfg config.Config) (*Atmosphere, error) {
	if p.Wind == nil {
		return nil, fmt.Errorf("planet has no wind field")
	}
	start := time.Now()

	a := &Atmosphere{Wind: p.Wind}
	if cfg.Wind.Deflection.Enabled {
		a.Influence = climate.BuildInfluence(p, cfg.Wind.Resolution, cfg.Wind.Deflection)
	}
	a.Vertical = climate.BuildVertical(p.Wind)

	tc := cfg.Temperature
	a.Temperature = climate.BuildTemperature(tc, p)
	if tc.AdvectionSteps > 0 {
		a.Temperature = a.Temperature.AdvectSteps(p.Wind, tc.AdvectionDt, tc.AdvectionSteps)
	}

	a.Precipitation = climate.BuildPrecipitation(a.Vertical, a.Temperature, p, cfg.Precipitation, tc)
	slog.Debug("atmosphere built", "wind_res", p.Wind.Resolution(), "elapsed", time.Since(start))
	return a, nil
}
