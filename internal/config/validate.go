package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("planet.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile("planet.schema.json")
	})
	return schema, schemaErr
}

// validateSchema checks raw YAML against the embedded schema. The document is
// re-encoded as JSON first so numbers and maps have the shapes the validator
// expects.
func validateSchema(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if doc == nil {
		return nil
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("re-encode: %w", err)
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return fmt.Errorf("re-encode: %w", err)
	}
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// Validate reports range errors that the schema cannot express.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	g := c.Generation
	check(g.Radius > 0, "generation.radius must be positive, got %v", g.Radius)
	check(g.CellsPerUnit > 0, "generation.cells_per_unit must be positive, got %v", g.CellsPerUnit)
	check(c.GridSize() >= 3, "grid size %d too small", c.GridSize())
	check(g.NoiseBackend == "" || g.NoiseBackend == "simplex" || g.NoiseBackend == "perlin",
		"generation.noise_backend %q unknown", g.NoiseBackend)

	p := c.Plates
	check(p.Count >= 1, "plates.count must be at least 1, got %d", p.Count)
	check(p.MicroCount >= 0, "plates.micro_count must not be negative")
	check(p.MinSeparation >= 0 && p.MinSeparation <= 2, "plates.min_separation must be in [0,2]")
	check(p.MicroWeight > 1, "plates.micro_weight must exceed 1, got %v", p.MicroWeight)
	check(p.OceanicFreqDivisor > 0 && p.OceanicAmpDivisor > 0, "plates oceanic divisors must be positive")
	check(p.MicroMaxAttempts > 0, "plates.micro_max_attempts must be positive")
	check(p.FlowWarpSteps >= 0, "plates.flow_warp_steps must not be negative")
	check(inUnit(p.MergeProbability), "plates.merge_probability must be in [0,1]")
	check(inUnit(p.MergeTwoProbability), "plates.merge_two_probability must be in [0,1]")
	check(inUnit(p.ContinentalFraction), "plates.continental_fraction must be in [0,1]")
	check(p.MinSpeed >= 0 && p.MaxSpeed >= p.MinSpeed, "plates speed range [%v,%v] invalid", p.MinSpeed, p.MaxSpeed)

	b := c.Boundaries
	check(b.FadeDistance > 0, "boundaries.fade_distance must be positive")
	check(b.MinWidth >= 0, "boundaries.min_width must not be negative")

	ct := c.Continents
	check(ct.GrowthSpan > 0, "continents.growth_span must be positive")
	check(ct.ShelfWidth >= 0, "continents.shelf_width must not be negative")

	check(c.Mountains.Width > 0, "mountains.width must be positive")

	w := c.Wind
	check(w.Resolution >= 3, "wind.resolution must be at least 3")
	check(w.Tau > 0, "wind.tau must be positive")
	for i := 1; i < len(w.TurnPoints); i++ {
		check(w.TurnPoints[i] > w.TurnPoints[i-1], "wind.turn_points must increase")
	}
	check(w.Deflection.HeightScale > 0, "wind.deflection.height_scale must be positive")
	check(w.Deflection.MinCost >= 0, "wind.deflection.min_cost must not be negative")

	check(c.Temperature.Resolution >= 3, "temperature.resolution must be at least 3")
	check(c.Precipitation.Resolution >= 3, "precipitation.resolution must be at least 3")
	check(inUnit(c.Precipitation.TemperatureWeight), "precipitation.temperature_weight must be in [0,1]")
	check(inUnit(c.Precipitation.OceanWeight), "precipitation.ocean_weight must be in [0,1]")

	return errors.Join(errs...)
}

func inUnit(v float64) bool { return v >= 0 && v <= 1 }
