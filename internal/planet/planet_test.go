package planet

import (
	"math"
	"testing"

	"github.com/talgya/planetgen/internal/config"
	"github.com/talgya/planetgen/internal/cubemap"
)

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.Generation.Radius = 10
	cfg.Wind.Resolution = 16
	cfg.Temperature.Resolution = 16
	cfg.Precipitation.Resolution = 16
	cfg.Precipitation.BlurPasses = 3
	return cfg
}

func TestGenerate_EndToEnd(t *testing.T) {
	cfg := config.Default()
	p, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if p.GridSize != 41 {
		t.Fatalf("grid size: got %d want 41", p.GridSize)
	}
	if p.Seeded != 20 {
		t.Fatalf("plates before merge: got %d want 20", p.Seeded)
	}
	if n := len(p.Plates); n < 1 || n > 20 {
		t.Fatalf("plates after merge: got %d want 1..20", n)
	}
	for face := range p.PlateMap.Faces {
		for i, id := range p.PlateMap.Faces[face] {
			if id < 0 || id >= len(p.Plates) {
				t.Fatalf("face %d cell %d: plate id %d out of range", face, i, id)
			}
		}
	}
	for i, pl := range p.Plates {
		if pl.ID != i {
			t.Fatalf("plate %d has id %d", i, pl.ID)
		}
	}
	if got := p.PlateAt(0, 20, 20); got != p.PlateAtDir(p.PlateMap.Direction(0, 20, 20)) {
		t.Fatal("PlateAt and PlateAtDir disagree at a cell centre")
	}
	if f := p.LandFraction(); f <= 0 || f >= 1 {
		t.Fatalf("land fraction %v", f)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	if a.Digest() != b.Digest() {
		t.Fatal("same config produced different planets")
	}

	cfg := smallConfig()
	cfg.Generation.Seed = 7
	c, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if c.Digest() == a.Digest() {
		t.Fatal("seed change did not change the planet")
	}
}

func TestGenerate_RejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Generation.Radius = -1
	if _, err := Generate(cfg); err == nil {
		t.Fatal("expected error for negative radius")
	}
}

func TestSampleHeight_MatchesCells(t *testing.T) {
	p, err := Generate(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	for face := 0; face < 6; face++ {
		dir := p.Heights.Direction(face, 7, 13)
		if got, want := p.SampleHeight(dir), p.Heights.At(face, 7, 13); math.Abs(got-want) > 1e-9 {
			t.Fatalf("face %d: got %v want %v", face, got, want)
		}
		if m := p.SampleContinentMask(dir); m < 0 || m > 1 {
			t.Fatalf("face %d: mask %v out of [0,1]", face, m)
		}
	}
}

func TestAtmosphere(t *testing.T) {
	cfg := smallConfig()
	p, err := Generate(cfg)
	if err != nil {
		t.Fatal(err)
	}
	before := p.Digest()

	a, err := p.Atmosphere(cfg)
	if err != nil {
		t.Fatalf("atmosphere: %v", err)
	}
	if a.Wind != p.Wind {
		t.Fatal("atmosphere did not reuse the planet wind")
	}
	if a.Influence == nil {
		t.Fatal("deflection enabled but no mountain influence")
	}

	lo, hi := cubemap.Range(a.Vertical.Field)
	if lo < -1-1e-9 || hi > 1+1e-9 {
		t.Fatalf("vertical range [%v,%v]", lo, hi)
	}
	lo, hi = cubemap.Range(a.Temperature.Field)
	if lo < cfg.Temperature.PoleTemp-1e-9 || hi > cfg.Temperature.EquatorTemp+1e-9 {
		t.Fatalf("temperature range [%v,%v] outside [%v,%v]", lo, hi, cfg.Temperature.PoleTemp, cfg.Temperature.EquatorTemp)
	}
	lo, hi = cubemap.Range(a.Precipitation.Field)
	if lo < 0 || hi > 1 {
		t.Fatalf("precipitation range [%v,%v]", lo, hi)
	}

	if p.Digest() != before {
		t.Fatal("atmosphere mutated the planet")
	}
}
