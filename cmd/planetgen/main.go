// Command planetgen generates a cube-sphere planet from a YAML config,
// logs a summary of its surface and climate, and records the run in a
// SQLite ledger so later runs can verify they reproduce it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/talgya/planetgen/internal/boundary"
	"github.com/talgya/planetgen/internal/config"
	"github.com/talgya/planetgen/internal/cubemap"
	"github.com/talgya/planetgen/internal/entropy"
	"github.com/talgya/planetgen/internal/mesh"
	"github.com/talgya/planetgen/internal/persistence"
	"github.com/talgya/planetgen/internal/planet"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (built-in defaults when empty)")
		seedFlag   = flag.Uint64("seed", 0, "override generation.seed (0 keeps the config value)")
		random     = flag.Bool("random", false, "draw a fresh 8-digit user seed")
		dbPath     = flag.String("db", "data/planetgen.db", "run ledger path (empty disables the ledger)")
		verify     = flag.Bool("verify", false, "fail if the planet differs from the last recorded run with the same seed and config")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// ── Configuration ─────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	switch {
	case *random:
		code := entropy.UserSeed()
		cfg.Generation.Seed = entropy.ExpandUserSeed(code)
		slog.Info("random seed drawn", "code", code)
	case *seedFlag != 0:
		cfg.Generation.Seed = *seedFlag
	}
	cfg.Normalize()
	hash := cfg.Hash()
	slog.Info("configuration",
		"seed", cfg.Generation.Seed,
		"config_hash", hash,
		"grid", cfg.GridSize(),
		"plates", cfg.Plates.Count,
		"microplates", cfg.Plates.MicroCount,
		"noise", cfg.Generation.NoiseBackend,
	)

	// ── Surface ───────────────────────────────────────────────────────
	start := time.Now()
	p, err := planet.Generate(cfg)
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}
	counts := p.Boundaries.Counts()
	slog.Info("surface generated",
		"plates_seeded", p.Seeded,
		"plates", len(p.Plates),
		"convergent", counts[boundary.Convergent],
		"divergent", counts[boundary.Divergent],
		"transform", counts[boundary.Transform],
		"land_fraction", fmt.Sprintf("%.3f", p.LandFraction()),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	// ── Atmosphere ────────────────────────────────────────────────────
	atmo, err := p.Atmosphere(cfg)
	if err != nil {
		slog.Error("atmosphere failed", "error", err)
		os.Exit(1)
	}
	tLo, tHi := cubemap.Range(atmo.Temperature.Field)
	pLo, pHi := cubemap.Range(atmo.Precipitation.Field)
	slog.Info("atmosphere built",
		"mean_wind", fmt.Sprintf("%.3f", atmo.Wind.MeanSpeed()),
		"temperature", fmt.Sprintf("[%.1f, %.1f]", tLo, tHi),
		"precipitation", fmt.Sprintf("[%.3f, %.3f]", pLo, pHi),
	)

	// ── Mesh ──────────────────────────────────────────────────────────
	m := mesh.FromPlanet(p, mesh.ContinentView, cfg.Biomes.SnowThreshold, cfg.Continents.Threshold)
	m.Colors = mesh.BiomeColors(m.Positions, p.Radius, cfg.Continents.Threshold, cfg.Temperature.LandBonus,
		cfg.Biomes, atmo.Temperature, atmo.Precipitation)
	arrows := mesh.PlateArrows(p, 0.2)
	slog.Info("mesh built",
		"vertices", len(m.Positions),
		"triangles", len(m.Indices)/3,
		"arrows", len(arrows),
	)

	digest := p.Digest()
	slog.Info("planet digest", "digest", digest)

	// ── Ledger ────────────────────────────────────────────────────────
	if *dbPath == "" {
		if *verify {
			slog.Error("-verify needs a ledger; -db is empty")
			os.Exit(1)
		}
		return
	}
	run, err := recordLedger(*dbPath, persistence.Run{
		Seed:       cfg.Generation.Seed,
		ConfigHash: hash,
		Digest:     digest,
		Plates:     len(p.Plates),
		GridSize:   p.GridSize,
	}, *verify)
	if err != nil {
		slog.Error("ledger failed", "error", err)
		os.Exit(1)
	}
	slog.Info("run recorded", "id", run.ID, "ledger", *dbPath)
}

// errMismatch marks a planet that differs from the last recorded run with
// the same seed and config.
var errMismatch = errors.New("planet differs from last recorded run")

// recordLedger records r in the ledger at path, creating its directory if
// needed. With verify set it first compares r.Digest to the last recorded
// run for the same seed and config hash, and records nothing on mismatch.
func recordLedger(path string, r persistence.Run, verify bool) (persistence.Run, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return r, fmt.Errorf("create ledger directory: %w", err)
		}
	}
	db, err := persistence.Open(path)
	if err != nil {
		return r, fmt.Errorf("open ledger: %w", err)
	}
	defer db.Close()

	if verify {
		prev, err := db.LastDigest(r.Seed, r.ConfigHash)
		switch {
		case errors.Is(err, persistence.ErrNoRun):
			slog.Warn("no earlier run to verify against", "seed", r.Seed, "config_hash", r.ConfigHash)
		case err != nil:
			return r, fmt.Errorf("ledger lookup: %w", err)
		case prev != r.Digest:
			return r, fmt.Errorf("%w: want %s, got %s", errMismatch, prev, r.Digest)
		default:
			slog.Info("planet matches last recorded run")
		}
	}

	run, err := db.RecordRun(r)
	if err != nil {
		return r, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}
