// Package config holds every generation tunable. Values come from
// Default() and may be overridden by a YAML file; the file is checked
// against an embedded JSON schema before it is decoded.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// RGB is a linear colour with components in [0,1].
type RGB [3]float64

// Config is the full generation configuration.
type Config struct {
	Generation    Generation    `yaml:"generation"`
	Plates        Plates        `yaml:"plates"`
	Boundaries    Boundaries    `yaml:"boundaries"`
	Continents    Continents    `yaml:"continents"`
	Mountains     Mountains     `yaml:"mountains"`
	Wind          Wind          `yaml:"wind"`
	Temperature   Temperature   `yaml:"temperature"`
	Precipitation Precipitation `yaml:"precipitation"`
	Biomes        Biomes        `yaml:"biomes"`
}

type Generation struct {
	Seed         uint64  `yaml:"seed"`
	Radius       float64 `yaml:"radius"`
	CellsPerUnit float64 `yaml:"cells_per_unit"`
	NoiseBackend string  `yaml:"noise_backend"` // "simplex" or "perlin"
}

type Plates struct {
	Count                int     `yaml:"count"`
	MicroCount           int     `yaml:"micro_count"`
	MinSeparation        float64 `yaml:"min_separation"` // chord distance on the unit sphere
	RelaxationIterations int     `yaml:"relaxation_iterations"`

	MicroWeight      float64 `yaml:"micro_weight"`
	MicroJitter      float64 `yaml:"micro_jitter"`
	MicroMaxAttempts int     `yaml:"micro_max_attempts"`

	WarpFrequency     float64 `yaml:"warp_frequency"`
	WarpMultiplier    float64 `yaml:"warp_multiplier"`
	FlowWarpFreq      float64 `yaml:"flow_warp_freq"`
	FlowWarpSteps     int     `yaml:"flow_warp_steps"`
	FlowWarpStepAngle float64 `yaml:"flow_warp_step_angle"` // radians per step

	MergeProbability    float64 `yaml:"merge_probability"`
	MergeTwoProbability float64 `yaml:"merge_two_probability"`
	SmoothingPasses     int     `yaml:"smoothing_passes"`

	MinSpeed float64 `yaml:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed"`

	ContinentalFraction  float64 `yaml:"continental_fraction"`
	ContinentalFrequency float64 `yaml:"continental_frequency"`
	ContinentalAmplitude float64 `yaml:"continental_amplitude"`
	OceanicFreqDivisor   float64 `yaml:"oceanic_freq_divisor"` // oceanic noise = continental / divisor
	OceanicAmpDivisor    float64 `yaml:"oceanic_amp_divisor"`
	MicroFreqScale       float64 `yaml:"micro_freq_scale"` // microplate noise = continental × scale
	MicroAmpScale        float64 `yaml:"micro_amp_scale"`
	DetailWeight         float64 `yaml:"detail_weight"` // share of plate noise added to height
}

type Boundaries struct {
	MinThreshold      float64 `yaml:"min_threshold"`
	RelativeThreshold float64 `yaml:"relative_threshold"`
	MinWidth          int     `yaml:"min_width"`
	WidthFraction     float64 `yaml:"width_fraction"`
	FadeDistance      float64 `yaml:"fade_distance"`
}

type Continents struct {
	ContinentFrequency  float64 `yaml:"continent_frequency"`
	ContinentAmplitude  float64 `yaml:"continent_amplitude"`
	DistortionFrequency float64 `yaml:"distortion_frequency"`
	DistortionAmplitude float64 `yaml:"distortion_amplitude"`
	DetailFrequency     float64 `yaml:"detail_frequency"`
	DetailAmplitude     float64 `yaml:"detail_amplitude"`
	Threshold           float64 `yaml:"threshold"`
	CoastRoughness      float64 `yaml:"coast_roughness"`
	GrowthSpan          float64 `yaml:"growth_span"`
	ContinentalBase     float64 `yaml:"continental_base"`
	OceanFloorBase      float64 `yaml:"ocean_floor_base"`
	OceanDepthAmplitude float64 `yaml:"ocean_depth_amplitude"`
	OceanDetailFactor   float64 `yaml:"ocean_detail_factor"`
	ShelfWidth          float64 `yaml:"shelf_width"`
	ShelfDepth          float64 `yaml:"shelf_depth"`
}

type Mountains struct {
	Height        float64 `yaml:"height"`
	Width         float64 `yaml:"width"` // angular falloff, radians
	OceanicFactor float64 `yaml:"oceanic_factor"`
}

type Wind struct {
	Resolution      int        `yaml:"resolution"`
	MeridionalSpeed float64    `yaml:"meridional_speed"`
	ZonalSpeed      float64    `yaml:"zonal_speed"`
	Tau             float64    `yaml:"tau"`
	TurnPoints      [4]float64 `yaml:"turn_points"` // degrees latitude
	MeridionalSigns [4]float64 `yaml:"meridional_signs"`
	ZonalSigns      [4]float64 `yaml:"zonal_signs"`
	Deflection      Deflection `yaml:"deflection"`
}

type Deflection struct {
	Enabled         bool    `yaml:"enabled"`
	HeightThreshold float64 `yaml:"height_threshold"`
	HeightScale     float64 `yaml:"height_scale"`
	SpreadRadius    int     `yaml:"spread_radius"`
	SpreadDecay     float64 `yaml:"spread_decay"`
	Strength        float64 `yaml:"strength"`
	Iterations      int     `yaml:"iterations"`
	MinCost         float64 `yaml:"min_cost"` // cells below this cost keep their wind
}

type Temperature struct {
	Resolution     int     `yaml:"resolution"`
	EquatorTemp    float64 `yaml:"equator_temp"`
	PoleTemp       float64 `yaml:"pole_temp"`
	LandBonus      float64 `yaml:"land_bonus"`
	AdvectionSteps int     `yaml:"advection_steps"`
	AdvectionDt    float64 `yaml:"advection_dt"`
}

type Precipitation struct {
	Resolution        int     `yaml:"resolution"`
	TemperatureWeight float64 `yaml:"temperature_weight"`
	OceanWeight       float64 `yaml:"ocean_weight"`
	BlurPasses        int     `yaml:"blur_passes"`

	// Water availability before OceanWeight: base + gain·T over ocean or
	// land, with T the normalized temperature.
	OceanWaterBase float64 `yaml:"ocean_water_base"`
	OceanWaterGain float64 `yaml:"ocean_water_gain"`
	LandWaterBase  float64 `yaml:"land_water_base"`
	LandWaterGain  float64 `yaml:"land_water_gain"`
}

type Biomes struct {
	SnowThreshold   float64 `yaml:"snow_threshold"`
	IceTemp         float64 `yaml:"ice_temp"`
	TundraTemp      float64 `yaml:"tundra_temp"`
	BorealTemp      float64 `yaml:"boreal_temp"`
	TemperateTemp   float64 `yaml:"temperate_temp"`
	HotTemp         float64 `yaml:"hot_temp"`
	DesertPrecip    float64 `yaml:"desert_precip"`
	SavannaPrecip   float64 `yaml:"savanna_precip"`
	JunglePrecip    float64 `yaml:"jungle_precip"`
	TemperatePrecip float64 `yaml:"temperate_precip"`
	Colors          Palette `yaml:"colors"`
}

type Palette struct {
	Ice       RGB `yaml:"ice"`
	Tundra    RGB `yaml:"tundra"`
	Desert    RGB `yaml:"desert"`
	Savanna   RGB `yaml:"savanna"`
	Temperate RGB `yaml:"temperate"`
	Jungle    RGB `yaml:"jungle"`
}

// Load reads a YAML file on top of Default(). Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates raw YAML against the schema and decodes it into cfg.
func Parse(raw []byte, cfg *Config) error {
	if err := validateSchema(raw); err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	cfg.Normalize()
	return cfg.Validate()
}

// Normalize canonicalizes free-form fields so equal settings hash equally.
func (c *Config) Normalize() {
	b := strings.ToLower(strings.TrimSpace(c.Generation.NoiseBackend))
	if b == "" {
		b = "simplex"
	}
	c.Generation.NoiseBackend = b
}

// GridSize is the number of samples along one face edge.
func (c Config) GridSize() int {
	return gridSize(c.Generation.Radius, c.Generation.CellsPerUnit)
}

// Hash identifies the configuration for reproducibility checks. The seed is
// excluded so runs of one config with different seeds share a hash.
func (c Config) Hash() string {
	c.Generation.Seed = 0
	raw, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}
