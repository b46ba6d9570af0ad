package config

import "math"

// Default returns the stock configuration: a radius-20 planet with 15 major
// plates and 5 microplates.
func Default() Config {
	return Config{
		Generation: Generation{
			Seed:         42,
			Radius:       20,
			CellsPerUnit: 2,
			NoiseBackend: "simplex",
		},
		Plates: Plates{
			Count:                15,
			MicroCount:           5,
			MinSeparation:        0.5,
			RelaxationIterations: 50,

			MicroWeight:      2.7,
			MicroJitter:      0.1,
			MicroMaxAttempts: 10000,

			WarpFrequency:     1.8,
			WarpMultiplier:    0.12,
			FlowWarpFreq:      0.6,
			FlowWarpSteps:     4,
			FlowWarpStepAngle: 0.08,

			MergeProbability:    0.25,
			MergeTwoProbability: 0.3,
			SmoothingPasses:     1,

			MinSpeed: 0.2,
			MaxSpeed: 1.0,

			ContinentalFraction:  0.5,
			ContinentalFrequency: 3.0,
			ContinentalAmplitude: 0.7,
			OceanicFreqDivisor:   2,
			OceanicAmpDivisor:    10,
			MicroFreqScale:       1.5,
			MicroAmpScale:        0.3,
			DetailWeight:         0.1,
		},
		Boundaries: Boundaries{
			MinThreshold:      0.005,
			RelativeThreshold: 0.02,
			MinWidth:          3,
			WidthFraction:     0.05,
			FadeDistance:      10,
		},
		Continents: Continents{
			ContinentFrequency:  1.2,
			ContinentAmplitude:  1.0,
			DistortionFrequency: 2.0,
			DistortionAmplitude: 0.25,
			DetailFrequency:     6.0,
			DetailAmplitude:     0.1,
			Threshold:           0.05,
			CoastRoughness:      0.3,
			GrowthSpan:          0.3,
			ContinentalBase:     0.02,
			OceanFloorBase:      0.05,
			OceanDepthAmplitude: 0.6,
			OceanDetailFactor:   0.3,
			ShelfWidth:          0.06,
			ShelfDepth:          0.03,
		},
		Mountains: Mountains{
			Height:        0.35,
			Width:         0.08,
			OceanicFactor: 0.4,
		},
		Wind: Wind{
			Resolution:      64,
			MeridionalSpeed: 3.0,
			ZonalSpeed:      3.0,
			Tau:             0.8,
			TurnPoints:      [4]float64{0, 30, 60, 90},
			MeridionalSigns: [4]float64{-1, 1, -1, -1},
			ZonalSigns:      [4]float64{-1, 1, -1, -1},
			Deflection: Deflection{
				Enabled:         true,
				HeightThreshold: 0.15,
				HeightScale:     0.3,
				SpreadRadius:    3,
				SpreadDecay:     0.7,
				Strength:        0.8,
				Iterations:      2,
				MinCost:         0.01,
			},
		},
		Temperature: Temperature{
			Resolution:     64,
			EquatorTemp:    30,
			PoleTemp:       -20,
			LandBonus:      0,
			AdvectionSteps: 0,
			AdvectionDt:    0.05,
		},
		Precipitation: Precipitation{
			Resolution:        64,
			TemperatureWeight: 0.5,
			OceanWeight:       0.5,
			BlurPasses:        15,
			OceanWaterBase:    0.5,
			OceanWaterGain:    0.5,
			LandWaterBase:     0.2,
			LandWaterGain:     0.1,
		},
		Biomes: Biomes{
			SnowThreshold:   0.45,
			IceTemp:         -10,
			TundraTemp:      0,
			BorealTemp:      5,
			TemperateTemp:   15,
			HotTemp:         20,
			DesertPrecip:    0.15,
			SavannaPrecip:   0.25,
			JunglePrecip:    0.45,
			TemperatePrecip: 0.1,
			Colors: Palette{
				Ice:       RGB{0.85, 0.90, 0.95},
				Tundra:    RGB{0.55, 0.60, 0.50},
				Desert:    RGB{0.82, 0.72, 0.45},
				Savanna:   RGB{0.60, 0.65, 0.25},
				Temperate: RGB{0.15, 0.40, 0.10},
				Jungle:    RGB{0.0, 0.2, 0.0},
			},
		},
	}
}

func gridSize(radius, cellsPerUnit float64) int {
	return int(math.Ceil(radius*cellsPerUnit)) + 1
}
