package climate

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/config"
	"github.com/talgya/planetgen/internal/cubemap"
	"github.com/talgya/planetgen/internal/sphere"
)

type heightFunc func(dir mgl64.Vec3) float64

func (h heightFunc) SampleHeight(dir mgl64.Vec3) float64 { return h(dir) }

// A north-south ridge along the z=0 great circle.
var ridgeHeights = heightFunc(func(dir mgl64.Vec3) float64 {
	return 0.6 * math.Exp(-(dir[2]/0.2)*(dir[2]/0.2))
})

func smallWind(res int) config.Wind {
	cfg := config.Default().Wind
	cfg.Resolution = res
	return cfg
}

func TestLatitudinalSpeed_Bands(t *testing.T) {
	cfg := config.Default().Wind
	rad := math.Pi / 6
	tests := []struct {
		name string
		pos  mgl64.Vec3
		want float64
	}{
		{"equator", mgl64.Vec3{1, 0, 0}, -cfg.MeridionalSpeed},
		{"north 30", mgl64.Vec3{math.Cos(rad), math.Sin(rad), 0}, cfg.MeridionalSpeed},
		{"south 30", mgl64.Vec3{math.Cos(rad), -math.Sin(rad), 0}, -cfg.MeridionalSpeed},
		{"north 45", mgl64.Vec3{1, 1, 0}.Normalize(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LatitudinalSpeed(tt.pos, cfg); math.Abs(got-tt.want) > 1e-6 {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestVelocity_Tangent(t *testing.T) {
	cfg := config.Default().Wind
	for _, pos := range []mgl64.Vec3{{1, 0, 0}, {0.3, 0.8, -0.5}, {0, 0, -1}, {-0.2, -0.9, 0.1}} {
		pos = pos.Normalize()
		v := Velocity(pos, LatitudinalSpeed(pos, cfg), cfg)
		if d := math.Abs(v.Dot(pos)); d > 1e-9 {
			t.Fatalf("velocity at %v has radial component %v", pos, d)
		}
	}
}

func TestUpdateLatitudinalSpeed(t *testing.T) {
	if got := UpdateLatitudinalSpeed(0, 2, 0.4, 0.8); got != 1 {
		t.Fatalf("got %v want 1", got)
	}
	if got := UpdateLatitudinalSpeed(2, 2, 0.4, 0.8); got != 2 {
		t.Fatalf("at target: got %v want 2", got)
	}
}

func TestWind_SeamContinuity(t *testing.T) {
	w := BuildWind(smallWind(33))
	for i := 0; i <= 16; i++ {
		v := -1 + float64(i)/8
		a := cubemap.SampleFaceUV(w.Field, 0, -1, v, cubemap.LerpVec)
		b := cubemap.SampleFaceUV(w.Field, 4, 1, v, cubemap.LerpVec)
		if a.Sub(b).Len() > 1e-9 {
			t.Fatalf("v=%v: face0=%v face4=%v", v, a, b)
		}
	}
	if w.MeanSpeed() <= 0 {
		t.Fatal("wind has no speed")
	}
}

func TestDeflect_PreservesSpeed(t *testing.T) {
	cfg := config.Default().Wind
	cfg.Resolution = 24
	w := BuildWind(cfg)
	infl := BuildInfluence(ridgeHeights, cfg.Resolution, cfg.Deflection)
	out := Deflect(w, infl, cfg.Deflection)

	changed := 0
	for face := range w.Field.Faces {
		for i, before := range w.Field.Faces[face] {
			after := out.Field.Faces[face][i]
			if math.Abs(before.Len()-after.Len()) > 1e-9 {
				t.Fatalf("face %d cell %d: speed %v became %v", face, i, before.Len(), after.Len())
			}
			if before.Sub(after).Len() > 1e-9 {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Fatal("ridge did not deflect any wind")
	}
	if w.Field.At(0, 12, 12) != BuildWind(cfg).Field.At(0, 12, 12) {
		t.Fatal("deflection mutated its input")
	}
}

func TestInfluence_CostBounds(t *testing.T) {
	cfg := config.Default().Wind.Deflection
	infl := BuildInfluence(ridgeHeights, 16, cfg)
	lo, hi := cubemap.Range(infl.Cost)
	if lo < 0 || hi > 1 {
		t.Fatalf("cost range [%v,%v] outside [0,1]", lo, hi)
	}
	cost, ridge := infl.Sample(mgl64.Vec3{1, 0, 0.15}.Normalize())
	if cost <= 0 {
		t.Fatal("no cost on the ridge flank")
	}
	if math.Abs(ridge.Len()-1) > 1e-9 {
		t.Fatalf("ridge tangent length %v", ridge.Len())
	}
	if c, _ := infl.Sample(mgl64.Vec3{0, 0, 1}); c != 0 {
		t.Fatalf("cost %v far from the ridge", c)
	}
}

func TestVertical_Normalized(t *testing.T) {
	v := BuildVertical(BuildWind(smallWind(24)))
	lo, hi := cubemap.Range(v.Field)
	if lo < -1-1e-9 || hi > 1+1e-9 {
		t.Fatalf("range [%v,%v] outside [-1,1]", lo, hi)
	}
	if peak := math.Max(-lo, hi); math.Abs(peak-1) > 1e-9 {
		t.Fatalf("peak magnitude %v want 1", peak)
	}
}

func TestDivergenceColor(t *testing.T) {
	if got := DivergenceColor(0); got != [3]float64{1, 1, 1} {
		t.Fatalf("rest: got %v want white", got)
	}
	if got := DivergenceColor(-1); got != [3]float64{0, 0, 1} {
		t.Fatalf("rising: got %v want blue", got)
	}
	if got := DivergenceColor(2); got != [3]float64{1, 0, 0} {
		t.Fatalf("sinking: got %v want red", got)
	}
}

func TestTemperature_Latitude(t *testing.T) {
	cfg := config.Default().Temperature
	cfg.Resolution = 65
	temp := BuildTemperature(cfg, nil)
	if got := temp.Sample(mgl64.Vec3{1, 0, 0}); math.Abs(got-cfg.EquatorTemp) > 1e-9 {
		t.Fatalf("equator: got %v want %v", got, cfg.EquatorTemp)
	}
	if got := temp.Sample(mgl64.Vec3{0, 1, 0}); math.Abs(got-cfg.PoleTemp) > 1e-9 {
		t.Fatalf("pole: got %v want %v", got, cfg.PoleTemp)
	}
}

func TestTemperature_LandBonus(t *testing.T) {
	cfg := config.Default().Temperature
	cfg.Resolution = 17
	cfg.LandBonus = 5
	land := heightFunc(func(dir mgl64.Vec3) float64 { return dir[0] })
	temp := BuildTemperature(cfg, land)
	base := BuildTemperature(cfg, nil)
	if d := temp.Field.At(0, 8, 8) - base.Field.At(0, 8, 8); math.Abs(d-5) > 1e-9 {
		t.Fatalf("land cell bonus %v want 5", d)
	}
	if d := temp.Field.At(1, 8, 8) - base.Field.At(1, 8, 8); d != 0 {
		t.Fatalf("ocean cell bonus %v want 0", d)
	}
}

func TestAdvect(t *testing.T) {
	w := BuildWind(smallWind(24))

	cfg := config.Default().Temperature
	cfg.Resolution = 24
	temp := BuildTemperature(cfg, nil)
	same := temp.Advect(w, 0)
	for face := range temp.Field.Faces {
		for i, want := range temp.Field.Faces[face] {
			if got := same.Field.Faces[face][i]; math.Abs(got-want) > 1e-9 {
				t.Fatalf("dt=0 face %d cell %d: got %v want %v", face, i, got, want)
			}
		}
	}

	uniform := &Temperature{
		Field: cubemap.Fill(24, func(_, _, _ int, _ mgl64.Vec3) float64 { return 12 }),
		Lo:    -20, Hi: 30,
	}
	moved := uniform.AdvectSteps(w, 0.05, 3)
	lo, hi := cubemap.Range(moved.Field)
	if math.Abs(lo-12) > 1e-9 || math.Abs(hi-12) > 1e-9 {
		t.Fatalf("uniform field drifted to [%v,%v]", lo, hi)
	}
	if uniform.Field.At(2, 3, 4) != 12 {
		t.Fatal("advection mutated its input")
	}
}

func TestTemperatureColor_Ends(t *testing.T) {
	if got := TemperatureColor(-20, -20, 30); got != [3]float64{0.5, 0.8, 1} {
		t.Fatalf("cold: got %v", got)
	}
	if got := TemperatureColor(99, -20, 30); got != [3]float64{1, 0, 0} {
		t.Fatalf("hot: got %v", got)
	}
	if got := TemperatureColor(5, 5, 5); got != TemperatureColor(0, -1, 1) {
		t.Fatalf("flat range should map to the midpoint, got %v", got)
	}
}

func TestPrecipitation_Bounds(t *testing.T) {
	def := config.Default()
	w := BuildWind(smallWind(17))
	v := BuildVertical(w)
	tcfg := def.Temperature
	tcfg.Resolution = 17
	temp := BuildTemperature(tcfg, nil)
	pcfg := def.Precipitation
	pcfg.Resolution = 17
	pcfg.BlurPasses = 2

	for _, tc := range []struct {
		name    string
		temp    *Temperature
		heights HeightSampler
	}{
		{"full", temp, ridgeHeights},
		{"no temperature", nil, ridgeHeights},
		{"no heights", temp, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := BuildPrecipitation(v, tc.temp, tc.heights, pcfg, tcfg)
			lo, hi := cubemap.Range(p.Field)
			if lo < 0 || hi > 1 {
				t.Fatalf("range [%v,%v] outside [0,1]", lo, hi)
			}
			if hi <= 0 {
				t.Fatal("no precipitation anywhere")
			}
		})
	}
}

func TestPrecipitationColor(t *testing.T) {
	dry := PrecipitationColor(0)
	if dry[0] <= dry[2] || dry[1] <= dry[2] {
		t.Fatalf("dry colour %v should be yellowish", dry)
	}
	wet := PrecipitationColor(1)
	if wet[2] <= wet[0] {
		t.Fatalf("wet colour %v should be bluish", wet)
	}
	if PrecipitationColor(-3) != dry || PrecipitationColor(7) != wet {
		t.Fatal("out-of-range values not clamped")
	}
}

func TestWindColor(t *testing.T) {
	pos := mgl64.Vec3{1, 0, 0}
	east := sphere.East(pos)
	got := WindColor(east.Mul(2), pos, 2)
	want := [3]float64{1, 0.25, 0.25}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("eastward at peak: got %v want %v", got, want)
		}
	}
	half := WindColor(east, pos, 2)
	if math.Abs(half[0]-0.5) > 1e-12 {
		t.Fatalf("half speed: got %v", half)
	}
	if WindColor(mgl64.Vec3{}, pos, 2) != ([3]float64{}) || WindColor(east, pos, 0) != ([3]float64{}) {
		t.Fatal("calm air should be black")
	}
}

func TestWind_SampleColor(t *testing.T) {
	cfg := config.Default().Wind
	cfg.Resolution = 24
	w := BuildWind(cfg)
	if w.PeakSpeed() <= 0 {
		t.Fatal("peak speed not recorded")
	}
	for _, dir := range []mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0.3, -0.5, 0.8}} {
		c := w.SampleColor(dir.Normalize())
		for _, v := range c {
			if v < 0 || v > 1 {
				t.Fatalf("colour %v out of range at %v", c, dir)
			}
		}
	}
	infl := BuildInfluence(ridgeHeights, cfg.Resolution, cfg.Deflection)
	if d := Deflect(w, infl, cfg.Deflection); math.Abs(d.PeakSpeed()-w.PeakSpeed()) > 1e-9 {
		t.Fatalf("deflected peak %v, original %v", d.PeakSpeed(), w.PeakSpeed())
	}
}

func TestDeflect_MinCost(t *testing.T) {
	cfg := config.Default().Wind
	cfg.Resolution = 24
	cfg.Deflection.MinCost = 2 // above any cost
	w := BuildWind(cfg)
	infl := BuildInfluence(ridgeHeights, cfg.Resolution, cfg.Deflection)
	out := Deflect(w, infl, cfg.Deflection)
	for face := range w.Field.Faces {
		for i, v := range w.Field.Faces[face] {
			if out.Field.Faces[face][i] != v {
				t.Fatalf("face %d cell %d deflected below the cost cutoff", face, i)
			}
		}
	}
}

func TestPrecipitation_WaterCoefficients(t *testing.T) {
	def := config.Default()
	v := BuildVertical(BuildWind(smallWind(17)))
	tcfg := def.Temperature
	tcfg.Resolution = 17
	temp := BuildTemperature(tcfg, nil)
	pcfg := def.Precipitation
	pcfg.Resolution = 17
	pcfg.BlurPasses = 2
	pcfg.OceanWeight = 1

	ocean := heightFunc(func(mgl64.Vec3) float64 { return -1 })
	land := heightFunc(func(mgl64.Vec3) float64 { return 1 })

	dry := pcfg
	dry.OceanWaterBase, dry.OceanWaterGain = 0, 0
	if _, hi := cubemap.Range(BuildPrecipitation(v, temp, ocean, dry, tcfg).Field); hi != 0 {
		t.Fatalf("ocean without water: max precipitation %v want 0", hi)
	}

	// Land with full water matches the water-neutral map.
	wet := pcfg
	wet.LandWaterBase, wet.LandWaterGain = 1, 0
	got := BuildPrecipitation(v, temp, land, wet, tcfg).Field
	neutral := pcfg
	neutral.OceanWeight = 0
	want := BuildPrecipitation(v, temp, nil, neutral, tcfg).Field
	for face := range got.Faces {
		for i := range got.Faces[face] {
			if math.Abs(got.Faces[face][i]-want.Faces[face][i]) > 1e-12 {
				t.Fatalf("face %d cell %d: got %v want %v", face, i, got.Faces[face][i], want.Faces[face][i])
			}
		}
	}
}
