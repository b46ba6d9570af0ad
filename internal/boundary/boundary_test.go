package boundary

import (
	"math"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/config"
	"github.com/talgya/planetgen/internal/cubemap"
	"github.com/talgya/planetgen/internal/plates"
)

func pair(omegaA, omegaB mgl64.Vec3) (*plates.Plate, *plates.Plate) {
	a := &plates.Plate{ID: 0, Direction: mgl64.Vec3{1, 0, 0}, AngularVelocity: omegaA}
	b := &plates.Plate{ID: 1, Direction: mgl64.Vec3{-1, 0, 0}, AngularVelocity: omegaB}
	return a, b
}

func TestClassify(t *testing.T) {
	cfg := config.Default().Boundaries
	posA := mgl64.Vec3{0.01, 1, 0}.Normalize()
	posB := mgl64.Vec3{-0.01, 1, 0}.Normalize()
	cases := []struct {
		name   string
		wa, wb mgl64.Vec3
		want   Type
	}{
		{"closing", mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, -1}, Convergent},
		{"opening", mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 0, 1}, Divergent},
		{"sliding", mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-1, 0, 0}, Transform},
		{"still", mgl64.Vec3{}, mgl64.Vec3{}, Transform},
		{"jitter", mgl64.Vec3{0, 0, 0.001}, mgl64.Vec3{}, Transform},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, b := pair(tc.wa, tc.wb)
			if got := Classify(a, b, posA, posB, cfg); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
			if got := Classify(b, a, posB, posA, cfg); got != tc.want {
				t.Fatalf("swapped: got %v want %v", got, tc.want)
			}
		})
	}
}

func TestClassify_CoincidentCentres(t *testing.T) {
	a, b := pair(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, -1})
	b.Direction = a.Direction
	got := Classify(a, b, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0.01}.Normalize(), config.Default().Boundaries)
	if got != Transform {
		t.Fatalf("got %v want transform", got)
	}
}

func hemispheres(n int) (*cubemap.Field[int], []*plates.Plate) {
	m := cubemap.Fill(n, func(_, _, _ int, dir mgl64.Vec3) int {
		if dir[0] >= 0 {
			return 0
		}
		return 1
	})
	a, b := pair(mgl64.Vec3{0, 0.3, 1}, mgl64.Vec3{0.2, 0, -1})
	return m, []*plates.Plate{a, b}
}

// otherPlates lists the distinct plates a cell's 4-neighbours belong to,
// excluding its own.
func otherPlates(m *cubemap.Field[int], face, x, y int) []int {
	id := m.At(face, x, y)
	var out []int
	for _, o := range cubemap.Offsets4 {
		other := m.Fetch(face, x+o[0], y+o[1])
		if other != id && !slices.Contains(out, other) {
			out = append(out, other)
		}
	}
	return out
}

// checkSymmetry walks every edge between different plates and checks that
// both sides agree on the edge type, sit at distance 0, and, when neither
// cell touches a third plate, store the same cell type.
func checkSymmetry(t *testing.T, m *cubemap.Field[int], d *Data) {
	t.Helper()
	edges := 0
	for face := range m.Faces {
		for y := 0; y < m.Resolution; y++ {
			for x := 0; x < m.Resolution; x++ {
				id := m.At(face, x, y)
				for _, o := range cubemap.Offsets4 {
					nf, nx, ny := m.Resolve(face, x+o[0], y+o[1])
					other := m.At(nf, nx, ny)
					if other == id {
						continue
					}
					edges++
					here := d.EdgeType(face, x, y, o)
					if here == None || here != d.PairType(other, id) {
						t.Fatalf("edge at face %d (%d,%d): type %v, pair %v", face, x, y, here, d.PairType(other, id))
					}
					back := [2]int{}
					found := false
					for _, r := range cubemap.Offsets4 {
						bf, bx, by := m.Resolve(nf, nx+r[0], ny+r[1])
						if bf == face && bx == x && by == y {
							back, found = r, true
							break
						}
					}
					if found && d.EdgeType(nf, nx, ny, back) != here {
						t.Fatalf("edge at face %d (%d,%d) differs when seen from the other side", face, x, y)
					}
					if d.Distance.At(face, x, y) != 0 || d.Distance.At(nf, nx, ny) != 0 {
						t.Fatalf("boundary pair at face %d (%d,%d) not at distance 0", face, x, y)
					}
					if !d.IsBoundary(face, x, y) {
						t.Fatal("IsBoundary disagrees with distance")
					}
					if len(otherPlates(m, face, x, y)) == 1 && len(otherPlates(m, nf, nx, ny)) == 1 {
						ta, _ := d.Type(face, x, y)
						tb, _ := d.Type(nf, nx, ny)
						if ta != tb {
							t.Fatalf("cells across edge at face %d (%d,%d) store %v and %v", face, x, y, ta, tb)
						}
					}
				}
			}
		}
	}
	if edges == 0 {
		t.Fatal("no boundary edges found")
	}
}

func TestBuild_Symmetry(t *testing.T) {
	m, list := hemispheres(21)
	d := Build(m, list, config.Default().Boundaries)
	checkSymmetry(t, m, d)
}

func TestBuild_SymmetryOnGeneratedPlates(t *testing.T) {
	for _, seed := range []uint64{42, 7, 1234} {
		cfg := config.Default()
		cfg.Generation.Seed = seed
		g, err := plates.NewGenerator(cfg)
		if err != nil {
			t.Fatal(err)
		}
		res, err := g.Generate()
		if err != nil {
			t.Fatal(err)
		}
		d := Build(res.Map, res.Plates, cfg.Boundaries)
		checkSymmetry(t, res.Map, d)
	}
}

func TestBuild_JunctionTakesHighestPair(t *testing.T) {
	m, list := hemispheres(21)
	d := Build(m, list, config.Default().Boundaries)
	for face := range m.Faces {
		for y := 0; y < m.Resolution; y++ {
			for x := 0; x < m.Resolution; x++ {
				others := otherPlates(m, face, x, y)
				if len(others) == 0 {
					continue
				}
				want := None
				for _, o := range others {
					want = max(want, d.PairType(m.At(face, x, y), o))
				}
				if got, _ := d.Type(face, x, y); got != want {
					t.Fatalf("face %d (%d,%d): got %v want %v", face, x, y, got, want)
				}
			}
		}
	}
	if d.PairType(0, 0) != None || d.PairType(0, 1) != d.PairType(1, 0) {
		t.Fatal("pair lookup not symmetric")
	}
}

func TestBuild_PairVote(t *testing.T) {
	m := cubemap.Fill(21, func(_, _, _ int, dir mgl64.Vec3) int {
		switch {
		case dir[0] >= 0:
			return 0
		case dir[1] >= 0:
			return 1
		}
		return 2
	})
	list := []*plates.Plate{
		{ID: 0, Direction: mgl64.Vec3{1, 0, 0}, AngularVelocity: mgl64.Vec3{0, 0, 1}},
		{ID: 1, Direction: mgl64.Vec3{-1, 0, 0}, AngularVelocity: mgl64.Vec3{0, 0, -1}},
		{ID: 2, Direction: mgl64.Vec3{-1, 0, 0}, AngularVelocity: mgl64.Vec3{0, 0, -1}},
	}
	d := Build(m, list, config.Default().Boundaries)
	cases := []struct {
		a, b int
		want Type
	}{
		{0, 1, Convergent},
		{0, 2, Divergent},
		{1, 2, Transform},
	}
	for _, tc := range cases {
		if got := d.PairType(tc.a, tc.b); got != tc.want {
			t.Fatalf("pair %d-%d: got %v want %v", tc.a, tc.b, got, tc.want)
		}
	}
	checkSymmetry(t, m, d)
}

func TestBuild_DistanceBand(t *testing.T) {
	m, list := hemispheres(21)
	d := Build(m, list, config.Default().Boundaries)
	if d.Width != 3 {
		t.Fatalf("width: got %d want 3", d.Width)
	}
	if !math.IsInf(d.Distance.At(0, 10, 10), 1) {
		t.Fatalf("face centre far from boundary should be unreached, got %v", d.Distance.At(0, 10, 10))
	}
	if _, _, ok := d.Color(0, 10, 10); ok {
		t.Fatal("unreached cell should have no colour")
	}
	reached := map[float64]bool{}
	for face := range d.Distance.Faces {
		for i, v := range d.Distance.Faces[face] {
			if math.IsInf(v, 1) {
				continue
			}
			if v > float64(d.Width) {
				t.Fatalf("distance %v beyond width", v)
			}
			if d.Types.Faces[face][i] == None {
				t.Fatalf("reached cell without inherited type")
			}
			reached[v] = true
		}
	}
	for k := 0; k <= 3; k++ {
		if !reached[float64(k)] {
			t.Fatalf("no cells at distance %d", k)
		}
	}
}

func TestColor_Opacity(t *testing.T) {
	m, list := hemispheres(21)
	d := Build(m, list, config.Default().Boundaries)
	for face := range d.Distance.Faces {
		for y := 0; y < 21; y++ {
			for x := 0; x < 21; x++ {
				_, op, ok := d.Color(face, x, y)
				if !ok {
					continue
				}
				dist := d.Distance.At(face, x, y)
				want := 1 - (dist/10)*(dist/10)
				if math.Abs(op-want) > 1e-12 {
					t.Fatalf("opacity at distance %v: got %v want %v", dist, op, want)
				}
			}
		}
	}
	counts := d.Counts()
	if counts[None] != 0 {
		t.Fatal("boundary cells must carry a type")
	}
}
