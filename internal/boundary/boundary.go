// Package boundary classifies plate boundaries as convergent, divergent or
// transform from relative plate motion, and spreads a distance field from
// them for soft banding.
package boundary

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/config"
	"github.com/talgya/planetgen/internal/cubemap"
	"github.com/talgya/planetgen/internal/plates"
	"github.com/talgya/planetgen/internal/sphere"
)

// Type is a boundary classification. Larger values win when a cell borders
// several plates.
type Type uint8

const (
	None Type = iota
	Transform
	Divergent
	Convergent
)

func (t Type) String() string {
	switch t {
	case Transform:
		return "transform"
	case Divergent:
		return "divergent"
	case Convergent:
		return "convergent"
	}
	return "none"
}

// Color is the display colour of a boundary type.
func (t Type) Color() [3]float64 {
	switch t {
	case Convergent:
		return [3]float64{1, 0, 0}
	case Divergent:
		return [3]float64{0, 0.5, 1}
	case Transform:
		return [3]float64{1, 1, 0}
	}
	return [3]float64{}
}

// Classify decides the boundary between plate a at cell posA and plate b
// at the adjacent cell posB. Swapping the arguments gives the same result.
// Degenerate geometry falls back to Transform.
func Classify(a, b *plates.Plate, posA, posB mgl64.Vec3, cfg config.Boundaries) Type {
	mid := sphere.NormalizeOrZero(posA.Add(posB))
	if mid == (mgl64.Vec3{}) {
		return Transform
	}
	rel := a.VelocityAt(mid).Sub(b.VelocityAt(mid))
	speed := rel.Len()
	if speed < 1e-12 {
		return Transform
	}
	// Across-boundary normal, pointing from a's centre toward b's.
	normal := sphere.NormalizeOrZero(sphere.ProjectTangent(b.Direction.Sub(a.Direction), mid))
	if normal == (mgl64.Vec3{}) {
		return Transform
	}
	closing := rel.Dot(normal)
	threshold := math.Max(cfg.MinThreshold, speed*cfg.RelativeThreshold)
	switch {
	case closing > threshold:
		return Convergent
	case closing < -threshold:
		return Divergent
	}
	return Transform
}

// pairKey orders two plate ids so both sides of an edge share a key.
type pairKey struct{ lo, hi int }

func keyOf(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Data holds the per-cell classification and the distance to the nearest
// boundary cell in grid steps (+Inf when out of reach).
type Data struct {
	Types    *cubemap.Field[Type]
	Distance *cubemap.Field[float64]
	Width    int

	plates *cubemap.Field[int]
	pairs  map[pairKey]Type
	fade   float64
}

// Build classifies every edge between two plates with Classify, then gives
// each touching pair the type most of its edges voted for, ties going to
// the higher type. Every edge between the same two plates thus shares one
// type. A boundary cell stores the highest type among the pairs it touches;
// EdgeType gives the per-edge answer. The distance field is then flooded
// outward up to the band width.
func Build(m *cubemap.Field[int], list []*plates.Plate, cfg config.Boundaries) *Data {
	n := m.Resolution
	votes := map[pairKey]*[4]int{}
	for face := range m.Faces {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				id := m.At(face, x, y)
				for _, o := range cubemap.Offsets4 {
					nf, nx, ny := m.Resolve(face, x+o[0], y+o[1])
					other := m.At(nf, nx, ny)
					if other == id {
						continue
					}
					k := keyOf(id, other)
					if votes[k] == nil {
						votes[k] = &[4]int{}
					}
					votes[k][Classify(list[id], list[other], m.Direction(face, x, y), m.Direction(nf, nx, ny), cfg)]++
				}
			}
		}
	}
	pairs := make(map[pairKey]Type, len(votes))
	for k, v := range votes {
		best := Transform
		for _, t := range []Type{Divergent, Convergent} {
			if v[t] >= v[best] {
				best = t
			}
		}
		pairs[k] = best
	}

	types := cubemap.Fill(n, func(face, x, y int, _ mgl64.Vec3) Type {
		id := m.At(face, x, y)
		best := None
		for _, o := range cubemap.Offsets4 {
			if other := m.Fetch(face, x+o[0], y+o[1]); other != id {
				best = max(best, pairs[keyOf(id, other)])
			}
		}
		return best
	})

	width := max(cfg.MinWidth, int(cfg.WidthFraction*float64(n)))
	d := &Data{Types: types, Width: width, plates: m, pairs: pairs, fade: cfg.FadeDistance}
	d.Distance = d.flood(width)
	return d
}

// PairType returns the classification shared by every edge between plates
// a and b, or None if they do not touch.
func (d *Data) PairType(a, b int) Type {
	if a == b {
		return None
	}
	return d.pairs[keyOf(a, b)]
}

// EdgeType classifies the edge between a cell and its neighbour at offset o.
// It is None when both cells belong to the same plate, and equal when asked
// from either side of the edge.
func (d *Data) EdgeType(face, x, y int, o [2]int) Type {
	nf, nx, ny := d.plates.Resolve(face, x+o[0], y+o[1])
	return d.PairType(d.plates.At(face, x, y), d.plates.At(nf, nx, ny))
}

type cell struct{ face, x, y int }

// flood runs a layered breadth-first fill from boundary cells. A newly
// reached cell takes the type of the cell that reached it first.
func (d *Data) flood(width int) *cubemap.Field[float64] {
	types := d.Types
	n := types.Resolution
	dist := cubemap.New[float64](n)
	var frontier []cell
	for face := range dist.Faces {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				if types.At(face, x, y) != None {
					frontier = append(frontier, cell{face, x, y})
				} else {
					dist.Set(face, x, y, math.Inf(1))
				}
			}
		}
	}
	for layer := 1; layer <= width && len(frontier) > 0; layer++ {
		var next []cell
		for _, c := range frontier {
			parent := types.At(c.face, c.x, c.y)
			for _, o := range cubemap.Offsets4 {
				nf, nx, ny := types.Resolve(c.face, c.x+o[0], c.y+o[1])
				if !math.IsInf(dist.At(nf, nx, ny), 1) {
					continue
				}
				dist.Set(nf, nx, ny, float64(layer))
				types.Set(nf, nx, ny, parent)
				next = append(next, cell{nf, nx, ny})
			}
		}
		frontier = next
	}
	return dist
}

// IsBoundary reports whether the cell lies on a plate boundary itself.
func (d *Data) IsBoundary(face, x, y int) bool {
	return d.Distance.At(face, x, y) == 0
}

// Type returns the inherited boundary type of a cell, if any reached it.
func (d *Data) Type(face, x, y int) (Type, bool) {
	t := d.Types.At(face, x, y)
	return t, t != None
}

// Color returns the band colour and opacity at a cell. Opacity falls off
// quadratically with distance, reaching zero at the fade distance.
func (d *Data) Color(face, x, y int) (rgb [3]float64, opacity float64, ok bool) {
	t := d.Types.At(face, x, y)
	dist := d.Distance.At(face, x, y)
	if t == None || math.IsInf(dist, 1) {
		return rgb, 0, false
	}
	r := math.Min(dist/d.fade, 1)
	return t.Color(), 1 - r*r, true
}

// Counts tallies boundary cells (distance 0) by type.
func (d *Data) Counts() map[Type]int {
	out := map[Type]int{}
	for face := range d.Types.Faces {
		for i, t := range d.Types.Faces[face] {
			if d.Distance.Faces[face][i] == 0 {
				out[t]++
			}
		}
	}
	return out
}
