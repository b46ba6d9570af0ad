// Package mesh turns a planet into renderer-neutral triangle data. Vertices
// shared by two or three faces along cube edges are emitted once, so the
// mesh is watertight.
package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/planet"
)

// Mode selects the vertex colouring.
type Mode int

const (
	PlateView Mode = iota
	ContinentView
)

func (m Mode) String() string {
	switch m {
	case PlateView:
		return "plates"
	case ContinentView:
		return "continents"
	}
	return "unknown"
}

// Data is an indexed triangle list. Normals point radially outward.
type Data struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Colors    []mgl32.Vec4
	Indices   []uint32
}

// VertexCount is the number of unique vertices for a stitched cube-sphere
// of n samples per face edge.
func VertexCount(n int) int {
	return 6*n*n - 12*n + 8
}

type quantKey [3]int64

// FromPlanet builds the surface mesh at radius+height. snow is the height
// above which land turns white in the continent view; threshold scales the
// shore and lowland colour bands. Sea level is height 0.
func FromPlanet(p *planet.Planet, mode Mode, snow, threshold float64) *Data {
	n := p.GridSize
	quant := float64(n-1) * 64
	seen := make(map[quantKey]uint32, VertexCount(n))
	index := make([][]uint32, 6)
	out := &Data{}

	for face := 0; face < 6; face++ {
		index[face] = make([]uint32, n*n)
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				dir := p.Heights.Direction(face, x, y)
				key := quantKey{
					int64(math.Round(dir[0] * quant)),
					int64(math.Round(dir[1] * quant)),
					int64(math.Round(dir[2] * quant)),
				}
				idx, ok := seen[key]
				if !ok {
					h := p.Heights.At(face, x, y)
					idx = uint32(len(out.Positions))
					seen[key] = idx
					out.Positions = append(out.Positions, vec32(dir.Mul(p.Radius+h)))
					out.Normals = append(out.Normals, vec32(dir))
					var c mgl32.Vec4
					if mode == PlateView {
						c = plateColor(p, face, x, y)
					} else {
						c = ContinentColor(h, snow, threshold)
					}
					out.Colors = append(out.Colors, c)
				}
				index[face][y*n+x] = idx
			}
		}
	}

	out.Indices = make([]uint32, 0, 6*(n-1)*(n-1)*6)
	for face := 0; face < 6; face++ {
		for y := 0; y < n-1; y++ {
			for x := 0; x < n-1; x++ {
				i0 := index[face][y*n+x]
				i1 := index[face][y*n+x+1]
				i2 := index[face][(y+1)*n+x]
				i3 := index[face][(y+1)*n+x+1]
				out.Indices = append(out.Indices, i0, i1, i2, i1, i3, i2)
			}
		}
	}
	return out
}

func plateColor(p *planet.Planet, face, x, y int) mgl32.Vec4 {
	c := p.PlateAt(face, x, y).Color
	if rgb, a, ok := p.Boundaries.Color(face, x, y); ok {
		for i := 0; i < 3; i++ {
			c[i] = c[i]*(1-a) + rgb[i]*a
		}
	}
	return mgl32.Vec4{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
}

var (
	snowColor  = mgl32.Vec4{0.95, 0.95, 1, 1}
	shoreColor = mgl32.Vec4{0.85, 0.75, 0.45, 1}
)

// ContinentColor is the height ramp: sandy sea floor, yellow shore, green
// lowlands darkening inland, mountains lightening toward the snow line.
func ContinentColor(h, snow, threshold float64) mgl32.Vec4 {
	if h <= 0 {
		return seaFloorColor(h)
	}
	if h > snow {
		return snowColor
	}
	shore := threshold * 0.05
	high := threshold * 1.5
	switch {
	case h > high:
		f := clamp01((h - high) / (snow - high))
		return rgba(0.05+f*0.2, 0.2+f*0.2, 0.05+f*0.15)
	case h > shore:
		f := clamp01((h - shore) / (threshold*0.5 - shore))
		return rgba(0.4-f*0.35, 0.5-f*0.3, 0.15-f*0.1)
	}
	f := 1.0
	if shore > 0 {
		f = clamp01(h / shore)
	}
	return rgba(0.85-f*0.45, 0.75-f*0.25, 0.45-f*0.3)
}

func seaFloorColor(h float64) mgl32.Vec4 {
	f := clamp01(-h)
	return rgba(0.9-f*0.2, 0.85-f*0.2, 0.7-f*0.2)
}

func rgba(r, g, b float64) mgl32.Vec4 {
	return mgl32.Vec4{float32(r), float32(g), float32(b), 1}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return mgl64.Clamp(v, 0, 1)
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
