// Package noise wraps coherent 3D gradient noise for sampling on the unit
// sphere. Two backends are available: OpenSimplex (default) and classic
// Perlin.
package noise

import (
	"fmt"

	perlin "github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Source is a 3D noise function returning values roughly in [-1,1].
type Source interface {
	Eval3(x, y, z float64) float64
}

// Backend names accepted by NewSource.
const (
	BackendSimplex = "simplex"
	BackendPerlin  = "perlin"
)

// perlinSource adapts go-perlin to Source. go-perlin output sits in about
// [-0.7,0.7], so it is stretched toward the simplex range.
type perlinSource struct {
	p *perlin.Perlin
}

func (s perlinSource) Eval3(x, y, z float64) float64 {
	return mgl64.Clamp(s.p.Noise3D(x, y, z)*1.4, -1, 1)
}

// NewSource builds a backend by name.
func NewSource(backend string, seed int64) (Source, error) {
	switch backend {
	case "", BackendSimplex:
		return opensimplex.New(seed), nil
	case BackendPerlin:
		return perlinSource{p: perlin.NewPerlin(2, 2, 3, seed)}, nil
	}
	return nil, fmt.Errorf("unknown noise backend %q", backend)
}

// Params configures one noise layer.
type Params struct {
	Frequency float64
	Amplitude float64
	Seed      int64
}

// Field is a seeded noise layer sampled on directions.
type Field struct {
	Params
	src Source
}

// NewField builds a layer on the given backend.
func NewField(backend string, p Params) (*Field, error) {
	src, err := NewSource(backend, p.Seed)
	if err != nil {
		return nil, err
	}
	return &Field{Params: p, src: src}, nil
}

// Sample evaluates the layer at dir·Frequency and scales by Amplitude.
func (f *Field) Sample(dir mgl64.Vec3) float64 {
	p := dir.Mul(f.Frequency)
	return f.src.Eval3(p[0], p[1], p[2]) * f.Amplitude
}

// Raw evaluates the layer without amplitude, in [-1,1].
func (f *Field) Raw(dir mgl64.Vec3) float64 {
	p := dir.Mul(f.Frequency)
	return f.src.Eval3(p[0], p[1], p[2])
}

// Vector samples three decorrelated channels of the layer, offset in space,
// and returns them as a vector scaled by Amplitude.
func (f *Field) Vector(dir mgl64.Vec3) mgl64.Vec3 {
	p := dir.Mul(f.Frequency)
	return mgl64.Vec3{
		f.src.Eval3(p[0], p[1], p[2]),
		f.src.Eval3(p[0]+31.7, p[1]-12.3, p[2]+7.9),
		f.src.Eval3(p[0]-5.1, p[1]+47.2, p[2]-23.6),
	}.Mul(f.Amplitude)
}
