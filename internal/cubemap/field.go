// Package cubemap provides the six-face grid container shared by every
// spherical field: plate ids, heights, wind, temperature, vertical air,
// precipitation and mountain influence. Indexing, cross-face neighbour
// lookup and bilinear sampling live here and nowhere else.
package cubemap

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/sphere"
)

// Field is a cube-sphere grid of T with the same resolution on all faces.
// Each face is stored row-major: Faces[f][y*Resolution+x].
type Field[T any] struct {
	Resolution int
	Faces      [sphere.FaceCount][]T
}

// New allocates a zeroed field of resolution n.
func New[T any](n int) *Field[T] {
	f := &Field[T]{Resolution: n}
	for i := range f.Faces {
		f.Faces[i] = make([]T, n*n)
	}
	return f
}

// Fill builds a field by evaluating fn at every cell. Faces are filled
// concurrently; fn must not touch shared mutable state.
func Fill[T any](n int, fn func(face, x, y int, dir mgl64.Vec3) T) *Field[T] {
	f := New[T](n)
	var wg sync.WaitGroup
	for face := 0; face < sphere.FaceCount; face++ {
		wg.Add(1)
		go func(face int) {
			defer wg.Done()
			row := f.Faces[face]
			for y := 0; y < n; y++ {
				for x := 0; x < n; x++ {
					row[y*n+x] = fn(face, x, y, sphere.CellDirection(face, x, y, n))
				}
			}
		}(face)
	}
	wg.Wait()
	return f
}

// Map derives a new field from src cell by cell.
func Map[S, T any](src *Field[S], fn func(face, x, y int, v S) T) *Field[T] {
	return Fill(src.Resolution, func(face, x, y int, _ mgl64.Vec3) T {
		return fn(face, x, y, src.At(face, x, y))
	})
}

// In reports whether (x, y) lies inside a face.
func (f *Field[T]) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Resolution && y < f.Resolution
}

// At returns the value at an in-range cell.
func (f *Field[T]) At(face, x, y int) T {
	return f.Faces[face][y*f.Resolution+x]
}

// Set stores v at an in-range cell.
func (f *Field[T]) Set(face, x, y int, v T) {
	f.Faces[face][y*f.Resolution+x] = v
}

// Clone returns a deep copy.
func (f *Field[T]) Clone() *Field[T] {
	c := &Field[T]{Resolution: f.Resolution}
	for i := range f.Faces {
		c.Faces[i] = append([]T(nil), f.Faces[i]...)
	}
	return c
}

// Direction returns the unit direction of a cell.
func (f *Field[T]) Direction(face, x, y int) mgl64.Vec3 {
	return sphere.CellDirection(face, x, y, f.Resolution)
}

// Resolve maps a possibly out-of-range cell onto the face that actually
// contains it. The index is turned into a direction on the extended face
// plane and re-located, so stepping off an edge lands on the neighbouring
// face instead of being clamped.
func (f *Field[T]) Resolve(face, x, y int) (int, int, int) {
	if f.In(x, y) {
		return face, x, y
	}
	n := f.Resolution
	dir := sphere.CubeFacePoint(face, sphere.GridToUV(x, n), sphere.GridToUV(y, n))
	nf, u, v := sphere.DirectionToCubeUV(dir)
	return nf, clampIndex(sphere.UVToGrid(u, n), n), clampIndex(sphere.UVToGrid(v, n), n)
}

// Fetch returns the value at a cell, following Resolve for out-of-range
// indices.
func (f *Field[T]) Fetch(face, x, y int) T {
	face, x, y = f.Resolve(face, x, y)
	return f.At(face, x, y)
}

// Locate returns the continuous grid position of dir.
func (f *Field[T]) Locate(dir mgl64.Vec3) (face int, gx, gy float64) {
	face, u, v := sphere.DirectionToCubeUV(dir)
	return face, sphere.UVToGrid(u, f.Resolution), sphere.UVToGrid(v, f.Resolution)
}

// Nearest returns the value of the cell closest to dir.
func (f *Field[T]) Nearest(dir mgl64.Vec3) T {
	face, gx, gy := f.Locate(dir)
	return f.At(face, clampIndex(gx, f.Resolution), clampIndex(gy, f.Resolution))
}

func clampIndex(g float64, n int) int {
	i := int(math.Round(g))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Offsets4 are the 4-connected neighbour steps.
var Offsets4 = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Offsets8 are the 8-connected neighbour steps in scan order.
var Offsets8 = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}
