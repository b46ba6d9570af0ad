// Package sphere maps between cube-face grid coordinates and directions on
// the unit sphere. Every other package goes through these functions, so a
// (face, u, v) pair means the same point everywhere.
package sphere

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FaceCount is the number of cube faces.
const FaceCount = 6

// CubeFacePoint embeds (u, v) ∈ [-1,1]² onto the given cube face. The result
// lies on the cube surface and is not normalized. An invalid face yields the
// zero vector.
func CubeFacePoint(face int, u, v float64) mgl64.Vec3 {
	switch face {
	case 0:
		return mgl64.Vec3{1, v, -u}
	case 1:
		return mgl64.Vec3{-1, v, u}
	case 2:
		return mgl64.Vec3{u, 1, -v}
	case 3:
		return mgl64.Vec3{u, -1, v}
	case 4:
		return mgl64.Vec3{u, v, 1}
	case 5:
		return mgl64.Vec3{-u, v, -1}
	}
	return mgl64.Vec3{}
}

// DirectionToCubeUV is the inverse of CubeFacePoint. The dominant axis picks
// the face; ties resolve x before y before z. The zero vector maps to face 4
// at the origin.
func DirectionToCubeUV(dir mgl64.Vec3) (face int, u, v float64) {
	ax, ay, az := math.Abs(dir[0]), math.Abs(dir[1]), math.Abs(dir[2])
	switch {
	case ax >= ay && ax >= az && ax > 0:
		if dir[0] > 0 {
			return 0, -dir[2] / ax, dir[1] / ax
		}
		return 1, dir[2] / ax, dir[1] / ax
	case ay >= az && ay > 0:
		if dir[1] > 0 {
			return 2, dir[0] / ay, -dir[2] / ay
		}
		return 3, dir[0] / ay, dir[2] / ay
	case az > 0:
		if dir[2] > 0 {
			return 4, dir[0] / az, dir[1] / az
		}
		return 5, -dir[0] / az, dir[1] / az
	}
	return 4, 0, 0
}

// GridToUV converts a grid index in [0,n) to a face coordinate in [-1,1].
func GridToUV(i, n int) float64 {
	if n < 2 {
		return 0
	}
	return 2*float64(i)/float64(n-1) - 1
}

// UVToGrid converts a face coordinate back to a continuous grid position.
func UVToGrid(u float64, n int) float64 {
	return (u + 1) * 0.5 * float64(n-1)
}

// CellDirection returns the unit direction of grid cell (x, y) on face.
func CellDirection(face, x, y, n int) mgl64.Vec3 {
	return NormalizeOrZero(CubeFacePoint(face, GridToUV(x, n), GridToUV(y, n)))
}
