package plates

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/planetgen/internal/entropy"
	"github.com/talgya/planetgen/internal/sphere"
)

// SeedDirections draws count uniform unit directions, one RNG stream per
// plate.
func SeedDirections(seed uint64, count int) []mgl64.Vec3 {
	dirs := make([]mgl64.Vec3, count)
	for i := range dirs {
		rng := entropy.New(seed, plateDomain("direction", i))
		for {
			d := sphere.NormalizeOrZero(mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()})
			if d != (mgl64.Vec3{}) {
				dirs[i] = d
				break
			}
		}
	}
	return dirs
}

// Relax pushes apart every pair of directions whose chord distance is below
// minSep. Each member of a close pair moves half the deficit away from the
// other; moves are accumulated over the pass and applied together, then
// directions are renormalized. Returns the number of passes run, which stops
// early once no pair is too close.
func Relax(dirs []mgl64.Vec3, minSep float64, maxIter int) int {
	adjust := make([]mgl64.Vec3, len(dirs))
	for pass := 0; pass < maxIter; pass++ {
		moved := false
		for i := range adjust {
			adjust[i] = mgl64.Vec3{}
		}
		for i := 0; i < len(dirs); i++ {
			for j := i + 1; j < len(dirs); j++ {
				a, b := dirs[i], dirs[j]
				chord := sphere.Chord(a, b)
				if chord >= minSep {
					continue
				}
				moved = true
				away := sphere.NormalizeOrZero(a.Sub(b))
				if away == (mgl64.Vec3{}) {
					// Coincident centres: split along an arbitrary tangent.
					away = sphere.East(a)
				}
				push := away.Mul((minSep - chord) / 2)
				adjust[i] = adjust[i].Add(push)
				adjust[j] = adjust[j].Sub(push)
			}
		}
		if !moved {
			return pass
		}
		for i := range dirs {
			if v := sphere.NormalizeOrZero(dirs[i].Add(adjust[i])); v != (mgl64.Vec3{}) {
				dirs[i] = v
			}
		}
	}
	return maxIter
}

// MinChord returns the smallest pairwise chord distance.
func MinChord(dirs []mgl64.Vec3) float64 {
	best := 2.0
	for i := 0; i < len(dirs); i++ {
		for j := i + 1; j < len(dirs); j++ {
			if c := sphere.Chord(dirs[i], dirs[j]); c < best {
				best = c
			}
		}
	}
	return best
}
