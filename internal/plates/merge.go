package plates

import (
	"math/rand/v2"
	"slices"

	"github.com/talgya/planetgen/internal/cubemap"
)

// Adjacency returns, per plate id, the sorted ids of plates sharing a
// 4-connected edge, and the cell count of each plate.
func Adjacency(m *cubemap.Field[int], count int) ([][]int, []int) {
	seen := make([]map[int]bool, count)
	for i := range seen {
		seen[i] = map[int]bool{}
	}
	area := make([]int, count)
	n := m.Resolution
	for face := range m.Faces {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				id := m.At(face, x, y)
				area[id]++
				for _, o := range cubemap.Offsets4 {
					if other := m.Fetch(face, x+o[0], y+o[1]); other != id {
						seen[id][other] = true
						seen[other][id] = true
					}
				}
			}
		}
	}
	adj := make([][]int, count)
	for id, set := range seen {
		for other := range set {
			adj[id] = append(adj[id], other)
		}
		slices.Sort(adj[id])
	}
	return adj, area
}

// Merge walks plates by (area desc, id asc). Each unused plate becomes a
// primary with probability pMerge and absorbs one unused neighbour, or two
// with probability pTwo, picked by shuffling its neighbour list. Primaries
// and absorbed plates are both marked used. Absorbed ids are rewritten to
// the primary in m. Returns the number of plates absorbed.
func Merge(m *cubemap.Field[int], count int, pMerge, pTwo float64, rng *rand.Rand) int {
	adj, area := Adjacency(m, count)

	order := make([]int, count)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if area[a] != area[b] {
			return area[b] - area[a]
		}
		return a - b
	})

	target := make([]int, count)
	for i := range target {
		target[i] = i
	}
	used := make([]bool, count)
	absorbed := 0

	for _, id := range order {
		if used[id] {
			continue
		}
		if rng.Float64() >= pMerge {
			continue
		}
		take := 1
		if rng.Float64() < pTwo {
			take = 2
		}
		var candidates []int
		for _, nb := range adj[id] {
			if !used[nb] {
				candidates = append(candidates, nb)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		used[id] = true
		for _, nb := range candidates[:min(take, len(candidates))] {
			used[nb] = true
			target[nb] = id
			absorbed++
		}
	}

	if absorbed > 0 {
		for face := range m.Faces {
			for i, id := range m.Faces[face] {
				m.Faces[face][i] = target[id]
			}
		}
	}
	return absorbed
}

// Smooth runs one 8-connected majority vote. The cell's own id counts
// twice; ties go to the id seen first, starting with the cell itself.
func Smooth(m *cubemap.Field[int]) *cubemap.Field[int] {
	return cubemap.Map(m, func(face, x, y int, self int) int {
		var ids [9]int
		var votes [9]int
		ids[0], votes[0] = self, 2
		k := 1
		for _, o := range cubemap.Offsets8 {
			id := m.Fetch(face, x+o[0], y+o[1])
			j := 0
			for j < k && ids[j] != id {
				j++
			}
			if j == k {
				ids[k] = id
				k++
			}
			votes[j]++
		}
		best := 0
		for j := 1; j < k; j++ {
			if votes[j] > votes[best] {
				best = j
			}
		}
		return ids[best]
	})
}

// Compact drops plates with no cells and renumbers the rest 0..K-1 in id
// order, rewriting m to match.
func Compact(m *cubemap.Field[int], plates []*Plate) []*Plate {
	area := make([]int, len(plates))
	for _, face := range m.Faces {
		for _, id := range face {
			area[id]++
		}
	}
	remap := make([]int, len(plates))
	kept := make([]*Plate, 0, len(plates))
	for id, p := range plates {
		if area[id] == 0 {
			remap[id] = -1
			continue
		}
		remap[id] = len(kept)
		p.ID = len(kept)
		kept = append(kept, p)
	}
	for face := range m.Faces {
		for i, id := range m.Faces[face] {
			m.Faces[face][i] = remap[id]
		}
	}
	return kept
}
