package scan

import (
	"cmp"
	"slices"
	"time"

	"seamscan.dev/internal/geom"
	"seamscan.dev/internal/state"
)

// Candidate-pair search: walls are bucketed by the grid cells their
// horizontal bounding box touches, and only walls sharing a cell are compared
// edge against edge. Walls that touch always share the cell containing the
// contact coordinate, so no adjacent pair is missed.

const wallCellShift = 9 // 512-unit cells

type cellKey struct {
	X int32
	Z int32
}

type pairIndex struct {
	cells map[cellKey][]int32
}

func newPairIndex() *pairIndex {
	return &pairIndex{cells: make(map[cellKey][]int32)}
}

func (px *pairIndex) insert(i int, s *state.Surface) {
	minX, maxX := int32(s.Vertices[0][0]), int32(s.Vertices[0][0])
	minZ, maxZ := int32(s.Vertices[0][2]), int32(s.Vertices[0][2])
	for _, v := range s.Vertices[1:] {
		x, z := int32(v[0]), int32(v[2])
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if z < minZ {
			minZ = z
		}
		if z > maxZ {
			maxZ = z
		}
	}
	for cx := minX >> wallCellShift; cx <= maxX>>wallCellShift; cx++ {
		for cz := minZ >> wallCellShift; cz <= maxZ>>wallCellShift; cz++ {
			key := cellKey{X: cx, Z: cz}
			px.cells[key] = append(px.cells[key], int32(i))
		}
	}
}

// pairs yields each unordered candidate pair once, in a deterministic order:
// cells are visited by sorted key, and wall lists keep insertion order.
// Callers rely on this to produce stable seam lists for the same snapshot.
// It returns false if the caller stopped the enumeration early.
func (px *pairIndex) pairs(yield func(i, j int) bool) bool {
	keys := make([]cellKey, 0, len(px.cells))
	for key := range px.cells {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b cellKey) int {
		if a.X != b.X {
			return cmp.Compare(a.X, b.X)
		}
		return cmp.Compare(a.Z, b.Z)
	})

	seen := make(map[[2]int32]struct{})
	for _, key := range keys {
		walls := px.cells[key]
		for a := 0; a < len(walls); a++ {
			for b := a + 1; b < len(walls); b++ {
				i, j := walls[a], walls[b]
				if j < i {
					i, j = j, i
				}
				pair := [2]int32{i, j}
				if _, ok := seen[pair]; ok {
					continue
				}
				seen[pair] = struct{}{}
				if !yield(int(i), int(j)) {
					return false
				}
			}
		}
	}
	return true
}

// FindSeams derives the active seam set from a snapshot. The whole search
// runs under a wall-clock budget; on overrun it returns nil rather than a
// partially built result, since an oversized pool usually means the snapshot
// itself is corrupt. A successful search always returns a non-nil slice.
func FindSeams(st *state.GameState, budget time.Duration) []geom.Seam {
	if st == nil {
		return nil
	}
	start := time.Now()

	px := newPairIndex()
	for i := range st.Surfaces {
		s := &st.Surfaces[i]
		if !s.IsWall() {
			continue
		}
		if time.Since(start) > budget {
			return nil
		}
		px.insert(i, s)
	}

	seams := []geom.Seam{}
	ok := px.pairs(func(i, j int) bool {
		if time.Since(start) > budget {
			return false
		}
		w1 := &st.Surfaces[i]
		w2 := &st.Surfaces[j]
		for _, e1 := range w1.Edges() {
			for _, e2 := range w2.Edges() {
				if seam, ok := geom.Between(e1, w1.Normal, e2, w2.Normal); ok {
					seams = append(seams, seam)
				}
			}
		}
		return true
	})
	if !ok {
		return nil
	}
	return seams
}
