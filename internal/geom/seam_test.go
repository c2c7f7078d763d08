package geom

import "testing"

// Two walls meeting along y: wall one's top edge runs along y=0 facing -z,
// wall two's bottom edge runs along y=5 facing +z. Their half-planes overlap
// for 0 <= y <= 5.
func overlappingSeam(t *testing.T) Seam {
	t.Helper()
	s, ok := Between(
		[2][3]int16{{0, 0, 0}, {10, 0, 0}}, [3]float32{0, 0, -1},
		[2][3]int16{{10, 5, 0}, {0, 5, 0}}, [3]float32{0, 0, 1},
	)
	if !ok {
		t.Fatalf("expected a seam")
	}
	return s
}

func TestBetween(t *testing.T) {
	s := overlappingSeam(t)
	if s.Edge1.Axis != AxisZ || s.Edge2.Axis != AxisZ {
		t.Fatalf("axes = %v, %v", s.Edge1.Axis, s.Edge2.Axis)
	}
	if s.Edge1.Orientation != Positive || s.Edge2.Orientation != Negative {
		t.Fatalf("orientations = %v, %v", s.Edge1.Orientation, s.Edge2.Orientation)
	}
	if s.Endpoints != ([2][3]int16{{0, 0, 0}, {10, 0, 0}}) {
		t.Fatalf("endpoints = %v", s.Endpoints)
	}
	if w := s.WRange(); w.Start != 0 || w.End != 10 {
		t.Fatalf("WRange = %+v", w)
	}
}

func TestBetween_Rejections(t *testing.T) {
	v1 := [2][3]int16{{0, 0, 0}, {10, 0, 0}}
	v2 := [2][3]int16{{10, 5, 0}, {0, 5, 0}}

	// Same orientation.
	if _, ok := Between(v1, [3]float32{0, 0, -1}, v2, [3]float32{0, 0, -1}); ok {
		t.Fatalf("same orientation should not pair")
	}
	// Different projection axes.
	if _, ok := Between(v1, [3]float32{0, 0, -1}, v2, [3]float32{1, 0, 0}); ok {
		t.Fatalf("different axes should not pair")
	}
	// Disjoint w-ranges.
	far := [2][3]int16{{20, 5, 0}, {30, 5, 0}}
	if _, ok := Between(v1, [3]float32{0, 0, -1}, far, [3]float32{0, 0, 1}); ok {
		t.Fatalf("disjoint ranges should not pair")
	}
	// Two vertical edges leave nothing to interpolate along.
	vertA := [2][3]int16{{5, 0, 0}, {5, 10, 0}}
	vertB := [2][3]int16{{5, 3, 0}, {5, 8, 0}}
	if _, ok := Between(vertA, [3]float32{0, 0, -1}, vertB, [3]float32{0, 0, 1}); ok {
		t.Fatalf("two vertical edges should not pair")
	}
}

func TestSeam_CheckPoint_Overlap(t *testing.T) {
	s := overlappingSeam(t)
	y, st := s.CheckPoint(4, FilterAll)
	if y != 0 {
		t.Fatalf("sample y = %v", y)
	}
	if st != PointOverlap {
		t.Fatalf("status = %v", st)
	}
	// The gaps filter hides overlaps.
	if _, st := s.CheckPoint(4, FilterGaps); st != PointNone {
		t.Fatalf("filtered status = %v", st)
	}
	if _, st := s.CheckPoint(4, FilterOverlaps); st != PointOverlap {
		t.Fatalf("overlap filter status = %v", st)
	}
}

func TestSeam_CheckPoint_Clean(t *testing.T) {
	// Wall two lowered to y=-5: its inside no longer reaches wall one's edge,
	// so the sample point lands inside exactly one half-plane.
	s, ok := Between(
		[2][3]int16{{0, 0, 0}, {10, 0, 0}}, [3]float32{0, 0, -1},
		[2][3]int16{{10, -5, 0}, {0, -5, 0}}, [3]float32{0, 0, 1},
	)
	if !ok {
		t.Fatalf("expected a seam")
	}
	if _, st := s.CheckPoint(4, FilterAll); st != PointNone {
		t.Fatalf("status = %v", st)
	}
}

func TestSeam_CheckPoint_VerticalEdgeUsesOther(t *testing.T) {
	// Edge one is vertical at w=5; interpolation must come from edge two.
	s, ok := Between(
		[2][3]int16{{5, 0, 0}, {5, 10, 0}}, [3]float32{0, 0, -1},
		[2][3]int16{{10, 3, 0}, {0, 3, 0}}, [3]float32{0, 0, 1},
	)
	if !ok {
		t.Fatalf("expected a seam")
	}
	if w := s.WRange(); w.Start != 5 || w.End != 5 {
		t.Fatalf("WRange = %+v", w)
	}
	y, st := s.CheckPoint(5, FilterAll)
	if y != 3 {
		t.Fatalf("sample y = %v, want the horizontal edge's height", y)
	}
	if st != PointOverlap {
		t.Fatalf("status = %v", st)
	}
}

func TestClassifyPoint(t *testing.T) {
	if got := classifyPoint(true, true); got != PointOverlap {
		t.Fatalf("both accepted = %v", got)
	}
	if got := classifyPoint(false, false); got != PointGap {
		t.Fatalf("neither accepted = %v", got)
	}
	if got := classifyPoint(true, false); got != PointNone {
		t.Fatalf("one accepted = %v", got)
	}
	if got := classifyPoint(false, true); got != PointNone {
		t.Fatalf("other accepted = %v", got)
	}
}

func TestSeam_CheckRange(t *testing.T) {
	s := overlappingSeam(t)
	r := Inclusive(4, upN(4, 10))

	n, status := s.CheckRange(r, FilterAll)
	if n != r.Count() {
		t.Fatalf("interesting = %d, want every point (%d)", n, r.Count())
	}
	if status.State != Checked || !status.HasOverlap || status.HasGap {
		t.Fatalf("status = %+v", status)
	}

	// Under the gaps filter the same range has nothing to report.
	n, status = s.CheckRange(r, FilterGaps)
	if n != 0 {
		t.Fatalf("gaps filter interesting = %d", n)
	}
	if status.State != Checked || status.HasGap || status.HasOverlap {
		t.Fatalf("gaps filter status = %+v", status)
	}
}

func TestFilters(t *testing.T) {
	fs := Filters()
	if len(fs) != 3 || fs[0] != FilterAll || fs[1] != FilterGaps || fs[2] != FilterOverlaps {
		t.Fatalf("Filters() = %v", fs)
	}
	if FilterAll.Apply(PointGap) != PointGap || FilterAll.Apply(PointOverlap) != PointOverlap {
		t.Fatalf("all filter should pass everything")
	}
	if FilterGaps.Apply(PointOverlap) != PointNone || FilterGaps.Apply(PointGap) != PointGap {
		t.Fatalf("gaps filter misbehaves")
	}
	if FilterOverlaps.Apply(PointGap) != PointNone || FilterOverlaps.Apply(PointOverlap) != PointOverlap {
		t.Fatalf("overlaps filter misbehaves")
	}
}
