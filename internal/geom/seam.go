package geom

// PointStatus classifies a single sampled point on a seam.
type PointStatus uint8

const (
	PointNone PointStatus = iota
	PointGap
	PointOverlap
)

func (s PointStatus) String() string {
	switch s {
	case PointGap:
		return "gap"
	case PointOverlap:
		return "overlap"
	default:
		return "none"
	}
}

// PointFilter restricts which point classifications count as interesting.
// Results computed under one filter are meaningless under another, so the
// engine throws away all progress when the filter changes.
type PointFilter uint8

const (
	FilterAll PointFilter = iota
	FilterGaps
	FilterOverlaps
)

// Filters lists every filter in UI order.
func Filters() []PointFilter {
	return []PointFilter{FilterAll, FilterGaps, FilterOverlaps}
}

func (f PointFilter) String() string {
	switch f {
	case FilterGaps:
		return "gaps"
	case FilterOverlaps:
		return "overlaps"
	default:
		return "all"
	}
}

// Apply maps a raw classification through the filter.
func (f PointFilter) Apply(s PointStatus) PointStatus {
	switch f {
	case FilterGaps:
		if s != PointGap {
			return PointNone
		}
	case FilterOverlaps:
		if s != PointOverlap {
			return PointNone
		}
	}
	return s
}

// RangeState is the coarse lifecycle of a swept sub-range.
type RangeState uint8

const (
	Unchecked RangeState = iota
	Skipped
	Checked
)

func (s RangeState) String() string {
	switch s {
	case Skipped:
		return "skipped"
	case Checked:
		return "checked"
	default:
		return "unchecked"
	}
}

// RangeStatus summarizes a swept sub-range. HasGap/HasOverlap are only
// meaningful when State is Checked.
type RangeStatus struct {
	State      RangeState
	HasGap     bool
	HasOverlap bool
}

var (
	StatusUnchecked = RangeStatus{State: Unchecked}
	StatusSkipped   = RangeStatus{State: Skipped}
)

// CheckedStatus builds a Checked status with the given findings.
func CheckedStatus(hasGap, hasOverlap bool) RangeStatus {
	return RangeStatus{State: Checked, HasGap: hasGap, HasOverlap: hasOverlap}
}

// Seam pairs two edges from adjacent walls that bound the same physical
// boundary. Seam values are comparable; the engine keys progress caches by
// the full value, which is how rebuilt seams re-attach to prior progress.
type Seam struct {
	Edge1     Edge
	Edge2     Edge
	Endpoints [2][3]int16
}

// Between builds the seam for two wall edges, given as 3D vertex pairs plus
// their walls' normals. It requires a shared projection axis, opposite
// orientations, and overlapping w-ranges. A pair of vertical edges has no
// interpolable sweep domain and is rejected.
func Between(v1 [2][3]int16, n1 [3]float32, v2 [2][3]int16, n2 [3]float32) (Seam, bool) {
	e1 := NewEdge(v1[0], v1[1], n1)
	e2 := NewEdge(v2[0], v2[1], n2)
	if e1.Axis != e2.Axis || e1.Orientation == e2.Orientation {
		return Seam{}, false
	}
	if e1.IsVertical() && e2.IsVertical() {
		return Seam{}, false
	}
	if e1.WRange().Intersect(e2.WRange()).IsEmpty() {
		return Seam{}, false
	}
	return Seam{Edge1: e1, Edge2: e2, Endpoints: v1}, true
}

// WRange is the horizontal domain both edges cover; the sweep runs over it.
func (s Seam) WRange() Range {
	return s.Edge1.WRange().Intersect(s.Edge2.WRange())
}

// interpolatingEdge picks the edge used to derive the sample y for a query w.
func (s Seam) interpolatingEdge() Edge {
	if s.Edge1.IsVertical() {
		return s.Edge2
	}
	return s.Edge1
}

// CheckPoint samples both edges' acceptance at one w and returns the sample y
// with the filtered classification. A point both walls accept is an overlap;
// a point neither accepts is a gap the player can fall through.
func (s Seam) CheckPoint(w float32, f PointFilter) (float32, PointStatus) {
	y := s.interpolatingEdge().ApproxY(w)
	p := ProjectedPoint{W: w, Y: y}
	a1 := s.Edge1.AcceptsProjected(p)
	a2 := s.Edge2.AcceptsProjected(p)
	return y, f.Apply(classifyPoint(a1, a2))
}

func classifyPoint(a1, a2 bool) PointStatus {
	switch {
	case a1 && a2:
		return PointOverlap
	case !a1 && !a2:
		return PointGap
	default:
		return PointNone
	}
}

// CheckRange evaluates every representable float32 in r, so it can never miss
// a status the point-level fallback would find. It returns how many
// interesting points the filter admitted and the summarized status.
func (s Seam) CheckRange(r Range, f PointFilter) (int, RangeStatus) {
	interesting := 0
	hasGap := false
	hasOverlap := false
	r.Points(func(w float32) bool {
		_, st := s.CheckPoint(w, f)
		switch st {
		case PointGap:
			hasGap = true
			interesting++
		case PointOverlap:
			hasOverlap = true
			interesting++
		}
		return true
	})
	return interesting, CheckedStatus(hasGap, hasOverlap)
}
