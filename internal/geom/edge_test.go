package geom

import (
	"math"
	"testing"
)

func TestAxisOfWall(t *testing.T) {
	cases := []struct {
		normal [3]float32
		want   ProjectionAxis
	}{
		{[3]float32{1, 0, 0}, AxisX},
		{[3]float32{-1, 0, 0}, AxisX},
		{[3]float32{0.708, 0, 0.706}, AxisX},
		{[3]float32{0, 0, 1}, AxisZ},
		{[3]float32{0, 0, -1}, AxisZ},
		// Exactly 0.707 is not past the threshold.
		{[3]float32{0.707, 0, 0.707}, AxisZ},
	}
	for _, c := range cases {
		if got := AxisOfWall(c.normal); got != c.want {
			t.Fatalf("AxisOfWall(%v) = %v, want %v", c.normal, got, c.want)
		}
	}
}

func TestOrientationOfWall(t *testing.T) {
	cases := []struct {
		normal [3]float32
		want   Orientation
	}{
		{[3]float32{1, 0, 0}, Positive},
		{[3]float32{-1, 0, 0}, Negative},
		{[3]float32{0, 0, -1}, Positive},
		{[3]float32{0, 0, 0}, Positive}, // z-projective, nz <= 0
		{[3]float32{0, 0, 1}, Negative},
	}
	for _, c := range cases {
		if got := OrientationOfWall(c.normal); got != c.want {
			t.Fatalf("OrientationOfWall(%v) = %v, want %v", c.normal, got, c.want)
		}
	}
}

func TestProjectVertex(t *testing.T) {
	v := [3]int16{1, 2, 3}
	if got := ProjectVertex(v, AxisX); got != (ProjectedVertex{W: 3, Y: 2}) {
		t.Fatalf("x-projection = %+v", got)
	}
	if got := ProjectVertex(v, AxisZ); got != (ProjectedVertex{W: 1, Y: 2}) {
		t.Fatalf("z-projection = %+v", got)
	}
}

func TestEdge_Geometry(t *testing.T) {
	e := Edge{
		Axis:        AxisZ,
		Orientation: Positive,
		V1:          ProjectedVertex{W: 0, Y: 0},
		V2:          ProjectedVertex{W: 10, Y: 5},
	}
	if e.IsVertical() {
		t.Fatalf("edge with distinct w should not be vertical")
	}
	if w := e.WRange(); w.Start != 0 || w.End != 10 {
		t.Fatalf("WRange = %+v", w)
	}
	if y := e.YRange(); y.Start != 0 || y.End != 5 {
		t.Fatalf("YRange = %+v", y)
	}
	if got := e.ApproxT(5); got != 0.5 {
		t.Fatalf("ApproxT(5) = %v", got)
	}
	if got := e.ApproxY(5); got != 2.5 {
		t.Fatalf("ApproxY(5) = %v", got)
	}
	if got := e.ApproxWF64(2.5); got != 5 {
		t.Fatalf("ApproxWF64(2.5) = %v", got)
	}

	rev := Edge{V1: ProjectedVertex{W: 10, Y: 5}, V2: ProjectedVertex{W: 0, Y: 0}}
	if w := rev.WRange(); w.Start != 0 || w.End != 10 {
		t.Fatalf("reversed WRange should normalize, got %+v", w)
	}
}

func TestNewEdge_XProjectiveVertical(t *testing.T) {
	e := NewEdge([3]int16{0, 0, 100}, [3]int16{0, 100, 100}, [3]float32{1, 0, 0})
	if e.Axis != AxisX || e.Orientation != Positive {
		t.Fatalf("edge = %+v", e)
	}
	if e.V1 != (ProjectedVertex{W: 100, Y: 0}) || e.V2 != (ProjectedVertex{W: 100, Y: 100}) {
		t.Fatalf("projected vertices = %+v %+v", e.V1, e.V2)
	}
	if !e.IsVertical() {
		t.Fatalf("edge should be vertical")
	}
}

func TestEdge_ApproxT_VerticalPanics(t *testing.T) {
	e := Edge{V1: ProjectedVertex{W: 5, Y: 0}, V2: ProjectedVertex{W: 5, Y: 10}}
	if !e.IsVertical() {
		t.Fatalf("edge should be vertical")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("ApproxT on vertical edge should panic")
		}
	}()
	e.ApproxT(5)
}

func TestEdge_AcceptsProjected(t *testing.T) {
	// Horizontal edge along y=0, left to right. For a query point,
	// r = -10*y, so Positive keeps the half-plane y <= 0.
	pos := Edge{
		Orientation: Positive,
		V1:          ProjectedVertex{W: 0, Y: 0},
		V2:          ProjectedVertex{W: 10, Y: 0},
	}
	neg := pos
	neg.Orientation = Negative

	cases := []struct {
		y       float32
		wantPos bool
		wantNeg bool
	}{
		{-1, true, false},
		{0, true, true}, // boundary belongs to both
		{1, false, true},
	}
	for _, c := range cases {
		p := ProjectedPoint{W: 4, Y: c.y}
		if got := pos.AcceptsProjected(p); got != c.wantPos {
			t.Fatalf("positive accepts y=%v: %v, want %v", c.y, got, c.wantPos)
		}
		if got := neg.AcceptsProjected(p); got != c.wantNeg {
			t.Fatalf("negative accepts y=%v: %v, want %v", c.y, got, c.wantNeg)
		}
	}
}

func TestEdge_AcceptsProjected_FlushesSubnormals(t *testing.T) {
	// y is the smallest positive subnormal. Under default float semantics the
	// point sits strictly above the edge and a Positive edge rejects it; with
	// flush-to-zero it collapses onto the boundary and is accepted.
	pos := Edge{
		Orientation: Positive,
		V1:          ProjectedVertex{W: 0, Y: 0},
		V2:          ProjectedVertex{W: 10, Y: 0},
	}
	p := ProjectedPoint{W: 4, Y: math.Float32frombits(1)}
	if !pos.AcceptsProjected(p) {
		t.Fatalf("subnormal y should flush to the boundary and be accepted")
	}
	p.Y = -math.Float32frombits(1)
	neg := pos
	neg.Orientation = Negative
	if !neg.AcceptsProjected(p) {
		t.Fatalf("negative subnormal y should flush to the boundary and be accepted")
	}
}

func TestFlush32(t *testing.T) {
	if got := flush32(math.Float32frombits(1)); got != 0 || math.Signbit(float64(got)) {
		t.Fatalf("positive subnormal flushed to %v", got)
	}
	neg := flush32(math.Float32frombits(0x8000_0001))
	if neg != 0 || !math.Signbit(float64(neg)) {
		t.Fatalf("negative subnormal should flush to -0, got %v", neg)
	}
	if got := flush32(1.5); got != 1.5 {
		t.Fatalf("normal value changed: %v", got)
	}
	if got := flush32(0); got != 0 {
		t.Fatalf("zero changed: %v", got)
	}
}
