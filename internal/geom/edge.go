package geom

import "math"

// ProjectionAxis is the world axis dropped when a wall edge is flattened to
// the 2D (w, y) plane.
type ProjectionAxis uint8

const (
	AxisX ProjectionAxis = iota
	AxisZ
)

// AxisOfWall picks the projection axis from a wall's normal: X when the
// normal's x component dominates, Z otherwise.
func AxisOfWall(normal [3]float32) ProjectionAxis {
	if normal[0] < -0.707 || normal[0] > 0.707 {
		return AxisX
	}
	return AxisZ
}

func (a ProjectionAxis) String() string {
	if a == AxisX {
		return "x"
	}
	return "z"
}

// Orientation is the sign convention for the inside of a wall's half-plane.
//
// An x-projective wall is positive iff normal.x > 0; a z-projective wall is
// positive iff normal.z <= 0.
type Orientation uint8

const (
	// Positive accepts r >= 0.
	Positive Orientation = iota
	// Negative accepts r <= 0.
	Negative
)

// OrientationOfWall derives the orientation from a wall's normal.
func OrientationOfWall(normal [3]float32) Orientation {
	switch AxisOfWall(normal) {
	case AxisX:
		if normal[0] > 0 {
			return Positive
		}
		return Negative
	default:
		if normal[2] <= 0 {
			return Positive
		}
		return Negative
	}
}

func (o Orientation) String() string {
	if o == Positive {
		return "positive"
	}
	return "negative"
}

// ProjectedVertex is a wall vertex flattened onto the (w, y) plane. w is the
// surviving horizontal axis: z for x-projective walls, x for z-projective
// walls.
type ProjectedVertex struct {
	W int16
	Y int16
}

// ProjectedPoint is a query or sample point on the (w, y) plane.
type ProjectedPoint struct {
	W float32
	Y float32
}

// ProjectVertex flattens a 3D integer vertex along the given axis.
func ProjectVertex(v [3]int16, axis ProjectionAxis) ProjectedVertex {
	if axis == AxisX {
		return ProjectedVertex{W: v[2], Y: v[1]}
	}
	return ProjectedVertex{W: v[0], Y: v[1]}
}

// Edge is one edge of a wall, projected to 2D. V1 and V2 keep the wall's
// counter-clockwise vertex order, which the acceptance test depends on.
type Edge struct {
	Axis        ProjectionAxis
	Orientation Orientation
	V1          ProjectedVertex
	V2          ProjectedVertex
}

// NewEdge projects the wall edge (v1, v2) using the wall's normal.
func NewEdge(v1, v2 [3]int16, normal [3]float32) Edge {
	axis := AxisOfWall(normal)
	return Edge{
		Axis:        axis,
		Orientation: OrientationOfWall(normal),
		V1:          ProjectVertex(v1, axis),
		V2:          ProjectVertex(v2, axis),
	}
}

// IsVertical reports whether both endpoints share the same w. Interpolation
// along w is undefined for vertical edges; callers must check this before
// ApproxT or ApproxY.
func (e Edge) IsVertical() bool {
	return e.V1.W == e.V2.W
}

func (e Edge) WRange() Range {
	return Inclusive(float32(e.V1.W), float32(e.V2.W))
}

func (e Edge) YRange() Range {
	return Inclusive(float32(e.V1.Y), float32(e.V2.Y))
}

// ApproxT returns the interpolation parameter for a horizontal query w.
// Calling it on a vertical edge is a caller contract breach and panics.
func (e Edge) ApproxT(w float32) float32 {
	w1 := float32(e.V1.W)
	w2 := float32(e.V2.W)
	if w1 == w2 {
		panic("geom: ApproxT on vertical edge")
	}
	return (w - w1) / (w2 - w1)
}

// ApproxY returns the linearly interpolated y at a horizontal query w.
func (e Edge) ApproxY(w float32) float32 {
	y1 := float32(e.V1.Y)
	y2 := float32(e.V2.Y)
	return y1 + e.ApproxT(w)*(y2-y1)
}

// ApproxWF64 solves the inverse interpolation for w given y in float64 to
// limit error accumulation. Display-only; never part of a verdict.
func (e Edge) ApproxWF64(y float64) float64 {
	w1 := float64(e.V1.W)
	w2 := float64(e.V2.W)
	y1 := float64(e.V1.Y)
	y2 := float64(e.V2.Y)
	return w1 + (y-y1)/(y2-y1)*(w2-w1)
}

// AcceptsProjected reports whether the point lies on the inside of the edge's
// half-plane under the game's own arithmetic: 32-bit floats with denormal
// results flushed to zero after the two products and the final subtraction.
// A one-ulp deviation here flips verdicts at exactly the coordinates where
// exploitable seams live, so the rounding sequence must not be reordered.
func (e Edge) AcceptsProjected(p ProjectedPoint) bool {
	w := flush32(p.W)
	y := flush32(p.Y)

	w1 := float32(e.V1.W)
	y1 := float32(e.V1.Y)
	w2 := float32(e.V2.W)
	y2 := float32(e.V2.Y)

	r := flush32(flush32((y1-y)*(w2-w1)) - flush32((w1-w)*(y2-y1)))

	if e.Orientation == Positive {
		return r >= 0
	}
	return r <= 0
}

// flush32 forces subnormal values to zero, keeping the sign, matching the
// target runtime's flush-to-zero mode.
func flush32(x float32) float32 {
	b := math.Float32bits(x)
	if b&0x7f80_0000 == 0 {
		return math.Float32frombits(b & 0x8000_0000)
	}
	return x
}
