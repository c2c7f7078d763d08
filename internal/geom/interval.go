package geom

import "math"

// Range is a float32 interval. A half-open range covers [Start, End), an
// inclusive one covers [Start, End].
type Range struct {
	Start    float32
	End      float32
	HalfOpen bool
}

// Inclusive returns the closed range covering both endpoints, in either order.
func Inclusive(a, b float32) Range {
	if b < a {
		a, b = b, a
	}
	return Range{Start: a, End: b}
}

// InclusiveExclusive returns the half-open range [a, b), in either order.
func InclusiveExclusive(a, b float32) Range {
	if b < a {
		a, b = b, a
	}
	return Range{Start: a, End: b, HalfOpen: true}
}

func (r Range) IsEmpty() bool {
	if r.HalfOpen {
		return r.Start >= r.End
	}
	return r.Start > r.End
}

// Intersect returns the overlap of r and o with both ends treated as
// inclusive. The result is a closed range, empty if they do not meet.
func (r Range) Intersect(o Range) Range {
	start := r.Start
	if o.Start > start {
		start = o.Start
	}
	end := r.End
	if o.End < end {
		end = o.End
	}
	return Range{Start: start, End: end}
}

// CutOut removes the portion of r covered by other and returns the remainder
// below it and above it. Either side may be empty.
func (r Range) CutOut(other Range) (left, right Range) {
	left = r
	if other.Start <= r.End {
		left = Range{Start: r.Start, End: other.Start, HalfOpen: true}
	}
	cut := other.End
	if !other.HalfOpen {
		cut = Next32(other.End)
	}
	if cut < r.Start {
		cut = r.Start
	}
	right = Range{Start: cut, End: r.End, HalfOpen: r.HalfOpen}
	return left, right
}

// Count returns how many representable float32 values the range contains.
// Callers use it to bound enumeration before calling Points.
func (r Range) Count() int {
	if r.IsEmpty() {
		return 0
	}
	n := orderedIndex(r.End) - orderedIndex(r.Start)
	if !r.HalfOpen {
		n++
	}
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	return int(n)
}

// Points calls yield for every representable float32 in the range in
// ascending order, stopping early if yield returns false.
func (r Range) Points(yield func(w float32) bool) {
	for w := r.Start; w < r.End; w = Next32(w) {
		if !yield(w) {
			return
		}
	}
	if !r.HalfOpen && r.Start <= r.End {
		yield(r.End)
	}
}

// Next32 returns the smallest representable float32 strictly greater than x.
// Sweeps step by Next32 when a nominal step underflows at the current
// magnitude, so forward progress is always guaranteed.
func Next32(x float32) float32 {
	return math.Nextafter32(x, float32(math.Inf(1)))
}

// orderedIndex maps float32 bit patterns onto a scale where numeric order
// matches integer order, so distances count representable values. The
// non-negative half is shifted down one slot so -0 and +0 share an index;
// enumeration visits a single zero, and counting must agree with it.
func orderedIndex(x float32) int64 {
	b := math.Float32bits(x)
	if b&0x8000_0000 != 0 {
		return int64(^b)
	}
	return int64(b|0x8000_0000) - 1
}
