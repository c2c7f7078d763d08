package scan

import "seamscan.dev/internal/geom"

// deadZone is the fixed band around zero excluded from checking: coordinates
// this close to zero carry no meaning at 16-bit integer source resolution.
var deadZone = geom.InclusiveExclusive(-1, 1)

type run struct {
	Range  geom.Range
	Status geom.RangeStatus
}

// SeamProgress is the incremental sweep state for one seam under one filter.
// Completed runs are sorted, contiguous from the sweep start, and merged so
// no two adjacent runs share a status; remaining always starts where the last
// completed run ends.
type SeamProgress struct {
	segmentLength float32
	complete      []run
	remaining     geom.Range
}

// NewSeamProgress starts an empty sweep over r. The sweep domain is half-open
// on the right so segment plans terminate exactly at the requested end.
func NewSeamProgress(r geom.Range, segmentLength float32) *SeamProgress {
	return &SeamProgress{
		segmentLength: segmentLength,
		remaining:     geom.InclusiveExclusive(r.Start, r.End),
	}
}

// SegmentLength is the granularity this progress was swept at.
func (p *SeamProgress) SegmentLength() float32 {
	return p.segmentLength
}

// Complete reports whether the whole domain has been resolved.
func (p *SeamProgress) Complete() bool {
	return p.remaining.IsEmpty()
}

// Segments yields the completed runs in sweep order followed by the remaining
// range as Unchecked. It is finite and restartable.
func (p *SeamProgress) Segments(yield func(geom.Range, geom.RangeStatus) bool) {
	for _, r := range p.complete {
		if !yield(r.Range, r.Status) {
			return
		}
	}
	yield(p.remaining, geom.StatusUnchecked)
}

// resolve folds the next segment of the sweep into the run history. Segments
// must arrive in left-to-right order with no gap, so resolve rejects anything
// that does not start exactly at the remaining edge.
func (p *SeamProgress) resolve(seg geom.Range, status geom.RangeStatus) {
	if status.State == geom.Unchecked {
		panic("scan: resolving segment as unchecked")
	}
	if seg.Start != p.remaining.Start {
		panic("scan: segment resolved out of sweep order")
	}
	p.remaining.Start = seg.End
	if seg.IsEmpty() {
		return
	}
	if n := len(p.complete); n > 0 {
		prev := &p.complete[n-1]
		if prev.Range.End == seg.Start && prev.Status == status {
			prev.Range.End = seg.End
			return
		}
	}
	p.complete = append(p.complete, run{Range: seg, Status: status})
}

// clone snapshots the progress so the worker can keep folding while the
// consumer holds earlier snapshots.
func (p *SeamProgress) clone() *SeamProgress {
	cp := &SeamProgress{
		segmentLength: p.segmentLength,
		remaining:     p.remaining,
	}
	if len(p.complete) > 0 {
		cp.complete = append(make([]run, 0, len(p.complete)), p.complete...)
	}
	return cp
}

type plannedSegment struct {
	Range geom.Range
	Skip  bool
}

// planSegments splits the sweep domain into an ordered plan that exactly
// partitions it. The dead zone is emitted as Skip segments and never reaches
// the checker; outside it, each step advances by segmentLength, or by one
// representable value when segmentLength underflows at the current magnitude,
// and is clipped so no segment crosses the dead-zone boundary or the range
// end.
func planSegments(r geom.Range, segmentLength float32) []plannedSegment {
	var plan []plannedSegment
	rem := geom.InclusiveExclusive(r.Start, r.End)
	for !rem.IsEmpty() {
		if rem.Start >= deadZone.Start && rem.Start < deadZone.End {
			split := deadZone.End
			if rem.End < split {
				split = rem.End
			}
			plan = append(plan, plannedSegment{
				Range: geom.InclusiveExclusive(rem.Start, split),
				Skip:  true,
			})
			rem.Start = split
			continue
		}
		split := rem.Start + segmentLength
		if next := geom.Next32(rem.Start); split < next {
			split = next
		}
		if split > rem.End {
			split = rem.End
		}
		if rem.Start < deadZone.Start && split > deadZone.Start {
			split = deadZone.Start
		}
		plan = append(plan, plannedSegment{
			Range: geom.InclusiveExclusive(rem.Start, split),
		})
		rem.Start = split
	}
	return plan
}
