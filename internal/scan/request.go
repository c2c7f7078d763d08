package scan

import "seamscan.dev/internal/geom"

// SeamRequest is one unit of scheduled work. Requests are comparable; the
// engine uses full structural equality to tell stale worker output from
// current output.
type SeamRequest struct {
	Seam          geom.Seam
	WRange        geom.Range
	SegmentLength float32
	Focused       bool
	Filter        geom.PointFilter
}

func unfocusedRequest(seam geom.Seam, segmentLength float32, filter geom.PointFilter) SeamRequest {
	return SeamRequest{
		Seam:          seam,
		WRange:        seam.WRange(),
		SegmentLength: segmentLength,
		Filter:        filter,
	}
}

func focusedRequest(seam geom.Seam, wRange geom.Range, segmentLength float32, filter geom.PointFilter) SeamRequest {
	return SeamRequest{
		Seam:          seam,
		WRange:        wRange,
		SegmentLength: segmentLength,
		Focused:       true,
		Filter:        filter,
	}
}
