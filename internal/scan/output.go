package scan

import "seamscan.dev/internal/geom"

// SeamOutput is what the worker hands back for one request: either exact
// per-point samples (focused requests with few findings) or an incremental
// run-length progress snapshot.
type SeamOutput interface {
	isSeamOutput()
}

// PointSample is one interesting point with its classification.
type PointSample struct {
	Point  geom.ProjectedPoint
	Status geom.PointStatus
}

// SeamPoints carries exact samples, ordered by w.
type SeamPoints struct {
	Points []PointSample
}

func (SeamPoints) isSeamOutput()    {}
func (*SeamProgress) isSeamOutput() {}
