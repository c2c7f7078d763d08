// Package state models the per-tick collision geometry snapshot supplied by
// an external memory-reading component, plus the recorded-session format used
// to replay such snapshots offline.
package state

// Surface is one collision triangle: three 16-bit integer vertices in the
// game's winding order and the unit normal the game computed for them.
type Surface struct {
	Vertices [3][3]int16 `json:"vertices"`
	Normal   [3]float32  `json:"normal"`
}

// IsWall reports whether the surface is near-vertical. Only walls take part
// in seam detection.
func (s *Surface) IsWall() bool {
	ny := s.Normal[1]
	if ny < 0 {
		ny = -ny
	}
	return ny <= 0.01
}

// Edges returns the three vertex pairs of the triangle in winding order.
func (s *Surface) Edges() [3][2][3]int16 {
	return [3][2][3]int16{
		{s.Vertices[0], s.Vertices[1]},
		{s.Vertices[1], s.Vertices[2]},
		{s.Vertices[2], s.Vertices[0]},
	}
}

// GameState is one read-only snapshot of the surface pool.
type GameState struct {
	Tick     uint64    `json:"tick"`
	Surfaces []Surface `json:"surfaces"`
}
