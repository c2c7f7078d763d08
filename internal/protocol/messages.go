package protocol

type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

type SetFilterMsg struct {
	Type   string `json:"type"`
	Filter string `json:"filter"`
}

type FocusMsg struct {
	Type          string     `json:"type"`
	Seam          SeamJSON   `json:"seam"`
	WRange        [2]float32 `json:"w_range"`
	SegmentLength float32    `json:"segment_length"`
}

type UnfocusMsg struct {
	Type string `json:"type"`
}

type WelcomeMsg struct {
	Type                 string  `json:"type"`
	ProtocolVersion      string  `json:"protocol_version"`
	TickRateHz           int     `json:"tick_rate_hz"`
	DefaultSegmentLength float32 `json:"default_segment_length"`
	Filter               string  `json:"filter"`
}

type StatusMsg struct {
	Type      string `json:"type"`
	Tick      uint64 `json:"tick"`
	Active    int    `json:"active_seams"`
	Remaining int    `json:"remaining_seams"`
}

type SeamsMsg struct {
	Type  string     `json:"type"`
	Tick  uint64     `json:"tick"`
	Seams []SeamJSON `json:"seams"`
}

// RunJSON is one run of the run-length progress history.
type RunJSON struct {
	Start      float32 `json:"start"`
	End        float32 `json:"end"`
	State      string  `json:"state"`
	HasGap     bool    `json:"has_gap,omitempty"`
	HasOverlap bool    `json:"has_overlap,omitempty"`
}

type ProgressMsg struct {
	Type          string    `json:"type"`
	Seam          SeamJSON  `json:"seam"`
	SegmentLength float32   `json:"segment_length"`
	Runs          []RunJSON `json:"runs"`
}

type PointJSON struct {
	W      float32 `json:"w"`
	Y      float32 `json:"y"`
	Status string  `json:"status"`
}

type PointsMsg struct {
	Type   string      `json:"type"`
	Seam   SeamJSON    `json:"seam"`
	Points []PointJSON `json:"points"`
}

type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
