// Package protocol defines the JSON messages exchanged with viewers over the
// websocket endpoint, and the wire forms of the core geometry types. The core
// engine owns no wire format; this package translates at the boundary.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"seamscan.dev/internal/geom"
)

const Version = "1.0"

const (
	// Client to server.
	TypeHello     = "HELLO"
	TypeSetFilter = "SET_FILTER"
	TypeFocus     = "FOCUS"
	TypeUnfocus   = "UNFOCUS"

	// Server to client.
	TypeWelcome  = "WELCOME"
	TypeStatus   = "STATUS"
	TypeSeams    = "SEAMS"
	TypeProgress = "PROGRESS"
	TypePoints   = "POINTS"
	TypeError    = "ERROR"
)

type BaseMsg struct {
	Type string `json:"type"`
}

func DecodeBase(b []byte) (BaseMsg, error) {
	var base BaseMsg
	if err := json.Unmarshal(b, &base); err != nil {
		return base, fmt.Errorf("decode message: %w", err)
	}
	if base.Type == "" {
		return base, fmt.Errorf("decode message: missing type")
	}
	return base, nil
}

type VertexJSON struct {
	W int16 `json:"w"`
	Y int16 `json:"y"`
}

type EdgeJSON struct {
	Axis        string     `json:"axis"`
	Orientation string     `json:"orientation"`
	V1          VertexJSON `json:"v1"`
	V2          VertexJSON `json:"v2"`
}

type SeamJSON struct {
	Edge1     EdgeJSON    `json:"edge1"`
	Edge2     EdgeJSON    `json:"edge2"`
	Endpoints [2][3]int16 `json:"endpoints"`
}

func FromEdge(e geom.Edge) EdgeJSON {
	return EdgeJSON{
		Axis:        strings.ToUpper(e.Axis.String()),
		Orientation: strings.ToUpper(e.Orientation.String()),
		V1:          VertexJSON{W: e.V1.W, Y: e.V1.Y},
		V2:          VertexJSON{W: e.V2.W, Y: e.V2.Y},
	}
}

func (e EdgeJSON) ToEdge() (geom.Edge, error) {
	var edge geom.Edge
	switch e.Axis {
	case "X":
		edge.Axis = geom.AxisX
	case "Z":
		edge.Axis = geom.AxisZ
	default:
		return edge, fmt.Errorf("bad axis %q", e.Axis)
	}
	switch e.Orientation {
	case "POSITIVE":
		edge.Orientation = geom.Positive
	case "NEGATIVE":
		edge.Orientation = geom.Negative
	default:
		return edge, fmt.Errorf("bad orientation %q", e.Orientation)
	}
	edge.V1 = geom.ProjectedVertex{W: e.V1.W, Y: e.V1.Y}
	edge.V2 = geom.ProjectedVertex{W: e.V2.W, Y: e.V2.Y}
	return edge, nil
}

func FromSeam(s geom.Seam) SeamJSON {
	return SeamJSON{
		Edge1:     FromEdge(s.Edge1),
		Edge2:     FromEdge(s.Edge2),
		Endpoints: s.Endpoints,
	}
}

func (s SeamJSON) ToSeam() (geom.Seam, error) {
	e1, err := s.Edge1.ToEdge()
	if err != nil {
		return geom.Seam{}, fmt.Errorf("edge1: %w", err)
	}
	e2, err := s.Edge2.ToEdge()
	if err != nil {
		return geom.Seam{}, fmt.Errorf("edge2: %w", err)
	}
	return geom.Seam{Edge1: e1, Edge2: e2, Endpoints: s.Endpoints}, nil
}

func FilterName(f geom.PointFilter) string {
	return strings.ToUpper(f.String())
}

func ParseFilter(name string) (geom.PointFilter, error) {
	for _, f := range geom.Filters() {
		if FilterName(f) == name {
			return f, nil
		}
	}
	return geom.FilterAll, fmt.Errorf("unknown filter %q", name)
}

func PointStatusName(s geom.PointStatus) string {
	return strings.ToUpper(s.String())
}

func RangeStateName(s geom.RangeState) string {
	return strings.ToUpper(s.String())
}
