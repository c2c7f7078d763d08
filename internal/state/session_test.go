package state

import (
	"io"
	"path/filepath"
	"testing"
)

func sampleStates() []*GameState {
	return []*GameState{
		{
			Tick: 1,
			Surfaces: []Surface{
				{
					Vertices: [3][3]int16{{0, 0, 0}, {10, 0, 0}, {10, 10, 0}},
					Normal:   [3]float32{0, 0, -1},
				},
			},
		},
		{Tick: 2},
	}
}

func roundTrip(t *testing.T, path string) {
	t.Helper()
	states := sampleStates()

	w, err := CreateSession(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, st := range states {
		if err := w.Write(st); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	r, err := OpenSession(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	for i, want := range states {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if got.Tick != want.Tick || len(got.Surfaces) != len(want.Surfaces) {
			t.Fatalf("snapshot %d = %+v", i, got)
		}
		for j := range want.Surfaces {
			if got.Surfaces[j] != want.Surfaces[j] {
				t.Fatalf("surface %d/%d = %+v", i, j, got.Surfaces[j])
			}
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("after last snapshot: %v", err)
	}
}

func TestSession_RoundTrip(t *testing.T) {
	roundTrip(t, filepath.Join(t.TempDir(), "session.jsonl"))
}

func TestSession_RoundTripZstd(t *testing.T) {
	roundTrip(t, filepath.Join(t.TempDir(), "session.jsonl.zst"))
}

func TestSurface_IsWall(t *testing.T) {
	wall := Surface{Normal: [3]float32{0, 0, 1}}
	if !wall.IsWall() {
		t.Fatalf("vertical surface should be a wall")
	}
	floor := Surface{Normal: [3]float32{0, 1, 0}}
	if floor.IsWall() {
		t.Fatalf("floor should not be a wall")
	}
	ramp := Surface{Normal: [3]float32{0, 0.5, 0.866}}
	if ramp.IsWall() {
		t.Fatalf("sloped surface should not be a wall")
	}
}

func TestSurface_Edges(t *testing.T) {
	s := Surface{Vertices: [3][3]int16{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}}
	edges := s.Edges()
	want := [3][2][3]int16{
		{{0, 0, 0}, {1, 0, 0}},
		{{1, 0, 0}, {1, 1, 0}},
		{{1, 1, 0}, {0, 0, 0}},
	}
	if edges != want {
		t.Fatalf("edges = %v", edges)
	}
}
