// seamscan is a one-shot batch checker: it loads the last snapshot of a
// recorded session, lists the seams it finds, and on request sweeps one seam
// synchronously, printing results as JSON lines.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"seamscan.dev/internal/geom"
	"seamscan.dev/internal/protocol"
	"seamscan.dev/internal/scan"
	"seamscan.dev/internal/state"
)

func main() {
	var (
		sessionPath = flag.String("session", "", "recorded session (.jsonl or .jsonl.zst)")
		list        = flag.Bool("list", false, "list detected seams and exit")
		seamIdx     = flag.Int("seam", -1, "seam index from -list to sweep")
		start       = flag.Float64("start", 0, "sweep start (default: seam range start)")
		end         = flag.Float64("end", 0, "sweep end (default: seam range end)")
		segment     = flag.Float64("segment", 20, "segment length")
		filterName  = flag.String("filter", "ALL", "point filter: ALL, GAPS or OVERLAPS")
		withDead    = flag.Bool("include-deadzone", false, "check the [-1,1) band instead of skipping it")
		budget      = flag.Duration("budget", time.Second, "seam search budget")
		points      = flag.Bool("points", false, "print every interesting point instead of run summaries")
	)
	flag.Parse()

	if *sessionPath == "" {
		fmt.Fprintln(os.Stderr, "missing -session")
		os.Exit(2)
	}

	filter, err := protocol.ParseFilter(*filterName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	st, err := lastSnapshot(*sessionPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read session:", err)
		os.Exit(1)
	}

	seams := scan.FindSeams(st, *budget)
	if seams == nil {
		fmt.Fprintln(os.Stderr, "seam search exceeded budget; raise -budget")
		os.Exit(1)
	}

	if *list || *seamIdx < 0 {
		fmt.Printf("tick=%d surfaces=%d seams=%d\n", st.Tick, len(st.Surfaces), len(seams))
		for i, s := range seams {
			w := s.WRange()
			fmt.Printf("%4d  axis=%s  w=[%g, %g]  endpoints=%v\n",
				i, s.Edge1.Axis, w.Start, w.End, s.Endpoints)
		}
		return
	}

	if *seamIdx >= len(seams) {
		fmt.Fprintf(os.Stderr, "seam index %d out of range (have %d)\n", *seamIdx, len(seams))
		os.Exit(2)
	}
	seam := seams[*seamIdx]

	domain := seam.WRange()
	if *start != 0 || *end != 0 {
		domain = geom.Inclusive(float32(*start), float32(*end))
	}

	enc := json.NewEncoder(os.Stdout)
	sweep(enc, seam, domain, float32(*segment), filter, *withDead, *points)
}

func lastSnapshot(path string) (*state.GameState, error) {
	r, err := state.OpenSession(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var last *state.GameState
	for {
		st, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		last = st
	}
	if last == nil {
		return nil, fmt.Errorf("session %s: no snapshots", path)
	}
	return last, nil
}

type runLine struct {
	Start       float32 `json:"start"`
	End         float32 `json:"end"`
	State       string  `json:"state"`
	HasGap      bool    `json:"has_gap,omitempty"`
	HasOverlap  bool    `json:"has_overlap,omitempty"`
	Interesting int     `json:"interesting,omitempty"`
}

type pointLine struct {
	W      float32 `json:"w"`
	Y      float32 `json:"y"`
	Status string  `json:"status"`
}

func sweep(enc *json.Encoder, seam geom.Seam, domain geom.Range, segment float32, filter geom.PointFilter, withDead, points bool) {
	parts := []geom.Range{domain}
	if !withDead {
		left, right := domain.CutOut(geom.InclusiveExclusive(-1, 1))
		parts = parts[:0]
		if !left.IsEmpty() {
			parts = append(parts, left)
		}
		if !right.IsEmpty() {
			parts = append(parts, right)
		}
		if dead := domain.Intersect(geom.InclusiveExclusive(-1, 1)); !dead.IsEmpty() {
			_ = enc.Encode(runLine{Start: dead.Start, End: dead.End, State: "SKIPPED"})
		}
	}

	for _, part := range parts {
		rem := part
		for !rem.IsEmpty() {
			split := rem.Start + segment
			if next := geom.Next32(rem.Start); split < next {
				split = next
			}
			seg := geom.InclusiveExclusive(rem.Start, split)
			if split >= rem.End {
				seg = geom.Range{Start: rem.Start, End: rem.End, HalfOpen: rem.HalfOpen}
				split = rem.End
				rem = geom.InclusiveExclusive(split, split)
			} else {
				rem.Start = split
			}

			if points {
				seg.Points(func(w float32) bool {
					y, st := seam.CheckPoint(w, filter)
					if st != geom.PointNone {
						_ = enc.Encode(pointLine{W: w, Y: y, Status: protocol.PointStatusName(st)})
					}
					return true
				})
				continue
			}

			n, status := seam.CheckRange(seg, filter)
			_ = enc.Encode(runLine{
				Start:       seg.Start,
				End:         seg.End,
				State:       protocol.RangeStateName(status.State),
				HasGap:      status.HasGap,
				HasOverlap:  status.HasOverlap,
				Interesting: n,
			})
		}
	}
}
