// seamd replays a recorded session and runs the seam scanner over it,
// serving live results to viewers over a websocket endpoint.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"sync/atomic"
	"syscall"
	"time"

	"seamscan.dev/internal/findingslog"
	"seamscan.dev/internal/geom"
	"seamscan.dev/internal/protocol"
	"seamscan.dev/internal/scan"
	"seamscan.dev/internal/state"
	"seamscan.dev/internal/transport/ws"
	"seamscan.dev/internal/tuning"
)

func main() {
	var (
		addr         = flag.String("addr", ":8080", "http listen address")
		sessionPath  = flag.String("session", "", "recorded session to replay (.jsonl or .jsonl.zst)")
		tuningPath   = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml")
		findingsPath = flag.String("findings", "", "findings log path (.jsonl.zst, empty to disable)")
		loop         = flag.Bool("loop", false, "restart the session from the beginning on EOF")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[seamd] ", log.LstdFlags|log.Lmicroseconds)

	if *sessionPath == "" {
		logger.Fatalf("-session is required")
	}

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", *tuningPath)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	var findings *findingslog.Writer
	if *findingsPath != "" {
		findings, err = findingslog.New(*findingsPath)
		if err != nil {
			logger.Fatalf("open findings log: %v", err)
		}
		defer findings.Close()
	}

	engine := scan.New(scan.Config{
		DefaultSegmentLength: tune.DefaultSegmentLength,
		MaxPointsRecorded:    tune.MaxPointsRecorded,
		SearchBudget:         time.Duration(tune.SeamSearchBudgetMs) * time.Millisecond,
		Parallelism:          tune.Parallelism,
	})
	engine.Start()
	defer engine.Stop()

	// The websocket layer reads the filter and the active seam set from
	// connection goroutines; the daemon loop publishes snapshots here.
	var filterSnap atomic.Int32
	var activeSnap atomic.Pointer[map[geom.Seam]struct{}]
	hub := ws.NewServer(logger, ws.WelcomeInfo{
		TickRateHz:           tune.TickRateHz,
		DefaultSegmentLength: tune.DefaultSegmentLength,
	}, func() geom.PointFilter {
		return geom.PointFilter(filterSnap.Load())
	}, func(seam geom.Seam) bool {
		active := activeSnap.Load()
		if active == nil {
			return false
		}
		_, ok := (*active)[seam]
		return ok
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		d := &daemon{
			logger:     logger,
			engine:     engine,
			hub:        hub,
			findings:   findings,
			filterSnap: &filterSnap,
			activeSnap: &activeSnap,
			session:    *sessionPath,
			loop:       *loop,
			logged:     make(map[geom.Seam]bool),
		}
		if err := d.run(ctx, time.Second/time.Duration(tune.TickRateHz)); err != nil && err != context.Canceled {
			logger.Printf("daemon stopped: %v", err)
		}
		cancel()
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/ws", hub.Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

type focusedView struct {
	seam          geom.Seam
	wRange        geom.Range
	segmentLength float32
}

// daemon owns the engine: commands from viewers are applied between ticks so
// every engine call happens on this one goroutine.
type daemon struct {
	logger     *log.Logger
	engine     *scan.Engine
	hub        *ws.Server
	findings   *findingslog.Writer
	filterSnap *atomic.Int32
	activeSnap *atomic.Pointer[map[geom.Seam]struct{}]

	session string
	loop    bool

	reader    *state.SessionReader
	snapshot  *state.GameState
	focused   *focusedView
	lastSeams []geom.Seam
	sentSeams bool
	logged    map[geom.Seam]bool
}

func (d *daemon) run(ctx context.Context, tickEvery time.Duration) error {
	reader, err := state.OpenSession(d.session)
	if err != nil {
		return err
	}
	d.reader = reader
	defer func() { _ = d.reader.Close() }()

	ticker := time.NewTicker(tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.tick(); err != nil {
				return err
			}
		}
	}
}

func (d *daemon) tick() error {
	if err := d.advance(); err != nil {
		return err
	}
	d.applyCommands()
	d.engine.Update(d.snapshot)
	d.publishActive()
	d.recordFindings()
	d.broadcast()
	return nil
}

// advance moves to the next recorded snapshot. After the last one the final
// snapshot stays live so background sweeps can finish, unless -loop rewinds.
func (d *daemon) advance() error {
	st, err := d.reader.Next()
	if err == io.EOF {
		if !d.loop {
			return nil
		}
		if err := d.reader.Close(); err != nil {
			return err
		}
		d.reader, err = state.OpenSession(d.session)
		if err != nil {
			return err
		}
		st, err = d.reader.Next()
		if err == io.EOF {
			return nil
		}
	}
	if err != nil {
		return err
	}
	d.snapshot = st
	return nil
}

func (d *daemon) publishActive() {
	seams := d.engine.ActiveSeams()
	active := make(map[geom.Seam]struct{}, len(seams))
	for _, s := range seams {
		active[s] = struct{}{}
	}
	d.activeSnap.Store(&active)

	// A focused seam that left the active set will never finish checking.
	if d.focused != nil {
		if _, ok := active[d.focused.seam]; !ok {
			d.focused = nil
		}
	}
}

func (d *daemon) applyCommands() {
	for {
		select {
		case cmd := <-d.hub.Commands():
			switch c := cmd.(type) {
			case ws.SetFilterCmd:
				d.logger.Printf("filter set to %s", protocol.FilterName(c.Filter))
				d.engine.SetFilter(c.Filter)
				d.filterSnap.Store(int32(c.Filter))
				d.focused = nil
				clear(d.logged)
			case ws.FocusCmd:
				d.focused = &focusedView{
					seam:          c.Seam,
					wRange:        c.WRange,
					segmentLength: c.SegmentLength,
				}
			case ws.UnfocusCmd:
				d.focused = nil
			}
		default:
			return
		}
	}
}

// recordFindings appends one log entry per seam whose sweep just finished
// with at least one defective run.
func (d *daemon) recordFindings() {
	if d.findings == nil {
		return
	}
	var tick uint64
	if d.snapshot != nil {
		tick = d.snapshot.Tick
	}
	for _, seam := range d.engine.ActiveSeams() {
		if d.logged[seam] {
			continue
		}
		p := d.engine.Progress(seam)
		if !p.Complete() {
			continue
		}
		d.logged[seam] = true
		rec := findingRecord{
			Tick:   tick,
			Filter: protocol.FilterName(d.engine.Filter()),
			Seam:   protocol.FromSeam(seam),
		}
		p.Segments(func(r geom.Range, st geom.RangeStatus) bool {
			if st.HasGap || st.HasOverlap {
				rec.Runs = append(rec.Runs, runRecord{
					Start:      r.Start,
					End:        r.End,
					HasGap:     st.HasGap,
					HasOverlap: st.HasOverlap,
				})
			}
			return true
		})
		if len(rec.Runs) == 0 {
			continue
		}
		if err := d.findings.Write(rec); err != nil {
			d.logger.Printf("findings log: %v", err)
		}
	}
}

type runRecord struct {
	Start      float32 `json:"start"`
	End        float32 `json:"end"`
	HasGap     bool    `json:"has_gap,omitempty"`
	HasOverlap bool    `json:"has_overlap,omitempty"`
}

type findingRecord struct {
	Tick   uint64            `json:"tick"`
	Filter string            `json:"filter"`
	Seam   protocol.SeamJSON `json:"seam"`
	Runs   []runRecord       `json:"runs"`
}

func (d *daemon) broadcast() {
	var tick uint64
	if d.snapshot != nil {
		tick = d.snapshot.Tick
	}

	d.hub.BroadcastJSON(protocol.StatusMsg{
		Type:      protocol.TypeStatus,
		Tick:      tick,
		Active:    len(d.engine.ActiveSeams()),
		Remaining: d.engine.RemainingSeams(),
	})

	if seams := d.engine.ActiveSeams(); !d.sentSeams || !slices.Equal(seams, d.lastSeams) {
		d.sentSeams = true
		d.lastSeams = slices.Clone(seams)
		msg := protocol.SeamsMsg{Type: protocol.TypeSeams, Tick: tick, Seams: []protocol.SeamJSON{}}
		for _, s := range seams {
			msg.Seams = append(msg.Seams, protocol.FromSeam(s))
		}
		d.hub.BroadcastJSON(msg)
	}

	if d.focused != nil {
		out := d.engine.FocusedSeamProgress(d.focused.seam, d.focused.wRange, d.focused.segmentLength)
		seamJSON := protocol.FromSeam(d.focused.seam)
		switch o := out.(type) {
		case scan.SeamPoints:
			msg := protocol.PointsMsg{Type: protocol.TypePoints, Seam: seamJSON, Points: []protocol.PointJSON{}}
			for _, p := range o.Points {
				msg.Points = append(msg.Points, protocol.PointJSON{
					W:      p.Point.W,
					Y:      p.Point.Y,
					Status: protocol.PointStatusName(p.Status),
				})
			}
			d.hub.BroadcastJSON(msg)
		case *scan.SeamProgress:
			msg := protocol.ProgressMsg{
				Type:          protocol.TypeProgress,
				Seam:          seamJSON,
				SegmentLength: o.SegmentLength(),
				Runs:          []protocol.RunJSON{},
			}
			o.Segments(func(r geom.Range, st geom.RangeStatus) bool {
				if r.IsEmpty() {
					return true
				}
				msg.Runs = append(msg.Runs, protocol.RunJSON{
					Start:      r.Start,
					End:        r.End,
					State:      protocol.RangeStateName(st.State),
					HasGap:     st.HasGap,
					HasOverlap: st.HasOverlap,
				})
				return true
			})
			d.hub.BroadcastJSON(msg)
		}
	}
}
