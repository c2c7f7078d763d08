// Package scan owns seam detection and the concurrent incremental
// range-checking engine. The consumer drives the engine from a single
// goroutine, once per update tick; one background worker evaluates queued
// requests and streams results back through an unbounded outbox.
package scan

import (
	"time"

	"seamscan.dev/internal/geom"
	"seamscan.dev/internal/state"
)

type Config struct {
	// DefaultSegmentLength is the granularity of unfocused background sweeps.
	DefaultSegmentLength float32
	// MaxPointsRecorded bounds how many exact samples a focused request may
	// emit before falling back to coarse run data.
	MaxPointsRecorded int
	// SearchBudget is the per-tick wall-clock budget for seam detection.
	SearchBudget time.Duration
	// Parallelism sizes the segment-check pool; zero means NumCPU.
	Parallelism int
}

func (c Config) withDefaults() Config {
	if c.DefaultSegmentLength <= 0 {
		c.DefaultSegmentLength = 20
	}
	if c.MaxPointsRecorded <= 0 {
		c.MaxPointsRecorded = 500
	}
	if c.SearchBudget == 0 {
		c.SearchBudget = time.Second
	}
	return c
}

type focusedState struct {
	req SeamRequest
	out SeamOutput
}

// Engine tracks the active seam set and accumulated per-seam progress, and
// schedules background and focused check requests. All methods must be called
// from the one consumer goroutine; only the queue and outbox are shared with
// the worker.
type Engine struct {
	cfg   Config
	queue *requestQueue
	out   *outbox

	active   []geom.Seam
	progress map[geom.Seam]*SeamProgress
	focused  *focusedState
	filter   geom.PointFilter

	started bool
	stop    chan struct{}
	done    chan struct{}
}

func New(cfg Config) *Engine {
	return &Engine{
		cfg:      cfg.withDefaults(),
		queue:    newRequestQueue(),
		out:      &outbox{},
		progress: make(map[geom.Seam]*SeamProgress),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background worker. The engine is owned by the caller's
// application context: start it on setup, stop it on shutdown. A stopped
// engine may be started again.
func (e *Engine) Start() {
	if e.started {
		return
	}
	e.started = true
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	go e.runWorker()
}

// Stop signals the worker and waits for it to exit. Cancellation is
// cooperative: a request already in flight runs to completion first, but
// queued requests are left unstarted.
func (e *Engine) Stop() {
	if !e.started {
		return
	}
	close(e.stop)
	<-e.done
	e.started = false
}

// Update is the per-tick refresh: re-derive the active seam set from the
// snapshot, drop queued work for seams that vanished, top up background work
// when the queue has drained, and fold in whatever the worker produced since
// the last tick.
func (e *Engine) Update(st *state.GameState) {
	e.active = FindSeams(st, e.cfg.SearchBudget)

	activeSet := make(map[geom.Seam]struct{}, len(e.active))
	for _, s := range e.active {
		activeSet[s] = struct{}{}
	}

	e.queue.edit(func(items []SeamRequest) []SeamRequest {
		kept := items[:0]
		for _, req := range items {
			if _, ok := activeSet[req.Seam]; ok {
				kept = append(kept, req)
			}
		}
		// Background work is only topped up once the previous batch has been
		// fully consumed; a busy worker means these seams will come around
		// next time the queue empties.
		if len(kept) == 0 {
			for _, s := range e.active {
				if _, ok := e.progress[s]; !ok {
					kept = append(kept, unfocusedRequest(s, e.cfg.DefaultSegmentLength, e.filter))
				}
			}
		}
		return kept
	})

	for s := range e.progress {
		if _, ok := activeSet[s]; !ok {
			delete(e.progress, s)
		}
	}

	for _, res := range e.out.drain() {
		if res.req.Filter != e.filter {
			// Computed under a predicate that no longer applies.
			continue
		}
		if res.req.Focused {
			if e.focused != nil && e.focused.req == res.req {
				e.focused.out = res.out
			}
			continue
		}
		progress, ok := res.out.(*SeamProgress)
		if !ok {
			panic("scan: point output for unfocused request")
		}
		if _, ok := activeSet[res.req.Seam]; ok {
			e.progress[res.req.Seam] = progress
		}
	}
}

// FocusedSeamProgress returns the best available output for one seam under
// the given range and granularity, scheduling a focused request if the
// current one does not match. A new focused request replaces the entire
// queue: background work is provisionally cancelled, and anything already in
// flight is discarded on receipt unless it still matches.
func (e *Engine) FocusedSeamProgress(seam geom.Seam, wRange geom.Range, segmentLength float32) SeamOutput {
	req := focusedRequest(seam, wRange, segmentLength, e.filter)
	var out SeamOutput = NewSeamProgress(wRange, segmentLength)

	if e.focused != nil {
		if e.focused.req.Seam == seam {
			out = e.focused.out
		}
		if e.focused.req == req {
			return out
		}
	}

	e.focused = &focusedState{req: req, out: out}
	e.queue.edit(func(items []SeamRequest) []SeamRequest {
		return append(items[:0], req)
	})
	return out
}

// ActiveSeams is the seam set derived on the last Update. Callers must treat
// it as read-only.
func (e *Engine) ActiveSeams() []geom.Seam {
	return e.active
}

// RemainingSeams counts active seams whose background sweep has not finished.
func (e *Engine) RemainingSeams() int {
	n := 0
	for _, s := range e.active {
		if !e.Progress(s).Complete() {
			n++
		}
	}
	return n
}

// Progress returns the accumulated sweep state for a seam, or a fresh empty
// sweep if none has been recorded yet.
func (e *Engine) Progress(seam geom.Seam) *SeamProgress {
	if p, ok := e.progress[seam]; ok {
		return p
	}
	return NewSeamProgress(seam.WRange(), e.cfg.DefaultSegmentLength)
}

func (e *Engine) Filter() geom.PointFilter {
	return e.filter
}

// SetFilter swaps the classification predicate. Everything accumulated under
// the old one is invalidated: the progress map, the focused cache, and the
// queue.
func (e *Engine) SetFilter(f geom.PointFilter) {
	e.filter = f
	e.focused = nil
	e.progress = make(map[geom.Seam]*SeamProgress)
	e.queue.edit(func(items []SeamRequest) []SeamRequest {
		return items[:0]
	})
}
