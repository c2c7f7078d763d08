package scan

import (
	"runtime"
	"sync"
	"sync/atomic"

	"seamscan.dev/internal/geom"
)

// requestQueue is the single shared FIFO between the consumer and the worker.
// All mutation happens on the consumer side under the lock; the worker holds
// it only for the pop.
type requestQueue struct {
	mu    sync.Mutex
	items []SeamRequest
	wake  chan struct{}
}

func newRequestQueue() *requestQueue {
	return &requestQueue{wake: make(chan struct{}, 1)}
}

func (q *requestQueue) notify() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *requestQueue) pop() (SeamRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return SeamRequest{}, false
	}
	req := q.items[0]
	q.items = q.items[1:]
	return req, true
}

// edit runs fn with the queue contents under the lock and wakes the worker if
// anything is left to process.
func (q *requestQueue) edit(fn func(items []SeamRequest) []SeamRequest) {
	q.mu.Lock()
	q.items = fn(q.items)
	n := len(q.items)
	q.mu.Unlock()
	if n > 0 {
		q.notify()
	}
}

// outbox is the worker-to-consumer channel: unbounded, never blocking the
// worker, drained wholesale once per consumer tick.
type outbox struct {
	mu    sync.Mutex
	items []workerResult
}

type workerResult struct {
	req SeamRequest
	out SeamOutput
}

func (o *outbox) push(res workerResult) {
	o.mu.Lock()
	o.items = append(o.items, res)
	o.mu.Unlock()
}

func (o *outbox) drain() []workerResult {
	o.mu.Lock()
	items := o.items
	o.items = nil
	o.mu.Unlock()
	return items
}

// runWorker is the engine's single background worker: it pops the queue head
// and evaluates the full request before looking again. Stop is checked before
// every pop, so shutdown waits only for the request in flight, never for the
// rest of the queue. Clearing the queue cancels pending work but never
// interrupts the request in flight; staleness is resolved on the consumer
// side instead.
func (e *Engine) runWorker() {
	defer close(e.done)
	for {
		select {
		case <-e.stop:
			return
		default:
		}
		req, ok := e.queue.pop()
		if !ok {
			select {
			case <-e.stop:
				return
			case <-e.queue.wake:
			}
			continue
		}
		e.process(req)
	}
}

type segmentResult struct {
	interesting int
	status      geom.RangeStatus
}

func (e *Engine) process(req SeamRequest) {
	plan := planSegments(req.WRange, req.SegmentLength)

	// Segment checks fan out across the pool, but results land by index so
	// the fold below stays in left-to-right sweep order.
	results := make([]segmentResult, len(plan))
	parallelEach(e.cfg.Parallelism, len(plan), func(i int) {
		if plan[i].Skip {
			return
		}
		n, st := req.Seam.CheckRange(plan[i].Range, req.Filter)
		results[i] = segmentResult{interesting: n, status: st}
	})

	interesting := 0
	for i := range plan {
		if !plan[i].Skip {
			interesting += results[i].interesting
		}
	}

	if req.Focused && interesting <= e.cfg.MaxPointsRecorded {
		e.out.push(workerResult{req: req, out: e.collectPoints(req, plan)})
		return
	}

	progress := NewSeamProgress(req.WRange, req.SegmentLength)
	sent := false
	for i := range plan {
		if plan[i].Skip {
			progress.resolve(plan[i].Range, geom.StatusSkipped)
			continue
		}
		progress.resolve(plan[i].Range, results[i].status)
		e.out.push(workerResult{req: req, out: progress.clone()})
		sent = true
	}
	if !sent {
		// Plans with no checkable segment (a point-sized or all-dead-zone
		// domain) still need their completion recorded, or the refresh loop
		// would requeue them forever.
		e.out.push(workerResult{req: req, out: progress.clone()})
	}
}

// collectPoints re-checks the plan's checkable segments point by point and
// keeps every sample the filter found interesting, in sweep order.
func (e *Engine) collectPoints(req SeamRequest, plan []plannedSegment) SeamPoints {
	perSegment := make([][]PointSample, len(plan))
	parallelEach(e.cfg.Parallelism, len(plan), func(i int) {
		if plan[i].Skip {
			return
		}
		var samples []PointSample
		plan[i].Range.Points(func(w float32) bool {
			y, st := req.Seam.CheckPoint(w, req.Filter)
			if st != geom.PointNone {
				samples = append(samples, PointSample{
					Point:  geom.ProjectedPoint{W: w, Y: y},
					Status: st,
				})
			}
			return true
		})
		perSegment[i] = samples
	})

	var points []PointSample
	for _, samples := range perSegment {
		points = append(points, samples...)
	}
	return SeamPoints{Points: points}
}

// parallelEach runs fn(0..n-1) across the pool. A panic in fn takes the
// process down; the engine has no partial-result recovery path.
func parallelEach(workers, n int, fn func(i int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= n {
					return
				}
				fn(i)
			}
		}()
	}
	wg.Wait()
}
