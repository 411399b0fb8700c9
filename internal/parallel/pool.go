// Package parallel runs the per-pixel kernels of a pass across worker
// goroutines.
//
// A pass splits its target into horizontal row bands and hands them to
// ExecuteAll (or Rows), which returns only after every band is written.
// From the caller's point of view a pass is therefore a synchronous call
// and its output is complete before the next pass starts.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// BandHeight is the number of rows per work item used by Rows.
const BandHeight = 16

// WorkerPool is a fixed set of goroutines executing submitted work.
//
// Thread safety: WorkerPool is safe for concurrent use, but ExecuteAll
// calls from the render path are issued one at a time.
type WorkerPool struct {
	workers int
	queue   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used. A pool with a single
// worker starts no goroutines and runs all work on the calling goroutine.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	if workers == 1 {
		return p
	}

	// Buffer 4x workers so producers rarely block on a busy pool.
	p.queue = make(chan func(), workers*4)
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case work := <-p.queue:
			work()
		}
	}
}

// ExecuteAll runs every work item and waits for all of them to finish.
// After Close, or on a single-worker pool, the items run sequentially on
// the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	if p.queue == nil || !p.running.Load() || len(work) == 1 {
		for _, fn := range work {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for _, fn := range work {
		p.queue <- func() {
			defer wg.Done()
			fn()
		}
	}
	wg.Wait()
}

// Rows calls fn over [0, height) split into bands of BandHeight rows and
// waits for completion. fn receives the half-open row range [y0, y1).
func (p *WorkerPool) Rows(height int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	work := make([]func(), 0, (height+BandHeight-1)/BandHeight)
	for y0 := 0; y0 < height; y0 += BandHeight {
		y1 := min(y0+BandHeight, height)
		work = append(work, func() { fn(y0, y1) })
	}
	p.ExecuteAll(work)
}

// Close stops the workers. Work already handed to ExecuteAll completes
// before ExecuteAll returns, so Close never abandons a pass half-way.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true until Close is called.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
