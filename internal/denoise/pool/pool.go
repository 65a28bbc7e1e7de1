// Package pool implements the fixed-size worker pool of spec.md §4.6: a bounded-concurrency
// primitive that accepts opaque jobs and provides a batched, parallel ForEach over index
// ranges. Execution is bounded by internal/concurrency.NewPool (sourcegraph/conc/pool), the
// same primitive the teacher uses for its own bounded fan-out; the job-ID bookkeeping
// (Submit/Wait/WaitAll) that conc does not provide on its own is layered on top with a mutex
// and condition variable, mirroring original_source/src/thread-pool.cpp almost line for line.
package pool

import (
	"context"
	"runtime"
	"sync"

	"github.com/lucastoro/denoiser/internal/concurrency"
)

// ID identifies a submitted job, monotonically increasing, matching thread_pool::id_t.
type ID = uint64

// Pool is a fixed-size worker pool. The zero value is not usable; construct with New.
type Pool struct {
	ctx    context.Context
	cancel context.CancelFunc
	exec   execPool

	mu       sync.Mutex
	cond     *sync.Cond
	inflight map[ID]struct{}
	nextID   ID
}

// execPool is the minimal surface of sourcegraph/conc/pool.ContextPool that Pool needs; kept
// as its own small interface so tests can substitute a synchronous stub.
type execPool interface {
	Go(func(context.Context) error)
	Wait() error
}

// New constructs a pool with n workers. n <= 0 means "hardware parallelism", matching
// thread_pool's default of std::thread::hardware_concurrency().
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		ctx:      ctx,
		cancel:   cancel,
		exec:     concurrency.NewPool(ctx, n),
		inflight: make(map[ID]struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Submit enqueues fn for execution on the pool and returns a fresh job ID that Wait/WaitAll
// can later block on. Jobs run at most once; the order in which they start is unspecified.
func (p *Pool) Submit(fn func()) ID {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.inflight[id] = struct{}{}
	p.mu.Unlock()

	p.exec.Go(func(context.Context) error {
		defer p.complete(id)
		fn()
		return nil
	})

	return id
}

func (p *Pool) complete(id ID) {
	p.mu.Lock()
	delete(p.inflight, id)
	p.cond.Broadcast()
	p.mu.Unlock()
}

// Wait blocks until the job identified by id has completed.
func (p *Pool) Wait(id ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		if _, pending := p.inflight[id]; !pending {
			return
		}
		p.cond.Wait()
	}
}

// WaitAll blocks until every listed job has completed.
func (p *Pool) WaitAll(ids []ID) {
	for _, id := range ids {
		p.Wait(id)
	}
}

// ForEach partitions [0, n) into contiguous batches of batchSize (the last batch may be
// short), submits one job per batch that applies fn sequentially to each index within that
// batch, and waits for all batches to finish. fn must tolerate concurrent invocation for
// indices in distinct batches; ForEach does not otherwise synchronize access.
func (p *Pool) ForEach(n, batchSize int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if batchSize <= 0 {
		batchSize = n
	}

	runs := n / batchSize
	if n%batchSize != 0 {
		runs++
	}

	ids := make([]ID, 0, runs)
	for r := 0; r < runs; r++ {
		start := r * batchSize
		end := start + batchSize
		if end > n {
			end = n
		}
		ids = append(ids, p.Submit(func() {
			for i := start; i < end; i++ {
				fn(i)
			}
		}))
	}

	p.WaitAll(ids)
}

// Close drains the pool: it waits for every outstanding job to finish and releases the
// underlying execution context. Jobs submitted after Close is called will never run.
func (p *Pool) Close() {
	_ = p.exec.Wait()
	p.cancel()
}
