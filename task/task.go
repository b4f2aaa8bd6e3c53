// Package task splits bulk array work into index ranges and runs them either
// inline or on a bounded set of goroutines.
package task

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/wippyai/imath-bind/errors"
)

// DefaultGrain is the smallest range handed to a worker.
const DefaultGrain = 1024

// Task processes the half-open index range [start, end).
type Task interface {
	Execute(start, end int)
}

// Func adapts a function to Task.
type Func func(start, end int)

// Execute calls f(start, end).
func (f Func) Execute(start, end int) { f(start, end) }

// Pool dispatches tasks. The zero value and a pool with one worker run every
// task inline on the calling goroutine.
type Pool struct {
	workers int
	grain   int
}

// New returns a pool running at most workers ranges concurrently, each at
// least grain elements long. Non-positive values fall back to 1 worker and
// DefaultGrain.
func New(workers, grain int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if grain < 1 {
		grain = DefaultGrain
	}
	return &Pool{workers: workers, grain: grain}
}

// Workers returns the concurrency limit.
func (p *Pool) Workers() int {
	if p == nil || p.workers < 1 {
		return 1
	}
	return p.workers
}

// Grain returns the minimum range length.
func (p *Pool) Grain() int {
	if p == nil || p.grain < 1 {
		return DefaultGrain
	}
	return p.grain
}

// Dispatch runs t over [0, n). A panic inside t is recovered and returned as
// an error; with several workers the first one wins and the remaining ranges
// still run to completion.
func (p *Pool) Dispatch(n int, t Task) error {
	if n <= 0 {
		return nil
	}
	workers, grain := p.Workers(), p.Grain()
	if workers == 1 || n <= grain {
		return run(t, 0, n)
	}

	chunks := (n + grain - 1) / grain
	if chunks > workers {
		chunks = workers
	}
	size := (n + chunks - 1) / chunks

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		g.Go(func() error {
			return run(t, start, end)
		})
	}
	return g.Wait()
}

func run(t Task, start, end int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Panic(errors.PhaseCall, r)
		}
	}()
	t.Execute(start, end)
	return nil
}

var (
	defaultPool atomic.Pointer[Pool]
	defaultOnce sync.Once
)

// Default returns the process-wide pool, inline unless SetDefault replaced it.
func Default() *Pool {
	defaultOnce.Do(func() {
		defaultPool.CompareAndSwap(nil, New(1, DefaultGrain))
	})
	return defaultPool.Load()
}

// SetDefault replaces the process-wide pool.
func SetDefault(p *Pool) {
	if p == nil {
		p = New(1, DefaultGrain)
	}
	defaultPool.Store(p)
}
