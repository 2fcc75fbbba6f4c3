// Package concurrency implements a simple channel based data-parallel
// dispatcher for concurrent operations.
package concurrency

import (
	"errors"
	"runtime"
	"sync"

	"github.com/Pro7ech/dwt/utils"
)

// ErrClosed is returned when dispatching on a closed [Pool].
var ErrClosed = errors.New("concurrency: pool is closed")

type task struct {
	start, end int
	kernel     func(start, end int)
	wg         *sync.WaitGroup
}

// Pool is a fixed set of workers executing contiguous chunks of a logical
// index domain. A call to [Pool.Dispatch] blocks until every unit of the
// submitted domain has been executed, which makes each dispatch a
// synchronization barrier.
type Pool struct {
	workers int
	tasks   chan task
	done    chan struct{}
	once    sync.Once
}

// NewPool instantiates a new [Pool] with the given number of workers.
// If workers < 1, runtime.GOMAXPROCS(0) workers are spawned.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers: workers,
		tasks:   make(chan task, workers),
		done:    make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case t := <-p.tasks:
					t.kernel(t.start, t.end)
					t.wg.Done()
				case <-p.done:
					// chunks may still be queued; running them before
					// exiting releases any barrier pending on them
					p.drain()
					return
				}
			}
		}()
	}

	return p
}

// Workers returns the number of workers of the [Pool].
func (p *Pool) Workers() int {
	return p.workers
}

// Dispatch runs kernel over the index domain [0, units), split into at most
// Workers() contiguous chunks, and blocks until all chunks have completed.
// Units of one dispatch must not alias each other's data.
func (p *Pool) Dispatch(units int, kernel func(start, end int)) error {

	if units <= 0 {
		return nil
	}

	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	chunks := utils.Min(p.workers, units)

	size := (units + chunks - 1) / chunks

	var wg sync.WaitGroup
	for start := 0; start < units; start += size {
		end := start + size
		if end > units {
			end = units
		}

		wg.Add(1)

		select {
		case p.tasks <- task{start: start, end: end, kernel: kernel, wg: &wg}:
		case <-p.done:
			wg.Done()
			p.drain()
			wg.Wait()
			return ErrClosed
		}
	}

	// The pool may have closed after the chunks were queued, with every
	// worker already gone: their exit drain covers chunks queued before
	// the close, this one covers chunks queued after.
	select {
	case <-p.done:
		p.drain()
		wg.Wait()
		return ErrClosed
	default:
	}

	wg.Wait()

	return nil
}

// drain executes queued tasks on the calling goroutine, releasing any
// barrier pending on them. Called on the close path by exiting workers
// and by Dispatch itself, so that no queued chunk is ever stranded.
func (p *Pool) drain() {
	for {
		select {
		case t := <-p.tasks:
			t.kernel(t.start, t.end)
			t.wg.Done()
		default:
			return
		}
	}
}

// Close releases the workers. Any subsequent call to [Pool.Dispatch]
// returns [ErrClosed].
func (p *Pool) Close() {
	p.once.Do(func() { close(p.done) })
}

// Sequential executes all units in index order on the calling goroutine.
// It is the reference execution mode: a transform run on [Sequential]
// computes bit-exactly the same result as one run on a [Pool].
type Sequential struct{}

// Dispatch runs kernel over the full index domain [0, units).
func (Sequential) Dispatch(units int, kernel func(start, end int)) error {
	if units > 0 {
		kernel(0, units)
	}
	return nil
}
