// Package async provides the worker-pool dispatch used by the service
// layer: operations are submitted to a fixed set of workers and observed
// through futures. A submitted task always runs to completion; only the
// wait can be abandoned.
package async

import (
	"context"
	"errors"
	"fmt"
)

// ErrInterrupted reports that the caller stopped waiting before the task
// finished. The task itself keeps running.
var ErrInterrupted = errors.New("interrupted while awaiting result")

// Future is the single-assignment result of a submitted task.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) complete(val T, err error) {
	f.val = val
	f.err = err
	close(f.done)
}

// Completed returns an already-resolved future.
func Completed[T any](val T, err error) *Future[T] {
	f := newFuture[T]()
	f.complete(val, err)
	return f
}

// Await blocks until the task finishes or ctx is done. Task errors are
// returned as-is so callers can distinguish domain failures; a cancelled
// wait is reported as ErrInterrupted.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
	}
}

// Pool runs submitted tasks on a fixed number of workers.
type Pool struct {
	tasks chan func()
	done  chan struct{}
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{
		tasks: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for {
		select {
		case task := <-p.tasks:
			task()
		case <-p.done:
			// drain remaining queued tasks before exiting
			for {
				select {
				case task := <-p.tasks:
					task()
				default:
					return
				}
			}
		}
	}
}

// Stop signals workers to finish queued work and exit.
func (p *Pool) Stop() {
	close(p.done)
}

// Submit schedules fn on the pool and returns a future for its result.
func Submit[T any](p *Pool, fn func() (T, error)) *Future[T] {
	f := newFuture[T]()
	p.tasks <- func() {
		val, err := fn()
		f.complete(val, err)
	}
	return f
}
