package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrWorkerStopped is returned by Do after Stop.
var ErrWorkerStopped = errors.New("worker stopped")

// job is a unit of work to be executed on a worker goroutine.
type job struct {
	fn   func() any
	done chan jobResult
}

// jobResult holds the return value from a job.
type jobResult struct {
	value any
	err   error
}

// Worker runs evaluation jobs on a fixed number of goroutines, bounding how
// many programs execute at once. Every job builds its own engine, so jobs
// never share interpreter state.
type Worker struct {
	jobs     chan job
	quit     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewWorker creates a Worker with n goroutines (at least one) and starts
// them.
func NewWorker(n int) *Worker {
	if n < 1 {
		n = 1
	}
	w := &Worker{
		jobs: make(chan job, 64),
		quit: make(chan struct{}),
	}
	w.wg.Add(n)
	for i := 0; i < n; i++ {
		go w.loop()
	}
	return w
}

// loop processes jobs until Stop.
func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case j := <-w.jobs:
			j.done <- w.execute(j.fn)
		case <-w.quit:
			return
		}
	}
}

// execute runs fn, recovering from panics.
func (w *Worker) execute(fn func() any) (result jobResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("evaluation panicked: %v", r)
			result.err = fmt.Errorf("internal error: %v", r)
		}
	}()
	result.value = fn()
	return result
}

// Do submits fn and blocks until it completes or ctx is done. A job whose
// caller gave up still runs to completion; its result is dropped.
func (w *Worker) Do(ctx context.Context, fn func() any) (any, error) {
	select {
	case <-w.quit:
		return nil, ErrWorkerStopped
	default:
	}

	j := job{fn: fn, done: make(chan jobResult, 1)}
	select {
	case w.jobs <- j:
	case <-w.quit:
		return nil, ErrWorkerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-j.done:
		return r.value, r.err
	case <-w.quit:
		select {
		case r := <-j.done:
			return r.value, r.err
		default:
			return nil, ErrWorkerStopped
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop shuts down the worker goroutines and waits for running jobs to
// finish. It is safe to call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.quit) })
	w.wg.Wait()
}
