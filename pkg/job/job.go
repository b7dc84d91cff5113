// Package job runs database mutations asynchronously, one at a time, in
// submission order.
//
// Callers build a small immutable Job, submit it and either wait on the
// returned Future or receive a Report through the completion callback:
//
//	q := job.NewQueue(db, job.WithOnComplete(func(r job.Report) { ... }))
//	q.Start(ctx)
//	defer q.Close()
//
//	fut, err := q.Submit(ctx, annulus.MakeJob{...})
//	id, err := fut.Wait(ctx)
package job

import (
	"context"
	"errors"
	"time"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/design"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("job: queue closed")

// Job is one unit of work against the design database.
type Job interface {
	// Name is a short human readable description used in logs and reports.
	Name() string

	// Do performs the work. The returned value becomes the Future's result.
	Do(ctx context.Context, db *design.Database) (any, error)
}

// Report describes a finished job.
type Report struct {
	Job     Job
	Value   any
	Err     error
	Elapsed time.Duration
}

// Future is the pending result of a submitted job.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) complete(value any, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Done is closed once the job has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the job finishes or ctx is done.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome of a finished job. It must only be called
// after Done is closed.
func (f *Future) Result() (any, error) {
	return f.value, f.err
}
