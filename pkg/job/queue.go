package job

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/OpenTraceLab/OpenTraceVLSI/pkg/design"
)

const defaultBacklog = 64

type task struct {
	job    Job
	future *Future
}

// Queue executes jobs serially on a single worker goroutine.
type Queue struct {
	db         *design.Database
	tasks      chan task
	onComplete func(Report)
	logger     *log.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	closing chan struct{}  // closed by Close to wake blocked senders
	senders sync.WaitGroup // Submit calls that may still send on tasks
	stopped chan struct{}
}

// Option configures a Queue.
type Option func(*Queue)

// WithBacklog sets how many jobs may wait before Submit blocks.
func WithBacklog(n int) Option {
	return func(q *Queue) {
		if n >= 0 {
			q.tasks = make(chan task, n)
		}
	}
}

// WithOnComplete registers a callback invoked on the worker goroutine after
// every job.
func WithOnComplete(fn func(Report)) Option {
	return func(q *Queue) { q.onComplete = fn }
}

// WithLogger enables start/finish logging.
func WithLogger(l *log.Logger) Option {
	return func(q *Queue) { q.logger = l }
}

// NewQueue creates a queue bound to a database. Call Start before Submit.
func NewQueue(db *design.Database, opts ...Option) *Queue {
	q := &Queue{
		db:      db,
		tasks:   make(chan task, defaultBacklog),
		closing: make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Start launches the worker. Jobs run with ctx; once ctx is done, pending
// jobs are completed with ctx.Err() without running.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true
	go q.run(ctx)
}

// Submit enqueues a job. It blocks while the backlog is full, until ctx is
// done or the queue is closed.
func (q *Queue) Submit(ctx context.Context, j Job) (*Future, error) {
	if j == nil {
		return nil, fmt.Errorf("job: nil job")
	}
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return nil, ErrClosed
	}
	q.senders.Add(1)
	q.mu.RUnlock()
	defer q.senders.Done()

	t := task{job: j, future: newFuture()}
	select {
	case q.tasks <- t:
		return t.future, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.closing:
		return nil, ErrClosed
	}
}

// Close stops accepting jobs, waits for queued jobs to finish and stops the
// worker.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.stopped
		return
	}
	q.closed = true
	close(q.closing)
	started := q.started
	q.mu.Unlock()

	q.senders.Wait()
	close(q.tasks)

	if !started {
		// Nobody will run what is queued; fail it instead of leaking waiters.
		for t := range q.tasks {
			t.future.complete(nil, ErrClosed)
		}
		close(q.stopped)
		return
	}
	<-q.stopped
}

func (q *Queue) run(ctx context.Context) {
	defer close(q.stopped)
	for t := range q.tasks {
		if err := ctx.Err(); err != nil {
			q.finish(t, nil, err, 0)
			continue
		}
		start := time.Now()
		if q.logger != nil {
			q.logger.Printf("job: starting %s", t.job.Name())
		}
		value, err := q.execute(ctx, t.job)
		q.finish(t, value, err, time.Since(start))
	}
}

func (q *Queue) execute(ctx context.Context, j Job) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("job: %s panicked: %v", j.Name(), r)
		}
	}()
	return j.Do(ctx, q.db)
}

func (q *Queue) finish(t task, value any, err error, elapsed time.Duration) {
	if q.logger != nil {
		if err != nil {
			q.logger.Printf("job: %s failed after %v: %v", t.job.Name(), elapsed, err)
		} else {
			q.logger.Printf("job: %s done in %v", t.job.Name(), elapsed)
		}
	}
	t.future.complete(value, err)
	if q.onComplete != nil {
		q.onComplete(Report{Job: t.job, Value: value, Err: err, Elapsed: elapsed})
	}
}
