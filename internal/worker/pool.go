// Package worker runs tasks on a fixed number of goroutines.
//
// A Pool starts exactly N workers that drain a task queue. Submit enqueues a
// task and returns a Handle whose Wait reports the task's result; JoinAll is
// the barrier over a batch of handles. Shutdown closes the queue and waits,
// up to a ceiling, for the workers to exit. A panicking task is recovered at
// the task boundary and reported through its Handle as a *PanicError; the
// worker that ran it keeps serving the queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidSize     = errors.New("worker: pool size must be at least 1")
	ErrPoolClosed      = errors.New("worker: pool is shut down")
	ErrShutdownTimeout = errors.New("worker: timed out waiting for workers to exit")
)

// Task is a unit of work. ctx is cancelled when the pool's parent context is.
type Task func(ctx context.Context) error

// PanicError is reported for a task that panicked
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker: task panicked: %v", e.Value)
}

// Handle tracks the completion of one submitted task
type Handle struct {
	done chan struct{}
	err  error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

func (h *Handle) finish(err error) {
	h.err = err
	close(h.done)
}

// Done is closed once the task has returned
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the task has returned or ctx is done
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type job struct {
	task   Task
	handle *Handle
}

// Pool is a fixed-size set of workers fed from a queue
type Pool struct {
	size     int
	queue    chan job
	group    *errgroup.Group
	ctx      context.Context
	clock    clock.Clock
	logger   *zap.Logger
	finished chan struct{}

	mu        sync.RWMutex // serializes Submit against closing the queue
	closed    bool
	closeOnce sync.Once
}

// Option configures a Pool
type Option func(*Pool)

// WithQueueSize sets the queue capacity. Submit does not block while the
// number of queued tasks is below it.
func WithQueueSize(n int) Option {
	return func(p *Pool) {
		if n >= 0 {
			p.queue = make(chan job, n)
		}
	}
}

// WithClock sets the clock used for the shutdown ceiling
func WithClock(c clock.Clock) Option {
	return func(p *Pool) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithLogger sets the logger used to report recovered panics
func WithLogger(l *zap.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPool starts size workers. Tasks receive a context derived from ctx.
func NewPool(ctx context.Context, size int, opts ...Option) (*Pool, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}

	p := &Pool{
		size:     size,
		clock:    clock.New(),
		logger:   zap.NewNop(),
		finished: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue == nil {
		p.queue = make(chan job, size)
	}

	p.group, p.ctx = errgroup.WithContext(ctx)
	for id := 0; id < size; id++ {
		id := id
		p.group.Go(func() error {
			p.work(id)
			return nil
		})
	}
	go func() {
		_ = p.group.Wait()
		close(p.finished)
	}()

	return p, nil
}

// Size returns the number of workers
func (p *Pool) Size() int { return p.size }

func (p *Pool) work(id int) {
	for j := range p.queue {
		j.handle.finish(p.run(id, j.task))
	}
}

func (p *Pool) run(id int, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			perr := &PanicError{Value: r, Stack: debug.Stack()}
			p.logger.Error("task panicked",
				zap.Int("worker", id),
				zap.Any("panic", r),
				zap.ByteString("stack", perr.Stack),
			)
			err = perr
		}
	}()
	return task(p.ctx)
}

// Submit enqueues task. It returns ErrPoolClosed once Shutdown has been called.
func (p *Pool) Submit(task Task) (*Handle, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	h := newHandle()
	p.queue <- job{task: task, handle: h}
	return h, nil
}

// Shutdown stops accepting tasks and waits for queued tasks to finish and
// all workers to exit, for at most timeout. It is safe to call more than once.
func (p *Pool) Shutdown(timeout time.Duration) error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
	})

	select {
	case <-p.finished:
		return nil
	default:
	}

	timer := p.clock.Timer(timeout)
	defer timer.Stop()

	select {
	case <-p.finished:
		return nil
	case <-timer.C:
		return ErrShutdownTimeout
	}
}

// JoinAll waits for every handle and returns the task errors combined.
// Only ctx cancellation stops it early.
func JoinAll(ctx context.Context, handles []*Handle) error {
	var result *multierror.Error
	for _, h := range handles {
		if err := h.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
