// Package processor analyses records concurrently and counts how many
// units of work completed.
package processor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/vburojevic/logtriage/internal/domain"
	"github.com/vburojevic/logtriage/internal/worker"
)

// Default processor settings
const (
	DefaultWorkers         = 5
	DefaultDelay           = 100 * time.Millisecond
	DefaultShutdownTimeout = 10 * time.Minute
)

// Result reports how the dispatched units ended.
// Processed + Interrupted + Failed == Dispatched.
type Result struct {
	Dispatched  int
	Processed   int
	Interrupted int
	Failed      int
}

// Processor dispatches one simulated analysis unit per record
type Processor struct {
	workers         int
	delay           time.Duration
	shutdownTimeout time.Duration
	clock           clock.Clock
	logger          *zap.Logger

	analyze func(ctx context.Context, rec domain.Record) error
}

// Option configures a Processor
type Option func(*Processor)

// WithWorkers sets the number of pool workers
func WithWorkers(n int) Option { return func(p *Processor) { p.workers = n } }

// WithDelay sets the simulated per-record latency
func WithDelay(d time.Duration) Option { return func(p *Processor) { p.delay = d } }

// WithShutdownTimeout bounds how long Process waits for running units
func WithShutdownTimeout(d time.Duration) Option {
	return func(p *Processor) { p.shutdownTimeout = d }
}

// WithClock sets the clock used for the delay and the shutdown ceiling
func WithClock(c clock.Clock) Option {
	return func(p *Processor) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithLogger sets the logger for unit and pool diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a processor with 5 workers and a 100ms delay unless overridden
func New(opts ...Option) *Processor {
	p := &Processor{
		workers:         DefaultWorkers,
		delay:           DefaultDelay,
		shutdownTimeout: DefaultShutdownTimeout,
		clock:           clock.New(),
		logger:          zap.NewNop(),
	}
	p.analyze = p.simulate
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs every record through the pool exactly once and returns after
// all units have finished and the pool has been shut down. Cancelling ctx
// interrupts the units still waiting; they are counted as interrupted and
// do not fail the run. Units still running when the shutdown timeout expires
// count as failed and the error wraps worker.ErrShutdownTimeout.
func (p *Processor) Process(ctx context.Context, records []domain.Record) (Result, error) {
	var res Result
	if len(records) == 0 {
		return res, nil
	}

	pool, err := worker.NewPool(ctx, p.workers,
		worker.WithQueueSize(len(records)),
		worker.WithClock(p.clock),
		worker.WithLogger(p.logger),
	)
	if err != nil {
		return res, err
	}

	var processed, interrupted atomic.Int64
	var errs *multierror.Error

	handles := make([]*worker.Handle, 0, len(records))
	for i := range records {
		h, err := pool.Submit(p.unit(records[i], &processed, &interrupted))
		if err != nil {
			errs = multierror.Append(errs, err)
			break
		}
		handles = append(handles, h)
	}
	res.Dispatched = len(handles)

	// Shutdown drains the queue, so once it returns nil every handle is done.
	// The barrier does not observe ctx: interrupted units still return.
	if err := pool.Shutdown(p.shutdownTimeout); err != nil {
		errs = multierror.Append(errs, err, collectFinished(handles))
	} else {
		errs = multierror.Append(errs, worker.JoinAll(context.Background(), handles))
	}

	res.Processed = int(processed.Load())
	res.Interrupted = int(interrupted.Load())
	res.Failed = res.Dispatched - res.Processed - res.Interrupted

	p.logger.Debug("processing finished",
		zap.Int("workers", pool.Size()),
		zap.Int("dispatched", res.Dispatched),
		zap.Int("processed", res.Processed),
		zap.Int("interrupted", res.Interrupted),
		zap.Int("failed", res.Failed),
	)
	return res, errs.ErrorOrNil()
}

// collectFinished gathers the errors of units that returned before the
// shutdown ceiling; units still running are left to the pool.
func collectFinished(handles []*worker.Handle) error {
	var errs *multierror.Error
	for _, h := range handles {
		select {
		case <-h.Done():
			errs = multierror.Append(errs, h.Wait(context.Background()))
		default:
		}
	}
	return errs.ErrorOrNil()
}

// unit returns the task for one record. The counter is only touched once
// the analysis has returned successfully.
func (p *Processor) unit(rec domain.Record, processed, interrupted *atomic.Int64) worker.Task {
	return func(ctx context.Context) error {
		err := p.analyze(ctx, rec)
		switch {
		case err == nil:
			processed.Add(1)
			return nil
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			interrupted.Add(1)
			p.logger.Debug("unit interrupted",
				zap.Time("timestamp", rec.Timestamp),
				zap.String("message", rec.Message),
				zap.Error(err),
			)
			return nil
		default:
			return err
		}
	}
}

// simulate stands in for an expensive per-record analysis
func (p *Processor) simulate(ctx context.Context, _ domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.delay <= 0 {
		return nil
	}

	timer := p.clock.Timer(p.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
