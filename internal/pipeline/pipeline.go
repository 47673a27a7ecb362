// Package pipeline wires ingestion, filtering, concurrent processing and
// report writing into a single run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/vburojevic/logtriage/internal/domain"
	"github.com/vburojevic/logtriage/internal/filter"
	"github.com/vburojevic/logtriage/internal/ingest"
	"github.com/vburojevic/logtriage/internal/parser"
	"github.com/vburojevic/logtriage/internal/processor"
	"github.com/vburojevic/logtriage/internal/report"
)

// DefaultInputPath is read when no input is configured
const DefaultInputPath = "servidor.log"

// Options configures one run
type Options struct {
	InputPath       string
	OutputPath      string
	InputFormat     string
	Severity        domain.Severity
	Pattern         string
	Exclude         []string
	Workers         int
	Delay           time.Duration
	ShutdownTimeout time.Duration

	Logger *zap.Logger
	Clock  clock.Clock
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		InputPath:       DefaultInputPath,
		OutputPath:      report.DefaultPath,
		InputFormat:     parser.FormatDelimited,
		Severity:        domain.SeverityError,
		Workers:         processor.DefaultWorkers,
		Delay:           processor.DefaultDelay,
		ShutdownTimeout: processor.DefaultShutdownTimeout,
	}
}

// Validate checks the options before anything is read
func (o Options) Validate() error {
	var errs []error
	if o.InputPath == "" {
		errs = append(errs, errors.New("input path is required"))
	}
	if o.OutputPath == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	if !o.Severity.Valid() {
		errs = append(errs, fmt.Errorf("invalid severity %q (want INFO, WARNING or ERROR)", o.Severity))
	}
	if o.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", o.Workers))
	}
	if o.Delay < 0 {
		errs = append(errs, fmt.Errorf("delay must not be negative, got %s", o.Delay))
	}
	if o.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be positive, got %s", o.ShutdownTimeout))
	}
	return errors.Join(errs...)
}

// ConfigError wraps invalid options
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "invalid configuration: " + e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// ProcessingError reports units that failed. The report was still written
// with the count of units that completed.
type ProcessingError struct {
	Failed int
	Err    error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%d record(s) failed processing: %v", e.Failed, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// Run executes ingest -> filter -> process -> report.
//
// An input failure returns before any processing and no report is written.
// The worker pool is always shut down before the report is written.
func Run(ctx context.Context, opts Options) (*domain.RunSummary, error) {
	start := time.Now()
	summary := domain.NewRunSummary()
	summary.InputPath = opts.InputPath
	summary.ReportPath = opts.OutputPath
	summary.Severity = opts.Severity
	summary.Workers = opts.Workers

	if err := opts.Validate(); err != nil {
		return summary, &ConfigError{Err: err}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p, err := parser.New(opts.InputFormat)
	if err != nil {
		return summary, &ConfigError{Err: err}
	}
	chain, err := filter.Build(opts.Severity, opts.Pattern, opts.Exclude)
	if err != nil {
		return summary, &ConfigError{Err: err}
	}

	ingested, err := ingest.NewReader(p, logger).Read(ctx, opts.InputPath)
	if err != nil {
		return summary, err
	}
	summary.LinesRead = ingested.LinesRead
	summary.RecordsParsed = len(ingested.Records)
	summary.LinesSkipped = ingested.Skipped

	matched := filter.Apply(ingested.Records, chain)
	summary.RecordsMatched = len(matched)
	logger.Debug("records filtered",
		zap.Stringer("severity", opts.Severity),
		zap.Int("parsed", len(ingested.Records)),
		zap.Int("matched", len(matched)),
	)

	proc := processor.New(
		processor.WithWorkers(opts.Workers),
		processor.WithDelay(opts.Delay),
		processor.WithShutdownTimeout(opts.ShutdownTimeout),
		processor.WithClock(opts.Clock),
		processor.WithLogger(logger),
	)
	res, procErr := proc.Process(ctx, matched)
	summary.Processed = res.Processed
	summary.Interrupted = res.Interrupted
	summary.Failed = res.Failed

	if err := report.NewWriter(opts.OutputPath).Write(res.Processed); err != nil {
		summary.Elapsed = time.Since(start)
		return summary, err
	}
	summary.ReportWritten = true
	summary.Elapsed = time.Since(start)

	if procErr != nil {
		return summary, &ProcessingError{Failed: res.Failed, Err: procErr}
	}
	return summary, nil
}
