package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vburojevic/logtriage/internal/domain"
	"github.com/vburojevic/logtriage/internal/output"
	"github.com/vburojevic/logtriage/internal/pipeline"
)

// RunCmd analyzes a log file and writes the report
type RunCmd struct {
	Input           string        `arg:"" optional:"" default:"${config_input}" help:"Log file to analyze"`
	Output          string        `short:"o" default:"${config_output}" help:"Report file (overwritten on every run)"`
	InputFormat     string        `default:"${config_input_format}" help:"Input line format: delimited (timestamp;severity;message) or ndjson"`
	Severity        string        `short:"s" default:"${config_severity}" help:"Severity to process: INFO, WARNING or ERROR"`
	Workers         int           `short:"w" default:"${config_workers}" help:"Number of concurrent workers"`
	Delay           time.Duration `default:"${config_delay}" help:"Simulated analysis time per record"`
	ShutdownTimeout time.Duration `default:"${config_shutdown_timeout}" help:"Maximum time to wait for workers to exit"`
	Pattern         string        `short:"p" help:"Only process records whose message matches this regex"`
	Exclude         []string      `short:"x" help:"Skip records whose message matches this regex (can be repeated)"`
}

// options builds pipeline options, falling back to config for the message filters
func (c *RunCmd) options(globals *Globals) pipeline.Options {
	opts := pipeline.Options{
		InputPath:       c.Input,
		OutputPath:      c.Output,
		InputFormat:     c.InputFormat,
		Severity:        domain.Severity(c.Severity),
		Pattern:         c.Pattern,
		Exclude:         c.Exclude,
		Workers:         c.Workers,
		Delay:           c.Delay,
		ShutdownTimeout: c.ShutdownTimeout,
		Logger:          globals.logger(),
	}
	if cfg := globals.Config; cfg != nil {
		if opts.Pattern == "" {
			opts.Pattern = cfg.Run.Pattern
		}
		if len(opts.Exclude) == 0 {
			opts.Exclude = cfg.Run.Exclude
		}
	}
	return opts
}

// Run executes the run command
func (c *RunCmd) Run(globals *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return c.run(ctx, globals)
}

func (c *RunCmd) run(ctx context.Context, globals *Globals) error {
	opts := c.options(globals)
	log := globals.logger()
	log.Debug("starting run",
		zap.String("input", opts.InputPath),
		zap.String("output", opts.OutputPath),
		zap.String("severity", string(opts.Severity)),
		zap.Int("workers", opts.Workers),
		zap.Duration("delay", opts.Delay),
	)

	summary, err := pipeline.Run(ctx, opts)
	if summary != nil && summary.ReportWritten {
		if werr := c.writeSummary(globals, summary); werr != nil {
			log.Debug("failed to write summary", zap.Error(werr))
		}
	}
	if err != nil {
		return emitCLIError(globals, classify(err))
	}
	return nil
}

func (c *RunCmd) writeSummary(globals *Globals, summary *domain.RunSummary) error {
	if globals.Format == "ndjson" {
		w := output.NewNDJSONWriter(globals.Stdout)
		if summary.Interrupted > 0 {
			if err := w.WriteWarning(interruptedWarning(summary)); err != nil {
				return err
			}
		}
		return w.WriteSummary(summary)
	}
	if globals.Quiet {
		return nil
	}
	if summary.Interrupted > 0 {
		_ = output.NewTextWriter(globals.Stderr).WriteWarning(interruptedWarning(summary))
	}
	return output.NewTextWriter(globals.Stdout).WriteSummary(summary)
}

func interruptedWarning(summary *domain.RunSummary) string {
	return fmt.Sprintf("%d record(s) interrupted; the report holds a partial count", summary.Interrupted)
}
