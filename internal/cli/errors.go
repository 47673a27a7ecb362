package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/vburojevic/logtriage/internal/ingest"
	"github.com/vburojevic/logtriage/internal/output"
	"github.com/vburojevic/logtriage/internal/pipeline"
	"github.com/vburojevic/logtriage/internal/report"
)

// Error codes emitted for failed runs
const (
	CodeFileNotFound     = "FILE_NOT_FOUND"
	CodeReadError        = "READ_ERROR"
	CodeInvalidConfig    = "INVALID_CONFIG"
	CodeWriteError       = "WRITE_ERROR"
	CodeProcessingFailed = "PROCESSING_FAILED"
	CodeInterrupted      = "INTERRUPTED"
	CodeRunFailed        = "RUN_FAILED"
)

// classify maps a run error to a CLIError with a machine-readable code
func classify(err error) *CLIError {
	if err == nil {
		return nil
	}

	var (
		cfgErr   *pipeline.ConfigError
		fileErr  *ingest.FileError
		writeErr *report.WriteError
		procErr  *pipeline.ProcessingError
	)
	switch {
	case errors.As(err, &cfgErr):
		return &CLIError{Code: CodeInvalidConfig, Message: err.Error(), Hint: "Check flags, LOGTRIAGE_* variables, and `logtriage config show`", Err: err}
	case errors.As(err, &fileErr) && errors.Is(err, fs.ErrNotExist):
		return &CLIError{Code: CodeFileNotFound, Message: fmt.Sprintf("input file not found: %s", fileErr.Path), Hint: "Pass the log file as an argument or set run.input", Err: err}
	case errors.As(err, &fileErr):
		return &CLIError{Code: CodeReadError, Message: err.Error(), Err: err}
	case errors.As(err, &writeErr):
		return &CLIError{Code: CodeWriteError, Message: err.Error(), Hint: "Check that the --output directory exists and is writable", Err: err}
	case errors.As(err, &procErr):
		return &CLIError{Code: CodeProcessingFailed, Message: err.Error(), Err: err}
	case errors.Is(err, context.Canceled):
		return &CLIError{Code: CodeInterrupted, Message: "run interrupted before processing", Err: err}
	default:
		return &CLIError{Code: CodeRunFailed, Message: err.Error(), Err: err}
	}
}

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so scripts always get machine-readable failures.
func outputErrorCommon(globals *Globals, code, message string) error {
	return emitCLIError(globals, &CLIError{Code: code, Message: message})
}

func emitCLIError(globals *Globals, e *CLIError) error {
	if globals != nil && globals.Format == "ndjson" {
		if err := output.NewNDJSONWriter(globals.Stdout).WriteError(e.Code, e.Message); err != nil {
			globals.logger().Debug("failed to write error")
		}
	} else if globals != nil {
		tw := output.NewTextWriter(globals.Stderr)
		_ = tw.WriteError(e.Code, e.Message)
		if e.Hint != "" && !globals.Quiet {
			fmt.Fprintf(globals.Stderr, "Hint: %s\n", e.Hint)
		}
	}
	return e
}
