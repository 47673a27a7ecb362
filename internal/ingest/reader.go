// Package ingest streams a log file through a line parser.
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/vburojevic/logtriage/internal/domain"
	"github.com/vburojevic/logtriage/internal/parser"
)

const maxLineSize = 1024 * 1024

// FileError is a non-recoverable failure to open or read the input file
type FileError struct {
	Path string
	Op   string // "open" or "read"
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Result holds the records parsed from one file, in file order
type Result struct {
	Records   []domain.Record
	LinesRead int
	Skipped   int
}

// Reader reads log files line by line
type Reader struct {
	parser parser.Parser
	logger *zap.Logger
}

// NewReader creates a reader. A nil logger discards diagnostics.
func NewReader(p parser.Parser, logger *zap.Logger) *Reader {
	if p == nil {
		p = parser.NewDelimitedParser()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{parser: p, logger: logger}
}

// Read parses every line of path. Lines that fail to parse are logged
// and skipped; only open/read failures are returned.
func (r *Reader) Read(ctx context.Context, path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, &FileError{Path: path, Op: "open", Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			r.logger.Debug("failed to close input", zap.String("path", path), zap.Error(err))
		}
	}()

	var res Result
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		lineNum++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		res.LinesRead++

		rec, err := r.parser.Parse(line)
		if err != nil {
			res.Skipped++
			r.logger.Warn("corrupted line skipped",
				zap.String("line", line),
				zap.Int("line_number", lineNum),
				zap.Error(err),
			)
			continue
		}
		res.Records = append(res.Records, rec)
	}

	if err := scanner.Err(); err != nil {
		return Result{}, &FileError{Path: path, Op: "read", Err: err}
	}

	r.logger.Debug("ingestion finished",
		zap.String("path", path),
		zap.Int("lines", res.LinesRead),
		zap.Int("records", len(res.Records)),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}
