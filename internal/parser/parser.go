// Package parser turns raw log lines into domain records.
package parser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vburojevic/logtriage/internal/domain"
)

// TimestampLayout is the only accepted timestamp format (yyyy-MM-dd HH:mm:ss).
const TimestampLayout = "2006-01-02 15:04:05"

// Delimiter separates the fields of a delimited log line.
const Delimiter = ";"

// Input formats accepted by New.
const (
	FormatDelimited = "delimited"
	FormatNDJSON    = "ndjson"
)

// Sentinels wrapped by ParseError; match them with errors.Is.
var (
	ErrFieldCount = errors.New("expected 3 fields")
	ErrTimestamp  = errors.New("invalid timestamp")
	ErrSeverity   = errors.New("unknown severity")
	ErrJSON       = errors.New("invalid json")
)

// ParseError describes why a single line could not be parsed
type ParseError struct {
	Line   string
	Err    error // one of the Err* sentinels
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser converts one raw line into a Record
type Parser interface {
	Parse(line string) (domain.Record, error)
}

// New returns the parser registered for format
func New(format string) (Parser, error) {
	switch format {
	case "", FormatDelimited:
		return NewDelimitedParser(), nil
	case FormatNDJSON:
		return NewNDJSONParser(), nil
	default:
		return nil, fmt.Errorf("unknown input format %q (want %s or %s)", format, FormatDelimited, FormatNDJSON)
	}
}

// DelimitedParser parses "timestamp;severity;message" lines
type DelimitedParser struct{}

// NewDelimitedParser creates a new delimited line parser
func NewDelimitedParser() *DelimitedParser {
	return &DelimitedParser{}
}

// Parse splits line into at most three fields; the message keeps any
// further delimiters verbatim.
func (p *DelimitedParser) Parse(line string) (domain.Record, error) {
	fields := strings.SplitN(line, Delimiter, 3)
	if len(fields) != 3 {
		return domain.Record{}, &ParseError{Line: line, Err: ErrFieldCount, Detail: fmt.Sprintf("got %d", len(fields))}
	}
	return build(line, fields[0], fields[1], fields[2])
}

func build(line, ts, sev, msg string) (domain.Record, error) {
	t, err := parseTimestamp(ts)
	if err != nil {
		return domain.Record{}, &ParseError{Line: line, Err: ErrTimestamp, Detail: fmt.Sprintf("%q", ts)}
	}
	severity, err := domain.ParseSeverity(sev)
	if err != nil {
		return domain.Record{}, &ParseError{Line: line, Err: ErrSeverity, Detail: fmt.Sprintf("%q", sev)}
	}
	return domain.Record{
		Timestamp: t,
		Severity:  severity,
		Message:   msg,
	}, nil
}

// parseTimestamp parses s in TimestampLayout as UTC
func parseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, time.UTC)
}
