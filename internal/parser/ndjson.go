package parser

import (
	"github.com/tidwall/gjson"
	"github.com/vburojevic/logtriage/internal/domain"
)

// NDJSONParser parses one JSON object per line.
// Recognized fields: timestamp, severity (or level), message (or msg).
type NDJSONParser struct{}

// NewNDJSONParser creates a new NDJSON line parser
func NewNDJSONParser() *NDJSONParser {
	return &NDJSONParser{}
}

// Parse converts a single NDJSON line to a Record
func (p *NDJSONParser) Parse(line string) (domain.Record, error) {
	if !gjson.Valid(line) {
		return domain.Record{}, &ParseError{Line: line, Err: ErrJSON}
	}

	ts, ok := stringField(line, "timestamp")
	if !ok {
		return domain.Record{}, &ParseError{Line: line, Err: ErrFieldCount, Detail: "missing timestamp"}
	}
	sev, ok := stringField(line, "severity", "level")
	if !ok {
		return domain.Record{}, &ParseError{Line: line, Err: ErrFieldCount, Detail: "missing severity"}
	}
	msg, ok := stringField(line, "message", "msg")
	if !ok {
		return domain.Record{}, &ParseError{Line: line, Err: ErrFieldCount, Detail: "missing message"}
	}

	return build(line, ts, sev, msg)
}

// stringField returns the first of keys present as a JSON string
func stringField(line string, keys ...string) (string, bool) {
	for _, k := range keys {
		r := gjson.Get(line, k)
		if r.Type == gjson.String {
			return r.String(), true
		}
	}
	return "", false
}
