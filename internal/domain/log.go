package domain

import (
	"fmt"
	"time"
)

// Severity is the classification of a log record
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// AllSeverities returns every known severity in ascending order
func AllSeverities() []Severity {
	return []Severity{SeverityInfo, SeverityWarning, SeverityError}
}

// Valid reports whether s is one of the known severities
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return true
	default:
		return false
	}
}

func (s Severity) String() string { return string(s) }

// ParseSeverity converts a severity name to a Severity.
// Matching is exact and case-sensitive: "error" is rejected.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.Valid() {
		return "", fmt.Errorf("unknown severity %q", s)
	}
	return sev, nil
}

// Record represents one parsed log line
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
}
