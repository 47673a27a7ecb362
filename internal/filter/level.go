package filter

import (
	"github.com/vburojevic/logtriage/internal/domain"
)

// SeverityFilter keeps records at exactly one severity
type SeverityFilter struct {
	target domain.Severity
}

// NewSeverityFilter creates a severity filter
func NewSeverityFilter(target domain.Severity) *SeverityFilter {
	return &SeverityFilter{target: target}
}

// Match returns true if the record severity equals the target
func (f *SeverityFilter) Match(rec *domain.Record) bool {
	return rec.Severity == f.target
}
