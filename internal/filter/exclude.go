package filter

import (
	"regexp"

	"github.com/vburojevic/logtriage/internal/domain"
)

// ExcludePatternFilter drops records whose message matches a regex
type ExcludePatternFilter struct {
	pattern *regexp.Regexp
}

// NewExcludePatternFilter creates an exclusion filter from a pattern string
func NewExcludePatternFilter(pattern string) (*ExcludePatternFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &ExcludePatternFilter{pattern: re}, nil
}

// Match returns true if the record does NOT match the exclusion pattern
func (f *ExcludePatternFilter) Match(rec *domain.Record) bool {
	if f.pattern == nil {
		return true
	}
	return !f.pattern.MatchString(rec.Message)
}
