package filter

import (
	"github.com/vburojevic/logtriage/internal/domain"
)

// Filter determines if a record should be included
type Filter interface {
	// Match returns true if the record passes the filter
	Match(rec *domain.Record) bool
}

// Chain combines multiple filters (all must pass)
type Chain struct {
	filters []Filter
}

// NewChain creates a filter chain from multiple filters
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Match returns true only if all filters pass
func (c *Chain) Match(rec *domain.Record) bool {
	for _, f := range c.filters {
		if !f.Match(rec) {
			return false
		}
	}
	return true
}

// Add appends a filter to the chain
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Apply returns the records accepted by f, preserving their order.
// The input slice is never modified.
func Apply(records []domain.Record, f Filter) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for i := range records {
		if f == nil || f.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}
