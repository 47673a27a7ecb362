package filter

import (
	"fmt"

	"github.com/vburojevic/logtriage/internal/domain"
)

// Build assembles the chain used by a run: the target severity plus the
// optional include/exclude message patterns.
func Build(target domain.Severity, pattern string, excludes []string) (*Chain, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("invalid target severity %q", target)
	}
	chain := NewChain(NewSeverityFilter(target))
	if pattern != "" {
		f, err := NewRegexFilter(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		chain.Add(f)
	}
	for _, ex := range excludes {
		f, err := NewExcludePatternFilter(ex)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern: %w", err)
		}
		chain.Add(f)
	}
	return chain, nil
}
