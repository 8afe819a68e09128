package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/scientist/pkg/domain"
	"github.com/aretw0/scientist/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

type piiMiddleware struct {
	next     ports.Journal
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks metadata and map values
// whose keys match any of the patterns before the report reaches the next journal.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.Journal) ports.Journal {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Report(ctx context.Context, info domain.ExperimentInfo, report *domain.Report) error {
	// The report is shared with other journals: mask a copy.
	cloned := *report
	cloned.Control = m.mask(report.Control)
	cloned.Candidates = make([]domain.Observation, len(report.Candidates))
	for i, c := range report.Candidates {
		cloned.Candidates[i] = m.mask(c)
	}
	return m.next.Report(ctx, info, &cloned)
}

func (m *piiMiddleware) mask(o domain.Observation) domain.Observation {
	if o.Meta != nil {
		o.Meta = deepCopyMap(o.Meta)
		maskMap(o.Meta, m.patterns)
	}
	if v, ok := o.Value.(map[string]any); ok {
		v = deepCopyMap(v)
		maskMap(v, m.patterns)
		o.Value = v
	}
	return o
}

// Helpers

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		// Handle nested maps
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(subMap)
		} else {
			out[k] = v // shallow copy of value
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		// Check key against patterns
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				masked = true
				break
			}
		}

		// Recurse if map
		if subMap, ok := v.(map[string]any); ok && !masked {
			maskMap(subMap, patterns)
		}
	}
}
