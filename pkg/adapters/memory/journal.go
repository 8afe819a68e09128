package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/scientist/pkg/domain"
)

// DefaultLimit is the number of reports kept per experiment.
const DefaultLimit = 100

// Journal implements ports.HistoryJournal in memory.
// It remembers the last reported experiment and a bounded history per experiment.
// Safe for concurrent use.
type Journal struct {
	mu       sync.RWMutex
	limit    int
	lastInfo *domain.ExperimentInfo
	last     *domain.Report
	history  map[string][]domain.Report // newest last
	stats    map[string]*domain.Stats
}

// Option configures the Journal.
type Option func(*Journal)

// WithLimit sets how many reports are kept per experiment.
func WithLimit(n int) Option {
	return func(j *Journal) {
		if n > 0 {
			j.limit = n
		}
	}
}

// NewJournal creates a new in-memory journal.
func NewJournal(opts ...Option) *Journal {
	j := &Journal{
		limit:   DefaultLimit,
		history: make(map[string][]domain.Report),
		stats:   make(map[string]*domain.Stats),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Report records the report.
func (j *Journal) Report(ctx context.Context, info domain.ExperimentInfo, report *domain.Report) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.lastInfo = &info
	j.last = report

	h := append(j.history[info.Name], *report)
	if len(h) > j.limit {
		h = h[len(h)-j.limit:]
	}
	j.history[info.Name] = h

	s, ok := j.stats[info.Name]
	if !ok {
		s = domain.NewStats(info.Name)
		j.stats[info.Name] = s
	}
	s.Record(report)
	return nil
}

// Last returns the most recently reported experiment and report.
func (j *Journal) Last() (domain.ExperimentInfo, *domain.Report, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.last == nil {
		return domain.ExperimentInfo{}, nil, false
	}
	return *j.lastInfo, j.last, true
}

// Recent returns up to limit reports for the experiment, newest first.
func (j *Journal) Recent(ctx context.Context, experiment string, limit int) ([]domain.Report, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	h := j.history[experiment]
	if limit <= 0 || limit > len(h) {
		limit = len(h)
	}
	out := make([]domain.Report, 0, limit)
	for i := len(h) - 1; i >= len(h)-limit; i-- {
		out = append(out, h[i])
	}
	return out, nil
}

// Stats returns a copy of the counters for the experiment.
func (j *Journal) Stats(ctx context.Context, experiment string) (*domain.Stats, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	s, ok := j.stats[experiment]
	if !ok {
		return nil, domain.ErrExperimentNotFound
	}
	// Copy on read so callers can't mutate the journal's counters
	ret := *s
	ret.Candidates = maps.Clone(s.Candidates)
	return &ret, nil
}

// Experiments lists experiment names with recorded history.
func (j *Journal) Experiments(ctx context.Context) ([]string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return slices.Sorted(maps.Keys(j.history)), nil
}

// Reset forgets everything recorded so far.
func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.lastInfo = nil
	j.last = nil
	j.history = make(map[string][]domain.Report)
	j.stats = make(map[string]*domain.Stats)
}
