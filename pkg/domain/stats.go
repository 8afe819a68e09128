package domain

// Stats aggregates reports of one experiment.
type Stats struct {
	Experiment      string                    `json:"experiment"`
	Runs            int64                     `json:"runs"`
	MismatchedRuns  int64                     `json:"mismatched_runs"`
	ControlFailures int64                     `json:"control_failures"`
	Candidates      map[string]CandidateStats `json:"candidates"`
}

// CandidateStats aggregates the outcomes of one candidate.
type CandidateStats struct {
	Runs     int64 `json:"runs"`
	Matches  int64 `json:"matches"`
	Failures int64 `json:"failures"`
}

// NewStats returns empty stats for the named experiment.
func NewStats(experiment string) *Stats {
	return &Stats{
		Experiment: experiment,
		Candidates: make(map[string]CandidateStats),
	}
}

// Record folds a report into the counters.
func (s *Stats) Record(r *Report) {
	s.Runs++
	if !r.AllMatched() {
		s.MismatchedRuns++
	}
	if r.Control.Failed() {
		s.ControlFailures++
	}
	for _, c := range r.Candidates {
		cs := s.Candidates[c.Name]
		cs.Runs++
		if r.Matches[c.Name] {
			cs.Matches++
		}
		if c.Failed() {
			cs.Failures++
		}
		s.Candidates[c.Name] = cs
	}
}

// MatchRate returns the fraction of runs in which the candidate matched control.
func (c CandidateStats) MatchRate() float64 {
	if c.Runs == 0 {
		return 0
	}
	return float64(c.Matches) / float64(c.Runs)
}
