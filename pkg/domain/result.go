package domain

import (
	"time"

	"github.com/google/uuid"
)

// Result is the comparison of one control Outcome against all candidate Outcomes
// for a single experiment run. It is created fresh per run and must be treated
// as read-only once returned.
type Result[T any] struct {
	// ID uniquely identifies the run.
	ID string

	// Experiment is the name of the experiment that produced the result.
	Experiment string

	// StartedAt is when the control invocation began.
	StartedAt time.Time

	// Control is the outcome of the control behavior.
	Control Outcome[T]

	// Candidates maps candidate name to its outcome.
	Candidates map[string]Outcome[T]

	// Order holds candidate names in registration order.
	Order []string

	// Matches maps candidate name to whether it was judged equivalent to control.
	Matches map[string]bool
}

// NewResult creates an empty result around the given control outcome.
func NewResult[T any](experiment string, control Outcome[T]) *Result[T] {
	return &Result[T]{
		ID:         uuid.NewString(),
		Experiment: experiment,
		StartedAt:  control.StartedAt,
		Control:    control,
		Candidates: make(map[string]Outcome[T]),
		Matches:    make(map[string]bool),
	}
}

// AddCandidate records a candidate outcome and its match verdict.
// It is only meant to be called while the result is being assembled.
func (r *Result[T]) AddCandidate(outcome Outcome[T], matched bool) {
	if _, exists := r.Candidates[outcome.Name]; !exists {
		r.Order = append(r.Order, outcome.Name)
	}
	r.Candidates[outcome.Name] = outcome
	r.Matches[outcome.Name] = matched
}

// Candidate returns the outcome recorded for the named candidate.
func (r *Result[T]) Candidate(name string) (Outcome[T], bool) {
	o, ok := r.Candidates[name]
	return o, ok
}

// Matched reports whether the named candidate matched the control.
// Unknown candidates never match.
func (r *Result[T]) Matched(name string) bool {
	return r.Matches[name]
}

// Mismatches returns the names of candidates that did not match, in registration order.
func (r *Result[T]) Mismatches() []string {
	var names []string
	for _, name := range r.Order {
		if !r.Matches[name] {
			names = append(names, name)
		}
	}
	return names
}

// AllMatched reports whether every candidate matched. It is true when there are no candidates.
func (r *Result[T]) AllMatched() bool {
	return len(r.Mismatches()) == 0
}

// Report returns the type-erased snapshot of the result handed to journals.
func (r *Result[T]) Report() *Report {
	rep := &Report{
		ID:         r.ID,
		Experiment: r.Experiment,
		StartedAt:  r.StartedAt,
		Control:    r.Control.Observation(),
		Candidates: make([]Observation, 0, len(r.Order)),
		Matches:    make(map[string]bool, len(r.Matches)),
	}
	for _, name := range r.Order {
		rep.Candidates = append(rep.Candidates, r.Candidates[name].Observation())
		rep.Matches[name] = r.Matches[name]
	}
	return rep
}

// Report is the journal-facing view of a Result.
// Journals receive a shared pointer and must not mutate it.
type Report struct {
	ID         string          `json:"id"`
	Experiment string          `json:"experiment"`
	StartedAt  time.Time       `json:"started_at"`
	Control    Observation     `json:"control"`
	Candidates []Observation   `json:"candidates"`
	Matches    map[string]bool `json:"matches"`
}

// Candidate returns the observation for the named candidate.
func (r *Report) Candidate(name string) (Observation, bool) {
	for _, c := range r.Candidates {
		if c.Name == name {
			return c, true
		}
	}
	return Observation{}, false
}

// Mismatches returns the names of candidates that did not match, in registration order.
func (r *Report) Mismatches() []string {
	var names []string
	for _, c := range r.Candidates {
		if !r.Matches[c.Name] {
			names = append(names, c.Name)
		}
	}
	return names
}

// AllMatched reports whether every candidate matched.
func (r *Report) AllMatched() bool {
	return len(r.Mismatches()) == 0
}
