package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_Record(t *testing.T) {
	stats := NewStats("sum")
	stats.Record(newTestResult().Report())

	matching := NewResult("sum", Outcome[int]{Name: ControlName, Value: 1})
	matching.AddCandidate(Outcome[int]{Name: "b", Value: 1}, true)
	stats.Record(matching.Report())

	failedControl := NewResult("sum", Outcome[int]{Name: ControlName, Err: errors.New("down")})
	stats.Record(failedControl.Report())

	assert.Equal(t, "sum", stats.Experiment)
	assert.Equal(t, int64(3), stats.Runs)
	assert.Equal(t, int64(1), stats.MismatchedRuns)
	assert.Equal(t, int64(1), stats.ControlFailures)
	assert.Equal(t, CandidateStats{Runs: 2, Matches: 2}, stats.Candidates["b"])
	assert.Equal(t, CandidateStats{Runs: 1}, stats.Candidates["a"])
	assert.Equal(t, CandidateStats{Runs: 1, Failures: 1}, stats.Candidates["c"])
}

func TestCandidateStats_MatchRate(t *testing.T) {
	assert.Zero(t, CandidateStats{}.MatchRate())
	assert.InDelta(t, 0.75, CandidateStats{Runs: 4, Matches: 3}.MatchRate(), 1e-9)
}

func TestErrors(t *testing.T) {
	err := &ConfigError{Experiment: "sum", Err: ErrNoControl}
	assert.ErrorIs(t, err, ErrNoControl)
	assert.Equal(t, `experiment "sum": no control behavior registered`, err.Error())

	pe := &PanicError{Value: "kaboom"}
	assert.Equal(t, "panic: kaboom", pe.Error())
}
