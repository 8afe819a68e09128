package ports

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/scientist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunHistoryJournalContract runs a suite of tests to verify that a HistoryJournal
// implementation adheres to the defined interface contract.
func RunHistoryJournalContract(t *testing.T, journal HistoryJournal) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405.000000")

	info := domain.ExperimentInfo{Name: name, Candidates: []string{"alt", "broken"}, Chance: 100}

	newReport := func(i int) *domain.Report {
		control := domain.Outcome[int]{Name: domain.ControlName, Value: i, StartedAt: time.Now(), Duration: time.Millisecond}
		result := domain.NewResult(name, control)
		result.AddCandidate(domain.Outcome[int]{Name: "alt", Value: i}, true)
		result.AddCandidate(domain.Outcome[int]{Name: "broken", Err: errors.New("boom")}, false)
		return result.Report()
	}

	t.Run("Stats Unknown Experiment", func(t *testing.T) {
		_, err := journal.Stats(ctx, "missing-"+name)
		assert.ErrorIs(t, err, domain.ErrExperimentNotFound)
	})

	t.Run("Recent Unknown Experiment", func(t *testing.T) {
		reports, err := journal.Recent(ctx, "missing-"+name, 10)
		require.NoError(t, err)
		assert.Empty(t, reports)
	})

	t.Run("Report and Read Back", func(t *testing.T) {
		var ids []string
		for i := range 3 {
			rep := newReport(i)
			ids = append(ids, rep.ID)
			require.NoError(t, journal.Report(ctx, info, rep), "Report should not return error")
		}

		reports, err := journal.Recent(ctx, name, 10)
		require.NoError(t, err)
		require.Len(t, reports, 3)

		// Newest first
		assert.Equal(t, ids[2], reports[0].ID)
		assert.Equal(t, ids[0], reports[2].ID)

		latest := reports[0]
		assert.Equal(t, name, latest.Experiment)
		assert.True(t, latest.Matches["alt"])
		assert.False(t, latest.Matches["broken"])
		require.Len(t, latest.Candidates, 2)
		assert.Equal(t, "alt", latest.Candidates[0].Name)

		broken, ok := latest.Candidate("broken")
		require.True(t, ok)
		assert.True(t, broken.Failed())
		assert.Equal(t, "boom", broken.Failure)
		assert.Equal(t, []string{"broken"}, latest.Mismatches())
	})

	t.Run("Recent Respects Limit", func(t *testing.T) {
		reports, err := journal.Recent(ctx, name, 2)
		require.NoError(t, err)
		assert.Len(t, reports, 2)
	})

	t.Run("Stats", func(t *testing.T) {
		stats, err := journal.Stats(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.Runs)
		assert.Equal(t, int64(3), stats.MismatchedRuns)
		assert.Equal(t, int64(0), stats.ControlFailures)
		assert.Equal(t, domain.CandidateStats{Runs: 3, Matches: 3}, stats.Candidates["alt"])
		assert.Equal(t, domain.CandidateStats{Runs: 3, Failures: 3}, stats.Candidates["broken"])
	})

	t.Run("Experiments", func(t *testing.T) {
		other := fmt.Sprintf("%s-other", name)
		require.NoError(t, journal.Report(ctx, domain.ExperimentInfo{Name: other}, domain.NewResult(other, domain.Outcome[int]{Name: domain.ControlName}).Report()))

		names, err := journal.Experiments(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, name)
		assert.Contains(t, names, other)
	})
}
