// Package logging provides a journal that writes experiment reports to a slog.Logger.
package logging

import (
	"context"
	"log/slog"

	"github.com/aretw0/scientist/pkg/compare"
	"github.com/aretw0/scientist/pkg/domain"
)

// Journal logs every report. Matching runs are logged at MatchLevel,
// mismatching runs at MismatchLevel with one record per mismatched candidate.
type Journal struct {
	logger        *slog.Logger
	matchLevel    slog.Level
	mismatchLevel slog.Level
	diff          bool
}

// Option configures the Journal.
type Option func(*Journal)

// WithMatchLevel sets the level used for runs where every candidate matched (default: Debug).
func WithMatchLevel(level slog.Level) Option {
	return func(j *Journal) {
		j.matchLevel = level
	}
}

// WithMismatchLevel sets the level used for mismatched candidates (default: Warn).
func WithMismatchLevel(level slog.Level) Option {
	return func(j *Journal) {
		j.mismatchLevel = level
	}
}

// WithDiff attaches a structural diff of control and candidate values to mismatch records.
func WithDiff(enabled bool) Option {
	return func(j *Journal) {
		j.diff = enabled
	}
}

// New creates a logging journal.
func New(logger *slog.Logger, opts ...Option) *Journal {
	j := &Journal{
		logger:        logger,
		matchLevel:    slog.LevelDebug,
		mismatchLevel: slog.LevelWarn,
		diff:          true,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Report logs the report.
func (j *Journal) Report(ctx context.Context, info domain.ExperimentInfo, report *domain.Report) error {
	logger := j.logger.With(
		"experiment", info.Name,
		"run_id", report.ID,
	)

	mismatches := report.Mismatches()
	if len(mismatches) == 0 {
		logger.Log(ctx, j.matchLevel, "experiment matched",
			"candidates", len(report.Candidates),
			"control_duration", report.Control.Duration,
		)
		return nil
	}

	for _, name := range mismatches {
		candidate, _ := report.Candidate(name)
		attrs := []any{
			"candidate", name,
			"control_duration", report.Control.Duration,
			"candidate_duration", candidate.Duration,
		}
		if report.Control.Failed() {
			attrs = append(attrs, "control_error", report.Control.Failure)
		}
		if candidate.Failed() {
			attrs = append(attrs, "candidate_error", candidate.Failure)
		}
		if j.diff && !report.Control.Failed() && !candidate.Failed() {
			attrs = append(attrs, "diff", compare.Diff(report.Control.Value, candidate.Value))
		}
		logger.Log(ctx, j.mismatchLevel, "candidate mismatched control", attrs...)
	}
	return nil
}
