package ports

import (
	"context"

	"github.com/aretw0/scientist/pkg/domain"
)

// ReportStore exposes the history kept by a journal.
type ReportStore interface {
	// Recent returns up to limit reports for the experiment, newest first.
	// An experiment with no history yields an empty slice.
	Recent(ctx context.Context, experiment string, limit int) ([]domain.Report, error)

	// Stats returns the aggregated counters for the experiment.
	// Returns domain.ErrExperimentNotFound if nothing was recorded for it.
	Stats(ctx context.Context, experiment string) (*domain.Stats, error)

	// Experiments lists the names of experiments with recorded history, sorted.
	Experiments(ctx context.Context) ([]string, error)
}

// HistoryJournal is a journal that can also be queried.
type HistoryJournal interface {
	Journal
	ReportStore
}
