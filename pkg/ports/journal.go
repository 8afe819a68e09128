package ports

import (
	"context"

	"github.com/aretw0/scientist/pkg/domain"
)

// Journal is a sink for finished experiment reports.
// Report is called once per completed run. Implementations must not mutate the report.
type Journal interface {
	Report(ctx context.Context, info domain.ExperimentInfo, report *domain.Report) error
}

// JournalFunc adapts a function to the Journal interface.
type JournalFunc func(ctx context.Context, info domain.ExperimentInfo, report *domain.Report) error

// Report calls f.
func (f JournalFunc) Report(ctx context.Context, info domain.ExperimentInfo, report *domain.Report) error {
	return f(ctx, info, report)
}
