package scientist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/scientist/internal/trial"
	"github.com/aretw0/scientist/pkg/domain"
	"github.com/aretw0/scientist/pkg/ports"
)

// Laboratory is where experiments are conducted.
// It owns the journals and the run-wide settings, and is safe for concurrent use.
type Laboratory struct {
	mu              sync.RWMutex
	journals        []ports.Journal
	stopTrialsEarly bool
	concurrency     int
	settings        map[string]Settings
	logger          *slog.Logger
}

// Settings override an experiment's own enablement.
// Nil fields leave the experiment's value untouched.
type Settings struct {
	Enabled *bool
	Chance  *int
}

// Option defines a functional option for configuring the Laboratory.
type Option func(*Laboratory)

// WithJournals registers the journals reports are forwarded to, in order.
func WithJournals(journals ...ports.Journal) Option {
	return func(l *Laboratory) {
		l.journals = append(l.journals, journals...)
	}
}

// WithLogger sets a custom structured logger for the laboratory.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Laboratory) {
		l.logger = logger
	}
}

// WithStopTrialsEarly makes behavior failures propagate instead of being contained.
func WithStopTrialsEarly(stop bool) Option {
	return func(l *Laboratory) {
		l.stopTrialsEarly = stop
	}
}

// WithConcurrency lets up to n candidates of a run execute at once (default: 1).
func WithConcurrency(n int) Option {
	return func(l *Laboratory) {
		l.concurrency = n
	}
}

// WithSettings installs per-experiment overrides, keyed by experiment name.
func WithSettings(settings map[string]Settings) Option {
	return func(l *Laboratory) {
		for name, s := range settings {
			l.settings[name] = s
		}
	}
}

// New creates a Laboratory.
func New(opts ...Option) *Laboratory {
	lab := &Laboratory{
		concurrency: 1,
		settings:    make(map[string]Settings),
	}
	for _, opt := range opts {
		opt(lab)
	}

	if lab.logger == nil {
		lab.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return lab
}

// StopTrialsEarly stops hiding behavior failures: the first failure of a run is
// returned to the caller and no report is produced. Returns the laboratory for chaining.
func (l *Laboratory) StopTrialsEarly() *Laboratory {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopTrialsEarly = true
	return l
}

// SetJournals replaces the registered journals.
func (l *Laboratory) SetJournals(journals ...ports.Journal) *Laboratory {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.journals = slices.Clone(journals)
	return l
}

// AddJournal registers one more journal.
func (l *Laboratory) AddJournal(journal ports.Journal) *Laboratory {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.journals = append(l.journals, journal)
	return l
}

// Journals returns the registered journals in registration order.
func (l *Laboratory) Journals() []ports.Journal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.journals)
}

// labConfig is the per-run snapshot of the laboratory settings.
type labConfig struct {
	journals        []ports.Journal
	stopTrialsEarly bool
	concurrency     int
	logger          *slog.Logger
}

func (l *Laboratory) snapshot() labConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return labConfig{
		journals:        slices.Clone(l.journals),
		stopTrialsEarly: l.stopTrialsEarly,
		concurrency:     l.concurrency,
		logger:          l.logger,
	}
}

func (l *Laboratory) settingsFor(name string) (Settings, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.settings[name]
	return s, ok
}

// RunExperiment runs the experiment and returns what control produced.
//
// A disabled experiment calls control directly: nothing is compared or reported.
// An enabled one is reported to every journal first; a control failure is then
// returned as-is (a control panic is re-raised). A journal error is returned
// together with the control value. When trials stop early, a panic in any
// behavior is re-raised with its original value.
func RunExperiment[T any](ctx context.Context, lab *Laboratory, exp *Experiment[T]) (T, error) {
	var zero T
	if err := exp.Validate(); err != nil {
		return zero, err
	}
	if lab == nil {
		lab = exp.lab
	}

	if !exp.shouldRun(lab) {
		return exp.control.Fn(ctx, exp.params...)
	}

	result, err := GetReport(ctx, lab, exp)
	if result == nil {
		var pe *domain.PanicError
		if errors.As(err, &pe) {
			panic(pe.Value)
		}
		return zero, err
	}
	if pe, ok := result.Control.Err.(*domain.PanicError); ok {
		panic(pe.Value)
	}
	if err != nil {
		return result.Control.Value, err
	}
	return result.Control.Value, result.Control.Err
}

// GetReport runs the experiment regardless of its enablement, forwards the result
// to every journal synchronously in registration order, and returns it.
// If a journal fails, the remaining journals are skipped and the result is
// returned with an error wrapping domain.ErrJournal.
func GetReport[T any](ctx context.Context, lab *Laboratory, exp *Experiment[T]) (*domain.Result[T], error) {
	if err := exp.Validate(); err != nil {
		return nil, err
	}
	if lab == nil {
		lab = exp.lab
	}

	cfg := lab.snapshot()
	logger := cfg.logger.With("experiment", exp.name)

	intern := trial.New[T](trial.Options{
		StopEarly:   cfg.stopTrialsEarly,
		Concurrency: cfg.concurrency,
		Logger:      logger,
	})

	result, err := intern.Run(ctx, exp.plan())
	if err != nil {
		logger.Debug("trial stopped early", "error", err)
		return nil, err
	}

	logger = logger.With("run_id", result.ID)
	if mismatches := result.Mismatches(); len(mismatches) > 0 {
		logger.Warn("candidates mismatched control", "candidates", mismatches)
	} else {
		logger.Debug("experiment completed", "candidates", len(result.Order), "control_duration", result.Control.Duration)
	}

	if err := reportToJournals(ctx, cfg.journals, exp.Info(), result.Report()); err != nil {
		logger.Error("journal failed", "error", err)
		return result, err
	}
	return result, nil
}

func reportToJournals(ctx context.Context, journals []ports.Journal, info domain.ExperimentInfo, report *domain.Report) error {
	for i, journal := range journals {
		if err := journal.Report(ctx, info, report); err != nil {
			return fmt.Errorf("%w: journal %d (%T): %w", domain.ErrJournal, i, journal, err)
		}
	}
	return nil
}
