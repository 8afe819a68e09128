// Package trial executes the behaviors of an experiment and compares their outcomes.
package trial

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/aretw0/scientist/pkg/compare"
	"github.com/aretw0/scientist/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// Func is a behavior under trial. Every behavior of a plan receives the same params.
type Func[T any] func(ctx context.Context, params ...any) (T, error)

// Behavior is a named callable plus the metadata copied onto its Outcome.
type Behavior[T any] struct {
	Name string
	Fn   Func[T]
	Meta map[string]any
}

// Plan is everything the intern needs to run one experiment.
type Plan[T any] struct {
	Experiment string
	Control    Behavior[T]
	Candidates []Behavior[T]
	Params     []any
	Compare    compare.Comparator[T]
}

// Options configures a run.
type Options struct {
	// StopEarly returns the first behavior failure instead of recording it.
	StopEarly bool

	// Concurrency is the number of candidates allowed to run at once.
	// Values below 2 run candidates sequentially in registration order.
	Concurrency int

	Logger *slog.Logger
}

// Intern runs trials for experiments whose behaviors return T.
type Intern[T any] struct {
	opts Options
}

// New creates an intern with the given options.
func New[T any](opts Options) *Intern[T] {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Intern[T]{opts: opts}
}

// Observe invokes a behavior and captures its value or failure and elapsed time.
// Panics are recovered into a *domain.PanicError.
func Observe[T any](ctx context.Context, b Behavior[T], params []any) (out domain.Outcome[T]) {
	out.Name = b.Name
	out.Meta = b.Meta
	out.StartedAt = time.Now()

	defer func() {
		out.Duration = time.Since(out.StartedAt)
		if r := recover(); r != nil {
			var zero T
			out.Value = zero
			out.Err = &domain.PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	out.Value, out.Err = b.Fn(ctx, params...)
	if out.Err != nil {
		var zero T
		out.Value = zero
	}
	return out
}

// Run executes control and then every candidate, compares each candidate against
// control and assembles the result. With StopEarly set, the first failure aborts
// the run and is returned; otherwise failures are recorded and Run always completes.
func (i *Intern[T]) Run(ctx context.Context, plan Plan[T]) (*domain.Result[T], error) {
	cmp := plan.Compare
	if cmp == nil {
		cmp = compare.Default[T](nil)
	}

	control := Observe(ctx, plan.Control, plan.Params)
	i.logOutcome(plan.Experiment, control)
	if control.Failed() && i.opts.StopEarly {
		return nil, i.abort(plan.Experiment, control)
	}

	var (
		outcomes []domain.Outcome[T]
		err      error
	)
	if i.opts.Concurrency > 1 && len(plan.Candidates) > 1 {
		outcomes, err = i.runConcurrent(ctx, plan)
	} else {
		outcomes, err = i.runSequential(ctx, plan)
	}
	if err != nil {
		return nil, err
	}

	result := domain.NewResult(plan.Experiment, control)
	for _, outcome := range outcomes {
		result.AddCandidate(outcome, cmp(control, outcome))
	}
	return result, nil
}

func (i *Intern[T]) runSequential(ctx context.Context, plan Plan[T]) ([]domain.Outcome[T], error) {
	outcomes := make([]domain.Outcome[T], 0, len(plan.Candidates))
	for _, b := range plan.Candidates {
		outcome := Observe(ctx, b, plan.Params)
		i.logOutcome(plan.Experiment, outcome)
		if outcome.Failed() && i.opts.StopEarly {
			return nil, i.abort(plan.Experiment, outcome)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// runConcurrent fans candidates out to a bounded group. Outcomes keep registration
// order. In StopEarly mode the first failure cancels the shared context and
// candidates that have not started yet are skipped; a skip always fails the run,
// so a result never lacks a registered candidate.
func (i *Intern[T]) runConcurrent(ctx context.Context, plan Plan[T]) ([]domain.Outcome[T], error) {
	outcomes := make([]domain.Outcome[T], len(plan.Candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.opts.Concurrency)

	for idx, b := range plan.Candidates {
		g.Go(func() error {
			if i.opts.StopEarly && gctx.Err() != nil {
				return fmt.Errorf("experiment %q: %s: %w", plan.Experiment, b.Name, context.Cause(gctx))
			}
			outcome := Observe(gctx, b, plan.Params)
			i.logOutcome(plan.Experiment, outcome)
			outcomes[idx] = outcome
			if outcome.Failed() && i.opts.StopEarly {
				return i.abort(plan.Experiment, outcome)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (i *Intern[T]) logOutcome(experiment string, outcome domain.Outcome[T]) {
	i.opts.Logger.Debug("behavior observed",
		"experiment", experiment,
		"behavior", outcome.Name,
		"duration", outcome.Duration,
		"failed", outcome.Failed(),
	)
}

func (i *Intern[T]) abort(experiment string, outcome domain.Outcome[T]) error {
	i.opts.Logger.Debug("stopping trial early",
		"experiment", experiment,
		"behavior", outcome.Name,
		"error", outcome.Err,
	)
	return fmt.Errorf("experiment %q: %s: %w", experiment, outcome.Name, outcome.Err)
}
