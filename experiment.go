package scientist

import (
	"context"
	"fmt"
	"maps"
	"math/rand/v2"

	"github.com/aretw0/scientist/internal/trial"
	"github.com/aretw0/scientist/pkg/compare"
	"github.com/aretw0/scientist/pkg/domain"
)

// Func is a behavior under experiment. Control and every candidate of an
// experiment receive the same params.
type Func[T any] func(ctx context.Context, params ...any) (T, error)

// Experiment describes a control behavior, its candidates and the params they
// are invoked with. Build it once with the chained methods and then run it;
// building errors are reported by Validate, Run and Report.
type Experiment[T any] struct {
	lab        *Laboratory
	name       string
	control    *trial.Behavior[T]
	candidates []trial.Behavior[T]
	params     []any
	enabled    func() bool
	chance     int
	compare    compare.Comparator[T]
	err        error
}

// NewExperiment starts a new experiment conducted in the given laboratory.
// A nil laboratory gets a default one with no journals.
func NewExperiment[T any](lab *Laboratory, name string) *Experiment[T] {
	if lab == nil {
		lab = New()
	}
	exp := &Experiment[T]{
		lab:    lab,
		name:   name,
		chance: 100,
	}
	if name == "" {
		exp.fail(fmt.Errorf("%w: experiment name is empty", domain.ErrInvalidName))
	}
	return exp
}

func (e *Experiment[T]) fail(err error) {
	if e.err == nil {
		e.err = &domain.ConfigError{Experiment: e.name, Err: err}
	}
}

// Name returns the experiment name.
func (e *Experiment[T]) Name() string {
	return e.name
}

// Laboratory returns the laboratory the experiment runs in.
func (e *Experiment[T]) Laboratory() *Laboratory {
	return e.lab
}

// Control registers the trusted behavior. Optional metadata maps are merged
// onto the control Outcome.
func (e *Experiment[T]) Control(fn Func[T], meta ...map[string]any) *Experiment[T] {
	if fn == nil {
		e.fail(domain.ErrNoControl)
		return e
	}
	e.control = &trial.Behavior[T]{Name: domain.ControlName, Fn: trial.Func[T](fn), Meta: mergeMeta(meta)}
	return e
}

// Candidate registers an alternate behavior under a unique name.
func (e *Experiment[T]) Candidate(name string, fn Func[T], meta ...map[string]any) *Experiment[T] {
	switch {
	case name == "" || name == domain.ControlName:
		e.fail(fmt.Errorf("%w: candidate name %q", domain.ErrInvalidName, name))
		return e
	case fn == nil:
		e.fail(fmt.Errorf("%w: candidate %q", domain.ErrNoBehavior, name))
		return e
	}
	for _, c := range e.candidates {
		if c.Name == name {
			e.fail(fmt.Errorf("%w: %q", domain.ErrDuplicateCandidate, name))
			return e
		}
	}
	e.candidates = append(e.candidates, trial.Behavior[T]{Name: name, Fn: trial.Func[T](fn), Meta: mergeMeta(meta)})
	return e
}

// WithParams sets the arguments every behavior is invoked with.
func (e *Experiment[T]) WithParams(params ...any) *Experiment[T] {
	e.params = params
	return e
}

// Enabled sets the predicate consulted once per run to decide whether to experiment.
func (e *Experiment[T]) Enabled(fn func() bool) *Experiment[T] {
	e.enabled = fn
	return e
}

// Chance sets the percentage (0..100) of enabled runs that actually experiment.
func (e *Experiment[T]) Chance(percent int) *Experiment[T] {
	if percent < 0 || percent > 100 {
		e.fail(fmt.Errorf("%w: got %d", domain.ErrInvalidChance, percent))
		return e
	}
	e.chance = percent
	return e
}

// Matcher replaces the comparator used to judge candidates.
func (e *Experiment[T]) Matcher(c compare.Comparator[T]) *Experiment[T] {
	e.compare = c
	return e
}

// Equal keeps the default comparison policy but judges values with eq.
func (e *Experiment[T]) Equal(eq compare.EqualFunc[T]) *Experiment[T] {
	e.compare = compare.Default(eq)
	return e
}

// Validate returns the first building error, or ErrNoControl if no control was registered.
func (e *Experiment[T]) Validate() error {
	if e.err != nil {
		return e.err
	}
	if e.control == nil {
		return &domain.ConfigError{Experiment: e.name, Err: domain.ErrNoControl}
	}
	return nil
}

// ShouldRun reports whether this invocation should experiment.
// Laboratory settings for the experiment take precedence over its own predicate and chance.
func (e *Experiment[T]) ShouldRun() bool {
	return e.shouldRun(e.lab)
}

func (e *Experiment[T]) shouldRun(lab *Laboratory) bool {
	chance := e.chance
	if s, ok := lab.settingsFor(e.name); ok {
		if s.Chance != nil {
			chance = *s.Chance
		}
		if s.Enabled != nil && !*s.Enabled {
			return false
		}
		if s.Enabled == nil && e.enabled != nil && !e.enabled() {
			return false
		}
	} else if e.enabled != nil && !e.enabled() {
		return false
	}

	switch {
	case chance >= 100:
		return true
	case chance <= 0:
		return false
	default:
		return rand.IntN(100) < chance
	}
}

// Info returns the read-only descriptor handed to journals.
func (e *Experiment[T]) Info() domain.ExperimentInfo {
	names := make([]string, 0, len(e.candidates))
	for _, c := range e.candidates {
		names = append(names, c.Name)
	}
	return domain.ExperimentInfo{
		Name:       e.name,
		Candidates: names,
		Params:     e.params,
		Chance:     e.chance,
	}
}

// Run runs the experiment in its laboratory. See RunExperiment.
func (e *Experiment[T]) Run(ctx context.Context) (T, error) {
	return RunExperiment(ctx, e.lab, e)
}

// Report runs the experiment unconditionally and returns the result. See GetReport.
func (e *Experiment[T]) Report(ctx context.Context) (*domain.Result[T], error) {
	return GetReport(ctx, e.lab, e)
}

func (e *Experiment[T]) plan() trial.Plan[T] {
	return trial.Plan[T]{
		Experiment: e.name,
		Control:    *e.control,
		Candidates: e.candidates,
		Params:     e.params,
		Compare:    e.compare,
	}
}

func mergeMeta(meta []map[string]any) map[string]any {
	if len(meta) == 0 {
		return nil
	}
	merged := make(map[string]any)
	for _, m := range meta {
		maps.Copy(merged, m)
	}
	return merged
}
