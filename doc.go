/*
Package scientist runs experiments that compare a trusted "control" behavior
against one or more experimental "candidate" behaviors, reports the discrepancies,
and always hands the control's result back to the caller.

It is meant for validating refactors or alternate implementations against
production traffic without risking a change in behavior.

# Concept

An Experiment names a control, zero or more candidates and the params they are
all invoked with. The Laboratory decides whether the experiment should run,
lets the trial engine invoke and time every behavior, compares each candidate
against control, and forwards the finished report to its Journals (logging,
metrics, tracing, history). Disabled experiments call control directly.

# Key Features

  - Failure Containment: candidate errors and panics are recorded, never surfaced.
  - Stop Trials Early: an explicit test-mode switch that surfaces the first failure.
  - Pluggable Equality: structural by default, custom per experiment.
  - Journals: slog, Prometheus, OpenTelemetry, in-memory and Redis sinks.

# Usage

	lab := scientist.New(
		scientist.WithJournals(memory.NewJournal()),
	)

	exp := scientist.NewExperiment[int](lab, "sum").
		Control(func(ctx context.Context, params ...any) (int, error) {
			return params[0].(int) + params[1].(int), nil
		}).
		Candidate("alt", func(ctx context.Context, params ...any) (int, error) {
			return params[1].(int) + params[0].(int), nil
		}).
		WithParams(2, 3)

	// Always the control's value (5), even if "alt" misbehaves.
	value, err := exp.Run(ctx)
*/
package scientist
