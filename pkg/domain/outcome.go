package domain

import "time"

// ControlName is the behavior name used for the control outcome.
const ControlName = "control"

// Outcome captures the result of invoking one behavior (control or candidate).
// When Err is set, Value holds the zero value of T.
type Outcome[T any] struct {
	// Name is the behavior name ("control" or the candidate name).
	Name string

	// Value is what the behavior returned, meaningful only if Err is nil.
	Value T

	// Err is the failure returned (or the panic recovered) by the behavior.
	Err error

	// StartedAt is the wall-clock time the invocation began.
	StartedAt time.Time

	// Duration is the monotonic elapsed time of the single invocation.
	Duration time.Duration

	// Meta is the caller-supplied metadata registered with the behavior.
	Meta map[string]any
}

// Failed reports whether the invocation produced a failure.
func (o Outcome[T]) Failed() bool {
	return o.Err != nil
}

// Observation returns the type-erased form of the outcome.
func (o Outcome[T]) Observation() Observation {
	obs := Observation{
		Name:      o.Name,
		Err:       o.Err,
		StartedAt: o.StartedAt,
		Duration:  o.Duration,
		Meta:      o.Meta,
	}
	if o.Err != nil {
		obs.Failure = o.Err.Error()
	} else {
		obs.Value = o.Value
	}
	return obs
}

// Observation is an Outcome with its value erased to any.
// It is the unit journals and stores work with.
type Observation struct {
	Name      string         `json:"name"`
	Value     any            `json:"value,omitempty"`
	Failure   string         `json:"failure,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration_ns"`
	Meta      map[string]any `json:"meta,omitempty"`

	// Err is the original failure. It does not survive serialization;
	// Failure carries its message instead.
	Err error `json:"-"`
}

// Failed reports whether the observed invocation failed.
// It also holds for observations decoded from storage, where only Failure is set.
func (o Observation) Failed() bool {
	return o.Err != nil || o.Failure != ""
}
