package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName is returned when an experiment or candidate name is empty or reserved.
	ErrInvalidName = errors.New("invalid name")

	// ErrNoControl is returned when an experiment is run without a control behavior.
	ErrNoControl = errors.New("no control behavior registered")

	// ErrNoBehavior is returned when a candidate is registered without a behavior.
	ErrNoBehavior = errors.New("no behavior registered")

	// ErrDuplicateCandidate is returned when two candidates share a name.
	ErrDuplicateCandidate = errors.New("duplicate candidate")

	// ErrInvalidChance is returned when a sampling chance is outside 0..100.
	ErrInvalidChance = errors.New("chance must be between 0 and 100")

	// ErrJournal wraps failures returned by a journal while reporting.
	ErrJournal = errors.New("journal report failed")

	// ErrExperimentNotFound is returned by stores that hold no data for an experiment.
	ErrExperimentNotFound = errors.New("experiment not found")
)

// ConfigError describes an experiment that was built incorrectly.
// It is detected when the experiment is built and surfaced before any behavior runs.
type ConfigError struct {
	Experiment string
	Err        error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("experiment %q: %v", e.Experiment, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// PanicError is the failure recorded when a behavior panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
