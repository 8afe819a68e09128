package domain

// ExperimentInfo is the read-only descriptor of an experiment passed to journals.
type ExperimentInfo struct {
	// Name identifies the experiment.
	Name string `json:"name"`

	// Candidates lists candidate names in registration order.
	Candidates []string `json:"candidates"`

	// Params are the arguments every behavior was invoked with.
	Params []any `json:"params,omitempty"`

	// Chance is the sampling percentage the experiment was configured with.
	Chance int `json:"chance"`
}
