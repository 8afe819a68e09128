// Package prometheus provides a journal that records experiment reports as Prometheus metrics.
package prometheus

import (
	"context"
	"fmt"

	"github.com/aretw0/scientist/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Journal counts runs, mismatches and failures, and observes behavior durations.
type Journal struct {
	runs       *prometheus.CounterVec
	mismatches *prometheus.CounterVec
	failures   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

type config struct {
	namespace string
	buckets   []float64
}

// Option configures the Journal.
type Option func(*config)

// WithNamespace sets the metric namespace (default: "scientist").
func WithNamespace(ns string) Option {
	return func(c *config) {
		c.namespace = ns
	}
}

// WithBuckets sets the duration histogram buckets, in seconds.
func WithBuckets(buckets []float64) Option {
	return func(c *config) {
		c.buckets = buckets
	}
}

// New creates the journal and registers its collectors with reg.
func New(reg prometheus.Registerer, opts ...Option) (*Journal, error) {
	cfg := config{
		namespace: "scientist",
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	j := &Journal{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "experiment_runs_total",
				Help:      "Total number of experiment runs reported",
			},
			[]string{"experiment"},
		),
		mismatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "candidate_mismatches_total",
				Help:      "Total number of candidate outcomes that did not match control",
			},
			[]string{"experiment", "candidate"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.namespace,
				Name:      "behavior_failures_total",
				Help:      "Total number of failed behavior invocations",
			},
			[]string{"experiment", "behavior"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.namespace,
				Name:      "behavior_duration_seconds",
				Help:      "Duration of behavior invocations",
				Buckets:   cfg.buckets,
			},
			[]string{"experiment", "behavior"},
		),
	}

	for _, c := range []prometheus.Collector{j.runs, j.mismatches, j.failures, j.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return j, nil
}

// Report records the report.
func (j *Journal) Report(ctx context.Context, info domain.ExperimentInfo, report *domain.Report) error {
	j.runs.WithLabelValues(info.Name).Inc()
	j.observe(info.Name, report.Control)

	for _, c := range report.Candidates {
		j.observe(info.Name, c)
		if !report.Matches[c.Name] {
			j.mismatches.WithLabelValues(info.Name, c.Name).Inc()
		}
	}
	return nil
}

func (j *Journal) observe(experiment string, o domain.Observation) {
	j.duration.WithLabelValues(experiment, o.Name).Observe(o.Duration.Seconds())
	if o.Failed() {
		j.failures.WithLabelValues(experiment, o.Name).Inc()
	}
}
