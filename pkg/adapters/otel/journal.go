// Package otel provides a journal that records experiment reports with OpenTelemetry
// metrics and a span per run.
package otel

import (
	"context"
	"fmt"

	"github.com/aretw0/scientist/pkg/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/aretw0/scientist"

// Journal emits one span per report and updates run, mismatch and duration instruments.
type Journal struct {
	tracer     trace.Tracer
	runs       metric.Int64Counter
	mismatches metric.Int64Counter
	duration   metric.Float64Histogram
}

type config struct {
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

// Option configures the Journal.
type Option func(*config)

// WithMeterProvider sets the meter provider (default: the global provider).
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		c.meterProvider = mp
	}
}

// WithTracerProvider sets the tracer provider (default: the global provider).
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		c.tracerProvider = tp
	}
}

// New creates the journal and its instruments.
func New(opts ...Option) (*Journal, error) {
	cfg := config{
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	meter := cfg.meterProvider.Meter(instrumentationName)
	j := &Journal{tracer: cfg.tracerProvider.Tracer(instrumentationName)}

	var err error
	j.runs, err = meter.Int64Counter(
		"scientist.experiment.runs",
		metric.WithDescription("Total number of experiment runs reported"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs counter: %w", err)
	}

	j.mismatches, err = meter.Int64Counter(
		"scientist.candidate.mismatches",
		metric.WithDescription("Total number of candidate outcomes that did not match control"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating mismatches counter: %w", err)
	}

	j.duration, err = meter.Float64Histogram(
		"scientist.behavior.duration",
		metric.WithDescription("Duration of behavior invocations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	return j, nil
}

// Report records the report.
func (j *Journal) Report(ctx context.Context, info domain.ExperimentInfo, report *domain.Report) error {
	mismatches := report.Mismatches()

	_, span := j.tracer.Start(ctx, "scientist.Report",
		trace.WithTimestamp(report.StartedAt),
		trace.WithAttributes(
			attribute.String("scientist.experiment", info.Name),
			attribute.String("scientist.run_id", report.ID),
			attribute.Int("scientist.candidates", len(report.Candidates)),
			attribute.StringSlice("scientist.mismatches", mismatches),
		),
	)
	defer span.End()

	expAttr := attribute.String("experiment", info.Name)
	j.runs.Add(ctx, 1, metric.WithAttributes(expAttr))

	for _, o := range append([]domain.Observation{report.Control}, report.Candidates...) {
		j.duration.Record(ctx, o.Duration.Seconds(), metric.WithAttributes(
			expAttr,
			attribute.String("behavior", o.Name),
			attribute.Bool("failed", o.Failed()),
		))

		eventAttrs := []attribute.KeyValue{
			attribute.String("behavior", o.Name),
			attribute.Int64("duration_ns", o.Duration.Nanoseconds()),
		}
		if o.Name != domain.ControlName {
			eventAttrs = append(eventAttrs, attribute.Bool("matched", report.Matches[o.Name]))
		}
		if o.Failed() {
			eventAttrs = append(eventAttrs, attribute.String("error", o.Failure))
		}
		span.AddEvent("behavior", trace.WithAttributes(eventAttrs...))
	}

	for _, name := range mismatches {
		j.mismatches.Add(ctx, 1, metric.WithAttributes(expAttr, attribute.String("candidate", name)))
	}

	if len(mismatches) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d candidate(s) mismatched", len(mismatches)))
	}
	return nil
}
