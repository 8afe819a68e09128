package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/scientist/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Journal implements ports.HistoryJournal using Redis.
//
// Layout, relative to the prefix:
//
//	experiments          SET  of experiment names
//	reports:<name>       LIST of JSON reports, newest first, capped at limit
//	stats:<name>         HASH of counters
type Journal struct {
	client *backend.Client
	prefix string
	limit  int64
	ttl    time.Duration
}

// Option configures the Journal.
type Option func(*Journal)

// WithTTL sets the expiration of an experiment's history, refreshed on every report.
func WithTTL(ttl time.Duration) Option {
	return func(j *Journal) {
		j.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(j *Journal) {
		j.prefix = prefix
	}
}

// WithLimit caps how many reports are kept per experiment.
func WithLimit(n int) Option {
	return func(j *Journal) {
		if n > 0 {
			j.limit = int64(n)
		}
	}
}

const (
	defaultPrefix = "scientist:"
	defaultLimit  = 100

	fieldRuns            = "runs"
	fieldMismatchedRuns  = "mismatched_runs"
	fieldControlFailures = "control_failures"
	candidateFieldPrefix = "candidate:"
)

// New creates a new Redis journal with options.
func New(address, password string, db int, opts ...Option) *Journal {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis journal from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Journal {
	j := &Journal{
		client: client,
		prefix: defaultPrefix,
		limit:  defaultLimit,
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Journal) experimentsKey() string {
	return j.prefix + "experiments"
}

func (j *Journal) reportsKey(name string) string {
	return j.prefix + "reports:" + name
}

func (j *Journal) statsKey(name string) string {
	return j.prefix + "stats:" + name
}

func candidateField(name, counter string) string {
	return candidateFieldPrefix + name + ":" + counter
}

// Report persists the report and updates the counters in a single transaction.
func (j *Journal) Report(ctx context.Context, info domain.ExperimentInfo, report *domain.Report) error {
	data, err := marshalReport(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	reportsKey := j.reportsKey(info.Name)
	statsKey := j.statsKey(info.Name)

	pipe := j.client.TxPipeline()

	// 1. History (capped list, newest first)
	pipe.LPush(ctx, reportsKey, data)
	pipe.LTrim(ctx, reportsKey, 0, j.limit-1)

	// 2. Counters
	pipe.HIncrBy(ctx, statsKey, fieldRuns, 1)
	if !report.AllMatched() {
		pipe.HIncrBy(ctx, statsKey, fieldMismatchedRuns, 1)
	}
	if report.Control.Failed() {
		pipe.HIncrBy(ctx, statsKey, fieldControlFailures, 1)
	}
	for _, c := range report.Candidates {
		pipe.HIncrBy(ctx, statsKey, candidateField(c.Name, "runs"), 1)
		if report.Matches[c.Name] {
			pipe.HIncrBy(ctx, statsKey, candidateField(c.Name, "matches"), 1)
		}
		if c.Failed() {
			pipe.HIncrBy(ctx, statsKey, candidateField(c.Name, "failures"), 1)
		}
	}

	// 3. Index
	pipe.SAdd(ctx, j.experimentsKey(), info.Name)

	if j.ttl > 0 {
		pipe.Expire(ctx, reportsKey, j.ttl)
		pipe.Expire(ctx, statsKey, j.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save report to redis: %w", err)
	}
	return nil
}

// marshalReport encodes the report. Values and metadata JSON cannot encode
// (NaN, channels, funcs) are stored in their %v form instead.
func marshalReport(report *domain.Report) ([]byte, error) {
	data, err := json.Marshal(report)
	if err == nil {
		return data, nil
	}

	degraded := *report
	degraded.Control = degrade(report.Control)
	degraded.Candidates = make([]domain.Observation, len(report.Candidates))
	for i, c := range report.Candidates {
		degraded.Candidates[i] = degrade(c)
	}
	return json.Marshal(&degraded)
}

func degrade(o domain.Observation) domain.Observation {
	if !encodable(o.Value) {
		o.Value = fmt.Sprintf("%v", o.Value)
	}
	if o.Meta != nil {
		meta := make(map[string]any, len(o.Meta))
		for k, v := range o.Meta {
			if !encodable(v) {
				v = fmt.Sprintf("%v", v)
			}
			meta[k] = v
		}
		o.Meta = meta
	}
	return o
}

func encodable(v any) bool {
	_, err := json.Marshal(v)
	return err == nil
}

// Recent returns up to limit reports, newest first.
func (j *Journal) Recent(ctx context.Context, experiment string, limit int) ([]domain.Report, error) {
	stop := int64(limit) - 1
	if limit <= 0 {
		stop = -1
	}

	vals, err := j.client.LRange(ctx, j.reportsKey(experiment), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read reports from redis: %w", err)
	}

	reports := make([]domain.Report, 0, len(vals))
	for _, val := range vals {
		var r domain.Report
		if err := json.Unmarshal([]byte(val), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// Stats reads the counters for the experiment.
func (j *Journal) Stats(ctx context.Context, experiment string) (*domain.Stats, error) {
	fields, err := j.client.HGetAll(ctx, j.statsKey(experiment)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read stats from redis: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrExperimentNotFound
	}

	stats := domain.NewStats(experiment)
	for field, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid counter %q: %w", field, err)
		}

		switch field {
		case fieldRuns:
			stats.Runs = n
		case fieldMismatchedRuns:
			stats.MismatchedRuns = n
		case fieldControlFailures:
			stats.ControlFailures = n
		default:
			rest, ok := strings.CutPrefix(field, candidateFieldPrefix)
			if !ok {
				continue
			}
			idx := strings.LastIndex(rest, ":")
			if idx < 0 {
				continue
			}
			name, counter := rest[:idx], rest[idx+1:]
			cs := stats.Candidates[name]
			switch counter {
			case "runs":
				cs.Runs = n
			case "matches":
				cs.Matches = n
			case "failures":
				cs.Failures = n
			}
			stats.Candidates[name] = cs
		}
	}
	return stats, nil
}

// Experiments lists experiment names with recorded history.
func (j *Journal) Experiments(ctx context.Context) ([]string, error) {
	names, err := j.client.SMembers(ctx, j.experimentsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the history and counters of an experiment.
func (j *Journal) Delete(ctx context.Context, experiment string) error {
	pipe := j.client.TxPipeline()
	pipe.Del(ctx, j.reportsKey(experiment), j.statsKey(experiment))
	pipe.SRem(ctx, j.experimentsKey(), experiment)
	_, err := pipe.Exec(ctx)
	return err
}

// Close closes the redis client.
func (j *Journal) Close() error {
	return j.client.Close()
}
