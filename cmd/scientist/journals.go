package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/scientist/internal/config"
	logjournal "github.com/aretw0/scientist/pkg/adapters/logging"
	"github.com/aretw0/scientist/pkg/adapters/memory"
	oteljournal "github.com/aretw0/scientist/pkg/adapters/otel"
	promjournal "github.com/aretw0/scientist/pkg/adapters/prometheus"
	"github.com/aretw0/scientist/pkg/adapters/redis"
	"github.com/aretw0/scientist/pkg/persistence/middleware"
	"github.com/aretw0/scientist/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// buildJournals instantiates the journals declared in cfg, in order.
// When redact patterns are configured every journal receives masked reports.
// The returned close function releases redis connections.
func buildJournals(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) ([]ports.Journal, func() error, error) {
	var (
		journals []ports.Journal
		closers  []func() error
	)
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}

	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.Redact)
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, pii)
	}

	for i, jc := range cfg.Journals {
		j, closer, err := buildJournal(jc, logger, reg)
		if err != nil {
			_ = closeAll()
			return nil, nil, fmt.Errorf("journal %d: %w", i, err)
		}
		if closer != nil {
			closers = append(closers, closer)
		}
		journals = append(journals, middleware.Chain(j, mws...))
	}
	return journals, closeAll, nil
}

func buildJournal(jc config.JournalConfig, logger *slog.Logger, reg prometheus.Registerer) (ports.Journal, func() error, error) {
	switch jc.Type {
	case config.JournalMemory:
		var opts config.MemoryOptions
		if err := jc.Decode(&opts); err != nil {
			return nil, nil, err
		}
		return memory.NewJournal(memory.WithLimit(opts.Limit)), nil, nil

	case config.JournalLogging:
		var opts config.LoggingOptions
		if err := jc.Decode(&opts); err != nil {
			return nil, nil, err
		}
		var lopts []logjournal.Option
		if opts.Diff != nil {
			lopts = append(lopts, logjournal.WithDiff(*opts.Diff))
		}
		return logjournal.New(logger, lopts...), nil, nil

	case config.JournalPrometheus:
		var opts config.PrometheusOptions
		if err := jc.Decode(&opts); err != nil {
			return nil, nil, err
		}
		var popts []promjournal.Option
		if opts.Namespace != "" {
			popts = append(popts, promjournal.WithNamespace(opts.Namespace))
		}
		j, err := promjournal.New(reg, popts...)
		return j, nil, err

	case config.JournalOtel:
		j, err := oteljournal.New()
		return j, nil, err

	case config.JournalRedis:
		j, err := openRedis(jc)
		if err != nil {
			return nil, nil, err
		}
		return j, j.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}

func openRedis(jc config.JournalConfig) (*redis.Journal, error) {
	var opts config.RedisOptions
	if err := jc.Decode(&opts); err != nil {
		return nil, err
	}
	if opts.Addr == "" {
		opts.Addr = "localhost:6379"
	}

	var ropts []redis.Option
	if opts.Prefix != "" {
		ropts = append(ropts, redis.WithPrefix(opts.Prefix))
	}
	if opts.Limit > 0 {
		ropts = append(ropts, redis.WithLimit(opts.Limit))
	}
	if opts.TTL > 0 {
		ropts = append(ropts, redis.WithTTL(opts.TTL))
	}
	return redis.New(opts.Addr, opts.Password, opts.DB, ropts...), nil
}

// openStore returns the report history of the configured redis journal.
func openStore(cfg *config.Config) (*redis.Journal, error) {
	jc, ok := cfg.Journal(config.JournalRedis)
	if !ok {
		return nil, errors.New("no redis journal configured: add one under 'journals' to read report history")
	}
	return openRedis(jc)
}
