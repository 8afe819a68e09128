package main

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/scientist"
	"github.com/aretw0/scientist/internal/config"
	"github.com/aretw0/scientist/internal/logging"
	"github.com/aretw0/scientist/pkg/adapters/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDemo(t *testing.T) {
	mem := memory.NewJournal()
	lab := scientist.New(scientist.WithJournals(mem))

	require.NoError(t, runDemo(context.Background(), lab, 5, logging.NewNop()))

	stats, err := mem.Stats(context.Background(), DemoExperiment)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Runs)
	assert.Equal(t, int64(5), stats.Candidates["commuted"].Matches)
	// (1,1) is the only pair where doubling the first operand is right
	assert.Equal(t, int64(1), stats.Candidates["doubled"].Matches)

	_, report, ok := mem.Last()
	require.True(t, ok)
	doubled, ok := report.Candidate("doubled")
	require.True(t, ok)
	assert.Equal(t, "demo", doubled.Meta["owner"])
}

func TestRunDemo_DisabledBySettings(t *testing.T) {
	cfg, err := config.Parse([]byte("experiments:\n  sum:\n    enabled: false\n"))
	require.NoError(t, err)

	mem := memory.NewJournal()
	lab := scientist.New(scientist.WithJournals(mem), scientist.WithSettings(cfg.Settings()))

	require.NoError(t, runDemo(context.Background(), lab, 3, logging.NewNop()))

	_, _, ok := mem.Last()
	assert.False(t, ok, "disabled experiments must not reach journals")
}

func TestOperands(t *testing.T) {
	a, b, err := operands([]any{2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, a)
	assert.Equal(t, 3, b)

	_, _, err = operands([]any{2})
	assert.Error(t, err)

	_, _, err = operands([]any{"2", 3})
	assert.Error(t, err)
}

func TestBuildJournals(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg, err := config.Parse([]byte(`
journals:
  - type: memory
    options:
      limit: 5
  - type: logging
    options:
      diff: false
  - type: prometheus
    options:
      namespace: demo
  - type: otel
  - type: redis
    options:
      addr: ` + mr.Addr() + `
      prefix: "test:"
`))
	require.NoError(t, err)

	journals, closeAll, err := buildJournals(cfg, logging.NewNop(), prometheus.NewRegistry())
	require.NoError(t, err)
	require.Len(t, journals, 5)

	lab := scientist.New(scientist.WithJournals(journals...))
	require.NoError(t, runDemo(context.Background(), lab, 2, logging.NewNop()))

	assert.True(t, mr.Exists("test:reports:"+DemoExperiment))
	assert.NoError(t, closeAll())
}

func TestBuildJournals_InvalidOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Journals = []config.JournalConfig{{Type: config.JournalMemory, Options: map[string]any{"bogus": 1}}}

	_, _, err := buildJournals(cfg, logging.NewNop(), prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestBuildJournals_Redact(t *testing.T) {
	plain, err := config.Parse([]byte("journals:\n  - type: memory\n"))
	require.NoError(t, err)
	journals, _, err := buildJournals(plain, logging.NewNop(), prometheus.NewRegistry())
	require.NoError(t, err)
	require.Len(t, journals, 1)
	assert.IsType(t, &memory.Journal{}, journals[0])

	redacted, err := config.Parse([]byte("redact: [owner]\njournals:\n  - type: memory\n"))
	require.NoError(t, err)
	journals, _, err = buildJournals(redacted, logging.NewNop(), prometheus.NewRegistry())
	require.NoError(t, err)
	require.Len(t, journals, 1)
	_, isMemory := journals[0].(*memory.Journal)
	assert.False(t, isMemory, "journal should be wrapped by the redaction middleware")
}

func TestBuildJournals_InvalidRedactPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Redact = []string{"("}
	_, _, err := buildJournals(cfg, logging.NewNop(), prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestOpenStore_RequiresRedis(t *testing.T) {
	_, err := openStore(config.Default())
	assert.Error(t, err)
}
