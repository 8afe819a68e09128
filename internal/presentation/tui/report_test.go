package tui

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/scientist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() domain.Report {
	result := domain.NewResult("sum", domain.Outcome[string]{Name: domain.ControlName, Value: "a|b", Duration: time.Millisecond})
	result.AddCandidate(domain.Outcome[string]{Name: "fast", Value: "a|b"}, true)
	result.AddCandidate(domain.Outcome[string]{Name: "broken", Err: errors.New("boom")}, false)
	return *result.Report()
}

func TestReportsMarkdown(t *testing.T) {
	out := ReportsMarkdown("sum", []domain.Report{sampleReport()})

	assert.Contains(t, out, "# sum")
	assert.Contains(t, out, "mismatched: broken")
	assert.Contains(t, out, `| control | a\|b | 1ms |  |`)
	assert.Contains(t, out, "| fast | a\\|b | 0s | match |")
	assert.Contains(t, out, "| broken | error: boom | 0s | **mismatch** |")
}

func TestReportsMarkdown_Empty(t *testing.T) {
	assert.Contains(t, ReportsMarkdown("sum", nil), "No reports recorded")
}

func TestStatsMarkdown(t *testing.T) {
	stats := domain.NewStats("sum")
	r := sampleReport()
	stats.Record(&r)
	stats.Record(&r)

	out := StatsMarkdown(stats)
	assert.Contains(t, out, "- Runs: 2")
	assert.Contains(t, out, "- Mismatched runs: 2")
	assert.Contains(t, out, "| broken | 2 | 0 | 2 | 0.0% |")
	assert.Contains(t, out, "| fast | 2 | 2 | 0 | 100.0% |")

	// Candidates are sorted by name
	assert.Less(t, bytes.Index([]byte(out), []byte("| broken")), bytes.Index([]byte(out), []byte("| fast")))
}

func TestNewRenderer_NonTerminalPassesThrough(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.md"))
	require.NoError(t, err)
	defer f.Close()

	render := NewRenderer(f)
	out, err := render("# title")
	require.NoError(t, err)
	assert.Equal(t, "# title", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.NotEmpty(t, buf.String())
}
