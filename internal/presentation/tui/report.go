package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/scientist/pkg/domain"
)

// ReportsMarkdown renders reports as a markdown document with one table per report.
func ReportsMarkdown(experiment string, reports []domain.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", experiment)
	if len(reports) == 0 {
		b.WriteString("_No reports recorded._\n")
		return b.String()
	}

	for _, r := range reports {
		verdict := "all candidates matched"
		if !r.AllMatched() {
			verdict = fmt.Sprintf("mismatched: %s", strings.Join(r.Mismatches(), ", "))
		}
		fmt.Fprintf(&b, "## %s\n\n", r.StartedAt.Format(time.RFC3339))
		fmt.Fprintf(&b, "`%s` %s\n\n", r.ID, verdict)
		b.WriteString("| Behavior | Value | Duration | Verdict |\n")
		b.WriteString("|---|---|---|---|\n")
		writeRow(&b, r.Control, "")
		for _, c := range r.Candidates {
			v := "match"
			if !r.Matches[c.Name] {
				v = "**mismatch**"
			}
			writeRow(&b, c, v)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeRow(b *strings.Builder, o domain.Observation, verdict string) {
	value := fmt.Sprintf("%v", o.Value)
	if o.Failed() {
		value = "error: " + o.Failure
	}
	fmt.Fprintf(b, "| %s | %s | %s | %s |\n", o.Name, escape(value), o.Duration, verdict)
}

// StatsMarkdown renders aggregated counters as a markdown table.
func StatsMarkdown(stats *domain.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", stats.Experiment)
	fmt.Fprintf(&b, "- Runs: %d\n", stats.Runs)
	fmt.Fprintf(&b, "- Mismatched runs: %d\n", stats.MismatchedRuns)
	fmt.Fprintf(&b, "- Control failures: %d\n\n", stats.ControlFailures)

	names := make([]string, 0, len(stats.Candidates))
	for name := range stats.Candidates {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("| Candidate | Runs | Matches | Failures | Match rate |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, name := range names {
		c := stats.Candidates[name]
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %.1f%% |\n", name, c.Runs, c.Matches, c.Failures, c.MatchRate()*100)
	}
	return b.String()
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
