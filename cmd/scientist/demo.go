package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/scientist"
	"github.com/aretw0/scientist/internal/presentation/tui"
	"github.com/aretw0/scientist/pkg/adapters/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// DemoExperiment is the name of the experiment run by the demo command.
const DemoExperiment = "sum"

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the sample \"sum\" experiment through the configured journals",
	Long: `Runs a control that adds two numbers against two candidates:
"commuted" (always equivalent) and "doubled" (wrong whenever the operands differ).
Reports go to every configured journal and are printed at the end.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		runs, _ := cmd.Flags().GetInt("runs")

		journals, closeJournals, err := buildJournals(cfg, logger, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer closeJournals()

		mem := memory.NewJournal()
		lab := scientist.New(
			scientist.WithJournals(journals...),
			scientist.WithLogger(logger),
			scientist.WithStopTrialsEarly(cfg.StopTrialsEarly),
			scientist.WithConcurrency(cfg.Concurrency),
			scientist.WithSettings(cfg.Settings()),
		).AddJournal(mem)

		tui.PrintBanner(os.Stdout)
		if err := runDemo(cmd.Context(), lab, runs, logger); err != nil {
			return err
		}

		reports, err := mem.Recent(cmd.Context(), DemoExperiment, runs)
		if err != nil {
			return err
		}
		return printReports(os.Stdout, DemoExperiment, reports, false)
	},
}

// newSumExperiment builds the demo experiment for one pair of operands.
func newSumExperiment(lab *scientist.Laboratory, a, b int) *scientist.Experiment[int] {
	return scientist.NewExperiment[int](lab, DemoExperiment).
		Control(func(ctx context.Context, params ...any) (int, error) {
			x, y, err := operands(params)
			return x + y, err
		}).
		Candidate("commuted", func(ctx context.Context, params ...any) (int, error) {
			x, y, err := operands(params)
			return y + x, err
		}).
		Candidate("doubled", func(ctx context.Context, params ...any) (int, error) {
			x, _, err := operands(params)
			return 2 * x, err
		}, map[string]any{"owner": "demo"}).
		WithParams(a, b)
}

func operands(params []any) (int, int, error) {
	if len(params) != 2 {
		return 0, 0, fmt.Errorf("expected 2 operands, got %d", len(params))
	}
	a, ok1 := params[0].(int)
	b, ok2 := params[1].(int)
	if !ok1 || !ok2 {
		return 0, 0, errors.New("operands must be ints")
	}
	return a, b, nil
}

// runDemo runs the sum experiment with n operand pairs.
func runDemo(ctx context.Context, lab *scientist.Laboratory, n int, logger *slog.Logger) error {
	for i := range n {
		a, b := i+1, (i*3)%5+1
		sum, err := scientist.RunExperiment(ctx, lab, newSumExperiment(lab, a, b))
		if err != nil {
			return err
		}
		logger.Info("demo run", "a", a, "b", b, "sum", sum)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().IntP("runs", "n", 5, "Number of experiment runs")
}
