package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/scientist/internal/presentation/tui"
	"github.com/aretw0/scientist/pkg/domain"
	"github.com/spf13/cobra"
)

var reportsCmd = &cobra.Command{
	Use:   "reports <experiment>",
	Short: "Show the most recent reports of an experiment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		reports, err := store.Recent(cmd.Context(), args[0], limit)
		if err != nil {
			return err
		}
		return printReports(os.Stdout, args[0], reports, asJSON)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <experiment>",
	Short: "Show aggregated match counters of an experiment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("experiment %q: %w", args[0], err)
		}
		if asJSON {
			return writeJSON(os.Stdout, stats)
		}
		return render(os.Stdout, tui.StatsMarkdown(stats))
	},
}

func printReports(out *os.File, experiment string, reports []domain.Report, asJSON bool) error {
	if asJSON {
		if reports == nil {
			reports = []domain.Report{}
		}
		return writeJSON(out, reports)
	}
	return render(out, tui.ReportsMarkdown(experiment, reports))
}

func render(out *os.File, markdown string) error {
	rendered, err := tui.NewRenderer(out)(markdown)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, rendered)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(statsCmd)
	reportsCmd.Flags().IntP("limit", "n", 10, "Number of reports to show")
	reportsCmd.Flags().Bool("json", false, "Print reports as JSON")
	statsCmd.Flags().Bool("json", false, "Print stats as JSON")
}
