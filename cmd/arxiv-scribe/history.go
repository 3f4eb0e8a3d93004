// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-scribe/internal/config"
	"github.com/pdiddy/arxiv-scribe/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past runs from the run ledger",
	Long: `History lists previous runs recorded in the ledger, newest first. With --run
it prints the per-paper outcomes of one run.`,
	PreRunE: bindFlags(map[string]string{"ledger": "ledger.path"}),
	RunE:    runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of runs to list (0 for all)")
	historyCmd.Flags().Int64("run", 0, "show the papers of one run")
	historyCmd.Flags().String("ledger", ledger.DefaultPath, "run ledger database")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if _, err := os.Stat(cfg.Ledger.Path); os.IsNotExist(err) {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	l, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return err
	}
	defer l.Close()

	ctx := context.Background()
	if runID, _ := cmd.Flags().GetInt64("run"); runID > 0 {
		outcomes, err := l.Outcomes(ctx, runID)
		if err != nil {
			return err
		}
		printOutcomes(w, outcomes)
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := l.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	printHistory(w, runs)
	return nil
}
