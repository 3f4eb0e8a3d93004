// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-scribe/internal/config"
	"github.com/pdiddy/arxiv-scribe/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List the most recent arXiv papers for a topic",
	Long: `Search queries the arXiv API and prints the matching papers, newest first,
without downloading anything. With --save the results are written to a YAML
query file that 'run --from-query' can process later.`,
	PreRunE: bindFlags(map[string]string{
		"topic":       "topic",
		"max-results": "search.max_results",
	}),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringP("topic", "t", "", "search topic")
	searchCmd.Flags().IntP("max-results", "n", search.DefaultMaxResults, "maximum number of results to return")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("save", "", "write results to a query file")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	finder := search.NewArxivFinder(cfg.Search)
	records, err := finder.Find(context.Background(), cfg.Topic, cfg.Search.MaxResults)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if err := search.FormatJSON(records, w); err != nil {
			return err
		}
	} else {
		search.FormatTable(records, w)
	}

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		if err := search.WriteQueryFile(path, cfg.Topic, cfg.Search.MaxResults, records); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved %d papers to %s\n", len(records), path)
	}
	return nil
}
