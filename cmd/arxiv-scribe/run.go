// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-scribe/internal/config"
	"github.com/pdiddy/arxiv-scribe/internal/convert"
	"github.com/pdiddy/arxiv-scribe/internal/fetch"
	"github.com/pdiddy/arxiv-scribe/internal/ledger"
	"github.com/pdiddy/arxiv-scribe/internal/pipeline"
	"github.com/pdiddy/arxiv-scribe/internal/search"
	"github.com/pdiddy/arxiv-scribe/internal/store"
	"github.com/pdiddy/arxiv-scribe/internal/transform"
	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search arXiv and write one Markdown file per paper",
	Long: `Run searches arXiv for the most recent papers on a topic, then downloads,
converts, and saves each one in turn. Use --paper-url to process a single paper
or --from-query to process the papers of a search saved with 'search --save'.

Per-paper failures are reported and skipped. The command exits non-zero only
for configuration errors or a failed search.`,
	PreRunE: bindFlags(map[string]string{
		"topic":       "topic",
		"max-results": "search.max_results",
		"output-dir":  "output.directory",
		"paper-url":   "paper_url",
		"from-query":  "query_file",
		"extractor":   "fetch.extractor",
		"raw-dir":     "fetch.raw_dir",
		"provider":    "model.provider",
		"model":       "model.model",
		"ledger":      "ledger.path",
	}),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringP("topic", "t", "", "search topic")
	runCmd.Flags().IntP("max-results", "n", search.DefaultMaxResults, "maximum number of papers")
	runCmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir, "directory for Markdown files")
	runCmd.Flags().String("paper-url", "", "process a single arXiv abs/pdf URL or id instead of searching")
	runCmd.Flags().String("from-query", "", "process the papers listed in a saved query file")
	runCmd.Flags().String("extractor", string(types.ExtractorPDF), "text extractor: pdf or markitdown")
	runCmd.Flags().String("raw-dir", "", "also keep downloaded PDFs in this directory")
	runCmd.Flags().String("provider", string(types.ProviderAnthropic), "model provider: anthropic or ollama")
	runCmd.Flags().String("model", "", "model name (default depends on provider)")
	runCmd.Flags().String("ledger", ledger.DefaultPath, "run ledger database (empty disables it)")

	rootCmd.AddCommand(runCmd)
}

// bindFlags returns a PreRunE that binds the command's flags to config
// keys. Binding happens per command because run and search share flag
// names.
func bindFlags(keys map[string]string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		for flag, key := range keys {
			if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return fmt.Errorf("binding --%s: %w", flag, err)
			}
		}
		return nil
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	return runPipeline(context.Background(), cfg, slog.Default(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// runPipeline processes the papers cfg selects: a query file first, then a
// single paper URL, then a topic search. Per-paper failures are printed in
// the summary and do not produce an error.
func runPipeline(ctx context.Context, cfg types.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	// Explicit records are resolved before any stage is built.
	var (
		records  []types.PaperRecord
		explicit = true
	)
	switch {
	case cfg.QueryFile != "":
		qf, err := search.ReadQueryFile(cfg.QueryFile)
		if err != nil {
			return err
		}
		records = qf.Papers
	case cfg.PaperURL != "":
		rec, err := search.RecordFromURL(cfg.PaperURL, cfg.Search.PDFBase)
		if err != nil {
			return err
		}
		records = []types.PaperRecord{rec}
	default:
		explicit = false
	}

	coord, cleanup, err := buildCoordinator(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()
	coord.Status = stderr

	var out types.RunOutput
	if explicit {
		out = coord.RunRecords(ctx, records)
	} else {
		out, err = coord.Run(ctx, cfg.Topic, cfg.Search.MaxResults)
		if err != nil {
			return err
		}
	}

	printRunSummary(stdout, out)
	return nil
}

// buildCoordinator wires every stage from cfg. The returned cleanup closes
// the ledger.
func buildCoordinator(cfg types.Config, logger *slog.Logger) (*pipeline.Coordinator, func(), error) {
	ex, err := convert.New(cfg.Fetch.Extractor)
	if err != nil {
		return nil, nil, err
	}
	backend, err := transform.NewBackend(cfg.AI)
	if err != nil {
		return nil, nil, err
	}

	coord := &pipeline.Coordinator{
		Finder:      search.NewArxivFinder(cfg.Search),
		Fetcher:     fetch.New(cfg.Fetch, ex, logger),
		Transformer: transform.New(backend, logger),
		Saver:       store.NewWriter(cfg.Output.Directory),
		Logger:      logger,
	}

	cleanup := func() {}
	if cfg.Ledger.Path != "" {
		l, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			logger.Warn("ledger_unavailable", "path", cfg.Ledger.Path, "error", err)
		} else {
			coord.Recorder = l
			cleanup = func() { l.Close() }
		}
	}
	logger.Debug("pipeline_ready",
		"extractor", ex.Name(),
		"provider", backend.Name(),
		"model", cfg.AI.Model,
		"output_dir", cfg.Output.Directory,
	)
	return coord, cleanup, nil
}
