// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-scribe CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-scribe/internal/config"
	"github.com/pdiddy/arxiv-scribe/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the arxiv-scribe CLI.
var rootCmd = &cobra.Command{
	Use:   "arxiv-scribe",
	Short: "Turn recent arXiv papers on a topic into Markdown",
	Long: `arxiv-scribe searches arXiv for the most recent papers on a topic, downloads
each paper's PDF, extracts its text, and asks a language model to rewrite the
text as structured Markdown. One file is written per paper.

Papers are processed one at a time. A paper that fails to download, convert,
or save is reported and skipped; the run still exits 0.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		format, _ := cmd.Flags().GetString("log-format")
		logger, err := logging.New(os.Stderr, logging.Format(format), verbose)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}

		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("config_loaded", "path", used)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arxiv-scribe.yaml or ~/.config/arxiv-scribe/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug events")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
}

func initConfig() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arxiv-scribe")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arxiv-scribe"))
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintln(os.Stderr, "warning: reading config:", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
