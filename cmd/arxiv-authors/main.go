// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the arxiv-authors CLI. The root
// command harvests arXiv listings and abstract pages for every author in the
// name list, or for one author given on the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-authors/internal/logging"
	"github.com/pdiddy/arxiv-authors/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from the log.* settings before any command runs.
var logger = zerolog.Nop()

// loadedSecrets holds values read from .secrets/ under the project root.
var loadedSecrets map[string]string

// rootCmd is the base command. Without arguments it runs a batch over the
// name list; with two arguments it adds and fetches a single author.
var rootCmd = &cobra.Command{
	Use:   "arxiv-authors [last-name first-name]",
	Short: "Cache arXiv listings and abstract pages for a list of authors",
	Long: `arxiv-authors reads authors.csv (last-name,first-name) and, for each author,
stores the arXiv API listing under AUTHORS/<last>-<first>/API/ and every
referenced abstract page under AUTHORS/<last>-<first>/HTML/.

By default listings already on disk are reused. --sync-remote refetches every
listing. Passing a last and first name adds that author to the list (if absent)
and fetches them unconditionally.`,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(logConfig(), os.Stderr)

		s, err := secrets.Load(filepath.Join(viper.GetString("root"), secrets.DefaultDir), logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug().Int("count", len(s)).Msg("loaded secrets")
		}
		return nil
	},
	RunE: runHarvest,
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./arxiv-authors.yaml or ~/.config/arxiv-authors/arxiv-authors.yaml)")
	pf.String("root", ".", "project directory containing AUTHORS/ and the name list")
	pf.String("log-level", "info", "log level: trace, debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")

	f := rootCmd.Flags()
	f.Bool("sync-remote", false, "refetch every API listing, ignoring the cache")
	f.String("authors-file", "authors.csv", "name-list CSV, relative to --root unless absolute")
	f.Int("max-authors", 0, "process only the first N authors (0 = all)")
	f.Bool("stop-on-fail", false, "stop the batch at the first failed author")
	f.Bool("match-authors", false, "fetch abstracts only for entries that list the author")
	f.String("report", "", "write a YAML run report to this file")

	bindFlags()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arxiv-authors")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arxiv-authors"))
		}
	}

	viper.SetEnvPrefix("ARXIV_AUTHORS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
