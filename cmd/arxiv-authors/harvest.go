// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-authors/internal/cache"
	"github.com/pdiddy/arxiv-authors/internal/catalog"
	"github.com/pdiddy/arxiv-authors/internal/harvest"
	"github.com/pdiddy/arxiv-authors/pkg/types"
)

func runHarvest(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return fmt.Errorf("provide both a last name and a first name, or neither")
	}

	cfg, err := harvestConfig(loadedSecrets)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.Timeout}
	runner := &harvest.Runner{
		Harvester: harvest.New(cache.NewFSStore(cfg.Root), client, cfg, logger),
		Cfg:       cfg,
		Log:       logger,
	}

	if cc := catalogConfig(cfg.Root); cc.Enabled {
		cat, err := catalog.Open(cc.Path)
		if err != nil {
			logger.Warn().Err(err).Str("path", cc.Path).Msg("run ledger unavailable")
		} else {
			defer cat.Close()
			runner.Recorder = cat
		}
	}

	var result harvest.BatchResult
	if len(args) == 2 {
		result, err = runner.RunSingle(cmd.Context(), types.NewAuthorRecord(args[0], args[1]))
	} else {
		mode := types.CachedFirst
		if sync, _ := cmd.Flags().GetBool("sync-remote"); sync {
			mode = types.ForceRefresh
		}
		result, err = runner.RunBatch(cmd.Context(), mode)
	}
	if err != nil {
		return err
	}

	if report, _ := cmd.Flags().GetString("report"); report != "" {
		if err := harvest.WriteReport(report, result); err != nil {
			return err
		}
		logger.Info().Str("path", report).Msg("wrote run report")
	}

	harvest.PrintSummary(cmd.OutOrStdout(), result)
	return exitError(result, len(args) == 2)
}

// exitError decides the exit status. A batch that ran to the end succeeds
// even when some authors failed; those are in the summary and the log. A
// stopped batch or a failed single-author run is an error.
func exitError(result harvest.BatchResult, single bool) error {
	switch {
	case single && result.HasFailures():
		return fmt.Errorf("%s failed, %d abstract page(s) failed", result.Authors[0].Author, result.AbsFailed)
	case result.Stopped:
		return fmt.Errorf("run stopped after %d author(s), %d failed", result.Total(), result.Failed)
	case result.HasFailures():
		logger.Warn().
			Int("failed", result.Failed).
			Int("abstracts_failed", result.AbsFailed).
			Msg("batch finished with failures")
	}
	return nil
}
