// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-authors/internal/cache"
	"github.com/pdiddy/arxiv-authors/internal/catalog"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Export every cached paper to a CSV file",
	Long: `Papers indexes every AUTHORS/*/API/page-*.xml listing into the SQLite
catalog and writes year,title,url rows sorted newest first. Papers listed by
several authors or in several versions appear once, under their earliest year.`,
	Args: cobra.NoArgs,
	RunE: runPapers,
}

func init() {
	papersCmd.Flags().Bool("first-author", false, "keep only papers whose first author is the tracked author")
	papersCmd.Flags().String("author", "", "restrict to one author directory, e.g. Smith-Jane")
	papersCmd.Flags().StringP("output", "o", "papers.csv", "output CSV, relative to --root unless absolute")

	rootCmd.AddCommand(papersCmd)
}

func runPapers(cmd *cobra.Command, args []string) error {
	root := viper.GetString("root")
	cc := catalogConfig(root)

	cat, err := catalog.Open(cc.Path)
	if err != nil {
		return err
	}
	defer cat.Close()

	ctx := cmd.Context()
	stats, err := cat.Index(ctx, filepath.Join(root, cache.AuthorsDir))
	if err != nil {
		return err
	}
	for _, path := range stats.ParseErrors {
		logger.Warn().Str("file", path).Msg("skipping unreadable listing")
	}

	firstAuthor, _ := cmd.Flags().GetBool("first-author")
	authorDir, _ := cmd.Flags().GetString("author")
	papers, err := cat.Papers(ctx, catalog.Query{FirstAuthor: firstAuthor, AuthorDir: authorDir})
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	output = underRoot(root, output)
	if err := catalog.ExportCSV(output, papers); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d papers to %s (%d listings, %d entries, %d unreadable)\n",
		len(papers), output, stats.Files, stats.Entries, len(stats.ParseErrors))
	return nil
}
