// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-authors/internal/harvest"
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Print the summary of a saved run report",
	Long: `Report reads a YAML file written with --report and prints the same summary
the run printed, including every failed author and the step that failed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := harvest.ReadReport(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Run %s (%s), started %s, took %s\n",
			r.RunID, r.Mode, r.Started.Local().Format(time.DateTime),
			r.Finished.Sub(r.Started).Round(time.Second))
		harvest.PrintSummary(out, *r)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
