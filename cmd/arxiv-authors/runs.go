// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-authors/internal/catalog"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded harvest runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cat, err := catalog.Open(catalogConfig(viper.GetString("root")).Path)
		if err != nil {
			return err
		}
		defer cat.Close()

		runs, err := cat.Runs(cmd.Context(), limit)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tMODE\tSTARTED\tDURATION\tAUTHORS\tFETCHED\tCACHED\tFAILED\tABSTRACTS")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d/%d\n",
				r.ID, r.Mode, r.Started.Local().Format(time.DateTime),
				r.Finished.Sub(r.Started).Round(time.Second),
				r.Authors, r.APIFetched, r.APICached, r.Failed,
				r.AbstractsFetched, r.AbstractsFetched+r.AbstractsFailed)
		}
		return tw.Flush()
	},
}

func init() {
	runsCmd.Flags().Int("limit", 20, "maximum runs to show (0 = all)")
	rootCmd.AddCommand(runsCmd)
}
