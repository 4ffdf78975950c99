package cmd

import (
	"github.com/huangsam/bugcensus/core"
	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/spf13/cobra"
)

// aggregateCmd computes the view catalogue from an existing flat table.
var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Compute summary views from the flat table.",
	Long: `Load the flat table written by 'extract' and derive the catalogue of views:
counts per category, cross-tabulations, per-year breakdowns, group means
and per-group maxima. Each view is written as <views-dir>/<name>.<ext>.

The table must exist. A missing table is a fatal error and no views are written.

Examples:
  # Write every view as CSV into ./views
  bugcensus aggregate --views-dir views

  # Print two views as text tables
  bugcensus aggregate --views symptom_count,repo_root_cause_count --views-dir - --output text`,
	Args:    cobra.NoArgs,
	PreRunE: tableSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAggregate(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot aggregate table", err)
		}
	},
}

// runCmd performs extract followed by aggregate.
var runCmd = &cobra.Command{
	Use:   "run [corpus-root]",
	Short: "Extract the corpus and compute every view in one pass.",
	Long: `Run 'extract' and then 'aggregate' over the table it just wrote.

The view selection is checked before the corpus is walked, so an unknown view
name fails without touching any output.

Examples:
  bugcensus run ./corpus --views-dir views
  bugcensus run ./corpus --output json --views-dir views`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: corpusSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRun(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run pipeline", err)
		}
	},
}

// viewsCmd lists the view catalogue.
var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List the available views.",
	Long: `Print the name and description of every view that 'aggregate' can compute.
Names listed here are accepted by --views.`,
	Args:    cobra.NoArgs,
	PreRunE: tableSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteViewsList(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot list views", err)
		}
	},
}
