package cmd

import (
	"github.com/huangsam/bugcensus/core"
	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/spf13/cobra"
)

// extractCmd walks a corpus and writes the flat table.
var extractCmd = &cobra.Command{
	Use:   "extract [corpus-root]",
	Short: "Flatten every valid annotation of a corpus into one table.",
	Long: `Walk <root>/<year>/<repository>/<commit>/ and read each commit's
annotation file. Valid annotations become rows of the flat table, ordered by
year, repository and commit. Rejected annotations are only counted.

The run summary reports how many commits were seen and why each rejected
commit was dropped (unchecked, not a general bug, malformed, missing file,
I/O failure).

Examples:
  # Extract the corpus in the current directory
  bugcensus extract

  # Skip a year and one repository
  bugcensus extract ./corpus --exclude "2019/*,2021/tokio/*"

  # Also write the table as parquet and record the run in SQLite
  bugcensus extract ./corpus --parquet-file table.parquet --store-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: corpusSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExtract(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot extract corpus", err)
		}
	},
}
