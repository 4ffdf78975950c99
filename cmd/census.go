package cmd

import (
	"github.com/huangsam/bugcensus/core"
	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/spf13/cobra"
)

// censusCmd counts the corpus layout without reading annotations.
var censusCmd = &cobra.Command{
	Use:   "census [corpus-root]",
	Short: "Count years, repositories and commits in a corpus.",
	Long: `Count the directories of a corpus and report commits per repository.
Annotation files are not read, so this is a quick sanity check before extraction.

Examples:
  bugcensus census ./corpus
  bugcensus census ./corpus --output yaml`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: corpusSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCensus(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot count corpus", err)
		}
	},
}
