package cmd

import (
	"runtime"

	"github.com/huangsam/bugcensus/core/agg"
	"github.com/huangsam/bugcensus/schema"
	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bugcensus.",
	Long: `Display build details together with the annotation format this
binary understands: the expected annotation file name, the flat table
header and the number of views in the catalogue. Include this output
when reporting a problem with a corpus.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("bugcensus CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
		cmd.Printf("  Annotation file: %s\n", schema.DefaultAnnotationFile)
		cmd.Printf("  Table columns:   %d\n", len(schema.FlatHeader))
		cmd.Printf("  Views:           %d\n", len(agg.ViewNames()))
	},
}
