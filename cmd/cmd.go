// Package cmd defines the command-line interface for bugcensus.
package cmd

import (
	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(viewsCmd)
	rootCmd.AddCommand(censusCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("annotation-file", schema.DefaultAnnotationFile, "Annotation file name inside each commit directory")
	rootCmd.PersistentFlags().String("table-file", schema.DefaultTableFile, "Path of the flat CSV table")
	rootCmd.PersistentFlags().String("parquet-file", "", "Optional path to also write the flat table as parquet")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of corpus-relative glob patterns to skip (e.g. 2019/*,2021/tokio/*)")
	rootCmd.PersistentFlags().String("views-dir", contract.DefaultViewsDir, "Directory for view files ('-' prints views to stdout)")
	rootCmd.PersistentFlags().String("views", "", "Comma-separated subset of views to compute (default: all)")
	rootCmd.PersistentFlags().String("output", string(schema.CSVOut), "Output format: csv or text or json or yaml")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for means in text output")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.NoneBackend), "Run store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of storeExportCmd to Viper
	storeExportCmd.Flags().String("output-file", "", "Prefix for the exported parquet files")
	if err := viper.BindPFlags(storeExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store export flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
