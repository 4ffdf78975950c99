package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/internal/iostore"
	"github.com/huangsam/bugcensus/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadStoreConfig reads the backend settings shared by the store subcommands.
func loadStoreConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := strings.ToLower(strings.TrimSpace(viper.GetString("store-backend")))
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	logLevel := strings.ToLower(strings.TrimSpace(viper.GetString("log-level")))
	if logLevel == "" {
		logLevel = contract.DefaultLogLevel
	}
	contract.InitLogger(os.Stderr, logLevel)

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeSetup loads minimal configuration and opens the run store.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadStoreConfig(); err != nil {
		return err
	}
	if err := iostore.InitStores(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run store: %w", err)
	}
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetupWrapper loads configuration for migrate without opening the store,
// so migrations can run on a fresh database.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := loadStoreConfig(); err != nil {
		return err
	}
	// For SQLite backend with empty connection string, use default path
	if cfg.StoreBackend == schema.SQLiteBackend && cfg.StoreDBConnect == "" {
		cfg.StoreDBConnect = iostore.GetDBFilePath()
	}
	return nil
}

// sqliteFilePath returns the SQLite file the store commands operate on.
func sqliteFilePath() string {
	if cfg.StoreDBConnect != "" {
		return cfg.StoreDBConnect
	}
	return iostore.GetDBFilePath()
}

// storeCmd focused on run history management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup. This avoids corpus validation for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the run history store and its exports",
	Long: `Manage the optional run history store.

When enabled with --store-backend, every extraction records:
- Run metadata (corpus root, configuration, timestamps, duration)
- The tally of valid and rejected commits
- Every valid annotation row

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show run store statistics
  export  - Export runs and records to Parquet
  clear   - Remove all stored runs
  migrate - Run database schema migrations

Examples:
  # Check store status
  bugcensus store status --store-backend sqlite

  # Export for analysis in pandas/DuckDB
  bugcensus store export --store-backend sqlite --output-file history`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run store statistics and connection details",
	Long: `Show the backend, the number of stored runs, the last and oldest run
timestamps, the number of stored records and the size of each table.`,
	PreRunE: storeSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		status, err := storeManager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iostore.PrintStoreStatus(cmd.OutOrStdout(), status)
	},
}

// storeClearCmd clears the stored runs.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored runs and records",
	Long: `Delete all stored runs and annotation rows.

For SQLite the database file is removed. For MySQL and PostgreSQL the run
tables are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  bugcensus store export --store-backend sqlite --output-file backup
  bugcensus store clear --store-backend sqlite`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := iostore.ClearStore(cfg.StoreBackend, sqliteFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear run store", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run store cleared successfully.")
	},
}

// storeExportCmd exports stored runs to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored runs and records to Parquet",
	Long: `Export all stored data to Parquet format for use with analytics tools.

Writes two files next to each other:
- <output-file>.runs.parquet     one row per run with its tally
- <output-file>.records.parquet  one row per stored annotation

Requires: --output-file parameter

Examples:
  bugcensus store export --store-backend sqlite --output-file history
  duckdb -c "SELECT * FROM read_parquet('history.runs.parquet')"`,
	PreRunE: storeSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := iostore.ExecuteStoreExport(cmd.OutOrStdout(), storeManager, viper.GetString("output-file")); err != nil {
			contract.LogFatal("Failed to export run store", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the run store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  bugcensus store migrate --store-backend sqlite

  # Rollback to initial state
  bugcensus store migrate --store-backend sqlite --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.Migrate(cmd.OutOrStdout(), cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
