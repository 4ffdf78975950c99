package iostore

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/internal/parquet"
)

// Export file suffixes appended to the output prefix.
const (
	RunsExportSuffix    = ".runs.parquet"
	RecordsExportSuffix = ".records.parquet"
)

// ExecuteStoreExport exports stored runs and records to Parquet files
// named after outputPrefix.
func ExecuteStoreExport(w io.Writer, mgr contract.StoreManager, outputPrefix string) error {
	if outputPrefix == "" {
		return errors.New("--output-file is required for export command")
	}

	store := mgr.GetRunStore()

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total records: %d\n", status.TotalRecords)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	records, err := store.GetAllRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve records: %w", err)
	}

	runsFile := outputPrefix + RunsExportSuffix
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(runs), runsFile)

	recordsFile := outputPrefix + RecordsExportSuffix
	if err := parquet.WriteRunAnnotationsParquet(parquet.ConvertStoredRecords(records), recordsFile); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d records to: %s\n", len(records), recordsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with:")
	_, _ = fmt.Fprintln(w, "  - DuckDB")
	_, _ = fmt.Fprintln(w, "  - Pandas (via pyarrow)")
	_, _ = fmt.Fprintln(w, "  - Any other Parquet-compatible tool")

	return nil
}
