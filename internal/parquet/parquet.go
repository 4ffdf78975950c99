// Package parquet provides data structures and functions for exporting bugcensus
// records and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/bugcensus/schema"
	"github.com/parquet-go/parquet-go"
)

// Annotation is one row of the flat table.
// Column names match the CSV header of the flat table.
type Annotation struct {
	Year            string `parquet:"year,snappy,dict"`
	Repo            string `parquet:"repo,snappy,dict"`
	Commit          string `parquet:"commit,snappy"`
	RootCause       string `parquet:"root_cause,snappy,dict"`
	Symptom         string `parquet:"symptom,snappy,dict"`
	CodeAdd         int32  `parquet:"code_add,snappy"`
	CodeRemove      int32  `parquet:"code_remove,snappy"`
	PlatformRelated int32  `parquet:"platform_related,snappy"`
	ErrorHandling   int32  `parquet:"error_handling,snappy"`
	ChainStart      string `parquet:"propagation_chain_1,snappy,dict"`
	ChainEnd        string `parquet:"propagation_chain_2,snappy,dict"`
	LenPanic        int32  `parquet:"len_panic,snappy"`
}

// Run represents a single extraction run with its tally.
// This struct maps to the bugcensus_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the globally unique identifier for this run
	RunUUID string `parquet:"run_uuid,snappy"`

	// CorpusRoot is the directory the run walked
	CorpusRoot string `parquet:"corpus_root,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	Valid         int32 `parquet:"valid,snappy"`
	Unchecked     int32 `parquet:"unchecked,snappy"`
	NotGeneralBug int32 `parquet:"not_general_bug,snappy"`
	Malformed     int32 `parquet:"malformed,snappy"`
	MissingFile   int32 `parquet:"missing_file,snappy"`
	IOFailure     int32 `parquet:"io_failure,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunAnnotation is a flat table row tagged with the run that stored it.
// This struct maps to the bugcensus_records database table.
type RunAnnotation struct {
	RunID           int64  `parquet:"run_id,snappy"`
	Year            string `parquet:"year,snappy,dict"`
	Repo            string `parquet:"repo,snappy,dict"`
	Commit          string `parquet:"commit,snappy"`
	RootCause       string `parquet:"root_cause,snappy,dict"`
	Symptom         string `parquet:"symptom,snappy,dict"`
	CodeAdd         int32  `parquet:"code_add,snappy"`
	CodeRemove      int32  `parquet:"code_remove,snappy"`
	PlatformRelated int32  `parquet:"platform_related,snappy"`
	ErrorHandling   int32  `parquet:"error_handling,snappy"`
	ChainStart      string `parquet:"propagation_chain_1,snappy,dict"`
	ChainEnd        string `parquet:"propagation_chain_2,snappy,dict"`
	LenPanic        int32  `parquet:"len_panic,snappy"`
}

// writeParquet writes rows to a new Parquet file at outputPath, replacing any existing file.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// WriteAnnotationsParquet writes the flat table to a Parquet file.
func WriteAnnotationsParquet(data []Annotation, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunAnnotationsParquet writes a slice of RunAnnotation structs to a Parquet file.
func WriteRunAnnotationsParquet(data []RunAnnotation, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertRecords converts flat table records to Annotation rows.
func ConvertRecords(records []schema.Record) []Annotation {
	result := make([]Annotation, len(records))
	for i, r := range records {
		result[i] = Annotation{
			Year:            r.Year,
			Repo:            r.Repo,
			Commit:          r.Commit,
			RootCause:       r.RootCause.String(),
			Symptom:         r.Symptom.String(),
			CodeAdd:         int32(r.CodeAdd),
			CodeRemove:      int32(r.CodeRemove),
			PlatformRelated: flag(r.PlatformRelated),
			ErrorHandling:   int32(r.ErrorHandling),
			ChainStart:      r.ChainStart.String(),
			ChainEnd:        r.ChainEnd.String(),
			LenPanic:        int32(r.LenPanic),
		}
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			RunUUID:       record.RunUUID,
			CorpusRoot:    record.CorpusRoot,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			Valid:         int32(record.Tally.Valid),
			Unchecked:     int32(record.Tally.Unchecked),
			NotGeneralBug: int32(record.Tally.NotGeneralBug),
			Malformed:     int32(record.Tally.Malformed),
			MissingFile:   int32(record.Tally.MissingFile),
			IOFailure:     int32(record.Tally.IOFailure),
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertStoredRecords converts schema.StoredRecord to RunAnnotation for Parquet export.
func ConvertStoredRecords(records []schema.StoredRecord) []RunAnnotation {
	flat := make([]schema.Record, len(records))
	for i, r := range records {
		flat[i] = r.Record
	}
	rows := ConvertRecords(flat)

	result := make([]RunAnnotation, len(records))
	for i, a := range rows {
		result[i] = RunAnnotation{
			RunID:           records[i].RunID,
			Year:            a.Year,
			Repo:            a.Repo,
			Commit:          a.Commit,
			RootCause:       a.RootCause,
			Symptom:         a.Symptom,
			CodeAdd:         a.CodeAdd,
			CodeRemove:      a.CodeRemove,
			PlatformRelated: a.PlatformRelated,
			ErrorHandling:   a.ErrorHandling,
			ChainStart:      a.ChainStart,
			ChainEnd:        a.ChainEnd,
			LenPanic:        a.LenPanic,
		}
	}
	return result
}

func flag(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
