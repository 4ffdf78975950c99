package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/bugcensus/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []schema.Record {
	return []schema.Record{
		{
			Coordinates: schema.Coordinates{Year: "2021", Repo: "tokio", Commit: "a1"},
			AnnotationRecord: schema.AnnotationRecord{
				RootCause: schema.CauseMemory, Symptom: schema.SymptomCrash,
				CodeAdd: 10, CodeRemove: 2,
				ChainStart: schema.SafetySafe, ChainEnd: schema.SafetyUnsafe,
				LenPanic: schema.NoPanicLength,
			},
		},
		{
			Coordinates: schema.Coordinates{Year: "2022", Repo: "serde", Commit: "b2"},
			AnnotationRecord: schema.AnnotationRecord{
				RootCause: schema.CauseUnwrap, Symptom: schema.SymptomPanic,
				CodeAdd: 3, CodeRemove: 1, PlatformRelated: true, ErrorHandling: 2,
				ChainStart: schema.SafetyInteriorUnsafe, ChainEnd: schema.SafetySafe,
				LenPanic: 4,
			},
		},
	}
}

func sampleRuns() []schema.RunRecord {
	end := time.Date(2026, 3, 1, 10, 0, 2, 0, time.UTC)
	duration := int32(2000)
	params := `{"corpus_root":"/corpus"}`
	return []schema.RunRecord{
		{
			RunID:         1,
			RunUUID:       "5b0c2a9e-8a8e-4c55-9d0c-1f1f5a1d2e01",
			CorpusRoot:    "/corpus",
			StartTime:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			EndTime:       &end,
			RunDurationMs: &duration,
			Tally:         schema.Tally{Valid: 2, Unchecked: 1, MissingFile: 3},
			ConfigParams:  &params,
		},
		{
			RunID:      2,
			RunUUID:    "5b0c2a9e-8a8e-4c55-9d0c-1f1f5a1d2e02",
			CorpusRoot: "/corpus",
			StartTime:  time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		},
	}
}

// readAll reads every row of a Parquet file written by this package.
func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"annotation", new(Annotation), schema.FlatHeader},
		{"run annotation", new(RunAnnotation), append([]string{"run_id"}, schema.FlatHeader...)},
		{"run", new(Run), []string{
			"run_id", "run_uuid", "corpus_root", "start_time", "end_time", "run_duration_ms",
			"valid", "unchecked", "not_general_bug", "malformed", "missing_file", "io_failure",
			"config_params",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, colName := range tt.columns {
				_, ok := s.Lookup(colName)
				assert.True(t, ok, "Column %s should exist in schema", colName)
			}
		})
	}
}

func TestConvertRecords(t *testing.T) {
	rows := ConvertRecords(sampleRecords())
	require.Len(t, rows, 2)

	assert.Equal(t, "Mem", rows[0].RootCause)
	assert.Equal(t, "Crash", rows[0].Symptom)
	assert.Equal(t, int32(0), rows[0].PlatformRelated)
	assert.Equal(t, int32(-1), rows[0].LenPanic)
	assert.Equal(t, "unsafe", rows[0].ChainEnd)

	assert.Equal(t, int32(1), rows[1].PlatformRelated)
	assert.Equal(t, "Interior unsafe", rows[1].ChainStart)
	assert.Equal(t, int32(4), rows[1].LenPanic)
}

func TestWriteAnnotationsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "result_summary.parquet")
	data := ConvertRecords(sampleRecords())

	require.NoError(t, WriteAnnotationsParquet(data, outputPath))
	assert.Equal(t, data, readAll[Annotation](t, outputPath))
}

func TestWriteRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	data := ConvertRunRecords(sampleRuns())
	require.Len(t, data, 2)
	assert.Equal(t, int32(3), data[0].MissingFile)

	require.NoError(t, WriteRunsParquet(data, outputPath))
	readData := readAll[Run](t, outputPath)
	require.Len(t, readData, len(data))

	for i := range data {
		assert.Equal(t, data[i].RunID, readData[i].RunID, "RunID should match")
		assert.Equal(t, data[i].RunUUID, readData[i].RunUUID, "RunUUID should match")
		assert.Equal(t, data[i].Valid, readData[i].Valid, "Valid should match")
		assert.WithinDuration(t, data[i].StartTime, readData[i].StartTime, time.Nanosecond)

		if data[i].EndTime == nil {
			assert.Nil(t, readData[i].EndTime, "EndTime should be nil")
		} else {
			require.NotNil(t, readData[i].EndTime, "EndTime should not be nil")
			assert.WithinDuration(t, *data[i].EndTime, *readData[i].EndTime, time.Nanosecond)
		}

		if data[i].ConfigParams == nil {
			assert.Nil(t, readData[i].ConfigParams, "ConfigParams should be nil")
		} else {
			require.NotNil(t, readData[i].ConfigParams, "ConfigParams should not be nil")
			assert.Equal(t, *data[i].ConfigParams, *readData[i].ConfigParams)
		}
	}
}

func TestWriteRunAnnotationsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "records.parquet")
	stored := []schema.StoredRecord{
		{RunID: 7, Record: sampleRecords()[0]},
		{RunID: 8, Record: sampleRecords()[1]},
	}
	data := ConvertStoredRecords(stored)
	assert.Equal(t, int64(8), data[1].RunID)
	assert.Equal(t, "serde", data[1].Repo)

	require.NoError(t, WriteRunAnnotationsParquet(data, outputPath))
	assert.Equal(t, data, readAll[RunAnnotation](t, outputPath))
}

func TestWriteParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")

	require.NoError(t, WriteRunsParquet([]Run{}, outputPath), "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Parquet file should have a footer even when empty")
	assert.Empty(t, readAll[Run](t, outputPath))
}

func TestWriteParquet_InvalidPath(t *testing.T) {
	err := WriteAnnotationsParquet(ConvertRecords(sampleRecords()), "/nonexistent/directory/out.parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}
