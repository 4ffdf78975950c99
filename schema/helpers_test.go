package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFields(t *testing.T) {
	r := Record{
		Coordinates: Coordinates{Year: "2021", Repo: "repoA", Commit: "c1"},
		AnnotationRecord: AnnotationRecord{
			RootCause:     CauseMemory,
			Symptom:       SymptomCompile,
			CodeAdd:       10,
			CodeRemove:    2,
			ErrorHandling: 1,
			ChainStart:    SafetySafe,
			ChainEnd:      SafetyUnsafe,
			LenPanic:      NoPanicLength,
		},
	}

	fields := r.Fields()
	require.Len(t, fields, len(FlatHeader))
	assert.Equal(t, []string{"2021", "repoA", "c1", "Mem", "Compile", "10", "2", "0", "1", "safe", "unsafe", "-1"}, fields)
}

func TestViewHeaderAndCell(t *testing.T) {
	v := View{
		Name:         "repo_root_cause_count",
		Kind:         CountView,
		KeyColumns:   []string{ColRepo},
		ValueColumns: []string{"Conc", "Mem"},
		Rows: []ViewRow{
			{Keys: []string{"X"}, Values: []float64{1, 2}},
			{Keys: []string{"Y"}, Values: []float64{0, 4}},
		},
	}

	assert.Equal(t, []string{"repo", "Conc", "Mem"}, v.Header())
	assert.Equal(t, float64(7), v.Total())

	got, ok := v.Cell([]string{"X"}, "Mem")
	assert.True(t, ok)
	assert.Equal(t, float64(2), got)

	_, ok = v.Cell([]string{"Z"}, "Mem")
	assert.False(t, ok)
	_, ok = v.Cell([]string{"X"}, "Type")
	assert.False(t, ok)
}

func TestOutputModeExtension(t *testing.T) {
	assert.Equal(t, "csv", CSVOut.Extension())
	assert.Equal(t, "txt", TextOut.Extension())
	assert.Equal(t, "yaml", YAMLOut.Extension())
}
