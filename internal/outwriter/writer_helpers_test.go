package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/bugcensus/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatter(t *testing.T) {
	tests := []struct {
		name      string
		kind      schema.ViewKind
		precision int
		value     float64
		expected  string
	}{
		{"mean precision 2", schema.MeanView, 2, 9.666666, "9.67"},
		{"mean precision 0", schema.MeanView, 0, 4.5, "4"},
		{"mean precision 4", schema.MeanView, 4, 2.333333, "2.3333"},
		{"count ignores precision", schema.CountView, 2, 3, "3"},
		{"extreme ignores precision", schema.ExtremeView, 4, 12, "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, createFormatter(tt.kind, tt.precision)(tt.value))
		})
	}
}

func TestFormatExact(t *testing.T) {
	assert.Equal(t, "3", formatExact(3))
	assert.Equal(t, "4.5", formatExact(4.5))
	assert.Equal(t, "-1", formatExact(-1))
	assert.Equal(t, "0.3333333333333333", formatExact(1.0/3))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"name": "test", "value": 42}))
	assert.Equal(t, "{\n  \"name\": \"test\",\n  \"value\": 42\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, schema.ViewInfo{Name: "symptom_count", Description: "Bugs per symptom"}))
	assert.Equal(t, "name: symptom_count\ndescription: Bugs per symptom\n", buf.String())
}

func TestWriteCSVWithHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   []string
		rows     [][]string
		expected string
	}{
		{
			name:     "simple csv",
			header:   []string{"repo", "commits"},
			rows:     [][]string{{"tokio", "3"}, {"serde", "1"}},
			expected: "repo,commits\ntokio,3\nserde,1\n",
		},
		{
			name:     "empty rows",
			header:   []string{"col1", "col2"},
			rows:     [][]string{},
			expected: "col1,col2\n",
		},
		{
			name:     "values with commas and quotes",
			header:   []string{"repo", "note"},
			rows:     [][]string{{"a,b", `say "hi"`}},
			expected: "repo,note\n\"a,b\",\"say \"\"hi\"\"\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeCSVWithHeader(&buf, tt.header, func(w *csv.Writer) error {
				for _, row := range tt.rows {
					if err := w.Write(row); err != nil {
						return err
					}
				}
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteCSVWithHeaderError(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"col"}, func(w *csv.Writer) error {
		return assert.AnError
	})
	require.Error(t, err)
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("a much longer previous content"), 0o644))

	err := writeWithFile(tmpFile, func(w io.Writer) error {
		_, err := w.Write([]byte("new"))
		return err
	}, "Test message")
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content), "file is replaced, never appended")
}

func TestWriteWithFileErrors(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.txt")
	err := writeWithFile(tmpFile, func(w io.Writer) error {
		return assert.AnError
	}, "Test message")
	assert.Equal(t, assert.AnError, err)

	err = writeWithFile("/nonexistent/path/file.txt", func(w io.Writer) error {
		return nil
	}, "Test message")
	require.Error(t, err)
}
