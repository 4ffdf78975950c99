package contract

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1", " true "} {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("sometimes")
	assert.Error(t, err)
}

func TestTruncateCell(t *testing.T) {
	assert.Equal(t, "short", TruncateCell("short", 10))
	assert.Equal(t, "rust-an...", TruncateCell("rust-analyzer", 10))
	assert.Equal(t, "abcdef", TruncateCell("abcdef", 3))
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old contents"), 0o644))
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data, "existing file should be truncated")
}

func TestInitLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(&buf, "warn")
	t.Cleanup(func() { InitLogger(os.Stderr, DefaultLogLevel) })

	LogInfo("hidden", map[string]any{"k": "v"})
	assert.Empty(t, buf.String())

	LogWarn("shown", os.ErrNotExist)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "file does not exist")

	buf.Reset()
	InitLogger(&buf, "bogus")
	LogDebug("debug hidden at info", nil)
	LogInfo("info shown", map[string]any{"path": "2021/a/b"})
	assert.NotContains(t, buf.String(), "debug hidden")
	assert.Contains(t, buf.String(), "info shown")
	assert.Contains(t, buf.String(), "2021/a/b")
}
