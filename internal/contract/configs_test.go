package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/bugcensus/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validRawInput returns an input that passes validation against the given root.
func validRawInput(root string) *ConfigRawInput {
	return &ConfigRawInput{
		CorpusRootStr:  root,
		AnnotationFile: schema.DefaultAnnotationFile,
		TableFile:      schema.DefaultTableFile,
		ViewsDir:       DefaultViewsDir,
		Output:         "CSV",
		Precision:      DefaultPrecision,
		StoreBackend:   "none",
		LogLevel:       "info",
		Color:          "no",
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{}
	input := validRawInput(root)
	input.Exclude = " 2022/*, ,*/swc/* "
	input.Views = "symptom_count,repo_root_cause_count"

	require.NoError(t, ProcessAndValidate(cfg, input))

	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, absRoot, cfg.CorpusRoot)
	assert.Equal(t, schema.CSVOut, cfg.Output)
	assert.Equal(t, schema.NoneBackend, cfg.StoreBackend)
	assert.Equal(t, []string{"2022/*", "*/swc/*"}, cfg.Excludes)
	assert.Equal(t, []string{"symptom_count", "repo_root_cause_count"}, cfg.Views)
	assert.False(t, cfg.UseColors)
}

func TestProcessAndValidate_Errors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name    string
		mutate  func(*ConfigRawInput)
		wantErr string
	}{
		{"bad output", func(in *ConfigRawInput) { in.Output = "xml" }, "invalid Output 'xml'"},
		{"bad backend", func(in *ConfigRawInput) { in.StoreBackend = "oracle" }, "invalid StoreBackend 'oracle'"},
		{"bad log level", func(in *ConfigRawInput) { in.LogLevel = "loud" }, "invalid LogLevel 'loud'"},
		{"annotation path", func(in *ConfigRawInput) { in.AnnotationFile = "sub/class.txt" }, "must be a plain file name"},
		{"missing table", func(in *ConfigRawInput) { in.TableFile = "" }, "TableFile is required"},
		{"precision", func(in *ConfigRawInput) { in.Precision = 9 }, "invalid Precision"},
		{"bad color", func(in *ConfigRawInput) { in.Color = "maybe" }, "invalid --color value"},
		{"mysql without conn", func(in *ConfigRawInput) { in.StoreBackend = "mysql" }, "store-db-connect is required"},
		{"missing root", func(in *ConfigRawInput) { in.CorpusRootStr = "" }, "corpus root is required"},
		{"root is file", func(in *ConfigRawInput) { in.CorpusRootStr = file }, "is not a directory"},
		{"root absent", func(in *ConfigRawInput) { in.CorpusRootStr = filepath.Join(root, "nope") }, "is not accessible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput(root)
			tt.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProcessTableConfig_NoCorpusRoot(t *testing.T) {
	input := validRawInput("")
	cfg := &Config{}
	require.NoError(t, ProcessTableConfig(cfg, input))
	assert.Empty(t, cfg.CorpusRoot)
	assert.Equal(t, schema.DefaultTableFile, cfg.TableFile)
}

func TestNormalizeRawInput_FillsBlanks(t *testing.T) {
	input := &ConfigRawInput{}
	normalizeRawInput(input)
	assert.Equal(t, "csv", input.Output)
	assert.Equal(t, "none", input.StoreBackend)
	assert.Equal(t, DefaultLogLevel, input.LogLevel)
	assert.Equal(t, "yes", input.Color)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		conn    string
		ok      bool
	}{
		{schema.SQLiteBackend, "", true},
		{schema.NoneBackend, "", true},
		{schema.MySQLBackend, "root:pw@tcp(localhost:3306)/bugs", true},
		{schema.MySQLBackend, "root:pw@localhost/bugs", false},
		{schema.MySQLBackend, "root:pw@tcp(localhost:3306)", false},
		{schema.PostgreSQLBackend, "host=localhost dbname=bugs", true},
		{schema.PostgreSQLBackend, "dbname=bugs", false},
		{schema.PostgreSQLBackend, "host=localhost", false},
	}
	for _, tt := range tests {
		err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
		if tt.ok {
			assert.NoError(t, err, "%s %q", tt.backend, tt.conn)
		} else {
			assert.Error(t, err, "%s %q", tt.backend, tt.conn)
		}
	}
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, "out/run"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "out/run", profile.Prefix)

	assert.Error(t, ProcessProfilingConfig(profile, "out"+string(filepath.Separator)))
}
