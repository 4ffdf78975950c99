//go:build integration

// Package integration contains end-to-end tests for the bugcensus binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const expectedTable = "year,repo,commit,root_cause,symptom,code_add,code_remove,platform_related,error_handling,propagation_chain_1,propagation_chain_2,len_panic\n" +
	"2021,tokio,a1,Mem,Compile,10,2,0,1,safe,unsafe,-1\n" +
	"2021,tokio,a2,Unwrap,Panic,3,1,1,0,safe,safe,4\n" +
	"2022,rand,c1,Conc,Crash,12,0,0,0,safe,unsafe,-1\n"

// TestRunVerification runs the full pipeline twice and checks the outputs are stable.
func TestRunVerification(t *testing.T) {
	root := fixtureCorpus(t)
	work := t.TempDir()

	args := []string{"run", root, "--views-dir", "views", "--color", "no"}
	summary, err := runCommand(t, work, nil, args...)
	require.NoError(t, err)
	assert.Contains(t, summary, "valid")

	table, err := os.ReadFile(filepath.Join(work, "result_summary.csv"))
	require.NoError(t, err)
	assert.Equal(t, expectedTable, string(table))

	first := snapshot(t, filepath.Join(work, "views"))
	assert.Len(t, first, 16)

	_, err = runCommand(t, work, nil, args...)
	require.NoError(t, err)
	assert.Equal(t, first, snapshot(t, filepath.Join(work, "views")))
}

// TestAggregateWithoutTable checks that aggregation refuses to run on a missing table.
func TestAggregateWithoutTable(t *testing.T) {
	work := t.TempDir()
	_, err := runCommand(t, work, nil, "aggregate", "--views-dir", "views")
	require.Error(t, err)
	assert.NoDirExists(t, filepath.Join(work, "views"))
}

// TestCensusAndViews checks the read-only commands.
func TestCensusAndViews(t *testing.T) {
	root := fixtureCorpus(t)
	work := t.TempDir()

	out, err := runCommand(t, work, nil, "census", root)
	require.NoError(t, err)
	assert.Equal(t, "repo,commits\ntokio,4\nserde,2\nrand,1\n", out)

	out, err = runCommand(t, work, nil, "views")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 17)
}

// TestStoreSQLite records a run in SQLite through environment configuration and exports it.
func TestStoreSQLite(t *testing.T) {
	root := fixtureCorpus(t)
	work := t.TempDir()
	env := []string{
		"BUGCENSUS_STORE_BACKEND=sqlite",
		"BUGCENSUS_STORE_DB_CONNECT=" + filepath.Join(work, "runs.db"),
	}

	_, err := runCommand(t, work, env, "extract", root)
	require.NoError(t, err)

	out, err := runCommand(t, work, env, "store", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 1")
	assert.Contains(t, out, "Total Records: 3")

	out, err = runCommand(t, work, env, "store", "export", "--output-file", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 runs")
	assert.FileExists(t, filepath.Join(work, "history.runs.parquet"))
	assert.FileExists(t, filepath.Join(work, "history.records.parquet"))

	_, err = runCommand(t, work, env, "store", "clear")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(work, "runs.db"))
}

func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		out[e.Name()] = string(data)
	}
	return out
}
