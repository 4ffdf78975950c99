package extract

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/bugcensus/internal/corpus"
	"github.com/huangsam/bugcensus/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeCorpus creates files under root; keys ending in "/" are created as directories.
func writeCorpus(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if rel[len(rel)-1] == '/' {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func sampleCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeCorpus(t, root, map[string]string{
		"2021/tokio/a1/class.txt": "3 2\n10 2\n0\n1\n1 0\n",
		"2021/tokio/a2/class.txt": "11 3 4\n3 1\n1\n0\n1 1\n",
		"2021/tokio/a3/class.txt": "7\n",
		"2021/tokio/a4/class.txt": "0 0\n1 1\n0\n0\n0 0\n",
		"2021/serde/b1/class.txt": "3 2\n10\n0\n1\n1 0\n",
		"2021/serde/b2/":          "",
		"2022/rand/c1/class.txt":  "5 5\n12 0\n0\n0\n1 0\n",
	})
	return root
}

// fakeSource yields a fixed sequence of entries and errors.
type fakeSource struct {
	entries []schema.CorpusEntry
	errs    map[int]error
}

func (f fakeSource) Commits() iter.Seq2[schema.CorpusEntry, error] {
	return func(yield func(schema.CorpusEntry, error) bool) {
		for i, e := range f.entries {
			if err, ok := f.errs[i]; ok {
				if !yield(schema.CorpusEntry{}, err) {
					return
				}
				continue
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

func annotated(repo, commit string) schema.CorpusEntry {
	return schema.CorpusEntry{
		Coordinates:    schema.Coordinates{Year: "2021", Repo: repo, Commit: commit},
		AnnotationPath: filepath.Join("2021", repo, commit, "class.txt"),
		Annotated:      true,
	}
}

func TestRun_TalliesEveryOutcome(t *testing.T) {
	walker, err := corpus.NewWalker(sampleCorpus(t))
	require.NoError(t, err)

	res, err := New(walker).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, schema.Tally{
		Valid:         3,
		Unchecked:     1,
		NotGeneralBug: 1,
		Malformed:     1,
		MissingFile:   1,
	}, res.Tally)
	assert.Equal(t, 7, res.Tally.Seen())

	require.Len(t, res.Records, 3)
	assert.Equal(t, "2021/tokio/a1", res.Records[0].String())
	assert.Equal(t, "2021/tokio/a2", res.Records[1].String())
	assert.Equal(t, "2022/rand/c1", res.Records[2].String())

	assert.Equal(t, schema.CauseMemory, res.Records[0].RootCause)
	assert.Equal(t, schema.CauseUnwrap, res.Records[1].RootCause)
	assert.Equal(t, 4, res.Records[1].LenPanic)
	assert.Equal(t, schema.NoPanicLength, res.Records[2].LenPanic)
	assert.Equal(t, schema.SymptomCrash, res.Records[2].Symptom)
}

func TestRun_Deterministic(t *testing.T) {
	root := sampleCorpus(t)
	walker, err := corpus.NewWalker(root)
	require.NoError(t, err)

	first, err := New(walker).Run(context.Background())
	require.NoError(t, err)
	second, err := New(walker).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.Tally, second.Tally)
}

func TestRun_ExcludedCommitsAreNotSeen(t *testing.T) {
	walker, err := corpus.NewWalker(sampleCorpus(t), corpus.WithExcludes("2021/tokio/*"))
	require.NoError(t, err)

	res, err := New(walker).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Tally.Seen())
	assert.Equal(t, 1, res.Tally.Valid)
}

func TestRun_IOFailuresAreCountedNotFatal(t *testing.T) {
	src := fakeSource{
		entries: []schema.CorpusEntry{
			annotated("tokio", "a1"),
			{},
			annotated("tokio", "a2"),
			annotated("tokio", "a3"),
		},
		errs: map[int]error{1: errors.New("failed to list 2021/serde: permission denied")},
	}
	ex := New(src)
	ex.read = func(path string) (schema.AnnotationRecord, error) {
		if filepath.Base(filepath.Dir(path)) == "a2" {
			return schema.AnnotationRecord{}, os.ErrPermission
		}
		return schema.AnnotationRecord{RootCause: schema.CauseType, LenPanic: schema.NoPanicLength}, nil
	}

	res, err := ex.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Tally.Valid)
	assert.Equal(t, 2, res.Tally.IOFailure)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "a3", res.Records[1].Commit)
}

func TestRun_SinkReceivesValidRecords(t *testing.T) {
	walker, err := corpus.NewWalker(sampleCorpus(t))
	require.NoError(t, err)

	var sunk []string
	calls := 0
	sink := func(rec schema.Record) error {
		calls++
		if calls == 1 {
			return errors.New("store unavailable")
		}
		sunk = append(sunk, rec.String())
		return nil
	}

	res, err := New(walker, WithSink(sink)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"2021/tokio/a2", "2022/rand/c1"}, sunk)
	assert.Len(t, res.Records, 3, "sink failures never drop records")
}

func TestRun_Cancelled(t *testing.T) {
	walker, err := corpus.NewWalker(sampleCorpus(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(walker).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Records)
	assert.Equal(t, 0, res.Tally.Seen())
}

func TestRun_EmptyCorpus(t *testing.T) {
	walker, err := corpus.NewWalker(t.TempDir())
	require.NoError(t, err)

	res, err := New(walker).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, schema.Tally{}, res.Tally)
}
