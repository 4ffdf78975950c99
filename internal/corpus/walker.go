// Package corpus locates commit directories in a year/repository/commit tree.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/schema"
)

// Walker enumerates the commit directories under a corpus root.
// The tree has exactly three levels: year, repository, commit.
type Walker struct {
	root           string
	annotationFile string
	patterns       []string
	excludes       []glob.Glob
}

// Option configures a Walker.
type Option func(*Walker)

// WithAnnotationFile sets the annotation file name looked up in every commit directory.
func WithAnnotationFile(name string) Option {
	return func(w *Walker) {
		if name != "" {
			w.annotationFile = name
		}
	}
}

// WithExcludes sets glob patterns matched against "year", "year/repo" and
// "year/repo/commit". A match on a prefix skips the whole subtree, so
// "2019/*" drops every repository of 2019.
func WithExcludes(patterns ...string) Option {
	return func(w *Walker) {
		w.patterns = append(w.patterns, patterns...)
	}
}

// NewWalker creates a walker rooted at root.
func NewWalker(root string, opts ...Option) (*Walker, error) {
	w := &Walker{
		root:           root,
		annotationFile: schema.DefaultAnnotationFile,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.excludes = make([]glob.Glob, 0, len(w.patterns))
	for _, p := range w.patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		w.excludes = append(w.excludes, g)
	}
	return w, nil
}

// Root returns the corpus root of the walker.
func (w *Walker) Root() string {
	return w.root
}

// visitFunc receives every directory the walk reaches at the given level,
// or the error from listing a directory one level above. Returning false
// stops the walk.
type visitFunc func(level int, coords schema.Coordinates, dir string, err error) bool

// walk visits the non-excluded year, repository and commit directories in
// lexical order. A directory that cannot be listed is reported with the
// level it failed to list and the walk continues with its siblings.
func (w *Walker) walk(visit visitFunc) {
	years, err := listDirs(w.root)
	if err != nil {
		visit(YearLevel, schema.Coordinates{}, w.root, err)
		return
	}
	for _, year := range years {
		if w.excluded(year) {
			continue
		}
		yearPath := filepath.Join(w.root, year)
		if !visit(YearLevel, schema.Coordinates{Year: year}, yearPath, nil) {
			return
		}
		repos, err := listDirs(yearPath)
		if err != nil {
			if !visit(RepoLevel, schema.Coordinates{Year: year}, yearPath, err) {
				return
			}
			continue
		}
		for _, repo := range repos {
			if w.excluded(year + "/" + repo) {
				continue
			}
			repoPath := filepath.Join(yearPath, repo)
			if !visit(RepoLevel, schema.Coordinates{Year: year, Repo: repo}, repoPath, nil) {
				return
			}
			commits, err := listDirs(repoPath)
			if err != nil {
				if !visit(CommitLevel, schema.Coordinates{Year: year, Repo: repo}, repoPath, err) {
					return
				}
				continue
			}
			for _, commit := range commits {
				coords := schema.Coordinates{Year: year, Repo: repo, Commit: commit}
				if w.excluded(coords.String()) {
					continue
				}
				if !visit(CommitLevel, coords, filepath.Join(repoPath, commit), nil) {
					return
				}
			}
		}
	}
}

// Commits yields every commit directory in lexical order, annotated or not.
// A directory that cannot be listed is yielded as an error and the walk
// continues with its siblings. Stray files at any level are skipped.
func (w *Walker) Commits() iter.Seq2[schema.CorpusEntry, error] {
	return func(yield func(schema.CorpusEntry, error) bool) {
		w.walk(func(level int, coords schema.Coordinates, dir string, err error) bool {
			if err != nil {
				return yield(schema.CorpusEntry{}, err)
			}
			if level != CommitLevel {
				return true
			}
			return yield(w.entry(dir, coords), nil)
		})
	}
}

// Entries yields only the commit directories that hold an annotation file.
func (w *Walker) Entries() iter.Seq2[schema.CorpusEntry, error] {
	return func(yield func(schema.CorpusEntry, error) bool) {
		for entry, err := range w.Commits() {
			if err == nil && !entry.Annotated {
				continue
			}
			if !yield(entry, err) {
				return
			}
		}
	}
}

func (w *Walker) entry(dir string, coords schema.Coordinates) schema.CorpusEntry {
	path := filepath.Join(dir, w.annotationFile)
	_, err := os.Stat(path)
	return schema.CorpusEntry{
		Coordinates:    coords,
		Dir:            dir,
		AnnotationPath: path,
		// Stat failures other than absence surface later as read errors.
		Annotated: err == nil || !errors.Is(err, fs.ErrNotExist),
	}
}

// excluded reports whether a corpus-relative key matches an exclude pattern.
func (w *Walker) excluded(key string) bool {
	for _, g := range w.excludes {
		if g.Match(key) {
			contract.LogDebug("Skipping excluded path", map[string]any{"path": key})
			return true
		}
	}
	return false
}

// listDirs returns the names of the subdirectories of path in lexical order.
func listDirs(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if isDir(path, e) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// isDir reports whether the entry is a directory, following symlinks.
func isDir(parent string, e fs.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && info.IsDir()
}
