package corpus

import (
	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/schema"
)

// Corpus tree levels below the root.
const (
	YearLevel   = 1
	RepoLevel   = 2
	CommitLevel = 3
)

// Census counts the directories on every level of the corpus tree and the
// commits per repository name across all years. It honors the walker's
// excludes. Only a root that cannot be listed is an error; deeper listing
// failures are logged and the affected subtree is left out of the counts.
func (w *Walker) Census() (schema.CensusResult, error) {
	result := schema.CensusResult{Root: w.root, CommitsPerRepo: make(map[string]int)}
	var rootErr error
	w.walk(func(level int, coords schema.Coordinates, dir string, err error) bool {
		if err != nil {
			if dir == w.root {
				rootErr = err
				return false
			}
			contract.LogWarn("Skipping unlistable directory in census", err)
			return true
		}
		switch level {
		case YearLevel:
			result.Years++
		case RepoLevel:
			result.Repositories++
			if _, ok := result.CommitsPerRepo[coords.Repo]; !ok {
				result.CommitsPerRepo[coords.Repo] = 0
			}
		case CommitLevel:
			result.Commits++
			result.CommitsPerRepo[coords.Repo]++
		}
		return true
	})
	if rootErr != nil {
		return schema.CensusResult{Root: w.root}, rootErr
	}
	return result, nil
}
