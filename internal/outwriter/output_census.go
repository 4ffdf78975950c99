package outwriter

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// repoCount is one row of the commits-per-repository listing.
type repoCount struct {
	Repo    string
	Commits int
}

// sortedRepoCounts orders repositories by commit count descending, then by name.
func sortedRepoCounts(counts map[string]int) []repoCount {
	out := make([]repoCount, 0, len(counts))
	for repo, n := range counts {
		out = append(out, repoCount{Repo: repo, Commits: n})
	}
	slices.SortFunc(out, func(a, b repoCount) int {
		if c := cmp.Compare(b.Commits, a.Commits); c != 0 {
			return c
		}
		return cmp.Compare(a.Repo, b.Repo)
	})
	return out
}

// PrintCensus writes the corpus census in the configured output format.
func PrintCensus(w io.Writer, result schema.CensusResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, result)
	case schema.YAMLOut:
		return writeYAML(w, result)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"repo", "commits"}, func(cw *csv.Writer) error {
			for _, rc := range sortedRepoCounts(result.CommitsPerRepo) {
				if err := cw.Write([]string{rc.Repo, strconv.Itoa(rc.Commits)}); err != nil {
					return fmt.Errorf("failed to write CSV row: %w", err)
				}
			}
			return nil
		})
	default:
		return writeCensusTable(w, result, cfg)
	}
}

func writeCensusTable(w io.Writer, result schema.CensusResult, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", contract.HeaderColor.Sprint("🗂️  Corpus census for"), result.Root); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Years: %d  Repositories: %d  Commits: %d\n", result.Years, result.Repositories, result.Commits); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Repository", "Commits"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	keyWidth := GetMaxTableKeyWidth(cfg, 1, 1)
	var data [][]string
	for _, rc := range sortedRepoCounts(result.CommitsPerRepo) {
		data = append(data, []string{contract.TruncateCell(rc.Repo, keyWidth), strconv.Itoa(rc.Commits)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
