package agg

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/bugcensus/schema"
)

// CountColumn is the value column of count series.
const CountColumn = "count"

// Predicate selects the rows that take part in a view.
type Predicate func(Row) bool

// Score ranks rows for GroupArgmax.
type Score func(Row) float64

// GroupCount counts rows per observed key tuple.
// With one key the result is a series. With more keys it is a matrix whose
// rows are the observed tuples of all but the last key and whose columns are
// the observed values of the last key. Unobserved combinations are zero.
func (t *Table) GroupCount(name string, keys ...string) schema.View {
	if len(keys) < 2 {
		return t.GroupSize(name, keys...)
	}
	rowKeys, colKey := keys[:len(keys)-1], keys[len(keys)-1]

	counts := make(map[string]map[string]int)
	tuples := make(map[string][]string)
	colSet := make(map[string]struct{})
	for _, r := range t.rows {
		tuple := r.tuple(rowKeys)
		id := tupleID(tuple)
		if counts[id] == nil {
			counts[id] = make(map[string]int)
			tuples[id] = tuple
		}
		col := r.Cell(colKey)
		counts[id][col]++
		colSet[col] = struct{}{}
	}

	columns := sortedMapKeys(colSet)
	view := schema.View{
		Name:         name,
		Kind:         schema.CountView,
		KeyColumns:   slices.Clone(rowKeys),
		ValueColumns: columns,
	}
	for _, tuple := range sortedTuples(tuples) {
		byCol := counts[tupleID(tuple)]
		values := make([]float64, len(columns))
		for i, c := range columns {
			values[i] = float64(byCol[c])
		}
		view.Rows = append(view.Rows, schema.ViewRow{Keys: tuple, Values: values})
	}
	return view
}

// GroupSize counts rows per observed key tuple as a series.
func (t *Table) GroupSize(name string, keys ...string) schema.View {
	counts := make(map[string]int)
	tuples := make(map[string][]string)
	for _, r := range t.rows {
		tuple := r.tuple(keys)
		id := tupleID(tuple)
		if _, ok := tuples[id]; !ok {
			tuples[id] = tuple
		}
		counts[id]++
	}

	view := schema.View{
		Name:         name,
		Kind:         schema.CountView,
		KeyColumns:   slices.Clone(keys),
		ValueColumns: []string{CountColumn},
	}
	for _, tuple := range sortedTuples(tuples) {
		view.Rows = append(view.Rows, schema.ViewRow{
			Keys:   tuple,
			Values: []float64{float64(counts[tupleID(tuple)])},
		})
	}
	return view
}

// ValueCounts counts the values of col over the rows accepted by pred.
// A nil pred accepts every row. Rows are ordered by count descending, then
// by value ascending.
func (t *Table) ValueCounts(name, col string, pred Predicate) schema.View {
	counts := make(map[string]int)
	for _, r := range t.rows {
		if pred != nil && !pred(r) {
			continue
		}
		counts[r.Cell(col)]++
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	slices.SortFunc(values, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return compareKey(a, b)
	})

	view := schema.View{
		Name:         name,
		Kind:         schema.CountView,
		KeyColumns:   []string{col},
		ValueColumns: []string{CountColumn},
	}
	for _, v := range values {
		view.Rows = append(view.Rows, schema.ViewRow{
			Keys:   []string{v},
			Values: []float64{float64(counts[v])},
		})
	}
	return view
}

// GroupMean averages the numeric columns cols per value of key.
// Zero values take part in the mean. Groups without rows are absent.
func (t *Table) GroupMean(name, key string, cols ...string) schema.View {
	type acc struct {
		sums []float64
		n    int
	}
	groups := make(map[string]*acc)
	for _, r := range t.rows {
		k := r.Cell(key)
		g := groups[k]
		if g == nil {
			g = &acc{sums: make([]float64, len(cols))}
			groups[k] = g
		}
		for i, c := range cols {
			v, _ := r.Number(c)
			g.sums[i] += v
		}
		g.n++
	}

	view := schema.View{
		Name:         name,
		Kind:         schema.MeanView,
		KeyColumns:   []string{key},
		ValueColumns: slices.Clone(cols),
	}
	for _, k := range sortedMapKeys(groups) {
		g := groups[k]
		means := make([]float64, len(cols))
		for i := range cols {
			means[i] = g.sums[i] / float64(g.n)
		}
		view.Rows = append(view.Rows, schema.ViewRow{Keys: []string{k}, Values: means})
	}
	return view
}

// GroupArgmax reports, per value of key, the cols of the first row (in table
// order) with the highest score.
func (t *Table) GroupArgmax(name, key string, score Score, cols ...string) schema.View {
	type best struct {
		row   Row
		score float64
	}
	groups := make(map[string]*best)
	for _, r := range t.rows {
		k := r.Cell(key)
		s := score(r)
		if b, ok := groups[k]; !ok || s > b.score {
			groups[k] = &best{row: r, score: s}
		}
	}

	view := schema.View{
		Name:         name,
		Kind:         schema.ExtremeView,
		KeyColumns:   []string{key},
		ValueColumns: slices.Clone(cols),
	}
	for _, k := range sortedMapKeys(groups) {
		row := groups[k].row
		values := make([]float64, len(cols))
		for i, c := range cols {
			values[i], _ = row.Number(c)
		}
		view.Rows = append(view.Rows, schema.ViewRow{Keys: []string{k}, Values: values})
	}
	return view
}

func (r Row) tuple(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = r.Cell(k)
	}
	return out
}

// tupleID joins a key tuple with NUL, which never occurs in path or category names.
func tupleID(tuple []string) string {
	return strings.Join(tuple, "\x00")
}

// compareKey orders integers numerically and before other text, which is ordered lexically.
func compareKey(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return cmp.Compare(ai, bi)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func compareTuple(a, b []string) int {
	for i := range min(len(a), len(b)) {
		if c := compareKey(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func sortedTuples(tuples map[string][]string) [][]string {
	out := make([][]string, 0, len(tuples))
	for _, t := range tuples {
		out = append(out, t)
	}
	slices.SortFunc(out, compareTuple)
	return out
}

func sortedMapKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.SortFunc(out, compareKey)
	return out
}
