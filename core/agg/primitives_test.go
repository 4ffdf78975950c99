package agg

import (
	"testing"

	"github.com/huangsam/bugcensus/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsOf(v schema.View) [][]string {
	out := make([][]string, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.Keys
	}
	return out
}

func valuesOf(v schema.View) [][]float64 {
	out := make([][]float64, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.Values
	}
	return out
}

func TestGroupCount_Matrix(t *testing.T) {
	v := fixtureTable(t).GroupCount("m", schema.ColRepo, schema.ColRootCause)

	assert.Equal(t, schema.CountView, v.Kind)
	assert.Equal(t, []string{schema.ColRepo}, v.KeyColumns)
	assert.Equal(t, []string{"Conc", "Mem", "Unwrap"}, v.ValueColumns)
	assert.Equal(t, [][]string{{"rand"}, {"serde"}, {"tokio"}}, rowsOf(v))
	assert.Equal(t, [][]float64{
		{0, 1, 0},
		{1, 1, 0},
		{0, 1, 2},
	}, valuesOf(v))
	assert.Equal(t, 6.0, v.Total())
}

func TestGroupCount_ThreeKeys(t *testing.T) {
	v := fixtureTable(t).GroupCount("m", schema.ColChainStart, schema.ColChainEnd, schema.ColRootCause)

	assert.Equal(t, []string{schema.ColChainStart, schema.ColChainEnd}, v.KeyColumns)
	assert.Equal(t, []string{"Conc", "Mem", "Unwrap"}, v.ValueColumns)
	assert.Equal(t, [][]string{
		{"Interior unsafe", "unsafe"},
		{"safe", "safe"},
		{"safe", "unsafe"},
		{"unsafe", "unsafe"},
	}, rowsOf(v))
	assert.Equal(t, [][]float64{
		{1, 0, 0},
		{0, 0, 2},
		{0, 2, 0},
		{0, 1, 0},
	}, valuesOf(v))
}

func TestGroupCount_SingleKeyIsSeries(t *testing.T) {
	v := fixtureTable(t).GroupCount("s", schema.ColYear)
	assert.Equal(t, []string{CountColumn}, v.ValueColumns)
	assert.Equal(t, [][]string{{"2021"}, {"2022"}}, rowsOf(v))
	assert.Equal(t, [][]float64{{3}, {3}}, valuesOf(v))
}

func TestGroupSize(t *testing.T) {
	v := fixtureTable(t).GroupSize("s", schema.ColChainStart, schema.ColChainEnd)
	assert.Equal(t, []string{schema.ColChainStart, schema.ColChainEnd}, v.KeyColumns)
	assert.Equal(t, [][]string{
		{"Interior unsafe", "unsafe"},
		{"safe", "safe"},
		{"safe", "unsafe"},
		{"unsafe", "unsafe"},
	}, rowsOf(v))
	assert.Equal(t, [][]float64{{1}, {2}, {2}, {1}}, valuesOf(v))
}

func TestValueCounts(t *testing.T) {
	table := fixtureTable(t)

	v := table.ValueCounts("s", schema.ColSymptom, nil)
	assert.Equal(t, [][]string{{"Panic"}, {"Crash"}, {"Behavior"}}, rowsOf(v))
	assert.Equal(t, [][]float64{{3}, {2}, {1}}, valuesOf(v))

	v = table.ValueCounts("e", schema.ColErrorHandling, nil)
	assert.Equal(t, [][]string{{"1"}, {"0"}, {"2"}}, rowsOf(v))

	// Ties fall back to numeric key order, so 2 sorts before 10.
	v = table.ValueCounts("u", schema.ColLenPanic, rootCauseIs(schema.CauseUnwrap))
	assert.Equal(t, [][]string{{"2"}, {"10"}}, rowsOf(v))
	assert.Equal(t, [][]float64{{1}, {1}}, valuesOf(v))

	v = table.ValueCounts("p", schema.ColRootCause, func(Row) bool { return false })
	assert.Empty(t, v.Rows)
}

func TestGroupMean(t *testing.T) {
	v := fixtureTable(t).GroupMean("m", schema.ColRootCause, schema.ColCodeAdd, schema.ColCodeRemove)

	assert.Equal(t, schema.MeanView, v.Kind)
	assert.Equal(t, []string{schema.ColCodeAdd, schema.ColCodeRemove}, v.ValueColumns)
	assert.Equal(t, [][]string{{"Conc"}, {"Mem"}, {"Unwrap"}}, rowsOf(v))

	conc, ok := v.Cell([]string{"Conc"}, schema.ColCodeAdd)
	require.True(t, ok)
	assert.Equal(t, 0.0, conc)

	memAdd, _ := v.Cell([]string{"Mem"}, schema.ColCodeAdd)
	memRemove, _ := v.Cell([]string{"Mem"}, schema.ColCodeRemove)
	assert.InDelta(t, 29.0/3, memAdd, 1e-9)
	assert.InDelta(t, 7.0/3, memRemove, 1e-9)

	unwrapAdd, _ := v.Cell([]string{"Unwrap"}, schema.ColCodeAdd)
	assert.Equal(t, 4.5, unwrapAdd)

	// Empty groups are absent rather than NaN.
	_, ok = v.Cell([]string{"Alg"}, schema.ColCodeAdd)
	assert.False(t, ok)
}

func TestGroupArgmax_FirstRowWinsTies(t *testing.T) {
	v := fixtureTable(t).GroupArgmax("x", schema.ColRootCause, churn, schema.ColCodeAdd, schema.ColCodeRemove)

	assert.Equal(t, schema.ExtremeView, v.Kind)
	assert.Equal(t, [][]string{{"Conc"}, {"Mem"}, {"Unwrap"}}, rowsOf(v))
	assert.Equal(t, [][]float64{
		{0, 0},
		{10, 2},
		{6, 6},
	}, valuesOf(v))
}

func TestPrimitives_EmptyTable(t *testing.T) {
	table := NewTable(nil)
	for _, spec := range Catalogue() {
		v := spec.Compute(table)
		assert.Empty(t, v.Rows, spec.Name)
		assert.Equal(t, 0.0, v.Total(), spec.Name)
	}
}

func TestCompareKey(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2", "10", -1},
		{"-1", "2", -1},
		{"10", "10", 0},
		{"7", "Alg", -1},
		{"Mem", "3", 1},
		{"Alg", "Attr", -1},
		{"Interior unsafe", "safe", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, compareKey(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}
