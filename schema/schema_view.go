package schema

// View is a named derived table produced by the aggregator.
// KeyColumns name the grouping keys of every row, ValueColumns name the
// numeric cells. For matrix views ValueColumns are the observed values of
// the last grouping key.
type View struct {
	Name         string    `json:"name" yaml:"name"`
	Title        string    `json:"title" yaml:"title"`
	Kind         ViewKind  `json:"kind" yaml:"kind"`
	KeyColumns   []string  `json:"key_columns" yaml:"key_columns"`
	ValueColumns []string  `json:"value_columns" yaml:"value_columns"`
	Rows         []ViewRow `json:"rows" yaml:"rows"`
}

// ViewRow is one row of a view.
type ViewRow struct {
	Keys   []string  `json:"keys" yaml:"keys"`
	Values []float64 `json:"values" yaml:"values"`
}

// Header returns the full column header of the view.
func (v View) Header() []string {
	header := make([]string, 0, len(v.KeyColumns)+len(v.ValueColumns))
	header = append(header, v.KeyColumns...)
	return append(header, v.ValueColumns...)
}

// Total sums every numeric cell of the view.
func (v View) Total() float64 {
	var sum float64
	for _, r := range v.Rows {
		for _, val := range r.Values {
			sum += val
		}
	}
	return sum
}

// Cell returns the value at the row matching keys and the named value column.
func (v View) Cell(keys []string, column string) (float64, bool) {
	col := -1
	for i, c := range v.ValueColumns {
		if c == column {
			col = i
			break
		}
	}
	if col < 0 {
		return 0, false
	}
	for _, r := range v.Rows {
		if equalKeys(r.Keys, keys) {
			return r.Values[col], true
		}
	}
	return 0, false
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ViewInfo names and describes a view of the catalogue.
type ViewInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}
