package agg

import (
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/bugcensus/schema"
)

// ViewSpec describes one derived view and how to compute it from a table.
type ViewSpec struct {
	Name        string
	Description string
	Build       func(t *Table, name string) schema.View
}

// Compute builds the view from the table and fills in its title.
func (s ViewSpec) Compute(t *Table) schema.View {
	v := s.Build(t, s.Name)
	v.Title = s.Description
	return v
}

func symptomIs(s schema.Symptom) Predicate {
	return func(r Row) bool { return r.Symptom == s }
}

func rootCauseIs(c schema.RootCause) Predicate {
	return func(r Row) bool { return r.RootCause == c }
}

func platformRelated(r Row) bool {
	return r.PlatformRelated
}

func churn(r Row) float64 {
	return float64(r.Churn())
}

// catalogue lists every derived view in output order.
var catalogue = []ViewSpec{
	{
		Name:        "repo_root_cause_count",
		Description: "Root causes per repository",
		Build: func(t *Table, name string) schema.View {
			return t.GroupCount(name, schema.ColRepo, schema.ColRootCause)
		},
	},
	{
		Name:        "symptom_count",
		Description: "Bugs per symptom",
		Build: func(t *Table, name string) schema.View {
			return t.ValueCounts(name, schema.ColSymptom, nil)
		},
	},
	{
		Name:        "avg_code_change_by_root_cause",
		Description: "Average lines added and removed per root cause",
		Build: func(t *Table, name string) schema.View {
			return t.GroupMean(name, schema.ColRootCause, schema.ColCodeAdd, schema.ColCodeRemove)
		},
	},
	{
		Name:        "error_handling_count",
		Description: "Bugs per error handling category",
		Build: func(t *Table, name string) schema.View {
			return t.ValueCounts(name, schema.ColErrorHandling, nil)
		},
	},
	{
		Name:        "propagation_chain_count",
		Description: "Bugs per propagation chain",
		Build: func(t *Table, name string) schema.View {
			return t.GroupSize(name, schema.ColChainStart, schema.ColChainEnd)
		},
	},
	{
		Name:        "len_panic_count",
		Description: "Propagation lengths of panics",
		Build: func(t *Table, name string) schema.View {
			return t.ValueCounts(name, schema.ColLenPanic, symptomIs(schema.SymptomPanic))
		},
	},
	{
		Name:        "cause_panic_count",
		Description: "Root causes of panics",
		Build: func(t *Table, name string) schema.View {
			return t.ValueCounts(name, schema.ColRootCause, symptomIs(schema.SymptomPanic))
		},
	},
	{
		Name:        "symptom_root_cause_count",
		Description: "Root causes per symptom",
		Build: func(t *Table, name string) schema.View {
			return t.GroupCount(name, schema.ColSymptom, schema.ColRootCause)
		},
	},
	{
		Name:        "max_code_change_by_root_cause",
		Description: "Largest fix per root cause",
		Build: func(t *Table, name string) schema.View {
			return t.GroupArgmax(name, schema.ColRootCause, churn, schema.ColCodeAdd, schema.ColCodeRemove)
		},
	},
	{
		Name:        "unwrap_len",
		Description: "Propagation lengths of unwrap bugs",
		Build: func(t *Table, name string) schema.View {
			return t.ValueCounts(name, schema.ColLenPanic, rootCauseIs(schema.CauseUnwrap))
		},
	},
	{
		Name:        "root_cause_arch_count",
		Description: "Root causes of platform-specific bugs",
		Build: func(t *Table, name string) schema.View {
			return t.ValueCounts(name, schema.ColRootCause, platformRelated)
		},
	},
	{
		Name:        "repo_symptom_count",
		Description: "Symptoms per repository",
		Build: func(t *Table, name string) schema.View {
			return t.GroupCount(name, schema.ColRepo, schema.ColSymptom)
		},
	},
	{
		Name:        "year_root_cause_count",
		Description: "Root causes per year",
		Build: func(t *Table, name string) schema.View {
			return t.GroupCount(name, schema.ColYear, schema.ColRootCause)
		},
	},
	{
		Name:        "avg_code_change_by_symptom",
		Description: "Average lines added and removed per symptom",
		Build: func(t *Table, name string) schema.View {
			return t.GroupMean(name, schema.ColSymptom, schema.ColCodeAdd, schema.ColCodeRemove)
		},
	},
	{
		Name:        "chain_root_cause_count",
		Description: "Root causes per propagation chain",
		Build: func(t *Table, name string) schema.View {
			return t.GroupCount(name, schema.ColChainStart, schema.ColChainEnd, schema.ColRootCause)
		},
	},
	{
		Name:        "chain_symptom_count",
		Description: "Symptoms per propagation chain",
		Build: func(t *Table, name string) schema.View {
			return t.GroupCount(name, schema.ColChainStart, schema.ColChainEnd, schema.ColSymptom)
		},
	},
}

// Catalogue returns every view spec in output order.
func Catalogue() []ViewSpec {
	return slices.Clone(catalogue)
}

// ViewNames returns the names of every view in output order.
func ViewNames() []string {
	names := make([]string, len(catalogue))
	for i, s := range catalogue {
		names[i] = s.Name
	}
	return names
}

// SelectViews returns the specs named in names, in catalogue order.
// An empty list selects every view. Unknown names are an error.
func SelectViews(names []string) ([]ViewSpec, error) {
	if len(names) == 0 {
		return Catalogue(), nil
	}
	var unknown []string
	for _, n := range names {
		if !slices.Contains(ViewNames(), n) {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown views: %s", strings.Join(unknown, ", "))
	}
	var out []ViewSpec
	for _, s := range catalogue {
		if slices.Contains(names, s.Name) {
			out = append(out, s)
		}
	}
	return out, nil
}

// ComputeAll builds every selected view from the table.
func ComputeAll(t *Table, specs []ViewSpec) []schema.View {
	views := make([]schema.View, len(specs))
	for i, s := range specs {
		views[i] = s.Compute(t)
	}
	return views
}

// Describe lists the name and description of every view in output order.
func Describe() []schema.ViewInfo {
	out := make([]schema.ViewInfo, len(catalogue))
	for i, s := range catalogue {
		out[i] = schema.ViewInfo{Name: s.Name, Description: s.Description}
	}
	return out
}
