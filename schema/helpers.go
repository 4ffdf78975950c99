package schema

import "strconv"

// Flat table column names, in file order.
const (
	ColYear            = "year"
	ColRepo            = "repo"
	ColCommit          = "commit"
	ColRootCause       = "root_cause"
	ColSymptom         = "symptom"
	ColCodeAdd         = "code_add"
	ColCodeRemove      = "code_remove"
	ColPlatformRelated = "platform_related"
	ColErrorHandling   = "error_handling"
	ColChainStart      = "propagation_chain_1"
	ColChainEnd        = "propagation_chain_2"
	ColLenPanic        = "len_panic"
)

// FlatHeader is the fixed header of the flat table.
var FlatHeader = []string{
	ColYear,
	ColRepo,
	ColCommit,
	ColRootCause,
	ColSymptom,
	ColCodeAdd,
	ColCodeRemove,
	ColPlatformRelated,
	ColErrorHandling,
	ColChainStart,
	ColChainEnd,
	ColLenPanic,
}

// Fields renders the record as flat table cells, aligned with FlatHeader.
// Category columns hold names, numbers are plain decimal text.
func (r Record) Fields() []string {
	return []string{
		r.Year,
		r.Repo,
		r.Commit,
		r.RootCause.String(),
		r.Symptom.String(),
		strconv.Itoa(r.CodeAdd),
		strconv.Itoa(r.CodeRemove),
		FormatFlag(r.PlatformRelated),
		strconv.Itoa(r.ErrorHandling),
		r.ChainStart.String(),
		r.ChainEnd.String(),
		strconv.Itoa(r.LenPanic),
	}
}

// FormatFlag renders a boolean as 0 or 1.
func FormatFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
