package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of view output.
	OutputMode string

	// DatabaseBackend represents the database backend for the run store.
	DatabaseBackend string

	// RejectReason classifies why a commit did not produce a record.
	RejectReason string

	// ViewKind tells writers how to render the numeric cells of a view.
	ViewKind string
)

// Default file names used by the pipeline.
const (
	DefaultAnnotationFile = "class.txt"
	DefaultTableFile      = "result_summary.csv"
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv" // default
	TextOut OutputMode = "text"
	JSONOut OutputMode = "json"
	YAMLOut OutputMode = "yaml"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All reject reasons tallied by the extractor.
const (
	RejectUnchecked     RejectReason = "unchecked"
	RejectNotGeneralBug RejectReason = "not_general_bug"
	RejectMalformed     RejectReason = "malformed"
	RejectMissingFile   RejectReason = "missing_file"
	RejectIOFailure     RejectReason = "io_failure"
)

// All view kinds.
const (
	CountView   ViewKind = "count"   // integer cells
	MeanView    ViewKind = "mean"    // fractional cells
	ExtremeView ViewKind = "extreme" // integer cells copied from one row
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
	YAMLOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Extension returns the file extension used when a view is written in this mode.
func (m OutputMode) Extension() string {
	switch m {
	case TextOut:
		return "txt"
	default:
		return string(m)
	}
}
