// Package schema has models, categories and constants for all parts of bugcensus.
package schema

// NoPanicLength is the len_panic value used when an annotation carries no
// propagation chain length.
const NoPanicLength = -1

// AnnotationRecord is the typed content of one commit's annotation file.
// It holds the human-assigned classification of a single bug-fixing commit.
type AnnotationRecord struct {
	RootCause       RootCause // Why the bug happened
	Symptom         Symptom   // How the bug was observed
	CodeAdd         int       // Lines added by the fix
	CodeRemove      int       // Lines removed by the fix
	PlatformRelated bool      // Bug only shows up on specific platforms
	ErrorHandling   int       // Error handling category code
	ChainStart      Safety    // Safety class where the error originates
	ChainEnd        Safety    // Safety class where the error surfaces
	LenPanic        int       // Propagation chain length for panics, NoPanicLength otherwise
}

// HasPanicLength reports whether the record carries a propagation chain length.
func (r AnnotationRecord) HasPanicLength() bool {
	return r.LenPanic != NoPanicLength
}

// Churn returns the total number of lines touched by the fix.
func (r AnnotationRecord) Churn() int {
	return r.CodeAdd + r.CodeRemove
}

// Coordinates identify a commit inside the corpus.
type Coordinates struct {
	Year   string `json:"year"`
	Repo   string `json:"repo"`
	Commit string `json:"commit"`
}

// String renders the coordinates as a corpus-relative path.
func (c Coordinates) String() string {
	return c.Year + "/" + c.Repo + "/" + c.Commit
}

// Record is an annotation augmented with the commit it was read from.
// It is one row of the flat table.
type Record struct {
	Coordinates
	AnnotationRecord
}

// CorpusEntry is a commit directory located by the corpus walker.
type CorpusEntry struct {
	Coordinates
	Dir            string // Absolute or root-relative path of the commit directory
	AnnotationPath string // Path where the annotation file is expected
	Annotated      bool   // Whether the annotation file exists
}
