package schema

// Tally counts the outcome of every commit directory seen during extraction.
// Seen() always equals the sum of the individual counters.
type Tally struct {
	Valid         int `json:"valid" yaml:"valid"`
	Unchecked     int `json:"unchecked" yaml:"unchecked"`
	NotGeneralBug int `json:"not_general_bug" yaml:"not_general_bug"`
	Malformed     int `json:"malformed" yaml:"malformed"`
	MissingFile   int `json:"missing_file" yaml:"missing_file"`
	IOFailure     int `json:"io_failure" yaml:"io_failure"`
}

// Seen returns the total number of commit directories visited.
func (t Tally) Seen() int {
	return t.Valid + t.Rejected()
}

// Rejected returns the number of commit directories that produced no record.
func (t Tally) Rejected() int {
	return t.Unchecked + t.NotGeneralBug + t.Malformed + t.MissingFile + t.IOFailure
}

// Add increments the counter that belongs to reason.
func (t *Tally) Add(reason RejectReason) {
	switch reason {
	case RejectUnchecked:
		t.Unchecked++
	case RejectNotGeneralBug:
		t.NotGeneralBug++
	case RejectMalformed:
		t.Malformed++
	case RejectMissingFile:
		t.MissingFile++
	case RejectIOFailure:
		t.IOFailure++
	}
}

// Get returns the counter that belongs to reason.
func (t Tally) Get(reason RejectReason) int {
	switch reason {
	case RejectUnchecked:
		return t.Unchecked
	case RejectNotGeneralBug:
		return t.NotGeneralBug
	case RejectMalformed:
		return t.Malformed
	case RejectMissingFile:
		return t.MissingFile
	case RejectIOFailure:
		return t.IOFailure
	default:
		return 0
	}
}

// AllRejectReasons lists reject reasons in reporting order.
var AllRejectReasons = []RejectReason{
	RejectUnchecked,
	RejectNotGeneralBug,
	RejectMalformed,
	RejectMissingFile,
	RejectIOFailure,
}
