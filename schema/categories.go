package schema

import "fmt"

// RootCause is the category of reason a bug occurred.
// Values follow the ordering used by annotation files (1-based on disk).
type RootCause int

// All root causes, in annotation order.
const (
	CauseAlgorithm RootCause = iota
	CauseCode
	CauseMemory
	CauseType
	CauseConcurrency
	CausePrivilege
	CauseBound
	CauseDoc
	CauseNumeric
	CausePadding
	CauseUnwrap
	CauseMutability
	CauseOwnership
	CauseAttribute
	CauseMacro
	CauseVersion
	CauseUnsound
	CauseOther
)

var rootCauseNames = [...]string{
	"Alg", "Cod", "Mem", "Type", "Conc", "Priv", "Bound", "Doc", "Num",
	"padding", "Unwrap", "Mut", "Owner", "Attr", "Mac", "Ver", "Unsound", "Other",
}

// RootCauseFromIndex resolves a 1-based annotation index.
func RootCauseFromIndex(idx int) (RootCause, bool) {
	if idx < 1 || idx > len(rootCauseNames) {
		return 0, false
	}
	return RootCause(idx - 1), true
}

// RootCauseFromName resolves a category name as written in the flat table.
func RootCauseFromName(name string) (RootCause, bool) {
	for i, n := range rootCauseNames {
		if n == name {
			return RootCause(i), true
		}
	}
	return 0, false
}

// AllRootCauses returns every root cause in stable order.
func AllRootCauses() []RootCause {
	out := make([]RootCause, len(rootCauseNames))
	for i := range out {
		out[i] = RootCause(i)
	}
	return out
}

func (c RootCause) String() string {
	if c < 0 || int(c) >= len(rootCauseNames) {
		return fmt.Sprintf("RootCause(%d)", int(c))
	}
	return rootCauseNames[c]
}

// Symptom is the observable failure mode of a bug.
type Symptom int

// All symptoms, in annotation order.
const (
	SymptomBehavior Symptom = iota
	SymptomCompile
	SymptomPanic
	SymptomSecurity
	SymptomCrash
	SymptomPerformance
)

var symptomNames = [...]string{"Behavior", "Compile", "Panic", "Security", "Crash", "Performance"}

// SymptomFromIndex resolves a 1-based annotation index.
func SymptomFromIndex(idx int) (Symptom, bool) {
	if idx < 1 || idx > len(symptomNames) {
		return 0, false
	}
	return Symptom(idx - 1), true
}

// SymptomFromName resolves a category name as written in the flat table.
func SymptomFromName(name string) (Symptom, bool) {
	for i, n := range symptomNames {
		if n == name {
			return Symptom(i), true
		}
	}
	return 0, false
}

// AllSymptoms returns every symptom in stable order.
func AllSymptoms() []Symptom {
	out := make([]Symptom, len(symptomNames))
	for i := range out {
		out[i] = Symptom(i)
	}
	return out
}

func (s Symptom) String() string {
	if s < 0 || int(s) >= len(symptomNames) {
		return fmt.Sprintf("Symptom(%d)", int(s))
	}
	return symptomNames[s]
}

// Safety classifies a point of the propagation chain.
// Unlike causes and symptoms, safety indices are 0-based on disk.
type Safety int

// All safety classes, in annotation order.
const (
	SafetyUnsafe Safety = iota
	SafetySafe
	SafetyInteriorUnsafe
	SafetyUnknown
)

var safetyNames = [...]string{"unsafe", "safe", "Interior unsafe", "unknown"}

// SafetyFromIndex resolves a 0-based annotation index.
func SafetyFromIndex(idx int) (Safety, bool) {
	if idx < 0 || idx >= len(safetyNames) {
		return 0, false
	}
	return Safety(idx), true
}

// SafetyFromName resolves a safety class name as written in the flat table.
func SafetyFromName(name string) (Safety, bool) {
	for i, n := range safetyNames {
		if n == name {
			return Safety(i), true
		}
	}
	return 0, false
}

// AllSafeties returns every safety class in stable order.
func AllSafeties() []Safety {
	out := make([]Safety, len(safetyNames))
	for i := range out {
		out[i] = Safety(i)
	}
	return out
}

func (s Safety) String() string {
	if s < 0 || int(s) >= len(safetyNames) {
		return fmt.Sprintf("Safety(%d)", int(s))
	}
	return safetyNames[s]
}
