// Package annotation parses per-commit annotation files into typed records.
//
// An annotation file has five logical lines:
//
//	rootCause symptom [lenPanic]
//	codeAdd codeRemove
//	platformRelated
//	errorHandling
//	chainStart chainEnd
//
// Root cause and symptom indices are 1-based, safety indices are 0-based.
// A first line with a single token marks an unchecked annotation and "0 0"
// marks a commit that is not a general bug.
package annotation

import (
	"errors"
	"fmt"

	"github.com/huangsam/bugcensus/schema"
)

// Sentinel errors for each rejection class. A *RejectError matches its
// sentinel with errors.Is.
var (
	ErrUnchecked     = errors.New("annotation is unchecked")
	ErrNotGeneralBug = errors.New("annotation marks a non-general bug")
	ErrMalformed     = errors.New("annotation is malformed")
)

// RejectError reports why an annotation did not yield a record.
type RejectError struct {
	Reason schema.RejectReason
	Line   int    // 1-based line number, 0 when not tied to a line
	Detail string // Human-readable cause
}

func (e *RejectError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Reason, e.Line, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// Is matches the sentinel that corresponds to the reject reason.
func (e *RejectError) Is(target error) bool {
	switch target {
	case ErrUnchecked:
		return e.Reason == schema.RejectUnchecked
	case ErrNotGeneralBug:
		return e.Reason == schema.RejectNotGeneralBug
	case ErrMalformed:
		return e.Reason == schema.RejectMalformed
	}
	return false
}

// Classify maps an error returned by Parse or ReadFile to a reject reason.
// Errors that are not rejections are I/O failures.
func Classify(err error) schema.RejectReason {
	var rej *RejectError
	if errors.As(err, &rej) {
		return rej.Reason
	}
	return schema.RejectIOFailure
}

func malformed(line int, format string, args ...any) *RejectError {
	return &RejectError{Reason: schema.RejectMalformed, Line: line, Detail: fmt.Sprintf(format, args...)}
}
