package annotation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/bugcensus/schema"
)

// annotationLines is the number of logical lines in an annotation file.
const annotationLines = 5

// ReadFile opens and parses the annotation file at path.
// I/O failures are returned wrapped; content problems are *RejectError values.
func ReadFile(path string) (schema.AnnotationRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return schema.AnnotationRecord{}, fmt.Errorf("failed to open annotation %q: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	rec, err := Parse(file)
	if err != nil {
		return schema.AnnotationRecord{}, err
	}
	return rec, nil
}

// Parse reads one annotation from r.
func Parse(r io.Reader) (schema.AnnotationRecord, error) {
	lines, err := readFields(r)
	if err != nil {
		return schema.AnnotationRecord{}, err
	}
	if len(lines) == 0 {
		return schema.AnnotationRecord{}, malformed(1, "file is empty")
	}

	var rec schema.AnnotationRecord
	done, err := parseClassLine(lines[0], &rec)
	if err != nil || done {
		return schema.AnnotationRecord{}, err
	}

	if len(lines) < annotationLines {
		return schema.AnnotationRecord{}, malformed(len(lines)+1, "expected %d lines, found %d", annotationLines, len(lines))
	}
	if len(lines) > annotationLines {
		return schema.AnnotationRecord{}, malformed(annotationLines+1, "unexpected content after line %d", annotationLines)
	}

	if err := parseChurnLine(lines[1], &rec); err != nil {
		return schema.AnnotationRecord{}, err
	}
	if err := parsePlatformLine(lines[2], &rec); err != nil {
		return schema.AnnotationRecord{}, err
	}
	if err := parseErrorHandlingLine(lines[3], &rec); err != nil {
		return schema.AnnotationRecord{}, err
	}
	if err := parseChainLine(lines[4], &rec); err != nil {
		return schema.AnnotationRecord{}, err
	}
	return rec, nil
}

// readFields splits the input into whitespace-separated tokens per line.
// Blank lines after the last non-blank line are dropped.
func readFields(r io.Reader) ([][]string, error) {
	var lines [][]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.Fields(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read annotation: %w", err)
	}
	for len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// parseClassLine handles "rootCause symptom [lenPanic]". It returns done=true
// together with a rejection when the rest of the file must not be read.
func parseClassLine(tokens []string, rec *schema.AnnotationRecord) (bool, error) {
	const line = 1
	switch len(tokens) {
	case 1:
		return true, &RejectError{Reason: schema.RejectUnchecked, Line: line, Detail: fmt.Sprintf("single token %q", tokens[0])}
	case 2, 3:
	default:
		return true, malformed(line, "expected 2 or 3 tokens, found %d", len(tokens))
	}

	nums, err := parseInts(line, tokens)
	if err != nil {
		return true, err
	}
	causeIdx, symptomIdx := nums[0], nums[1]
	if causeIdx == 0 && symptomIdx == 0 {
		return true, &RejectError{Reason: schema.RejectNotGeneralBug, Line: line, Detail: "root cause and symptom are both 0"}
	}

	cause, ok := schema.RootCauseFromIndex(causeIdx)
	if !ok {
		return true, malformed(line, "root cause index %d out of range", causeIdx)
	}
	symptom, ok := schema.SymptomFromIndex(symptomIdx)
	if !ok {
		return true, malformed(line, "symptom index %d out of range", symptomIdx)
	}
	rec.RootCause = cause
	rec.Symptom = symptom
	rec.LenPanic = schema.NoPanicLength

	if len(nums) == 3 {
		if symptom != schema.SymptomPanic {
			return true, malformed(line, "panic length given for symptom %s", symptom)
		}
		if nums[2] < 0 {
			return true, malformed(line, "negative panic length %d", nums[2])
		}
		rec.LenPanic = nums[2]
	}
	return false, nil
}

func parseChurnLine(tokens []string, rec *schema.AnnotationRecord) error {
	const line = 2
	if len(tokens) != 2 {
		return malformed(line, "expected 2 tokens, found %d", len(tokens))
	}
	nums, err := parseInts(line, tokens)
	if err != nil {
		return err
	}
	if nums[0] < 0 || nums[1] < 0 {
		return malformed(line, "negative line count %d %d", nums[0], nums[1])
	}
	rec.CodeAdd, rec.CodeRemove = nums[0], nums[1]
	return nil
}

func parsePlatformLine(tokens []string, rec *schema.AnnotationRecord) error {
	const line = 3
	if len(tokens) != 1 {
		return malformed(line, "expected 1 token, found %d", len(tokens))
	}
	nums, err := parseInts(line, tokens)
	if err != nil {
		return err
	}
	switch nums[0] {
	case 0:
		rec.PlatformRelated = false
	case 1:
		rec.PlatformRelated = true
	default:
		return malformed(line, "platform flag must be 0 or 1, found %d", nums[0])
	}
	return nil
}

func parseErrorHandlingLine(tokens []string, rec *schema.AnnotationRecord) error {
	const line = 4
	if len(tokens) != 1 {
		return malformed(line, "expected 1 token, found %d", len(tokens))
	}
	nums, err := parseInts(line, tokens)
	if err != nil {
		return err
	}
	rec.ErrorHandling = nums[0]
	return nil
}

func parseChainLine(tokens []string, rec *schema.AnnotationRecord) error {
	const line = 5
	if len(tokens) != 2 {
		return malformed(line, "expected 2 tokens, found %d", len(tokens))
	}
	nums, err := parseInts(line, tokens)
	if err != nil {
		return err
	}
	start, ok := schema.SafetyFromIndex(nums[0])
	if !ok {
		return malformed(line, "chain start index %d out of range", nums[0])
	}
	end, ok := schema.SafetyFromIndex(nums[1])
	if !ok {
		return malformed(line, "chain end index %d out of range", nums[1])
	}
	rec.ChainStart, rec.ChainEnd = start, end
	return nil
}

// parseInts converts every token to an int, rejecting non-integers.
func parseInts(line int, tokens []string) ([]int, error) {
	nums := make([]int, len(tokens))
	for i, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, malformed(line, "token %q is not an integer", tok)
		}
		nums[i] = n
	}
	return nums, nil
}
