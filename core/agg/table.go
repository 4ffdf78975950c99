package agg

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strconv"

	"github.com/huangsam/bugcensus/schema"
)

var (
	// ErrInputMissing is returned when the flat table does not exist.
	ErrInputMissing = errors.New("flat table not found")

	// ErrBadTable is returned when the flat table header or a row is invalid.
	ErrBadTable = errors.New("invalid flat table")
)

// Row is one typed record of the flat table together with its text cells.
type Row struct {
	schema.Record
	cells []string
}

// Cell returns the text value of the named column, or "" for unknown columns.
func (r Row) Cell(col string) string {
	if i := columnIndex(col); i >= 0 {
		return r.cells[i]
	}
	return ""
}

// Number returns the numeric value of the named column.
// Category columns have no numeric value and report false.
func (r Row) Number(col string) (float64, bool) {
	switch col {
	case schema.ColCodeAdd:
		return float64(r.CodeAdd), true
	case schema.ColCodeRemove:
		return float64(r.CodeRemove), true
	case schema.ColPlatformRelated:
		if r.PlatformRelated {
			return 1, true
		}
		return 0, true
	case schema.ColErrorHandling:
		return float64(r.ErrorHandling), true
	case schema.ColLenPanic:
		return float64(r.LenPanic), true
	default:
		return 0, false
	}
}

// Table is the in-memory flat table.
type Table struct {
	rows []Row
}

// NewTable builds a table from extracted records.
func NewTable(records []schema.Record) *Table {
	t := &Table{rows: make([]Row, len(records))}
	for i, rec := range records {
		t.rows[i] = Row{Record: rec, cells: rec.Fields()}
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the rows in file order.
func (t *Table) Rows() []Row {
	return t.rows
}

// LoadTable reads the flat table at path.
func LoadTable(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputMissing, path)
		}
		return nil, fmt.Errorf("failed to open flat table %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	table, err := ReadTable(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// ReadTable parses a flat table from r. The header must match exactly.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(schema.FlatHeader)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header", ErrBadTable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadTable, err)
	}
	if !slices.Equal(header, schema.FlatHeader) {
		return nil, fmt.Errorf("%w: unexpected header %v", ErrBadTable, header)
	}

	table := &Table{}
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadTable, err)
		}
		line, _ := reader.FieldPos(0)
		rec, err := parseRow(cells)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrBadTable, line, err)
		}
		table.rows = append(table.rows, Row{Record: rec, cells: cells})
	}
	return table, nil
}

// parseRow converts the text cells of one row into a typed record.
// It normalizes a blank len_panic cell in place.
func parseRow(cells []string) (schema.Record, error) {
	var rec schema.Record
	var ok bool
	rec.Year, rec.Repo, rec.Commit = cells[0], cells[1], cells[2]

	if rec.RootCause, ok = schema.RootCauseFromName(cells[3]); !ok {
		return rec, fmt.Errorf("unknown %s %q", schema.ColRootCause, cells[3])
	}
	if rec.Symptom, ok = schema.SymptomFromName(cells[4]); !ok {
		return rec, fmt.Errorf("unknown %s %q", schema.ColSymptom, cells[4])
	}

	// A blank panic length is the same as "no panic length".
	if cells[11] == "" {
		cells[11] = strconv.Itoa(schema.NoPanicLength)
	}

	ints := []struct {
		col string
		dst *int
		raw string
	}{
		{schema.ColCodeAdd, &rec.CodeAdd, cells[5]},
		{schema.ColCodeRemove, &rec.CodeRemove, cells[6]},
		{schema.ColErrorHandling, &rec.ErrorHandling, cells[8]},
		{schema.ColLenPanic, &rec.LenPanic, cells[11]},
	}
	for _, f := range ints {
		n, err := strconv.Atoi(f.raw)
		if err != nil {
			return rec, fmt.Errorf("%s %q is not an integer", f.col, f.raw)
		}
		*f.dst = n
	}

	switch cells[7] {
	case "0":
		rec.PlatformRelated = false
	case "1":
		rec.PlatformRelated = true
	default:
		return rec, fmt.Errorf("%s %q must be 0 or 1", schema.ColPlatformRelated, cells[7])
	}

	if rec.ChainStart, ok = schema.SafetyFromName(cells[9]); !ok {
		return rec, fmt.Errorf("unknown %s %q", schema.ColChainStart, cells[9])
	}
	if rec.ChainEnd, ok = schema.SafetyFromName(cells[10]); !ok {
		return rec, fmt.Errorf("unknown %s %q", schema.ColChainEnd, cells[10])
	}
	return rec, nil
}

func columnIndex(col string) int {
	return slices.Index(schema.FlatHeader, col)
}
