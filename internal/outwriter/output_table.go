package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/bugcensus/schema"
)

// WriteFlatTable writes the header and one row per record as CSV.
// Cells that contain commas, quotes or newlines are quoted.
func WriteFlatTable(w io.Writer, records []schema.Record) error {
	return writeCSVWithHeader(w, schema.FlatHeader, func(cw *csv.Writer) error {
		for _, rec := range records {
			if err := cw.Write(rec.Fields()); err != nil {
				return fmt.Errorf("failed to write row for %s: %w", rec.Coordinates, err)
			}
		}
		return nil
	})
}

// WriteFlatTableFile writes the flat table to path, replacing any existing file.
func WriteFlatTableFile(path string, records []schema.Record) error {
	return writeWithFile(path, func(w io.Writer) error {
		return WriteFlatTable(w, records)
	}, fmt.Sprintf("Wrote %d records", len(records)))
}
