// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct {
	w io.Writer // Destination for summaries and listings
}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter(w io.Writer) *OutWriter {
	return &OutWriter{w: w}
}

// WriteTable writes the flat table of records to path.
func (ow *OutWriter) WriteTable(path string, records []schema.Record) error {
	return WriteFlatTableFile(path, records)
}

// WriteViews writes derived views using the configured output format.
func (ow *OutWriter) WriteViews(views []schema.View, cfg *contract.Config) error {
	return PrintViews(ow.w, views, cfg)
}

// WriteSummary prints the end-of-run extraction summary.
func (ow *OutWriter) WriteSummary(root string, tally schema.Tally, duration time.Duration) error {
	return PrintExtractSummary(ow.w, root, tally, duration)
}

// WriteCensus prints the corpus census using the configured output format.
func (ow *OutWriter) WriteCensus(result schema.CensusResult, cfg *contract.Config) error {
	return PrintCensus(ow.w, result, cfg)
}

// WriteCatalogue prints the list of available views.
func (ow *OutWriter) WriteCatalogue(infos []schema.ViewInfo, cfg *contract.Config) error {
	return PrintViewCatalogue(ow.w, infos, cfg)
}
