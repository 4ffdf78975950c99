// Package extract turns a corpus of annotated commits into flat table records.
package extract

import (
	"context"
	"iter"
	"time"

	"github.com/huangsam/bugcensus/internal/annotation"
	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/schema"
)

// Source yields every commit directory of a corpus.
// *corpus.Walker satisfies it.
type Source interface {
	Commits() iter.Seq2[schema.CorpusEntry, error]
}

// Sink receives each valid record as soon as it is extracted.
type Sink func(schema.Record) error

// Result is the outcome of one extraction pass.
type Result struct {
	Records  []schema.Record
	Tally    schema.Tally
	Duration time.Duration
}

// Extractor reads the annotation of every commit yielded by a Source.
type Extractor struct {
	source Source
	sink   Sink
	read   func(path string) (schema.AnnotationRecord, error)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSink forwards every valid record to sink.
// Sink failures are logged and never stop the pass.
func WithSink(sink Sink) Option {
	return func(e *Extractor) {
		e.sink = sink
	}
}

// New creates an Extractor over source.
func New(source Source, opts ...Option) *Extractor {
	e := &Extractor{source: source, read: annotation.ReadFile}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run walks the corpus once and returns the valid records in walk order.
// Per-commit failures are counted in the tally; only cancellation of ctx
// ends a pass early, in which case the partial result is returned with ctx.Err().
func (e *Extractor) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	for entry, err := range e.source.Commits() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Duration = time.Since(start)
			return res, ctxErr
		}

		if err != nil {
			contract.LogWarn("Failed to list corpus directory", err)
			res.Tally.Add(schema.RejectIOFailure)
			continue
		}

		if !entry.Annotated {
			res.Tally.Add(schema.RejectMissingFile)
			continue
		}

		rec, err := e.read(entry.AnnotationPath)
		if err != nil {
			reason := annotation.Classify(err)
			res.Tally.Add(reason)
			switch reason {
			case schema.RejectIOFailure:
				contract.LogWarn("Failed to read annotation "+entry.AnnotationPath, err)
			case schema.RejectMalformed:
				contract.LogDebug("Skipping malformed annotation", map[string]any{
					"path":  entry.AnnotationPath,
					"error": err.Error(),
				})
			}
			continue
		}

		record := schema.Record{Coordinates: entry.Coordinates, AnnotationRecord: rec}
		res.Records = append(res.Records, record)
		res.Tally.Valid++

		if e.sink != nil {
			if err := e.sink(record); err != nil {
				contract.LogWarn("Failed to store record "+record.Coordinates.String(), err)
			}
		}
	}

	res.Duration = time.Since(start)
	return res, nil
}
