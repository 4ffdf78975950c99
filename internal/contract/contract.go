// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/bugcensus/schema"
)

// RunStore defines the operations for tracking extraction runs and their records.
// A store for the "none" backend accepts every call and keeps nothing.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID.
	BeginRun(startTime time.Time, corpusRoot string, configParams map[string]any) (int64, error)

	// RecordAnnotation stores one valid record under the given run.
	RecordAnnotation(runID int64, record schema.Record) error

	// EndRun stores the completion time and the final tally of a run.
	EndRun(runID int64, endTime time.Time, tally schema.Tally) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// GetAllRuns retrieves all runs ordered by ID.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllRecords retrieves all stored records ordered by run and coordinates.
	GetAllRecords() ([]schema.StoredRecord, error)

	// Close releases the underlying connection.
	Close() error
}

// StoreManager hands out the configured run store.
type StoreManager interface {
	GetRunStore() RunStore
}
