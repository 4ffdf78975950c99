package schema

import "time"

// RunRecord represents a row from the bugcensus_runs table.
type RunRecord struct {
	RunID         int64
	RunUUID       string
	CorpusRoot    string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	Tally         Tally
	ConfigParams  *string
}

// StoredRecord represents a row from the bugcensus_records table.
type StoredRecord struct {
	RunID int64
	Record
}
