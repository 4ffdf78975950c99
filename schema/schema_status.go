package schema

import "time"

// StoreStatus represents the status of the run store.
type StoreStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalRecords  int              `json:"total_records"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// CensusResult holds directory counts for a corpus root.
type CensusResult struct {
	Root           string         `json:"root" yaml:"root"`
	Years          int            `json:"years" yaml:"years"`
	Repositories   int            `json:"repositories" yaml:"repositories"`
	Commits        int            `json:"commits" yaml:"commits"`
	CommitsPerRepo map[string]int `json:"commits_per_repo" yaml:"commits_per_repo"`
}
