package iostore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/schema"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// noneStore accepts every call and keeps nothing.
var noneStore = &RunStoreImpl{backend: schema.NoneBackend}

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend || backend == "" {
		return &RunStoreImpl{backend: schema.NoneBackend}, nil
	}

	driverName, dsn, err := driverFor(backend, connStr)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and the connection string is correct", backend, err)
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTables applies the initial schema when the tables do not exist yet.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	stmts, err := schemaStatements(backend)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (rs *RunStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(startTime time.Time, corpusRoot string, configParams map[string]any) (int64, error) {
	if rs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	table := quoteTableName(runsTable, rs.backend)
	args := []any{uuid.NewString(), corpusRoot, formatTime(startTime, rs.backend), string(configJSON)}
	query := fmt.Sprintf(`INSERT INTO %s (run_uuid, corpus_root, start_time, config_params) VALUES (%s)`,
		table, placeholders(rs.backend, 1, len(args)))

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		err = rs.db.QueryRow(query+" RETURNING run_id", args...).Scan(&runID)
	default: // SQLite and MySQL
		var result sql.Result
		result, err = rs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// RecordAnnotation stores one valid record under the given run.
func (rs *RunStoreImpl) RecordAnnotation(runID int64, record schema.Record) error {
	if rs.disabled() {
		return nil
	}

	platform := 0
	if record.PlatformRelated {
		platform = 1
	}
	args := []any{
		runID, record.Year, record.Repo, record.Commit,
		record.RootCause.String(), record.Symptom.String(),
		record.CodeAdd, record.CodeRemove, platform, record.ErrorHandling,
		record.ChainStart.String(), record.ChainEnd.String(), record.LenPanic,
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, year, repo, commit_id, root_cause, symptom,
		                code_add, code_remove, platform_related, error_handling,
		                propagation_chain_1, propagation_chain_2, len_panic)
		VALUES (%s)
	`, quoteTableName(recordsTable, rs.backend), placeholders(rs.backend, 1, len(args)))

	if _, err := rs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert record %s: %w", record.Coordinates, err)
	}
	return nil
}

// EndRun updates the run with its completion time and final tally.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, tally schema.Tally) error {
	if rs.disabled() {
		return nil
	}

	table := quoteTableName(runsTable, rs.backend)
	var start dbTime
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, table, bind(rs.backend, 1))
	if err := rs.db.QueryRow(query, runID).Scan(&start); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(start.Time).Milliseconds()
	args := []any{
		formatTime(endTime, rs.backend), durationMs,
		tally.Valid, tally.Unchecked, tally.NotGeneralBug,
		tally.Malformed, tally.MissingFile, tally.IOFailure,
		runID,
	}
	b := func(i int) string { return bind(rs.backend, i) }
	update := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s,
		valid = %s, unchecked = %s, not_general_bug = %s,
		malformed = %s, missing_file = %s, io_failure = %s
		WHERE run_id = %s`,
		table, b(1), b(2), b(3), b(4), b(5), b(6), b(7), b(8), b(9))

	if _, err := rs.db.Exec(update, args...); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	runs := quoteTableName(runsTable, rs.backend)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var last, oldest dbTime
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs)
		if err := rs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &last); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs)
		if err := rs.db.QueryRow(oldestRunQuery).Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.LastRunTime = last.Time
		status.OldestRunTime = oldest.Time
	}

	for _, table := range []string{runsTable, recordsTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalRecords = int(status.TableSizes[recordsTable])

	return status, nil
}

// GetAllRuns retrieves all runs from the store ordered by ID.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, corpus_root, start_time, end_time, run_duration_ms,
		valid, unchecked, not_general_bug, malformed, missing_file, io_failure, config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var start, end dbTime
		if err := rows.Scan(&record.RunID, &record.RunUUID, &record.CorpusRoot, &start, &end, &record.RunDurationMs,
			&record.Tally.Valid, &record.Tally.Unchecked, &record.Tally.NotGeneralBug,
			&record.Tally.Malformed, &record.Tally.MissingFile, &record.Tally.IOFailure,
			&record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.StartTime = start.Time
		if end.Valid {
			endTime := end.Time
			record.EndTime = &endTime
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return results, nil
}

// GetAllRecords retrieves all stored records ordered by run and coordinates.
func (rs *RunStoreImpl) GetAllRecords() ([]schema.StoredRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, year, repo, commit_id, root_cause, symptom,
		code_add, code_remove, platform_related, error_handling,
		propagation_chain_1, propagation_chain_2, len_panic
		FROM %s ORDER BY run_id, year, repo, commit_id`, quoteTableName(recordsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.StoredRecord
	for rows.Next() {
		var record schema.StoredRecord
		var cause, symptom, chainStart, chainEnd string
		var platform int
		if err := rows.Scan(&record.RunID, &record.Year, &record.Repo, &record.Commit, &cause, &symptom,
			&record.CodeAdd, &record.CodeRemove, &platform, &record.ErrorHandling,
			&chainStart, &chainEnd, &record.LenPanic); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := decodeCategories(&record.Record, cause, symptom, chainStart, chainEnd); err != nil {
			return nil, fmt.Errorf("record %s of run %d: %w", record.Coordinates, record.RunID, err)
		}
		record.PlatformRelated = platform != 0
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return results, nil
}

// decodeCategories restores the category fields stored by name.
func decodeCategories(rec *schema.Record, cause, symptom, chainStart, chainEnd string) error {
	var ok bool
	if rec.RootCause, ok = schema.RootCauseFromName(cause); !ok {
		return fmt.Errorf("unknown root cause %q", cause)
	}
	if rec.Symptom, ok = schema.SymptomFromName(symptom); !ok {
		return fmt.Errorf("unknown symptom %q", symptom)
	}
	if rec.ChainStart, ok = schema.SafetyFromName(chainStart); !ok {
		return fmt.Errorf("unknown chain start %q", chainStart)
	}
	if rec.ChainEnd, ok = schema.SafetyFromName(chainEnd); !ok {
		return fmt.Errorf("unknown chain end %q", chainEnd)
	}
	return nil
}

// dbTime scans a nullable timestamp stored either natively or as RFC 3339 text.
type dbTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (d *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.Time, d.Valid = time.Time{}, false
		return nil
	case time.Time:
		d.Time, d.Valid = v, true
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	default:
		return fmt.Errorf("unsupported time value %T", src)
	}
}

func (d *dbTime) parse(s string) error {
	t, err := parseTime("timestamp", s)
	if err != nil {
		return err
	}
	d.Time, d.Valid = t, true
	return nil
}
