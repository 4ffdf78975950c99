package iostore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/bugcensus/internal/contract"
	"github.com/huangsam/bugcensus/schema"
)

// Table names for run tracking.
const (
	runsTable    = "bugcensus_runs"
	recordsTable = "bugcensus_records"
)

// Global Manager instance for main logic.
var (
	Manager   = &RunStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for run storage.
func GetDBFilePath() string {
	return contract.GetStoreDBFilePath()
}

// InitStores initializes the global manager with the configured run store.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		store, err := NewRunStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize run store: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.runs = store
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
	})
}

// ClearStore removes all stored runs for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the run tables.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName, dsn, err := driverFor(backend, connStr)
		if err != nil {
			return err
		}
		for _, table := range []string{recordsTable, runsTable} {
			if err := clearSQLTable(driverName, dsn, table, backend); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string, backend schema.DatabaseBackend) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
