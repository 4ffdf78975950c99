package iostore

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/bugcensus/schema"
)

// driverFor returns the database/sql driver name and DSN for a backend.
// MySQL DSNs always get parseTime so DATETIME columns scan into time.Time.
func driverFor(backend schema.DatabaseBackend, connStr string) (string, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = GetDBFilePath()
		}
		return "sqlite", connStr, nil
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return "", "", fmt.Errorf("invalid MySQL connection string: %w. Expected format: user:password@tcp(host:port)/dbname", err)
		}
		cfg.ParseTime = true
		return "mysql", cfg.FormatDSN(), nil
	case schema.PostgreSQLBackend:
		return "pgx", connStr, nil
	default:
		return "", "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// quoteTableName quotes a table name for the backend's SQL dialect.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// placeholders returns n bind parameters starting at position start.
func placeholders(backend schema.DatabaseBackend, start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = bind(backend, start+i)
	}
	return strings.Join(parts, ", ")
}

// bind returns the bind parameter at position i.
func bind(backend schema.DatabaseBackend, i int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t
	}
}

// parseTime reads back a time written by formatTime on SQLite.
func parseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

// migrationDir returns the embedded migration directory for a backend.
func migrationDir(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return path.Join("migrations", "mysql")
	case schema.PostgreSQLBackend:
		return path.Join("migrations", "postgres")
	default:
		return path.Join("migrations", "sqlite")
	}
}

// schemaStatements returns the statements of the initial migration for a backend.
func schemaStatements(backend schema.DatabaseBackend) ([]string, error) {
	data, err := migrationsFS.ReadFile(path.Join(migrationDir(backend), "000001_init.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to read schema for %s: %w", backend, err)
	}
	var stmts []string
	for stmt := range strings.SplitSeq(string(data), ";") {
		if trimmed := strings.TrimSpace(stmt); trimmed != "" {
			stmts = append(stmts, trimmed)
		}
	}
	return stmts, nil
}
