package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Color variables for console output.
var (
	ValidColor    = color.New(color.FgGreen, color.Bold) // ValidColor marks records that made it into the table.
	RejectedColor = color.New(color.FgYellow)            // RejectedColor marks annotations that were skipped on purpose.
	FailureColor  = color.New(color.FgRed, color.Bold)   // FailureColor marks entries that could not be read.
	HeaderColor   = color.New(color.FgCyan)              // HeaderColor marks section headers.
)

// SetColorEnabled turns colored output on or off for all color variables.
func SetColorEnabled(enabled bool) {
	color.NoColor = !enabled
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout. An existing file is truncated.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for run storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".bugcensus_runs.db"
	}
	return filepath.Join(homeDir, ".bugcensus_runs.db")
}

// TruncateCell truncates a table cell to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 to ensure there's space for both the "..." and at least one character of content.
func TruncateCell(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
