package contract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/bugcensus/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	DefaultViewsDir  = "."
	DefaultLogLevel  = "info"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for extraction and aggregation.
// This struct is the "final, validated" config.
type Config struct {
	CorpusRoot     string
	AnnotationFile string
	TableFile      string
	ParquetFile    string
	Excludes       []string

	ViewsDir  string
	Views     []string // Empty means the whole catalogue
	Output    schema.OutputMode
	Precision int
	Width     int // Terminal width override (0 = auto-detect)

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	UseColors bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	CorpusRootStr string

	AnnotationFile string `mapstructure:"annotation-file" validate:"required,excludesall=/\\"`
	TableFile      string `mapstructure:"table-file" validate:"required"`
	ParquetFile    string `mapstructure:"parquet-file"`
	Exclude        string `mapstructure:"exclude"`

	ViewsDir  string `mapstructure:"views-dir" validate:"required"`
	Views     string `mapstructure:"views"`
	Output    string `mapstructure:"output" validate:"oneof=csv text json yaml"`
	Precision int    `mapstructure:"precision" validate:"gte=0,lte=6"`
	Width     int    `mapstructure:"width" validate:"gte=0"`

	StoreBackend   string `mapstructure:"store-backend" validate:"oneof=sqlite mysql postgresql none"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	LogLevel string `mapstructure:"log-level" validate:"oneof=debug info warn error"`
	Color    string `mapstructure:"color"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. The corpus root must exist.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := ProcessTableConfig(cfg, input); err != nil {
		return err
	}
	return resolveCorpusRoot(cfg, input)
}

// ProcessTableConfig validates everything except the corpus root.
// It serves commands that only work from the persisted flat table.
func ProcessTableConfig(cfg *Config, input *ConfigRawInput) error {
	normalizeRawInput(input)
	if err := validate.Struct(input); err != nil {
		return describeValidationError(err)
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// normalizeRawInput lowercases enumerated values so validation is case-insensitive.
func normalizeRawInput(input *ConfigRawInput) {
	input.Output = strings.ToLower(strings.TrimSpace(input.Output))
	input.StoreBackend = strings.ToLower(strings.TrimSpace(input.StoreBackend))
	input.LogLevel = strings.ToLower(strings.TrimSpace(input.LogLevel))
	if input.StoreBackend == "" {
		input.StoreBackend = string(schema.NoneBackend)
	}
	if input.LogLevel == "" {
		input.LogLevel = DefaultLogLevel
	}
	if input.Output == "" {
		input.Output = string(schema.CSVOut)
	}
	if input.Color == "" {
		input.Color = "yes"
	}
}

// describeValidationError turns validator field errors into a flag-oriented message.
func describeValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("invalid %s '%v'. must be one of: %s", fe.Field(), fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "excludesall":
			msgs = append(msgs, fmt.Sprintf("%s must be a plain file name (received %q)", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("invalid %s '%v' (%s=%s)", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// validateSimpleInputs transfers and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.AnnotationFile = input.AnnotationFile
	cfg.TableFile = input.TableFile
	cfg.ParquetFile = input.ParquetFile
	cfg.ViewsDir = input.ViewsDir
	cfg.Output = schema.OutputMode(input.Output)
	cfg.Precision = input.Precision
	cfg.Width = input.Width
	cfg.LogLevel = input.LogLevel

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Excludes = splitList(input.Exclude)
	cfg.Views = splitList(input.Views)
	return nil
}

// validateBackendConfig validates the run store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(input.StoreBackend)
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// resolveCorpusRoot makes the corpus root absolute and checks it is a directory.
func resolveCorpusRoot(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.CorpusRootStr) == "" {
		return errors.New("corpus root is required")
	}
	absRoot, err := filepath.Abs(input.CorpusRootStr)
	if err != nil {
		return fmt.Errorf("failed to resolve corpus root %q: %w", input.CorpusRootStr, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return fmt.Errorf("corpus root %q is not accessible: %w", absRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("corpus root %q is not a directory", absRoot)
	}
	cfg.CorpusRoot = absRoot
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ProcessProfilingConfig fills profiling settings from the --profile prefix.
func ProcessProfilingConfig(profile *ProfileConfig, prefix string) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		profile.Enabled = false
		profile.Prefix = ""
		return nil
	}
	if strings.HasSuffix(prefix, string(filepath.Separator)) {
		return fmt.Errorf("profile prefix %q must name a file, not a directory", prefix)
	}
	profile.Enabled = true
	profile.Prefix = prefix
	return nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
