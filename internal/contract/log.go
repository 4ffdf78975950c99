package contract

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logMu  sync.Mutex
	logger = newLogger(os.Stderr, zerolog.InfoLevel)
)

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// InitLogger sets the writer and minimum level of the process logger.
// Unknown levels fall back to info.
func InitLogger(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	logMu.Lock()
	defer logMu.Unlock()
	logger = newLogger(w, lvl)
}

// Logger returns the process logger for callers that need structured fields.
func Logger() *zerolog.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	l := logger
	return &l
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger().Error().Err(err).Msg("Fatal " + msg)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger().Warn().Err(err).Msg(msg)
}

// LogInfo logs an informational message with optional key/value fields.
func LogInfo(msg string, fields map[string]any) {
	Logger().Info().Fields(fields).Msg(msg)
}

// LogDebug logs a debug message with optional key/value fields.
func LogDebug(msg string, fields map[string]any) {
	Logger().Debug().Fields(fields).Msg(msg)
}
