package shared

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a config log level to zerolog, with debug forcing
// DebugLevel.
func ParseLevel(name string, debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// SetupLogger configures zerolog with pretty console output on stderr
func SetupLogger(level zerolog.Level) zerolog.Logger {
	return newLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, level)
}

// SetupStructuredLogger configures zerolog for structured (JSON) output on stderr
func SetupStructuredLogger(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return newLogger(os.Stderr, level)
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}
