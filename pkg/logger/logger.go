package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "academic-hub"

// New returns a console logger at info level, used before configuration is
// available.
func New() zerolog.Logger {
	return build(os.Stdout, "info", true, false)
}

// NewWithConfig builds the service logger. Pretty output goes through
// zerolog.ConsoleWriter, otherwise one JSON object per line is written.
func NewWithConfig(level string, pretty, noColor bool) zerolog.Logger {
	return build(os.Stdout, level, pretty, noColor)
}

func build(out io.Writer, level string, pretty, noColor bool) zerolog.Logger {
	if pretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    noColor,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}
