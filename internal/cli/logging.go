package cli

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLogLevel sets the default for --log-level.
const EnvLogLevel = "MODELDEPLOY_LOG_LEVEL"

// parseLevel maps a user-supplied level to zerolog. Unknown values mean info.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// newLogger returns a logger writing to w. format is "json" or "console".
func newLogger(w io.Writer, level, format string) zerolog.Logger {
	if strings.ToLower(format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).Level(parseLevel(level)).With().Timestamp().Logger()
}
