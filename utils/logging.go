package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logOut io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

// GetLogger returns a named console logger. Every subsystem gets its own so
// log lines can be filtered by component.
func GetLogger(name string) zerolog.Logger {
	return zerolog.New(logOut).With().Timestamp().Str("comp", name).Logger()
}

// SetLogOutput redirects all loggers created after the call. Tests use this
// to silence output.
func SetLogOutput(out io.Writer) {
	logOut = out
}
