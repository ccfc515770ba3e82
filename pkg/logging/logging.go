// Package logging provides JSON structured logging using zerolog.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger writing JSON to stderr at the given level. An invalid
// or empty level falls back to info.
func New(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
