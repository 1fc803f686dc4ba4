// Package logger provides a configured zerolog logger.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger tagged with the service name and capped
// at the given level ("trace".."error"). Unknown or empty levels fall
// back to info.
func New(serviceName, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
