package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var zlog = zerolog.New(os.Stdout).With().
	Timestamp().
	Str("service", "sportlink-backend").
	Logger()

// Init initializes the structured logger. Console output in development,
// JSON everywhere else.
func Init(env string) {
	var w io.Writer

	if env == "development" || env == "dev" || env == "" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	} else {
		w = os.Stdout
	}

	zlog = zerolog.New(w).With().
		Timestamp().
		Str("service", "sportlink-backend").
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339
}

// Get returns the global logger
func Get() *zerolog.Logger {
	return &zlog
}

// WithUserID returns a logger with a user_id field attached
func WithUserID(userID string) zerolog.Logger {
	return zlog.With().Str("user_id", userID).Logger()
}
