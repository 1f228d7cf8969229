// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"

	// LevelDisabled turns logging off.
	LevelDisabled LogLevel = "off"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Validate checks the level name. An empty level means info.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.By(func(v any) error {
			level, _ := v.(LogLevel)
			if _, ok := lookupLevel(level); !ok && level != "" {
				return fmt.Errorf("unknown level %q", level)
			}
			return nil
		})),
	)
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}

	logger := zerolog.New(out).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

func lookupLevel(level LogLevel) (zerolog.Level, bool) {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "off", "disabled":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

// parseLevel converts LogLevel to zerolog.Level; unknown names mean info.
func parseLevel(level LogLevel) zerolog.Level {
	l, _ := lookupLevel(level)
	return l
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// ForRequest returns a child logger carrying the fields that identify one
// logical call across its attempts.
func ForRequest(l zerolog.Logger, requestID, method, path string) zerolog.Logger {
	return l.With().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Each attempt being sent
//   - Cache hits and writes
//   - Pages fetched by iterators
//   - Rate limit state updates
//
// Info: Normal operation events
//   - Requests that succeeded after a retry
//   - Waiting for the rate limit window to reset
//   - Rate limit window refreshes
//
// Warn: Warning conditions that don't prevent operation
//   - Retry attempts
//   - Unparseable rate limit headers
//   - Cache errors (fallback to direct request)
//
// Error: Error conditions requiring attention
//   - Calls that failed terminally or exhausted their attempts
//
// Context Fields:
//   - component: client, ratelimit, pagination, cli
//   - request_id: per-call UUID, also sent as X-Request-ID
//   - method, path: HTTP method and versioned endpoint
//   - attempt: 1-based physical attempt number
//   - status: HTTP status code
//   - error_class: network, rate_limit, authentication, not_found, validation, server, unexpected
//   - delay: wait before the next attempt or window reset
//   - remaining, reset_at: rate limit window state
//   - page, cursor, items: pagination progress
