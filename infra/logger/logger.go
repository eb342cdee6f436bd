package logger

import corelogger "github.com/kilianp07/fleetplan/core/logger"

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.Nop

// New returns a Logger for the given component at the default info level.
// The output format is detected via the APP_ENV variable.
func New(component string) Logger {
	return NewZerologLogger(component, "", "")
}

// NewWithConfig returns a Logger for the given component honoring the
// configured level (debug, info, warn, error) and format (json, console).
func NewWithConfig(component, level, format string) Logger {
	return NewZerologLogger(component, level, format)
}
