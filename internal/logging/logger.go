// Package logging provides the structured logging abstraction used by every
// package of ebh-import. Components depend on the Logger interface only, so the
// pure classifiers can run with a no-op logger and tests can capture entries.
package logging

// Logger defines the interface for structured logging throughout the application.
type Logger interface {
	// Debug logs a debug-level message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with optional fields
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with optional fields
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with optional fields
	Error(msg string, fields ...Field)

	// WithError returns a new logger with an error field attached
	WithError(err error) Logger

	// WithField returns a new logger with a single field attached
	WithField(key string, value interface{}) Logger

	// WithFields returns a new logger with multiple fields attached
	WithFields(fields ...Field) Logger

	// Fatal logs a fatal-level message and exits the program
	Fatal(msg string, fields ...Field)

	// Fatalf logs a fatal-level message with formatting and exits the program
	Fatalf(msg string, args ...interface{})
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value interface{}
}

// OrNop returns logger, or a NopLogger when logger is nil.
func OrNop(logger Logger) Logger {
	if logger == nil {
		return NopLogger{}
	}
	return logger
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field)                 {}
func (NopLogger) Info(string, ...Field)                  {}
func (NopLogger) Warn(string, ...Field)                  {}
func (NopLogger) Error(string, ...Field)                 {}
func (n NopLogger) WithError(error) Logger               { return n }
func (n NopLogger) WithField(string, interface{}) Logger { return n }
func (n NopLogger) WithFields(...Field) Logger           { return n }
func (NopLogger) Fatal(string, ...Field)                 {}
func (NopLogger) Fatalf(string, ...interface{})          {}
