package logger

import "errors"

// Logger provides a simple logging interface for the executors and utilities
// in this kit. All implementations must be safe for concurrent use across
// multiple goroutines.
type Logger interface {
	// Type returns the type of the logger
	Type() LoggerType
	// Printf logs a formatted message
	Printf(format string, args ...any)
	// Println logs a message with a newline
	Println(message string)
	// Close closes the logger
	Close() error
}

type LoggerType string

const (
	LoggerTypeStdout LoggerType = "stdout"
	LoggerTypeNoop   LoggerType = "noop"
	LoggerTypeWriter LoggerType = "writer"
	LoggerTypeMulti  LoggerType = "multi"
)

// MultiLogger writes to multiple loggers simultaneously.
// Safe for concurrent use if all underlying loggers are safe.
type MultiLogger struct {
	loggers []Logger
}

var _ Logger = (*MultiLogger)(nil)

// NewMultiLogger creates a logger that writes to multiple destinations
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{
		loggers: loggers,
	}
}

func (m *MultiLogger) Type() LoggerType {
	return LoggerTypeMulti
}

func (m *MultiLogger) Printf(format string, args ...any) {
	for _, logger := range m.loggers {
		logger.Printf(format, args...)
	}
}

func (m *MultiLogger) Println(message string) {
	for _, logger := range m.loggers {
		logger.Println(message)
	}
}

func (m *MultiLogger) Close() error {
	var errs []error
	for _, logger := range m.loggers {
		if err := logger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
