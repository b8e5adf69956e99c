// Package logger provides structured logging for hyperfind.
package logger

import (
	"context"
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"
)

// LogFilePermissions defines the file permissions for log files (owner read/write only).
const LogFilePermissions = 0o600

// Logger provides structured logging interface.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger with additional key-value pairs.
	With(keysAndValues ...any) Logger
}

// SlogAdapter implements Logger on top of log/slog.
type SlogAdapter struct {
	logger  *slog.Logger
	handler *CustomHandler
}

// NewSlogAdapter wraps the given handler.
func NewSlogAdapter(handler *CustomHandler) *SlogAdapter {
	return &SlogAdapter{
		logger:  slog.New(handler),
		handler: handler,
	}
}

// NewFileLogger creates a logger that appends to the file at filePath.
func NewFileLogger(filePath string, debugMode, traceMode bool) (*SlogAdapter, error) {
	handler, err := NewFileHandler(filePath, LevelFromFlags(debugMode, traceMode))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open log file %s", filePath)
	}

	return NewSlogAdapter(handler), nil
}

// NewFileLoggerWithWriter creates a logger that writes to w.
func NewFileLoggerWithWriter(w io.Writer, debugMode, traceMode bool) *SlogAdapter {
	return NewSlogAdapter(NewWriterHandler(w, LevelFromFlags(debugMode, traceMode)))
}

// Debug logs debug-level messages.
func (a *SlogAdapter) Debug(msg string, keysAndValues ...any) {
	a.logger.Log(context.Background(), slog.LevelDebug, msg, keysAndValues...)
}

// Info logs info-level messages.
func (a *SlogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Log(context.Background(), slog.LevelInfo, msg, keysAndValues...)
}

// Error logs error-level messages.
func (a *SlogAdapter) Error(msg string, keysAndValues ...any) {
	a.logger.Log(context.Background(), slog.LevelError, msg, keysAndValues...)
}

// With returns a new logger with additional base key-value pairs.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (a *SlogAdapter) With(keysAndValues ...any) Logger {
	return &SlogAdapter{
		logger:  a.logger.With(keysAndValues...),
		handler: a.handler,
	}
}

// Slog exposes the underlying slog.Logger.
func (a *SlogAdapter) Slog() *slog.Logger {
	return a.logger
}

// Close closes the log destination if it is closable.
func (a *SlogAdapter) Close() error {
	return a.handler.Close()
}

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same NoOpLogger.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}
