// Package errors provides error types, formatting and logging utilities for commitassist.
package errors

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides leveled diagnostic logging with verbose mode support.
type Logger struct {
	mu      sync.Mutex
	output  io.Writer
	verbose bool
	zl      zerolog.Logger
}

// Global logger instance
var defaultLogger = NewLogger(os.Stderr, false)

// NewLogger creates a new logger writing human-readable lines to output.
// Only errors are emitted unless verbose is set.
func NewLogger(output io.Writer, verbose bool) *Logger {
	l := &Logger{output: output, verbose: verbose}
	l.rebuild()
	return l
}

// rebuild recreates the zerolog logger from the current settings. Callers hold mu
// or own l exclusively.
func (l *Logger) rebuild() {
	level := zerolog.ErrorLevel
	if l.verbose {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{
		Out:        l.output,
		NoColor:    true,
		TimeFormat: "15:04:05",
	}
	l.zl = zerolog.New(cw).Level(level).With().Timestamp().Logger()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(verbose bool) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.verbose = verbose
	defaultLogger.rebuild()
}

// IsVerbose returns whether verbose logging is enabled.
func IsVerbose() bool {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	return defaultLogger.verbose
}

// SetOutput sets the output writer for the logger.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.output = w
	defaultLogger.rebuild()
}

func (l *Logger) logger() zerolog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.zl
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	zl := l.logger()
	zl.Error().Msg(fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	zl := l.logger()
	zl.Warn().Msg(fmt.Sprintf(format, args...))
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) {
	zl := l.logger()
	zl.Info().Msg(fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	zl := l.logger()
	zl.Debug().Msg(fmt.Sprintf(format, args...))
}

// LogAPIRequest logs an inference request in verbose mode.
func (l *Logger) LogAPIRequest(api, endpoint, model string, promptLength int) {
	zl := l.logger()
	zl.Debug().
		Str("api", api).
		Str("endpoint", endpoint).
		Str("model", model).
		Int("prompt_length", promptLength).
		Msg("inference request")
}

// LogAPIResponse logs an inference response in verbose mode.
func (l *Logger) LogAPIResponse(api string, statusCode int, responseLength int, duration time.Duration) {
	zl := l.logger()
	zl.Debug().
		Str("api", api).
		Int("status", statusCode).
		Int("response_length", responseLength).
		Dur("duration", duration).
		Msg("inference response")
}

// LogCommand logs a subprocess invocation in verbose mode.
func (l *Logger) LogCommand(binary string, args []string, exitCode int, duration time.Duration) {
	zl := l.logger()
	zl.Debug().
		Str("binary", binary).
		Strs("args", args).
		Int("exit_code", exitCode).
		Dur("duration", duration).
		Msg("command finished")
}

// Package-level logging functions using the default logger

// Error logs an error message.
func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

// Info logs an info message.
func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

// LogAPIRequest logs an inference request in verbose mode.
func LogAPIRequest(api, endpoint, model string, promptLength int) {
	defaultLogger.LogAPIRequest(api, endpoint, model, promptLength)
}

// LogAPIResponse logs an inference response in verbose mode.
func LogAPIResponse(api string, statusCode int, responseLength int, duration time.Duration) {
	defaultLogger.LogAPIResponse(api, statusCode, responseLength, duration)
}

// LogCommand logs a subprocess invocation in verbose mode.
func LogCommand(binary string, args []string, exitCode int, duration time.Duration) {
	defaultLogger.LogCommand(binary, args, exitCode, duration)
}
