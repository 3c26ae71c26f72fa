// Package logging provides a leveled logger backed by zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

// ParseLevel parses a log level string. Unknown values mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Format selects the output encoding.
type Format string

const (
	FormatConsole Format = "console" // human-readable, for terminals
	FormatJSON    Format = "json"    // one JSON object per line
)

// ParseFormat parses an output format. Unknown values mean console.
func ParseFormat(s string) Format {
	if strings.ToLower(s) == string(FormatJSON) {
		return FormatJSON
	}
	return FormatConsole
}

// Logger is a leveled logger. Safe for concurrent use.
type Logger struct {
	mu     sync.RWMutex
	z      zerolog.Logger
	format Format
}

// New creates a console logger writing to stderr.
func New(level Level) *Logger {
	return NewWithFormat(level, FormatConsole, os.Stderr)
}

// NewWithFormat creates a logger with an explicit format and destination.
func NewWithFormat(level Level, format Format, w io.Writer) *Logger {
	l := &Logger{format: format}
	l.z = zerolog.New(wrapWriter(format, w)).Level(level.zerolog()).With().Timestamp().Logger()
	return l
}

func wrapWriter(format Format, w io.Writer) io.Writer {
	if format == FormatJSON {
		return w
	}
	return zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000", NoColor: true}
}

// SetOutput sets the log output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.z = l.z.Output(wrapWriter(l.format, w))
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.z = l.z.Level(level.zerolog())
}

// With returns a child logger that adds key=value to every entry.
func (l *Logger) With(key string, value any) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &Logger{
		z:      l.z.With().Interface(key, value).Logger(),
		format: l.format,
	}
}

func (l *Logger) event(level Level) *zerolog.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch level {
	case LevelDebug:
		return l.z.Debug()
	case LevelWarn:
		return l.z.Warn()
	case LevelError:
		return l.z.Error()
	default:
		return l.z.Info()
	}
}

func (l *Logger) log(level Level, format string, args ...any) {
	ev := l.event(level)
	if ev == nil {
		return
	}
	ev.Msg(fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Discard returns a logger that discards all output.
func Discard() *Logger {
	return &Logger{z: zerolog.Nop(), format: FormatJSON}
}
