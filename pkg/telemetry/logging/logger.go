package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// LogFormat represents the output format for logs.
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in plain text format.
	FormatText LogFormat = "text"
	// FormatConsole outputs logs in human-readable console format.
	FormatConsole LogFormat = "console"
)

// Logger is the process logger. Request-scoped loggers are derived from it
// with NewRequest and share its writer and format.
type Logger struct {
	// slog is the underlying structured logger, filtered at level
	slog *slog.Logger

	// verbose writes through the same handler settings with debug enabled.
	// Request loggers use it and apply their own gating.
	verbose *slog.Logger

	// redactor masks credentials in logged URLs and sensitive fields
	redactor *Redactor

	// level is the minimum process log level
	level slog.Level
}

// Config contains configuration for the Logger.
type Config struct {
	// Level is the minimum log level ("debug", "info", "warn", "error")
	Level string

	// Format is the output format ("json", "text", "console")
	Format string

	// AddSource includes file and line number in logs
	AddSource bool

	// RedactURLs masks sensitive query parameters in logged URLs
	RedactURLs bool

	// Writer is the output writer (defaults to os.Stdout)
	Writer io.Writer
}

// New creates a new Logger with the given configuration.
func New(cfg Config) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	var redactor *Redactor
	if cfg.RedactURLs {
		redactor = NewRedactor()
	}

	return &Logger{
		slog:     slog.New(newHandler(writer, format, level, cfg.AddSource)),
		verbose:  slog.New(newHandler(writer, format, slog.LevelDebug, cfg.AddSource)),
		redactor: redactor,
		level:    level,
	}, nil
}

func newHandler(w io.Writer, format LogFormat, level slog.Level, addSource bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	}

	switch format {
	case FormatText, FormatConsole:
		return slog.NewTextHandler(w, opts)
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

// Slog returns the underlying slog.Logger, suitable for slog.SetDefault.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(context.Background(), slog.LevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(context.Background(), slog.LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(context.Background(), slog.LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(context.Background(), slog.LevelError, msg, args...)
}

func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if !l.slog.Enabled(ctx, level) {
		return
	}
	if l.redactor != nil {
		args = l.redactor.RedactArgs(args...)
	}
	l.slog.Log(ctx, level, msg, args...)
}

// NewRequest returns a request-scoped logger. Info and above follow the
// process level; Debug lines are written when level is LevelDebug or the
// process itself runs at debug.
func (l *Logger) NewRequest(ctx context.Context, level Level) *RequestLogger {
	return &RequestLogger{
		slog:     l.verbose.With(extractContextFields(ctx)...),
		redactor: l.redactor,
		floor:    l.level,
		debug:    level == LevelDebug || l.level <= slog.LevelDebug,
	}
}

// parseLevel parses a log level string into slog.Level.
func parseLevel(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "debug", "DEBUG":
		return slog.LevelDebug, nil
	case "info", "INFO", "":
		return slog.LevelInfo, nil
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn, nil
	case "error", "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", levelStr)
	}
}

// parseFormat parses a log format string into LogFormat.
func parseFormat(formatStr string) (LogFormat, error) {
	switch formatStr {
	case "json", "JSON", "":
		return FormatJSON, nil
	case "text", "TEXT":
		return FormatText, nil
	case "console", "CONSOLE":
		return FormatConsole, nil
	default:
		return FormatJSON, fmt.Errorf("unknown log format: %s", formatStr)
	}
}
