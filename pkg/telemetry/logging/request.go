package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Level is the per-request verbosity selected by the caller.
type Level int

const (
	// LevelInfo writes the fixed sequence of lines every request produces.
	LevelInfo Level = iota
	// LevelDebug adds supplementary lines between the Info lines.
	LevelDebug
)

// String returns the header form of the level.
func (l Level) String() string {
	if l == LevelDebug {
		return "debug"
	}
	return "info"
}

// ParseLevel reads the log-level header. Only "debug" (any case) selects
// LevelDebug.
func ParseLevel(raw string) Level {
	if strings.EqualFold(strings.TrimSpace(raw), "debug") {
		return LevelDebug
	}
	return LevelInfo
}

// RequestLogger writes the log lines of one request. Debug and Info lines
// are emitted from the same call sites, so a request at LevelDebug produces
// every line it would produce at LevelInfo, in the same order, plus its
// Debug lines.
type RequestLogger struct {
	slog     *slog.Logger
	redactor *Redactor
	floor    slog.Level
	debug    bool
}

// NewRequestLogger wraps an arbitrary slog.Logger. It is mainly useful in
// tests; production code derives request loggers from Logger.NewRequest.
func NewRequestLogger(l *slog.Logger, level Level) *RequestLogger {
	return &RequestLogger{
		slog:  l,
		floor: slog.LevelInfo,
		debug: level == LevelDebug,
	}
}

// Nop returns a logger that discards everything.
func Nop() *RequestLogger {
	return &RequestLogger{
		slog:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		floor: slog.LevelError + 1,
	}
}

// DebugEnabled reports whether Debug lines are written.
func (r *RequestLogger) DebugEnabled() bool {
	return r.debug
}

// Debug logs a supplementary line. It is a no-op unless debug is enabled.
func (r *RequestLogger) Debug(msg string, args ...any) {
	if !r.debug {
		return
	}
	r.write(slog.LevelDebug, msg, args)
}

// Info logs a line of the fixed request sequence.
func (r *RequestLogger) Info(msg string, args ...any) {
	if slog.LevelInfo < r.floor {
		return
	}
	r.write(slog.LevelInfo, msg, args)
}

// Warn logs a warning.
func (r *RequestLogger) Warn(msg string, args ...any) {
	if slog.LevelWarn < r.floor {
		return
	}
	r.write(slog.LevelWarn, msg, args)
}

// Error logs an error.
func (r *RequestLogger) Error(msg string, args ...any) {
	if slog.LevelError < r.floor {
		return
	}
	r.write(slog.LevelError, msg, args)
}

func (r *RequestLogger) write(level slog.Level, msg string, args []any) {
	if r.redactor != nil {
		args = r.redactor.RedactArgs(args...)
	}
	r.slog.Log(context.Background(), level, msg, args...)
}

// URL returns raw with credentials masked when redaction is enabled.
func (r *RequestLogger) URL(raw string) string {
	if r.redactor == nil {
		return raw
	}
	return r.redactor.RedactURL(raw)
}

type requestLoggerKey struct{}

// WithRequestLogger stores the request logger in ctx.
func WithRequestLogger(ctx context.Context, rl *RequestLogger) context.Context {
	return context.WithValue(ctx, requestLoggerKey{}, rl)
}

// FromContext returns the request logger stored in ctx, or a logger that
// discards everything.
func FromContext(ctx context.Context) *RequestLogger {
	if rl, ok := ctx.Value(requestLoggerKey{}).(*RequestLogger); ok && rl != nil {
		return rl
	}
	return Nop()
}
