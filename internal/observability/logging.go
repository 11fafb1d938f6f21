// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// Context keys picked up by the context-aware handler.
const (
	RequestIDKey LogContextKey = "request_id"
	TraceIDKey   LogContextKey = "trace_id"
	ViewKey      LogContextKey = "view"
)

// ctxHandler adds request-scoped values to every record.
type ctxHandler struct {
	slog.Handler
}

func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if rid, ok := ctx.Value(RequestIDKey).(string); ok {
		r.AddAttrs(slog.String("request_id", rid))
	}
	if tid, ok := ctx.Value(TraceIDKey).(string); ok {
		r.AddAttrs(slog.String("trace_id", tid))
	}
	if view, ok := ctx.Value(ViewKey).(string); ok {
		r.AddAttrs(slog.String("view", view))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{h.Handler.WithGroup(name)}
}

func init() {
	InitLogger(os.Getenv("APP_ENV"), os.Stdout)
}

// InitLogger replaces GlobalLogger: JSON in production, text elsewhere.
func InitLogger(env string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if env == "production" || env == "prod" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	GlobalLogger = &Logger{Logger: slog.New(&ctxHandler{handler})}
	return GlobalLogger
}

// WithView tags ctx so that log records carry the view name.
func WithView(ctx context.Context, view string) context.Context {
	return context.WithValue(ctx, ViewKey, view)
}

// APILogger provides structured logging for remote API calls.
type APILogger struct {
	operation string
	logger    *Logger
}

// NewAPILogger creates a logger for one data access operation.
func NewAPILogger(operation string) *APILogger {
	return &APILogger{operation: operation, logger: GlobalLogger}
}

// LogAttempt logs one HTTP attempt against the remote API.
func (l *APILogger) LogAttempt(ctx context.Context, method, url string, attempt, status int, latency time.Duration) {
	l.logger.DebugContext(ctx, "api attempt",
		slog.String("operation", l.operation),
		slog.String("method", method),
		slog.String("url", url),
		slog.Int("attempt", attempt),
		slog.Int("status", status),
		slog.Duration("latency", latency),
	)
}

// LogRetry logs a failed attempt that will be retried.
func (l *APILogger) LogRetry(ctx context.Context, err error, remaining int) {
	l.logger.WarnContext(ctx, "api attempt failed, retrying",
		slog.String("operation", l.operation),
		slog.Int("retries_left", remaining),
		slog.String("error", err.Error()),
	)
}

// LogFallback logs the substitution of mock data for a failed read.
func (l *APILogger) LogFallback(ctx context.Context, err error, items int) {
	l.logger.WarnContext(ctx, "api unavailable, using mock data",
		slog.String("operation", l.operation),
		slog.Int("items", items),
		slog.String("error", err.Error()),
	)
}

// LogError logs a failure that is surfaced or swallowed by policy.
func (l *APILogger) LogError(ctx context.Context, err error, fields map[string]any) {
	attrs := []any{
		slog.String("operation", l.operation),
		slog.String("error", err.Error()),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.ErrorContext(ctx, "api error", attrs...)
}

// LogSuccess logs a completed call.
func (l *APILogger) LogSuccess(ctx context.Context, items int) {
	l.logger.InfoContext(ctx, "api call succeeded",
		slog.String("operation", l.operation),
		slog.Int("items", items),
	)
}
