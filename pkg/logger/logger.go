// Package logger provides a structured, levelled logger built on log/slog.
//
// The handler behind L is wrapped so that every record logged with a context
// carrying a request ID gets a request_id attribute, without the caller
// passing the ID around:
//
//	logger.L.InfoContext(r.Context(), "division done", "output", q)
//	// → time=... level=INFO msg="division done" output=2 request_id=internal-8a1c...
//
// WithCtx returns a logger with the ID already attached, for code that logs
// many lines or hands the logger to another package.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/reqscope/config"
	"github.com/shashiranjanraj/reqscope/pkg/reqid"
)

// L is the process-wide logger.
var L *slog.Logger

func init() {
	L = New(os.Stdout, config.AppEnv(), config.LogLevel())
	slog.SetDefault(L)
}

// New builds a logger for env: JSON for production, text otherwise.
func New(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch env {
	case "production", "prod":
		handler = slog.NewJSONHandler(w, opts) // structured JSON for log aggregators
	default:
		handler = slog.NewTextHandler(w, opts) // human-readable for dev
	}

	return slog.New(NewContextHandler(handler))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ─────────────────────────────────────────────
// Context-aware handler
// ─────────────────────────────────────────────

// ContextHandler adds the bound request ID to every record handled with a
// context that carries one.
type ContextHandler struct {
	next slog.Handler
}

func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if id, ok := reqid.Lookup(ctx); ok {
		rec.AddAttrs(slog.String("request_id", id.String()))
	}
	return h.next.Handle(ctx, rec)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}

// WithCtx returns L pre-tagged with the request_id bound to ctx.
// If no request ID is present the base logger is returned unchanged.
func WithCtx(ctx context.Context) *slog.Logger {
	id, ok := reqid.Lookup(ctx)
	if !ok {
		return L
	}
	// The tagged logger skips the context handler so the attribute is not
	// added twice when it is later used with a context.
	base := L.Handler()
	if ch, ok := base.(*ContextHandler); ok {
		base = ch.next
	}
	return slog.New(base).With("request_id", id.String())
}

// ─────────────────────────────────────────────
// Short-hand helpers (use base logger)
// ─────────────────────────────────────────────

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }
