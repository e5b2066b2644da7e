// Package logger provides the structured, levelled logger used across Bistro,
// built on log/slog.
//
// Handlers output JSON in production and human-readable text everywhere else.
// The key extension over plain slog is WithCtx: it returns a logger with the
// request ID already attached, so every log line written from a handler is
// automatically correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("booking confirmed", "code", code)
//	// → time=... level=INFO msg="booking confirmed" request_id=a1b2c3d4 code=RES99999123
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/dnguyen-dev/bistro/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	// Optional MongoDB sink for log aggregation (see mongo_handler.go).
	if uri := config.Get("LOG_MONGO_URI", ""); uri != "" {
		if mh, err := NewMongoHandler(uri, handler); err == nil {
			handler = mh
		}
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

type ctxKey struct{}

// WithCtx returns the per-request *slog.Logger injected by the request-logging
// middleware, or the base logger when none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// Inject stores a pre-tagged *slog.Logger into ctx. Called by the request
// logging middleware; application code rarely needs this directly.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level on the base logger.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level on the base logger.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level on the base logger.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level on the base logger.
func Error(msg string, args ...any) { L.Error(msg, args...) }
