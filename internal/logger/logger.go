package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/jwebster45206/quest-helper/internal/config"
)

// Setup builds the service logger from config and installs it as the slog
// default.
func Setup(cfg *config.Config) *slog.Logger {
	l := New(os.Stdout, cfg.Environment, cfg.LogLevel)
	slog.SetDefault(l)
	return l
}

// New returns a JSON logger in production and a text logger elsewhere.
func New(w io.Writer, environment string, level slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

type requestIDKey struct{}

// ContextWithRequestID tags ctx with the id of the request being served.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the id stored by ContextWithRequestID.
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// FromContext scopes base to the request carried by ctx, if any.
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if id, ok := RequestID(ctx); ok {
		return WithRequestID(base, id)
	}
	return base
}

// WithRequestID adds request ID to logger context
func WithRequestID(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With("request_id", requestID)
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	if err == nil {
		return logger
	}
	return logger.With("error", err.Error())
}
