package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
const (
	FieldInvocationID = "invocation_id"
	FieldCommand      = "command"

	FieldURL        = "url"
	FieldMethod     = "method"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldBody       = "body"

	FieldQuery    = "query"
	FieldEntityID = "entity_id"
	FieldSource   = "source"
	FieldCount    = "count"
	FieldLevel    = "level"

	FieldError = "error"
)

type contextKey string

const invocationIDKey contextKey = "logger_invocation_id"

// WithInvocationID adds the per-invocation ID to the context for logging
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDKey, id)
}

// InvocationID returns the ID stored by WithInvocationID, or "".
func InvocationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(invocationIDKey).(string)
	return id
}

// LoggerFromContext returns the named component logger carrying the
// invocation ID from ctx, when one is set.
func LoggerFromContext(ctx context.Context, component string) *zap.SugaredLogger {
	l := Logger.Named(component)
	if id := InvocationID(ctx); id != "" {
		return l.With(FieldInvocationID, id)
	}
	return l
}
