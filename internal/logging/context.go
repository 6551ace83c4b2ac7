package logging

import (
	"context"

	"go.uber.org/zap"
)

// fieldsCtxKey is the context key for correlation fields.
type fieldsCtxKey struct{}

// loggerCtxKey is the context key for Logger.
type loggerCtxKey struct{}

// WithFields appends correlation fields to the context. Fields accumulate:
// nested calls see the union of everything attached upstream.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	existing := ContextFields(ctx)
	merged := make([]zap.Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, fieldsCtxKey{}, merged)
}

// ContextFields extracts correlation fields from context.
func ContextFields(ctx context.Context) []zap.Field {
	if f, ok := ctx.Value(fieldsCtxKey{}).([]zap.Field); ok {
		return f
	}
	return nil
}

// WithLogger stores logger in context.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// FromContext retrieves logger from context.
// Returns a nop logger if not found.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*Logger); ok {
		return l
	}
	return NewNop()
}
