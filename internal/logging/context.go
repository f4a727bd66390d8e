package logging

import (
	"context"
	"maps"

	"github.com/goliatone/go-assemble/pkg/interfaces"
)

type contextKey struct{}

// WithBuildFields returns ctx annotated with fields that every logger bound
// through FromContext attaches to its entries. Command handlers record the
// command and its options; the generator adds the build id. Later calls win
// on shared keys.
func WithBuildFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(fields) == 0 {
		return ctx
	}
	merged := BuildFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextKey{}, merged)
}

// BuildFields returns a copy of the fields recorded on ctx, or nil.
func BuildFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(contextKey{}).(map[string]any)
	if len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// FromContext binds logger to ctx and attaches the fields recorded on it.
func FromContext(ctx context.Context, logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		logger = NoOp()
	}
	if ctx == nil {
		return logger
	}
	return WithFields(logger.WithContext(ctx), BuildFields(ctx))
}
