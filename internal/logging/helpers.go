package logging

import (
	"context"
	"maps"
	"slices"

	"github.com/goliatone/go-assemble/pkg/interfaces"
)

// WithFields returns logger with fields attached to every entry. Loggers
// implementing interfaces.FieldsLogger receive a copy of fields; any other
// logger is wrapped so the fields are appended to each call's arguments.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	if wrapped, ok := logger.(*argsLogger); ok {
		merged := wrapped.fields()
		maps.Copy(merged, fields)
		return &argsLogger{inner: wrapped.inner, args: FieldArgs(merged)}
	}
	return &argsLogger{inner: logger, args: FieldArgs(fields)}
}

// FieldArgs flattens fields into key/value arguments ordered by key.
func FieldArgs(fields map[string]any) []any {
	keys := slices.Sorted(maps.Keys(fields))
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

// argsLogger appends fixed key/value pairs to every entry of a logger that
// cannot carry fields itself.
type argsLogger struct {
	inner interfaces.Logger
	args  []any
}

func (l *argsLogger) Trace(msg string, args ...any) { l.inner.Trace(msg, l.with(args)...) }
func (l *argsLogger) Debug(msg string, args ...any) { l.inner.Debug(msg, l.with(args)...) }
func (l *argsLogger) Info(msg string, args ...any)  { l.inner.Info(msg, l.with(args)...) }
func (l *argsLogger) Warn(msg string, args ...any)  { l.inner.Warn(msg, l.with(args)...) }
func (l *argsLogger) Error(msg string, args ...any) { l.inner.Error(msg, l.with(args)...) }
func (l *argsLogger) Fatal(msg string, args ...any) { l.inner.Fatal(msg, l.with(args)...) }

func (l *argsLogger) WithContext(ctx context.Context) interfaces.Logger {
	return &argsLogger{inner: l.inner.WithContext(ctx), args: l.args}
}

func (l *argsLogger) with(args []any) []any {
	out := make([]any, 0, len(l.args)+len(args))
	out = append(out, l.args...)
	return append(out, args...)
}

func (l *argsLogger) fields() map[string]any {
	fields := make(map[string]any, len(l.args)/2)
	for i := 0; i+1 < len(l.args); i += 2 {
		if key, ok := l.args[i].(string); ok {
			fields[key] = l.args[i+1]
		}
	}
	return fields
}
