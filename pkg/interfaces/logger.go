package interfaces

import "context"

// Logger is the leveled logger every build stage writes to. Messages are
// dotted event names (generator.page.written) followed by key/value pairs.
// The method set matches go-logger's glog.Logger, so its loggers can be
// adapted without translation.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	// WithContext binds the logger to ctx, including any build fields
	// recorded on it.
	WithContext(ctx context.Context) Logger
}

// LoggerProvider resolves a logger for a module name such as
// "assemble.taxonomy" or "assemble.commands.static".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry fields natively.
// Loggers without it get fields appended to each entry's arguments.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
