package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-assemble/internal/logging"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

// TelemetryStatus is the outcome class of one command run.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes a finished command run. Logger is already bound
// to the run's context and Fields.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is called once after every command run.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs command.execute.<status> with the run duration. A
// failure also carries the normalized error code (PARSE_ERROR,
// LAYOUT_ERROR, ...) so build failures can be filtered by kind.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(ctx context.Context, _ T, info TelemetryInfo) {
		entry := info.Logger
		if entry == nil {
			entry = logging.WithFields(logging.FromContext(ctx, logger), info.Fields)
		}
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		if info.Status == TelemetryStatusSuccess {
			entry.Info("command.execute.success", args...)
			return
		}
		args = append(args, "error", info.Error)
		if normalized := Normalize(info.Error); normalized != nil && normalized.TextCode != "" {
			args = append(args, "code", normalized.TextCode)
		}
		entry.Error("command.execute."+string(info.Status), args...)
	}
}
