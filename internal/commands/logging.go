package commands

import (
	"context"
	"strings"

	"github.com/goliatone/go-assemble/internal/logging"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

const commandModuleRoot = "assemble.commands"

// CommandLogger returns the logger for a group of command handlers, named
// assemble.commands.<group> ("static" for build, diff and clean).
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	name := strings.TrimSpace(group)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.ModuleLogger(provider, commandModuleRoot+"."+name), map[string]any{
		"component":      "command",
		"command_module": name,
	})
}

// bindCommand records the command fields on ctx, so the generator's entries
// for this run carry the command, its operation and its options, and returns
// the handler logger bound to that ctx.
func bindCommand(ctx context.Context, logger interfaces.Logger, fields map[string]any) (context.Context, interfaces.Logger) {
	ctx = logging.WithBuildFields(ctx, fields)
	return ctx, logging.FromContext(ctx, logger)
}
