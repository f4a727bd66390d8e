package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-assemble/pkg/interfaces"
)

const (
	rootModule      = "assemble"
	taxonomyModule  = "assemble.taxonomy"
	generatorModule = "assemble.generator"
	templatesModule = "assemble.templates"
)

const (
	fieldSourcePath = "source"
	fieldSection    = "section"
	fieldNodeID     = "node_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{"module": module})
}

// TaxonomyLogger returns the logger namespace reserved for the taxonomy builder.
func TaxonomyLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, taxonomyModule)
}

// GeneratorLogger returns the logger namespace reserved for build orchestration.
func GeneratorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, generatorModule)
}

// TemplatesLogger returns the logger namespace reserved for the template engine.
func TemplatesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, templatesModule)
}

// WithNodeContext enriches the provided logger with the source file, section
// and node identifier being processed. Empty values are ignored.
func WithNodeContext(logger interfaces.Logger, source, section, nodeID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(source); trimmed != "" {
		fields[fieldSourcePath] = trimmed
	}
	if trimmed := strings.TrimSpace(section); trimmed != "" {
		fields[fieldSection] = trimmed
	}
	if trimmed := strings.TrimSpace(nodeID); trimmed != "" {
		fields[fieldNodeID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
