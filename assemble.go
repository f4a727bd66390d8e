// Package assemble builds a static pattern-library site from partials,
// guide pages, content pages and layouts.
package assemble

import (
	"context"

	"github.com/goliatone/go-assemble/commands"
	staticcmd "github.com/goliatone/go-assemble/internal/commands/static"
	"github.com/goliatone/go-assemble/internal/di"
	"github.com/goliatone/go-assemble/internal/generator"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

// GeneratorService exports the build contract.
type GeneratorService = generator.Service

// BuildOptions exports the per-run build options.
type BuildOptions = generator.BuildOptions

// BuildResult exports the build summary.
type BuildResult = generator.BuildResult

// Section names accepted by BuildOptions.Sections. The index page is
// selected with SectionIndex.
const (
	SectionPartials = generator.SectionPartials
	SectionGuide    = generator.SectionGuide
	SectionPages    = generator.SectionPages
	SectionIndex    = "index"
)

// Module represents the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Generator returns the configured generator service.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// LoggerProvider returns the provider backing every module logger.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.container.LoggerProvider()
}

// Build runs the pipeline through the build command handler so validation,
// timeouts and error categories match the CLI.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	var result *BuildResult
	err := m.container.StaticHandlers().Build.Execute(ctx, staticcmd.BuildSiteCommand{
		Sections: opts.Sections,
		DryRun:   opts.DryRun,
		ResultCallback: func(env staticcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	return result, err
}

// Clean removes the output directory.
func (m *Module) Clean(ctx context.Context) error {
	return m.container.StaticHandlers().Clean.Execute(ctx, staticcmd.CleanSiteCommand{})
}

// RegisterCommands registers the build, diff and clean handlers with the
// provided go-command registry and dispatcher.
func (m *Module) RegisterCommands(opts commands.RegistrationOptions) (*commands.RegistrationResult, error) {
	return commands.RegisterContainerCommands(m.container, opts)
}
