// Package generator exposes the static site assembly API for hosts that wire
// their own file store. Use NewService with Config and Dependencies.
package generator

import internal "github.com/goliatone/go-assemble/internal/generator"

type (
	Service      = internal.Service
	Config       = internal.Config
	BuildOptions = internal.BuildOptions
	BuildResult  = internal.BuildResult
	RenderedPage = internal.RenderedPage
	Dependencies = internal.Dependencies
)

const (
	SectionPartials = internal.SectionPartials
	SectionGuide    = internal.SectionGuide
	SectionPages    = internal.SectionPages
)

var ErrServiceDisabled = internal.ErrServiceDisabled

// NewService wires a generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return internal.NewDisabledService()
}
