package staticcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-assemble/internal/generator"
)

const (
	buildSiteMessageType = "assemble.static.build"
	diffSiteMessageType  = "assemble.static.diff"
	cleanSiteMessageType = "assemble.static.clean"
)

// ResultCallback receives build results produced by generator operations. The callback is optional
// and is invoked synchronously from the handler when a BuildResult is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a static command execution that generated a BuildResult.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand executes a generator build, optionally restricted to a
// subset of sections.
type BuildSiteCommand struct {
	Sections       []string       `json:"sections,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate rejects blank section names.
func (m BuildSiteCommand) Validate() error {
	return validateSections("assemble.static.build", m.Sections)
}

// DiffSiteCommand renders every selected section without writing artifacts.
type DiffSiteCommand struct {
	Sections       []string       `json:"sections,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (DiffSiteCommand) Type() string { return diffSiteMessageType }

// Validate rejects blank section names.
func (m DiffSiteCommand) Validate() error {
	return validateSections("assemble.static.diff", m.Sections)
}

// CleanSiteCommand removes the output directory.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }

// FeatureGates exposes runtime switches used to guard handler execution.
type FeatureGates struct {
	GeneratorEnabled func() bool
}

func (g FeatureGates) generatorEnabled() bool {
	if g.GeneratorEnabled == nil {
		return false
	}
	return g.GeneratorEnabled()
}

func validateSections(prefix string, sections []string) error {
	errs := validation.Errors{}
	for _, section := range sections {
		if strings.TrimSpace(section) == "" {
			errs["sections"] = validation.NewError(prefix+".section_invalid", "sections must not contain empty values")
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
