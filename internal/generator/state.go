package generator

import (
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-assemble/internal/markdown"
	"github.com/goliatone/go-assemble/internal/taxonomy"
	"github.com/goliatone/go-assemble/internal/templates"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

// BuildState holds everything one build produces. A fresh state is created
// per Build call and discarded afterwards.
type BuildState struct {
	ID        uuid.UUID
	StartedAt time.Time
	Taxonomy  *taxonomy.Taxonomy
	Layouts   *templates.Layouts
	// Data is the site data keyed by data file identifier.
	Data map[string]any
	// Index is the optional index document.
	Index  *markdown.Document
	Engine interfaces.TemplateEngine

	base map[string]any
}

// NewBuildState returns an empty state bound to engine.
func NewBuildState(engine interfaces.TemplateEngine, startedAt time.Time) *BuildState {
	return &BuildState{
		ID:        uuid.New(),
		StartedAt: startedAt,
		Taxonomy:  taxonomy.New(),
		Layouts:   templates.NewLayouts(),
		Data:      map[string]any{},
		Engine:    engine,
	}
}

// baseContext merges site data and the taxonomy projection once per build.
// Callers must copy before mutating.
func (s *BuildState) baseContext() map[string]any {
	if s.base != nil {
		return s.base
	}
	base := map[string]any{}
	for key, value := range s.Data {
		base[key] = value
	}
	if s.Taxonomy != nil {
		for key, value := range s.Taxonomy.Project() {
			base[key] = value
		}
		base[taxonomy.NamespaceKey] = s.Taxonomy.Namespaces()
	}
	s.base = base
	return base
}
