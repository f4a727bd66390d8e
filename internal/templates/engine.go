// Package templates renders template strings with pongo2 and wraps page
// bodies into named layouts.
package templates

import (
	"fmt"
	"io"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-assemble/internal/domain"
	"github.com/goliatone/go-assemble/internal/logging"
	"github.com/goliatone/go-assemble/internal/naming"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

// Engine implements interfaces.TemplateEngine on a pongo2 TemplateSet whose
// loader reads from the engine's partial registry, so
// {% include "dropdown__item" %} resolves to a registered partial.
type Engine struct {
	set      *pongo2.TemplateSet
	partials map[string]string
	order    []string
	logger   interfaces.Logger
}

var _ interfaces.TemplateEngine = (*Engine)(nil)

// EngineOption configures an Engine.
type EngineOption func(*Engine)

func WithEngineLogger(logger interfaces.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine returns an engine with an empty registry. name labels the
// underlying template set in pongo2 errors.
func NewEngine(name string, opts ...EngineOption) *Engine {
	e := &Engine{
		partials: map[string]string{},
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if strings.TrimSpace(name) == "" {
		name = "assemble"
	}
	e.set = pongo2.NewSet(name, partialLoader{engine: e})
	return e
}

func (e *Engine) RegisterPartial(id string, content string) bool {
	_, replaced := e.partials[id]
	if !replaced {
		e.order = append(e.order, id)
	}
	e.partials[id] = content
	e.logger.Trace("templates.partial.registered", "partial", id, "replaced", replaced)
	return replaced
}

func (e *Engine) Partial(id string) (string, bool) {
	content, ok := e.partials[id]
	return content, ok
}

func (e *Engine) Partials() []string {
	return append([]string(nil), e.order...)
}

// RenderString compiles templateContent and executes it with data. Context
// keys must be valid identifiers.
func (e *Engine) RenderString(templateContent string, data map[string]any) (string, error) {
	tpl, err := e.set.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("templates: compile: %w", err)
	}
	out, err := tpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("templates: execute: %w", err)
	}
	return out, nil
}

// Render runs engine.RenderString and reports failures as a
// *domain.RenderError for nodeID.
func Render(engine interfaces.TemplateEngine, nodeID, templateContent string, data map[string]any) (string, error) {
	out, err := engine.RenderString(templateContent, data)
	if err != nil {
		return "", domain.NewRenderError(nodeID, "template render failed", err)
	}
	return out, nil
}

type partialLoader struct {
	engine *Engine
}

// Abs keeps include names as registry ids.
func (partialLoader) Abs(_, name string) string {
	return strings.TrimSpace(name)
}

// Get resolves an include by id, falling back to the id of a file name so
// {% include "item.html" %} also finds "item".
func (l partialLoader) Get(path string) (io.Reader, error) {
	if content, ok := l.engine.Partial(path); ok {
		return strings.NewReader(content), nil
	}
	if content, ok := l.engine.Partial(naming.NameOf(path, true)); ok {
		return strings.NewReader(content), nil
	}
	return nil, fmt.Errorf("templates: partial %q is not registered", path)
}
