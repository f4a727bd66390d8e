package templates

import (
	"regexp"

	"github.com/goliatone/go-assemble/internal/domain"
	"github.com/goliatone/go-assemble/internal/naming"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

var bodyPlaceholder = regexp.MustCompile(`\{%\s*(?:body)?\s*%\}`)

// Wrap substitutes body for the single "{% body %}" placeholder in layout.
// The body is inserted literally. A layout with no placeholder or more than
// one fails with *domain.LayoutError.
func Wrap(body, layout string) (string, error) {
	return wrap("", body, layout)
}

func wrap(name, body, layout string) (string, error) {
	matches := bodyPlaceholder.FindAllStringIndex(layout, -1)
	switch len(matches) {
	case 0:
		return "", domain.NewLayoutError(name, "layout has no body placeholder", nil)
	case 1:
	default:
		return "", domain.NewLayoutError(name, "layout has more than one body placeholder", nil)
	}
	loc := matches[0]
	return layout[:loc[0]] + body + layout[loc[1]:], nil
}

// Layouts maps layout names to their content.
type Layouts struct {
	entries map[string]string
	order   []string
}

func NewLayouts() *Layouts {
	return &Layouts{entries: map[string]string{}}
}

// LoadLayouts reads files into a registry keyed by file name without
// ordering prefix or extension.
func LoadLayouts(store interfaces.FileStore, files []string) (*Layouts, error) {
	layouts := NewLayouts()
	for _, file := range files {
		content, err := store.ReadFile(file)
		if err != nil {
			return nil, domain.NewIOError("read", file, err)
		}
		layouts.Add(naming.NameOf(file, false), string(content))
	}
	return layouts, nil
}

// Add stores content under name, replacing any earlier layout.
func (l *Layouts) Add(name, content string) {
	if _, ok := l.entries[name]; !ok {
		l.order = append(l.order, name)
	}
	l.entries[name] = content
}

// Get returns the layout content or a *domain.LayoutError.
func (l *Layouts) Get(name string) (string, error) {
	content, ok := l.entries[name]
	if !ok {
		return "", domain.NewLayoutError(name, "layout not registered", nil)
	}
	return content, nil
}

func (l *Layouts) Has(name string) bool {
	_, ok := l.entries[name]
	return ok
}

// Names lists layouts in load order.
func (l *Layouts) Names() []string {
	return append([]string(nil), l.order...)
}

// Wrap wraps body in the named layout.
func (l *Layouts) Wrap(name, body string) (string, error) {
	layout, err := l.Get(name)
	if err != nil {
		return "", err
	}
	return wrap(name, body, layout)
}

// Map returns a copy of the registry.
func (l *Layouts) Map() map[string]any {
	out := make(map[string]any, len(l.entries))
	for name, content := range l.entries {
		out[name] = content
	}
	return out
}
