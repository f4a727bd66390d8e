package interfaces

// TemplateEngine compiles and executes template strings against a context and
// owns the named partial registry consulted by include tags.
type TemplateEngine interface {
	// RegisterPartial stores content under id. It reports whether an existing
	// partial with the same id was replaced.
	RegisterPartial(id string, content string) bool
	// Partial returns the registered content for id.
	Partial(id string) (string, bool)
	// Partials lists registered ids in registration order.
	Partials() []string
	// RenderString compiles templateContent and executes it with data.
	RenderString(templateContent string, data map[string]any) (string, error)
}
