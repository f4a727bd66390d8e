package generator

import (
	"strings"

	"github.com/goliatone/go-assemble/internal/markdown"
	"github.com/goliatone/go-assemble/internal/naming"
	"github.com/goliatone/go-assemble/internal/taxonomy"
)

const layoutField = "layout"

// RenderContext is the data a node renders with and the layout it selects.
type RenderContext struct {
	Values map[string]any
	Layout string
}

// BuildContext merges, lowest precedence first, site data, the taxonomy
// projection with every leaf namespace, and the node's own fields. A string
// "layout" front matter field overrides defaultLayout.
func BuildContext(state *BuildState, node taxonomy.Node, defaultLayout string) RenderContext {
	values := cloneValues(state.baseContext())
	rc := RenderContext{Values: values, Layout: defaultLayout}

	switch typed := node.(type) {
	case *taxonomy.Leaf:
		values["partialType"] = string(typed.Kind)
		values["name"] = typed.Name
		values["id"] = typed.ID
		values["slug"] = typed.Slug
		values["spec"] = typed.Spec
		values["notes"] = typed.Notes
		values["partialID"] = typed.PartialID
		overlayData(values, typed.Data)
		if layout := layoutOf(typed.Data); layout != "" {
			rc.Layout = layout
		}
	case *taxonomy.Container:
		projected := taxonomy.ProjectContainer(typed)
		values["partialType"] = string(typed.Kind)
		values["name"] = typed.Name
		values["id"] = typed.ID
		values["slug"] = typed.Slug
		values["items"] = projected["items"]
	}
	return rc
}

// documentContext builds the context for a document outside the taxonomy,
// such as the index page.
func documentContext(state *BuildState, doc *markdown.Document, defaultLayout string) RenderContext {
	values := cloneValues(state.baseContext())
	rc := RenderContext{Values: values, Layout: defaultLayout}

	id := naming.NameOf(doc.Path, true)
	values["partialType"] = string(taxonomy.KindPage)
	values["name"] = naming.TitleCase(naming.NameOf(doc.Path, false))
	values["id"] = id
	values["slug"] = naming.Slugify(id)
	values["spec"] = doc.Spec
	values["notes"] = doc.Notes
	overlayData(values, doc.Data)
	if layout := layoutOf(doc.Data); layout != "" {
		rc.Layout = layout
	}
	return rc
}

func overlayData(values map[string]any, data map[string]any) {
	for key, value := range data {
		values[naming.Identifier(key)] = value
	}
}

func layoutOf(data map[string]any) string {
	layout, ok := data[layoutField].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(layout)
}

func cloneValues(in map[string]any) map[string]any {
	out := make(map[string]any, len(in)+16)
	for key, value := range in {
		out[key] = value
	}
	return out
}
