package taxonomy

import "github.com/goliatone/go-assemble/internal/naming"

// Project converts the taxonomy into plain maps keyed by section name, for
// template contexts and the debug dump.
func (t *Taxonomy) Project() map[string]any {
	out := make(map[string]any, len(t.sections))
	for _, s := range t.sections {
		out[s.Spec.Name] = projectItems(s.Parents)
	}
	return out
}

// Namespaces maps the partial identifier of every leaf carrying data,
// library partials included, to that data with identifier keys. The map is
// exposed to templates under NamespaceKey. Later leaves win on a shared
// identifier.
func (t *Taxonomy) Namespaces() map[string]any {
	out := map[string]any{}
	add := func(l *Leaf) {
		if len(l.Data) == 0 {
			return
		}
		out[naming.Identifier(l.PartialID)] = IdentifierKeys(l.Data)
	}
	for _, l := range t.library {
		add(l)
	}
	for _, l := range t.Leaves() {
		add(l)
	}
	return out
}

// ProjectNode converts a single node and its children into maps.
func ProjectNode(n Node) map[string]any {
	switch typed := n.(type) {
	case *Container:
		return ProjectContainer(typed)
	case *Leaf:
		return ProjectLeaf(typed)
	default:
		return nil
	}
}

func ProjectContainer(c *Container) map[string]any {
	return map[string]any{
		"id":    c.ID,
		"name":  c.Name,
		"slug":  c.Slug,
		"type":  string(c.Kind),
		"items": projectItems(c.Items),
		"order": keyList(c.Items),
	}
}

func ProjectLeaf(l *Leaf) map[string]any {
	return map[string]any{
		"id":            l.ID,
		"partialID":     l.PartialID,
		"name":          l.Name,
		"slug":          l.Slug,
		"path":          l.Path,
		"output":        l.Output,
		"fragment":      l.Fragment,
		"type":          string(l.Kind),
		"section":       l.Section,
		"parent":        l.Parent,
		"collection":    l.Collection,
		"subCollection": l.SubCollection,
		"source":        l.Source,
		"data":          cloneMap(l.Data),
		"html":          l.HTML,
		"notes":         l.Notes,
		"spec":          l.Spec,
	}
}

func keyList(items *Items) []any {
	keys := items.Keys()
	out := make([]any, len(keys))
	for i, key := range keys {
		out[i] = key
	}
	return out
}

func projectItems(items *Items) map[string]any {
	out := make(map[string]any, items.Len())
	items.Each(func(key string, n Node) bool {
		out[key] = ProjectNode(n)
		return true
	})
	return out
}

// IdentifierKeys copies data with every top-level key passed through
// naming.Identifier.
func IdentifierKeys(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for key, value := range data {
		out[naming.Identifier(key)] = value
	}
	return out
}

func cloneMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
