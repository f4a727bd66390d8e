package generator

import (
	"time"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

// DumpDocument converts state into the plain map serialized by the debug
// dump. Top level keys: build, taxonomy, layouts, data, partials.
func DumpDocument(state *BuildState, result *BuildResult) map[string]any {
	build := map[string]any{
		"id":        state.ID.String(),
		"startedAt": state.StartedAt.UTC().Format(time.RFC3339Nano),
	}
	if result != nil {
		outputs := make([]any, 0, len(result.Rendered))
		for _, page := range result.Rendered {
			outputs = append(outputs, map[string]any{
				"node":     page.NodeID,
				"section":  page.Section,
				"output":   page.Output,
				"layout":   page.Layout,
				"checksum": page.Checksum,
			})
		}
		build["dryRun"] = result.DryRun
		build["pages"] = int64(result.PagesBuilt)
		build["outputs"] = outputs
	}

	taxonomyDoc := map[string]any{}
	if state.Taxonomy != nil {
		taxonomyDoc = state.Taxonomy.Project()
	}

	partials := map[string]any{}
	if state.Engine != nil {
		for _, id := range state.Engine.Partials() {
			content, _ := state.Engine.Partial(id)
			partials[id] = content
		}
	}

	data := state.Data
	if data == nil {
		data = map[string]any{}
	}

	return map[string]any{
		"build":    build,
		"taxonomy": taxonomyDoc,
		"layouts":  state.Layouts.Map(),
		"data":     data,
		"partials": partials,
	}
}

// encodeDump renders doc as sorted, 2-space indented JSON.
func encodeDump(doc map[string]any) string {
	return oj.JSON(doc, &ojg.Options{Indent: 2, Sort: true})
}
