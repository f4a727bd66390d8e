// Package testsupport provides in-memory project trees for exercising the
// build pipeline without touching the host filesystem.
package testsupport

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/goliatone/go-assemble/internal/storage"
)

// LoadFixture reads a fixture file from disk.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadGolden decodes a JSON golden file into v.
func LoadGolden(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SiteFiles returns a small project laid out the way DefaultConfig expects:
// layouts, one page, one module, one framed block, a guide page with an
// echo include, site data and an index.
func SiteFiles() map[string]string {
	return map[string]string{
		"src/views/layouts/default.html": "<html>{% body %}</html>",
		"src/views/layouts/module.html":  "<div class=\"module\">{% body %}</div>",
		"src/views/layouts/frame.html":   "<frame>{% include partialID %}</frame>",

		"src/views/pages/about.html": "---\ntitle: About\n---\n<h1>{{ title }} {{ site.name }}</h1>\n",

		"src/partials/modules/card.html":  "---\nlabel: Card\n---\n<div class=\"card\">{{ label }}</div>\n",
		"src/partials/blocks/hero.html":   "<section class=\"hero\">hero</section>\n",
		"src/partials/lib/icon.html":      "<i class=\"icon\"></i>\n",
		"src/partials/common/footer.html": "<footer>footer</footer>\n",

		"src/views/guide/intro.html":       "---\ntitle: Intro\n---\n<p>{{ title }}</p>\n",
		"src/views/guide/echo/swatch.html": "<span class=\"swatch\"></span>\n",

		"src/data/site.yml": "name: Demo\n",

		"src/views/index.html": "---\ntitle: Home\n---\n<main>{{ title }}</main>\n",
	}
}

// NewMemoryStore writes files into a fresh in-memory store. Keys are written
// in sorted order so discovery order is stable.
func NewMemoryStore(files map[string]string) (*storage.Store, error) {
	store := storage.NewMemory()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := store.WriteFile(name, []byte(files[name]), 0o644); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// MergeFiles overlays extra onto base and returns a new map.
func MergeFiles(base map[string]string, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for name, content := range base {
		out[name] = content
	}
	for name, content := range extra {
		out[name] = content
	}
	return out
}
