package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/goliatone/go-assemble/internal/domain"
	"github.com/goliatone/go-assemble/internal/logging"
	"github.com/goliatone/go-assemble/internal/storage"
	"github.com/goliatone/go-assemble/internal/taxonomy"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

const (
	defaultLayoutSrc = "<html><head><title>{{ name }}</title></head><body>{% body %}</body></html>"
	moduleLayoutSrc  = "<div class=\"module\">{% body %}</div>"
	frameLayoutSrc   = "<frame>{% include partialID %}</frame>"
	plainLayoutSrc   = "<main>{% body %}</main>"
)

func testConfig() Config {
	return Config{
		PartialsDir:         "src/partials",
		PartialPatterns:     []string{"src/partials/modules/**/*", "src/partials/blocks/**/*"},
		LibraryPatterns:     []string{"src/partials/lib/**/*"},
		Layouts:             []string{"src/views/layouts/*"},
		DefaultLayout:       "default",
		DefaultModuleLayout: "module",
		FrameLayout:         "frame",
		FramedParents:       []string{"blocks"},
		GuideIncludes:       []string{"src/views/guide/echo/*"},
		GuidePages:          []string{"src/views/guide/**/*", "!src/views/guide/echo/**"},
		Pages:               []string{"src/views/pages/**/*"},
		Data:                []string{"src/data/*"},
		Index:               "src/views/index.html",
		OutputDir:           "dist",
	}
}

func newFixtureStore(t *testing.T, files map[string]string) *storage.Store {
	t.Helper()
	store := storage.NewMemory()
	layouts := map[string]string{
		"src/views/layouts/default.html": defaultLayoutSrc,
		"src/views/layouts/module.html":  moduleLayoutSrc,
		"src/views/layouts/frame.html":   frameLayoutSrc,
		"src/views/layouts/plain.html":   plainLayoutSrc,
	}
	for name, content := range layouts {
		if err := store.WriteFile(name, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	for name, content := range files {
		if err := store.WriteFile(name, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return store
}

func readOutput(t *testing.T, store *storage.Store, name string) string {
	t.Helper()
	data, err := store.ReadFile(name)
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return string(data)
}

func TestBuildSinglePage(t *testing.T) {
	store := newFixtureStore(t, map[string]string{
		"src/views/pages/about.html": "---\ntitle: About\n---\n<h1>{{ title }}</h1>\n\n",
	})
	cfg := testConfig()
	cfg.Dump = "assemble.json"

	result, err := NewService(cfg, Dependencies{Store: store}).Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != 1 {
		t.Fatalf("expected 1 page built, got %d", result.PagesBuilt)
	}
	if len(result.Rendered) != 1 || result.Rendered[0].Output != "dist/pages/about.html" {
		t.Fatalf("unexpected rendered pages %+v", result.Rendered)
	}
	if result.Rendered[0].Checksum == "" {
		t.Fatalf("expected checksum for rendered page")
	}

	got := readOutput(t, store, "dist/pages/about.html")
	want := "<html><head><title>About</title></head><body><h1>About</h1></body></html>"
	if got != want {
		t.Fatalf("unexpected output\nwant %q\ngot  %q", want, got)
	}

	if result.DumpPath != "dist/assemble.json" {
		t.Fatalf("expected dump path, got %q", result.DumpPath)
	}
	doc, err := oj.ParseString(readOutput(t, store, result.DumpPath))
	if err != nil {
		t.Fatalf("parse dump: %v", err)
	}
	expr, err := jp.ParseString("$.taxonomy.pages.pages.items.about.data.title")
	if err != nil {
		t.Fatalf("parse jsonpath: %v", err)
	}
	matches := expr.Get(doc)
	if len(matches) != 1 || matches[0] != "About" {
		t.Fatalf("expected leaf title About in dump, got %v", matches)
	}
}

func TestBuildPartialsUseModuleAndFrameLayouts(t *testing.T) {
	store := newFixtureStore(t, map[string]string{
		"src/partials/modules/card.html":   "---\nlabel: Card\n---\n<div class=\"card\">{{ label }}</div>",
		"src/partials/blocks/hero.html":    "<section>hero</section>",
		"src/partials/blocks/banner.html":  "---\nlayout: plain\n---\n<aside>banner</aside>",
		"src/partials/lib/icons/star.html": "<i>*</i>",
	})

	result, err := NewService(testConfig(), Dependencies{Store: store}).Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != 3 {
		t.Fatalf("expected 3 partial pages, got %d", result.PagesBuilt)
	}
	if result.Partials != 4 {
		t.Fatalf("expected 4 registered partials, got %d", result.Partials)
	}

	if got := readOutput(t, store, "dist/modules/card.html"); got != "<div class=\"module\"><div class=\"card\">Card</div></div>" {
		t.Fatalf("unexpected card output %q", got)
	}
	if got := readOutput(t, store, "dist/blocks/hero.html"); got != "<frame><section>hero</section></frame>" {
		t.Fatalf("unexpected framed output %q", got)
	}
	if got := readOutput(t, store, "dist/blocks/banner.html"); got != "<main><aside>banner</aside></main>" {
		t.Fatalf("expected layout override to skip the frame, got %q", got)
	}
	if exists, _ := store.Exists("dist/lib/icons/star.html"); exists {
		t.Fatalf("library partials must not be written")
	}
}

func TestBuildGroupsAnchorSections(t *testing.T) {
	store := newFixtureStore(t, map[string]string{
		"src/views/guide/echo/01-swatch.html": "<span class=\"swatch\"></span>",
		"src/views/guide/intro.html":          "<p>intro</p>{% include \"swatch\" %}",
		"src/views/guide/forms/input.html":    "<input>",
		"src/views/guide/forms/select.html":   "<select></select>",
	})

	result, err := NewService(testConfig(), Dependencies{Store: store}).Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != 2 {
		t.Fatalf("expected 2 guide pages, got %d", result.PagesBuilt)
	}

	forms := readOutput(t, store, "dist/guide/forms.html")
	want := "<html><head><title>Forms</title></head><body>" +
		"<section id=\"input\"><input></section>\n<section id=\"select\"><select></select></section>" +
		"</body></html>"
	if forms != want {
		t.Fatalf("unexpected grouped output\nwant %q\ngot  %q", want, forms)
	}

	intro := readOutput(t, store, "dist/guide/intro.html")
	if !strings.Contains(intro, "<p>intro</p><span class=\"swatch\"></span>") {
		t.Fatalf("expected guide include to render, got %q", intro)
	}
	if exists, _ := store.Exists("dist/guide/echo"); exists {
		t.Fatalf("excluded include directory must not be rendered")
	}
}

func TestBuildMergesSiteDataAndIndex(t *testing.T) {
	store := newFixtureStore(t, map[string]string{
		"src/data/site.yml":          "owner: Acme\nlinks:\n  - home\n  - docs\n",
		"src/views/index.html":       "---\ntitle: Welcome\nlayout: plain\n---\n<h1>{{ title }}</h1><p>{{ site.owner }}</p>",
		"src/views/pages/about.html": "<p>{{ site.owner }} {{ site.links|length }}</p>",
	})

	_, err := NewService(testConfig(), Dependencies{Store: store}).Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if got := readOutput(t, store, "dist/index.html"); got != "<main><h1>Welcome</h1><p>Acme</p></main>" {
		t.Fatalf("unexpected index output %q", got)
	}
	if got := readOutput(t, store, "dist/pages/about.html"); !strings.Contains(got, "<p>Acme 2</p>") {
		t.Fatalf("expected site data in page, got %q", got)
	}
}

func TestBuildLogsWritesWithCategoryAndContextFields(t *testing.T) {
	store := newFixtureStore(t, map[string]string{
		"src/views/index.html":       "<h1>Home</h1>",
		"src/views/pages/about.html": "<p>About</p>",
	})
	logger := &fieldRecorder{}

	ctx := logging.WithBuildFields(context.Background(), map[string]any{"command": "assemble.static.build"})
	result, err := NewService(testConfig(), Dependencies{Store: store, Logger: logger}).Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	written := map[string]map[string]any{}
	for _, entry := range logger.entries {
		if entry.msg == "generator.page.written" {
			written[entry.fields["output"].(string)] = entry.fields
		}
	}
	index, ok := written["dist/index.html"]
	if !ok {
		t.Fatalf("expected index write entry, got %v", written)
	}
	if index["category"] != "index" {
		t.Fatalf("expected index category, got %v", index["category"])
	}
	if about := written["dist/pages/about.html"]; about["category"] != "page" {
		t.Fatalf("expected page category for about, got %v", about)
	}
	if index["command"] != "assemble.static.build" {
		t.Fatalf("expected command field from context, got %v", index)
	}
	if index["build_id"] != result.BuildID {
		t.Fatalf("expected build_id %q, got %v", result.BuildID, index["build_id"])
	}
}

func TestBuildKeepsSiteDataOverLeafNamespaces(t *testing.T) {
	store := newFixtureStore(t, map[string]string{
		"src/data/site.yml":               "name: Demo\n",
		"src/partials/modules/site.html":  "<p>module</p>",
		"src/partials/modules/pages.html": "---\ntitle: Pages module\n---\n<p>{{ title }}</p>",
		"src/views/pages/about.html":      "<h1>[{{ site.name }}]</h1><p>{{ ns.pages.title }}</p>",
	})

	if _, err := NewService(testConfig(), Dependencies{Store: store}).Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	got := readOutput(t, store, "dist/pages/about.html")
	if !strings.Contains(got, "<h1>[Demo]</h1>") {
		t.Fatalf("expected site data to survive a partial named site, got %q", got)
	}
	if !strings.Contains(got, "<p>Pages module</p>") {
		t.Fatalf("expected leaf data under the ns key, got %q", got)
	}
	if got := readOutput(t, store, "dist/modules/pages.html"); !strings.Contains(got, "<p>Pages module</p>") {
		t.Fatalf("expected rewritten tokens to resolve, got %q", got)
	}
}

func TestBuildWritesPrefixedSiblingsToSeparateFiles(t *testing.T) {
	store := newFixtureStore(t, map[string]string{
		"src/partials/modules/nav/item.html":     "<p>one</p>",
		"src/partials/modules/nav/nav/item.html": "<p>two</p>",
	})

	result, err := NewService(testConfig(), Dependencies{Store: store}).Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	seen := map[string]bool{}
	for _, page := range result.Rendered {
		if seen[page.Output] {
			t.Fatalf("output %s rendered twice", page.Output)
		}
		seen[page.Output] = true
	}
	if got := readOutput(t, store, "dist/modules/nav/item.html"); got != "<div class=\"module\"><p>one</p></div>" {
		t.Fatalf("unexpected first sibling output %q", got)
	}
	if got := readOutput(t, store, "dist/modules/nav/nav__item.html"); got != "<div class=\"module\"><p>two</p></div>" {
		t.Fatalf("unexpected prefixed sibling output %q", got)
	}
}

func TestBuildDryRunWritesNothing(t *testing.T) {
	store := newFixtureStore(t, map[string]string{
		"src/views/pages/about.html": "<p>about</p>",
	})
	cfg := testConfig()
	cfg.Dump = "assemble.json"

	result, err := NewService(cfg, Dependencies{Store: store}).Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !result.DryRun || result.PagesBuilt != 1 {
		t.Fatalf("expected dry run with 1 rendered page, got %+v", result)
	}
	if result.DumpPath != "" {
		t.Fatalf("expected no dump path on dry run, got %q", result.DumpPath)
	}
	if exists, _ := store.Exists("dist"); exists {
		t.Fatalf("dry run must not create output")
	}
}

func TestBuildCleanAndPretty(t *testing.T) {
	store := newFixtureStore(t, map[string]string{
		"dist/stale.html":            "old",
		"src/views/pages/about.html": "<p>about</p>",
	})
	cfg := testConfig()
	cfg.Clean = true
	cfg.Pretty = true

	if _, err := NewService(cfg, Dependencies{Store: store}).Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if exists, _ := store.Exists("dist/stale.html"); exists {
		t.Fatalf("expected clean build to remove stale output")
	}
	got := readOutput(t, store, "dist/pages/about.html")
	if !strings.Contains(got, "\n  <head>") || !strings.Contains(got, "\n      about") {
		t.Fatalf("expected pretty printed output, got %q", got)
	}
}

func TestBuildSectionsFilter(t *testing.T) {
	store := newFixtureStore(t, map[string]string{
		"src/views/guide/intro.html": "<p>intro</p>",
		"src/views/pages/about.html": "<p>{{ guide.guide.items.intro.name }}</p>",
		"src/views/index.html":       "<p>index</p>",
	})

	result, err := NewService(testConfig(), Dependencies{Store: store}).Build(context.Background(), BuildOptions{Sections: []string{"pages"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(result.Sections) != 1 || result.Sections[0] != "pages" {
		t.Fatalf("expected only pages section, got %v", result.Sections)
	}
	if exists, _ := store.Exists("dist/guide/intro.html"); exists {
		t.Fatalf("guide section should be skipped")
	}
	if exists, _ := store.Exists("dist/index.html"); exists {
		t.Fatalf("index should be skipped")
	}
	if got := readOutput(t, store, "dist/pages/about.html"); !strings.Contains(got, "<p>Intro</p>") {
		t.Fatalf("expected skipped sections to stay in the context, got %q", got)
	}
}

func TestBuildFailsOnUnknownLayout(t *testing.T) {
	store := newFixtureStore(t, map[string]string{
		"src/views/pages/a.html": "<p>a</p>",
		"src/views/pages/b.html": "---\nlayout: missing\n---\n<p>b</p>",
	})

	result, err := NewService(testConfig(), Dependencies{Store: store}).Build(context.Background(), BuildOptions{})
	var layoutErr *domain.LayoutError
	if !errors.As(err, &layoutErr) {
		t.Fatalf("expected LayoutError, got %v", err)
	}
	if layoutErr.Layout != "missing" {
		t.Fatalf("expected missing layout name, got %q", layoutErr.Layout)
	}
	if result == nil || result.PagesBuilt != 1 {
		t.Fatalf("expected the page before the failure to be written, got %+v", result)
	}
	if exists, _ := store.Exists("dist/pages/a.html"); !exists {
		t.Fatalf("expected earlier output to remain on disk")
	}
}

func TestBuildRequiresStoreAndOutput(t *testing.T) {
	if _, err := NewService(testConfig(), Dependencies{}).Build(context.Background(), BuildOptions{}); !errors.Is(err, errStoreRequired) {
		t.Fatalf("expected errStoreRequired, got %v", err)
	}
	cfg := testConfig()
	cfg.OutputDir = ""
	if _, err := NewService(cfg, Dependencies{Store: storage.NewMemory()}).Build(context.Background(), BuildOptions{}); !errors.Is(err, errOutputRequired) {
		t.Fatalf("expected errOutputRequired, got %v", err)
	}
	if _, err := NewDisabledService().Build(context.Background(), BuildOptions{}); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestBuildHonoursCancellation(t *testing.T) {
	store := newFixtureStore(t, map[string]string{"src/views/pages/a.html": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewService(testConfig(), Dependencies{Store: store}).Build(ctx, BuildOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCleanRemovesOutput(t *testing.T) {
	store := newFixtureStore(t, map[string]string{"dist/pages/a.html": "a"})
	if err := NewService(testConfig(), Dependencies{Store: store}).Clean(context.Background()); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if exists, _ := store.Exists("dist"); exists {
		t.Fatalf("expected dist removed")
	}
}

func TestBuildContextPrecedence(t *testing.T) {
	state := NewBuildState(nil, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	state.Data = map[string]any{
		"title": "Site",
		"name":  "data-name",
		"site":  map[string]any{"owner": "Acme"},
	}

	leaf := &taxonomy.Leaf{
		ID:        "02-about",
		PartialID: "02-about",
		Name:      "02 About",
		Slug:      "pages/about",
		Kind:      taxonomy.KindPage,
		Notes:     "<p>n</p>",
		Data: map[string]any{
			"title":      "Page",
			"page-title": "Nested",
			"layout":     "plain",
		},
	}

	rc := BuildContext(state, leaf, "default")
	if rc.Layout != "plain" {
		t.Fatalf("expected layout override, got %q", rc.Layout)
	}
	checks := map[string]any{
		"title":       "Page",
		"page_title":  "Nested",
		"name":        "02 About",
		"id":          "02-about",
		"slug":        "pages/about",
		"partialType": "page",
		"notes":       "<p>n</p>",
		"partialID":   "02-about",
	}
	for key, want := range checks {
		if rc.Values[key] != want {
			t.Fatalf("expected %s=%v, got %v", key, want, rc.Values[key])
		}
	}
	if _, ok := rc.Values["site"].(map[string]any); !ok {
		t.Fatalf("expected site data in context")
	}
	if state.baseContext()["title"] != "Site" {
		t.Fatalf("node overrides must not leak into the shared base context")
	}

	container := &taxonomy.Container{ID: "forms", Name: "Forms", Slug: "guide/forms", Kind: taxonomy.KindCollection, Items: taxonomy.NewItems()}
	rc = BuildContext(state, container, "default")
	if rc.Layout != "default" || rc.Values["name"] != "Forms" || rc.Values["partialType"] != "collection" {
		t.Fatalf("unexpected container context %+v", rc)
	}
	if _, ok := rc.Values["items"].(map[string]any); !ok {
		t.Fatalf("expected container items in context")
	}
}

type fieldEntry struct {
	msg    string
	fields map[string]any
}

type fieldRecorder struct {
	entries []fieldEntry
}

func (r *fieldRecorder) Trace(msg string, args ...any) { r.record(msg, args) }
func (r *fieldRecorder) Debug(msg string, args ...any) { r.record(msg, args) }
func (r *fieldRecorder) Info(msg string, args ...any)  { r.record(msg, args) }
func (r *fieldRecorder) Warn(msg string, args ...any)  { r.record(msg, args) }
func (r *fieldRecorder) Error(msg string, args ...any) { r.record(msg, args) }
func (r *fieldRecorder) Fatal(msg string, args ...any) { r.record(msg, args) }

func (r *fieldRecorder) WithContext(context.Context) interfaces.Logger { return r }

func (r *fieldRecorder) record(msg string, args []any) {
	fields := map[string]any{}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	r.entries = append(r.entries, fieldEntry{msg: msg, fields: fields})
}
