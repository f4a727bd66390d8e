package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	staticcmd "github.com/goliatone/go-assemble/internal/commands/static"
	"github.com/goliatone/go-assemble/internal/domain"
	"github.com/goliatone/go-assemble/internal/generator"
	"github.com/goliatone/go-assemble/pkg/interfaces"
	"github.com/goliatone/go-assemble/pkg/testsupport"
)

type stubHandlers struct {
	build *stubBuildHandler
	diff  *stubDiffHandler
	clean *stubCleanHandler
}

type stubBuildHandler struct {
	last staticcmd.BuildSiteCommand
	err  error
}

func (s *stubBuildHandler) Execute(ctx context.Context, msg staticcmd.BuildSiteCommand) error {
	s.last = msg
	if msg.ResultCallback != nil {
		msg.ResultCallback(staticcmd.ResultEnvelope{
			Result: &generator.BuildResult{
				PagesBuilt: 2,
				Sections:   []string{"pages"},
				DryRun:     msg.DryRun,
				Rendered: []generator.RenderedPage{
					{NodeID: "pages__about", Output: "dist/pages/about.html", Checksum: "0123456789abcdef"},
				},
			},
			Metadata: map[string]any{"operation": "build"},
		})
	}
	return s.err
}

type stubDiffHandler struct {
	last staticcmd.DiffSiteCommand
}

func (s *stubDiffHandler) Execute(ctx context.Context, msg staticcmd.DiffSiteCommand) error {
	s.last = msg
	if msg.ResultCallback != nil {
		msg.ResultCallback(staticcmd.ResultEnvelope{
			Result:   &generator.BuildResult{DryRun: true},
			Metadata: map[string]any{"operation": "diff"},
		})
	}
	return nil
}

type stubCleanHandler struct {
	calls int
	err   error
}

func (s *stubCleanHandler) Execute(ctx context.Context, msg staticcmd.CleanSiteCommand) error {
	s.calls++
	return s.err
}

var (
	activeStubHandlers *stubHandlers
	activeLogger       *lineLogger
	lastOptions        moduleOptions
)

// lineLogger renders each entry as "msg key=value ..." so tests can match
// the CLI summaries as text.
type lineLogger struct {
	buf bytes.Buffer
}

func (l *lineLogger) Trace(msg string, args ...any) { l.write(msg, args) }
func (l *lineLogger) Debug(msg string, args ...any) { l.write(msg, args) }
func (l *lineLogger) Info(msg string, args ...any)  { l.write(msg, args) }
func (l *lineLogger) Warn(msg string, args ...any)  { l.write(msg, args) }
func (l *lineLogger) Error(msg string, args ...any) { l.write(msg, args) }
func (l *lineLogger) Fatal(msg string, args ...any) { l.write(msg, args) }

func (l *lineLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *lineLogger) write(msg string, args []any) {
	l.buf.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&l.buf, " %v=%v", args[i], args[i+1])
	}
	l.buf.WriteByte('\n')
}

func (l *lineLogger) String() string { return l.buf.String() }

func withStubModule(t *testing.T) {
	t.Helper()
	original := moduleBuilder
	stubs := &stubHandlers{
		build: &stubBuildHandler{},
		diff:  &stubDiffHandler{},
		clean: &stubCleanHandler{},
	}
	activeStubHandlers = stubs
	activeLogger = &lineLogger{}
	logger := activeLogger

	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		lastOptions = opts
		return &moduleResources{
			handlers: handlerSet{
				build: stubs.build,
				diff:  stubs.diff,
				clean: stubs.clean,
			},
			logger: logger,
		}, nil
	}

	t.Cleanup(func() {
		moduleBuilder = original
		activeStubHandlers = nil
		activeLogger = nil
		lastOptions = moduleOptions{}
	})
}

func TestRunBuild_UsesCommandHandler(t *testing.T) {
	withStubModule(t)
	logs := activeLogger

	if err := run([]string{"build", "--section", "pages,guide", "--dist", "public", "--pretty"}); err != nil {
		t.Fatalf("run build: %v", err)
	}

	got := activeStubHandlers.build.last
	if want := []string{"pages", "guide"}; !reflect.DeepEqual(got.Sections, want) {
		t.Fatalf("expected sections %v, got %v", want, got.Sections)
	}
	if got.DryRun {
		t.Fatal("expected dry run to be false")
	}
	if lastOptions.Dist != "public" {
		t.Fatalf("expected dist override, got %q", lastOptions.Dist)
	}
	if lastOptions.Pretty == nil || !*lastOptions.Pretty {
		t.Fatalf("expected pretty override, got %v", lastOptions.Pretty)
	}
	if lastOptions.Clean != nil {
		t.Fatal("expected clean to stay unset when the flag is absent")
	}
	if !strings.Contains(logs.String(), "assemble.summary operation=build pages=2") {
		t.Fatalf("expected build summary log, got %q", logs.String())
	}
}

func TestRunBuild_DryRunListsOutputs(t *testing.T) {
	withStubModule(t)
	logs := activeLogger

	if err := run([]string{"build", "--dry-run"}); err != nil {
		t.Fatalf("run build: %v", err)
	}
	if !activeStubHandlers.build.last.DryRun {
		t.Fatal("expected dry run flag to propagate")
	}
	if !strings.Contains(logs.String(), "assemble.would_write operation=build output=dist/pages/about.html checksum=0123456789ab") {
		t.Fatalf("expected dry run listing, got %q", logs.String())
	}
}

func TestRunDiff_UsesCommandHandler(t *testing.T) {
	withStubModule(t)
	logs := activeLogger

	if err := run([]string{"diff", "-s", "partials"}); err != nil {
		t.Fatalf("run diff: %v", err)
	}
	if got := activeStubHandlers.diff.last.Sections; !reflect.DeepEqual(got, []string{"partials"}) {
		t.Fatalf("expected partials section, got %v", got)
	}
	if !strings.Contains(logs.String(), "assemble.summary operation=diff") {
		t.Fatalf("expected diff summary log, got %q", logs.String())
	}
}

func TestRunClean_UsesCommandHandler(t *testing.T) {
	withStubModule(t)
	logs := activeLogger

	if err := run([]string{"clean"}); err != nil {
		t.Fatalf("run clean: %v", err)
	}
	if activeStubHandlers.clean.calls != 1 {
		t.Fatalf("expected clean handler called once, got %d", activeStubHandlers.clean.calls)
	}
	if !strings.Contains(logs.String(), "assemble.clean operation=clean") {
		t.Fatalf("expected clean log, got %q", logs.String())
	}
}

func TestRun_ErrorsWhenHandlersMissing(t *testing.T) {
	original := moduleBuilder
	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		return &moduleResources{}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })

	err := run([]string{"build"})
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	err := run([]string{"unknown"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRun_NoArgs(t *testing.T) {
	err := run([]string{})
	if err == nil || !strings.Contains(err.Error(), "missing subcommand") {
		t.Fatalf("expected missing subcommand error, got %v", err)
	}
}

func TestRunHandlersPropagateErrors(t *testing.T) {
	withStubModule(t)
	activeStubHandlers.build.err = errors.New("boom")

	err := run([]string{"build"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

func TestRunBuild_EndToEnd(t *testing.T) {
	root := t.TempDir()
	for name, content := range testsupport.SiteFiles() {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := run([]string{"build", "--root", root, "--dump", "assemble.json", "--log-level", "error"}); err != nil {
		t.Fatalf("run build: %v", err)
	}

	var out bytes.Buffer
	dump := filepath.Join(root, "dist", "assemble.json")
	if err := inspectDump(&out, dump, "$.taxonomy.pages.pages.items.about.data.title"); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if strings.TrimSpace(out.String()) != `"About"` {
		t.Fatalf("expected About title from dump, got %q", out.String())
	}
}

func TestInspectDumpRejectsBadExpression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	if err := os.WriteFile(path, []byte(`{"build":{"pages":1}}`), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	var out bytes.Buffer
	if err := inspectDump(&out, path, "$.build.pages"); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if strings.TrimSpace(out.String()) != "1" {
		t.Fatalf("expected 1, got %q", out.String())
	}
	if err := inspectDump(&out, path, "$[?("); err == nil {
		t.Fatal("expected invalid jsonpath to fail")
	}
}

func TestPrintFailureIncludesStack(t *testing.T) {
	var buf bytes.Buffer
	printFailure(&buf, domain.NewRenderError("pages__about", "template render failed", errors.New("unexpected tag")))

	out := buf.String()
	for _, want := range []string{"RenderError: ", "reason: template render failed", "code: RENDER_ERROR", "stack:\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}
