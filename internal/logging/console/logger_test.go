package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-assemble/internal/logging"
	"github.com/goliatone/go-assemble/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("assemble.generator")
	logger = logging.WithFields(logger, map[string]any{"module": "assemble.generator"})
	ctx := logging.WithBuildFields(context.Background(), map[string]any{
		"build_id": uuid.MustParse("8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999"),
	})
	logger = logger.WithContext(ctx)

	logger.Info("generator.page.written",
		"output", "pages/about.html",
		"bytes", 1024,
	)

	got := strings.TrimSpace(buf.String())
	want := "2024-03-14T15:09:26.535897Z INFO generator.page.written build_id=8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999 bytes=1024 logger=assemble.generator module=assemble.generator output=pages/about.html"
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: time.Now,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("assemble.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Info("included.info", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "included.info") {
		t.Fatalf("expected info log to be written, got %s", lines[0])
	}
	if strings.Contains(lines[0], "ignored.debug") {
		t.Fatalf("unexpected debug log present: %s", lines[0])
	}
}

func TestConsoleLogger_QuotesErrorsAndKeepsDanglingArgs(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
	})

	provider.GetLogger("assemble.taxonomy").Warn("taxonomy.partial.replaced",
		"error", errors.New("id taken twice"),
		"orphan",
	)

	got := strings.TrimSpace(buf.String())
	if !strings.Contains(got, `error="id taken twice"`) {
		t.Fatalf("expected quoted error value, got %s", got)
	}
	if !strings.Contains(got, "field_1=orphan") {
		t.Fatalf("expected dangling argument to be kept positionally, got %s", got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		" warn ":  console.LevelWarn,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
	}
	for input, want := range cases {
		got, ok := console.ParseLevel(input)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", input, got, ok, want)
		}
	}
	if got, ok := console.ParseLevel("verbose"); ok || got != console.LevelInfo {
		t.Fatalf("expected unknown level to fall back to info, got %v %v", got, ok)
	}
}
