package staticcmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-assemble/internal/domain"
	"github.com/goliatone/go-assemble/internal/generator"
)

func TestBuildSiteHandler_Execute_Build(t *testing.T) {
	cmd := loadBuildFixture(t, "build_basic.json")

	var capturedOpts generator.BuildOptions
	callbackInvoked := false

	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			capturedOpts = opts
			return &generator.BuildResult{PagesBuilt: 3}, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})

	cmd.ResultCallback = func(env ResultEnvelope) {
		callbackInvoked = true
		if env.Result == nil {
			t.Fatalf("expected build result, got nil")
		}
		if env.Result.PagesBuilt != 3 {
			t.Fatalf("expected PagesBuilt 3, got %d", env.Result.PagesBuilt)
		}
		if env.Metadata["operation"] != "build" {
			t.Fatalf("expected operation build, got %v", env.Metadata["operation"])
		}
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute build: %v", err)
	}

	if capturedOpts.DryRun {
		t.Fatalf("expected DryRun false")
	}
	if want := []string{"pages", "guide"}; !reflect.DeepEqual(capturedOpts.Sections, want) {
		t.Fatalf("expected sections %v, got %v", want, capturedOpts.Sections)
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
}

func TestBuildSiteHandler_Execute_NoDeadline(t *testing.T) {
	var hasDeadline bool
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			_, hasDeadline = ctx.Deadline()
			return &generator.BuildResult{}, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	if err := handler.Execute(context.Background(), BuildSiteCommand{}); err != nil {
		t.Fatalf("execute build: %v", err)
	}
	if hasDeadline {
		t.Fatal("expected build to run without a deadline")
	}
}

func TestBuildSiteHandler_Execute_DryRun(t *testing.T) {
	cmd := loadBuildFixture(t, "build_dry_run.json")

	var capturedOpts generator.BuildOptions
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			capturedOpts = opts
			return &generator.BuildResult{DryRun: true}, nil
		},
	}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute dry run: %v", err)
	}
	if !capturedOpts.DryRun {
		t.Fatal("expected DryRun to be forwarded")
	}
	if capturedOpts.Sections != nil {
		t.Fatalf("expected all sections, got %v", capturedOpts.Sections)
	}
}

func TestBuildSiteHandler_Execute_ReportsPartialResultOnFailure(t *testing.T) {
	failure := domain.NewLayoutError("missing", "layout not registered", nil)
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			return &generator.BuildResult{PagesBuilt: 1}, failure
		},
	}

	var envelope ResultEnvelope
	cmd := BuildSiteCommand{ResultCallback: func(env ResultEnvelope) { envelope = env }}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	err := handler.Execute(context.Background(), cmd)
	if err == nil {
		t.Fatal("expected build failure")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
	var layoutErr *domain.LayoutError
	if !errors.As(err, &layoutErr) || layoutErr.Layout != "missing" {
		t.Fatalf("expected wrapped LayoutError, got %v", err)
	}
	if envelope.Result == nil || envelope.Result.PagesBuilt != 1 {
		t.Fatalf("expected partial result in callback, got %#v", envelope.Result)
	}
}

func TestBuildSiteHandler_Execute_GeneratorDisabled(t *testing.T) {
	cmd := BuildSiteCommand{}
	svc := &fakeGeneratorService{}

	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysFalse})
	err := handler.Execute(context.Background(), cmd)
	if !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestDiffSiteHandler_Execute(t *testing.T) {
	cmd := loadDiffFixture(t, "diff_basic.json")

	var capturedOpts generator.BuildOptions
	callbackInvoked := false

	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			capturedOpts = opts
			return &generator.BuildResult{PagesBuilt: 2, DryRun: true}, nil
		},
	}

	handler := NewDiffSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	cmd.ResultCallback = func(env ResultEnvelope) {
		callbackInvoked = true
		if env.Metadata["operation"] != "diff" {
			t.Fatalf("expected diff operation, got %v", env.Metadata["operation"])
		}
		if env.Result == nil || env.Result.PagesBuilt != 2 {
			t.Fatalf("unexpected diff result: %#v", env.Result)
		}
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute diff: %v", err)
	}
	if !capturedOpts.DryRun {
		t.Fatal("expected DryRun to be true for diff")
	}
	if want := []string{"partials"}; !reflect.DeepEqual(capturedOpts.Sections, want) {
		t.Fatalf("expected sections %v, got %v", want, capturedOpts.Sections)
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
}

func TestDiffSiteHandler_Execute_GeneratorDisabled(t *testing.T) {
	handler := NewDiffSiteHandler(&fakeGeneratorService{}, nil, FeatureGates{GeneratorEnabled: alwaysFalse})
	err := handler.Execute(context.Background(), DiffSiteCommand{})
	if !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestCleanSiteHandler_Execute(t *testing.T) {
	cleanCalled := false
	svc := &fakeGeneratorService{
		cleanFunc: func(ctx context.Context) error {
			cleanCalled = true
			return nil
		},
	}

	handler := NewCleanSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	if err := handler.Execute(context.Background(), CleanSiteCommand{}); err != nil {
		t.Fatalf("execute clean: %v", err)
	}
	if !cleanCalled {
		t.Fatal("expected Clean to be called")
	}
}

func TestCleanSiteHandler_Execute_GeneratorDisabled(t *testing.T) {
	handler := NewCleanSiteHandler(&fakeGeneratorService{}, nil, FeatureGates{GeneratorEnabled: alwaysFalse})
	err := handler.Execute(context.Background(), CleanSiteCommand{})
	if !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestBuildSiteCommandValidate(t *testing.T) {
	cmd := loadBuildFixture(t, "build_invalid_section.json")
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected validation error for blank sections")
	}

	called := false
	svc := &fakeGeneratorService{
		buildFunc: func(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
			called = true
			return nil, nil
		},
	}
	handler := NewBuildSiteHandler(svc, nil, FeatureGates{GeneratorEnabled: alwaysTrue})
	err := handler.Execute(context.Background(), cmd)
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected build not to run for an invalid command")
	}
}

func loadBuildFixture(t *testing.T, name string) BuildSiteCommand {
	t.Helper()
	var cmd BuildSiteCommand
	loadFixture(t, name, &cmd)
	return cmd
}

func loadDiffFixture(t *testing.T, name string) DiffSiteCommand {
	t.Helper()
	var cmd DiffSiteCommand
	loadFixture(t, name, &cmd)
	return cmd
}

func loadFixture(t *testing.T, name string, target any) {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("unmarshal fixture %s: %v", name, err)
	}
}

type fakeGeneratorService struct {
	buildFunc func(context.Context, generator.BuildOptions) (*generator.BuildResult, error)
	cleanFunc func(context.Context) error
}

func (f *fakeGeneratorService) Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error) {
	if f.buildFunc != nil {
		return f.buildFunc(ctx, opts)
	}
	return nil, nil
}

func (f *fakeGeneratorService) Clean(ctx context.Context) error {
	if f.cleanFunc != nil {
		return f.cleanFunc(ctx)
	}
	return nil
}

func alwaysTrue() bool  { return true }
func alwaysFalse() bool { return false }
