package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/goliatone/go-assemble/internal/discovery"
	"github.com/goliatone/go-assemble/internal/domain"
	"github.com/goliatone/go-assemble/internal/htmlfmt"
	"github.com/goliatone/go-assemble/internal/logging"
	"github.com/goliatone/go-assemble/internal/markdown"
	"github.com/goliatone/go-assemble/internal/naming"
	"github.com/goliatone/go-assemble/internal/sitedata"
	"github.com/goliatone/go-assemble/internal/taxonomy"
	"github.com/goliatone/go-assemble/internal/templates"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

// Section names produced by the generator.
const (
	SectionPartials = "partials"
	SectionGuide    = "guide"
	SectionPages    = "pages"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled  = errors.New("generator: service disabled")
	errStoreRequired    = errors.New("generator: file store is required")
	errResolverRequired = errors.New("generator: glob resolver is required")
	errOutputRequired   = errors.New("generator: output directory is required")
)

// Service describes the static site assembly contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures the resolved build inputs. Patterns are relative to the
// store root.
type Config struct {
	PartialsDir         string
	PartialPatterns     []string
	LibraryPatterns     []string
	Delimiter           string
	Layouts             []string
	DefaultLayout       string
	DefaultModuleLayout string
	FrameLayout         string
	FramedParents       []string
	GuideIncludes       []string
	GuidePages          []string
	Pages               []string
	Data                []string
	Index               string
	OutputDir           string
	Pretty              bool
	Clean               bool
	Dump                string
	SlugStyle           string
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	// Sections limits which sections are written. Every section is still
	// classified so contexts stay complete.
	Sections []string
	DryRun   bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	BuildID string
	// PagesBuilt counts files written, or that would be written on a dry run.
	PagesBuilt int
	Partials   int
	Layouts    int
	Sections   []string
	Duration   time.Duration
	Rendered   []RenderedPage
	DumpPath   string
	DryRun     bool
	Cancelled  bool
}

// Dependencies lists the collaborators the generator needs. Store is
// required; the rest default to the library backed implementations.
type Dependencies struct {
	Store       interfaces.FileStore
	Resolver    interfaces.GlobResolver
	FrontMatter interfaces.FrontMatterParser
	Markdown    interfaces.MarkdownParser
	DataLoader  interfaces.DataLoader
	Formatter   interfaces.HTMLFormatter
	Engine      func() interfaces.TemplateEngine
	Logger      interfaces.Logger

	// TaxonomyLogger defaults to Logger with a component field.
	TaxonomyLogger interfaces.Logger
}

// NewService wires a generator implementation with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Resolver == nil && deps.Store != nil {
		if fsStore, ok := deps.Store.(interface{ Filesystem() billy.Filesystem }); ok {
			deps.Resolver = discovery.NewResolver(fsStore.Filesystem())
		}
	}
	if deps.DataLoader == nil {
		deps.DataLoader = sitedata.YAMLLoader{}
	}
	if deps.Formatter == nil {
		deps.Formatter = htmlfmt.New()
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if deps.Engine == nil {
		deps.Engine = func() interfaces.TemplateEngine {
			return templates.NewEngine("assemble", templates.WithEngineLogger(logger))
		}
	}
	if strings.TrimSpace(cfg.Delimiter) == "" {
		cfg.Delimiter = taxonomy.DefaultDelimiter
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		now:    time.Now,
	}
}

func (s *service) taxonomyLogger(ctx context.Context) interfaces.Logger {
	if s.deps.TaxonomyLogger == nil {
		return logging.WithFields(logging.FromContext(ctx, s.logger), map[string]any{"component": "taxonomy"})
	}
	return logging.FromContext(ctx, s.deps.TaxonomyLogger)
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	now    func() time.Time
}

type disabledService struct{}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	start := s.now()
	state := NewBuildState(s.deps.Engine(), start)
	ctx = logging.WithBuildFields(ctx, map[string]any{"build_id": state.ID.String()})
	logger := logging.FromContext(ctx, s.logger)
	logger.Info("generator.build.start", "dry_run", opts.DryRun, "output", s.cfg.OutputDir)

	result := &BuildResult{BuildID: state.ID.String(), DryRun: opts.DryRun}

	if s.cfg.Clean && !opts.DryRun {
		if err := s.clean(logger); err != nil {
			return nil, err
		}
	}
	if err := s.loadLayouts(state); err != nil {
		return nil, err
	}
	if err := s.loadData(state); err != nil {
		return nil, err
	}
	if err := s.registerIncludes(state, logger); err != nil {
		return nil, err
	}

	builder := taxonomy.NewBuilder(s.deps.Resolver, s.deps.Store, state.Engine,
		taxonomy.WithNormalizer(s.normalizer()),
		taxonomy.WithDelimiter(s.cfg.Delimiter),
		taxonomy.WithSlugger(s.slugger()),
		taxonomy.WithLogger(s.taxonomyLogger(ctx)),
	)
	tax, err := builder.Build(ctx, s.sectionSpecs()...)
	if err != nil {
		return nil, err
	}
	state.Taxonomy = tax

	if err := s.loadIndex(state, logger); err != nil {
		return nil, err
	}

	var formatter interfaces.HTMLFormatter
	if s.cfg.Pretty {
		formatter = s.deps.Formatter
	}
	writer := newArtifactWriter(s.deps.Store, formatter, opts.DryRun)
	emit := func(page RenderedPage) error {
		page.Output = joinOutputPath(s.cfg.OutputDir, page.Output)
		page.Checksum = computeHashFromString(page.HTML)
		category := categoryPage
		if page.Section == indexSection {
			category = categoryIndex
		}
		if err := writer.WriteFile(writeFileRequest{
			Path:     page.Output,
			Content:  page.HTML,
			Category: category,
			NodeID:   page.NodeID,
		}); err != nil {
			return err
		}
		logger.Debug("generator.page.written",
			"node_id", page.NodeID,
			"category", string(category),
			"output", page.Output,
			"dry_run", opts.DryRun,
		)
		result.Rendered = append(result.Rendered, page)
		result.PagesBuilt++
		return nil
	}

	r := &renderer{state: state, logger: logger, now: s.now, emit: emit}
	for _, plan := range s.plans(state) {
		name := plan.section.Spec.Name
		if !selected(opts.Sections, name) {
			continue
		}
		if err := r.renderSection(ctx, plan); err != nil {
			result.Cancelled = errors.Is(err, context.Canceled)
			return result, err
		}
		result.Sections = append(result.Sections, name)
	}

	if state.Index != nil && selected(opts.Sections, indexSection) {
		page, err := s.renderIndex(state)
		if err != nil {
			return result, err
		}
		if err := emit(page); err != nil {
			return result, err
		}
	}

	result.Partials = len(state.Engine.Partials())
	result.Layouts = len(state.Layouts.Names())

	if name := strings.TrimSpace(s.cfg.Dump); name != "" {
		dumpPath := joinOutputPath(s.cfg.OutputDir, name)
		if err := writer.WriteFile(writeFileRequest{
			Path:     dumpPath,
			Content:  encodeDump(DumpDocument(state, result)),
			Category: categoryDump,
		}); err != nil {
			return result, err
		}
		if !opts.DryRun {
			result.DumpPath = dumpPath
		}
	}

	result.Duration = s.now().Sub(start)
	logger.Info("generator.build.complete",
		"pages", result.PagesBuilt,
		"partials", result.Partials,
		"layouts", result.Layouts,
		"duration", result.Duration.String(),
	)
	return result, nil
}

// Clean removes the output directory.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.deps.Store == nil {
		return errStoreRequired
	}
	return s.clean(logging.FromContext(ctx, s.logger))
}

func (s *service) ready() error {
	if s.deps.Store == nil {
		return errStoreRequired
	}
	if s.deps.Resolver == nil {
		return errResolverRequired
	}
	if dir := strings.TrimSpace(s.cfg.OutputDir); dir == "" || dir == "." {
		return errOutputRequired
	}
	return nil
}

func (s *service) clean(logger interfaces.Logger) error {
	dir := strings.TrimSpace(s.cfg.OutputDir)
	if dir == "" || dir == "." {
		return errOutputRequired
	}
	exists, err := s.deps.Store.Exists(dir)
	if err != nil {
		return domain.NewIOError("stat", dir, err)
	}
	if !exists {
		return nil
	}
	if err := s.deps.Store.RemoveAll(dir); err != nil {
		return domain.NewIOError("clean", dir, err)
	}
	logger.Info("generator.output.cleaned", "output", dir)
	return nil
}

func (s *service) resolve(label string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	files, err := s.deps.Resolver.Resolve(patterns...)
	if err != nil {
		return nil, domain.NewIOError("resolve", label, err)
	}
	return files, nil
}

func (s *service) loadLayouts(state *BuildState) error {
	files, err := s.resolve("layouts", s.cfg.Layouts)
	if err != nil {
		return err
	}
	layouts, err := templates.LoadLayouts(s.deps.Store, files)
	if err != nil {
		return err
	}
	state.Layouts = layouts
	return nil
}

func (s *service) loadData(state *BuildState) error {
	files, err := s.resolve("data", s.cfg.Data)
	if err != nil {
		return err
	}
	data, err := sitedata.LoadFiles(s.deps.Store, s.deps.DataLoader, files)
	if err != nil {
		return err
	}
	state.Data = data
	return nil
}

// registerIncludes registers guide include files as partials named after
// the file without ordering prefix.
func (s *service) registerIncludes(state *BuildState, logger interfaces.Logger) error {
	files, err := s.resolve("guideIncludes", s.cfg.GuideIncludes)
	if err != nil {
		return err
	}
	normalizer := s.normalizer()
	for _, file := range files {
		raw, err := s.deps.Store.ReadFile(file)
		if err != nil {
			return domain.NewIOError("read", file, err)
		}
		doc, err := normalizer.Normalize(file, raw)
		if err != nil {
			return err
		}
		id := naming.NameOf(file, false)
		if state.Engine.RegisterPartial(id, doc.Body) {
			logging.WithNodeContext(logger, file, "guideIncludes", id).Warn("generator.include.replaced")
		}
	}
	return nil
}

func (s *service) loadIndex(state *BuildState, logger interfaces.Logger) error {
	file := strings.TrimSpace(s.cfg.Index)
	if file == "" {
		return nil
	}
	exists, err := s.deps.Store.Exists(file)
	if err != nil {
		return domain.NewIOError("stat", file, err)
	}
	if !exists {
		logger.Debug("generator.index.missing", "source", file)
		return nil
	}
	raw, err := s.deps.Store.ReadFile(file)
	if err != nil {
		return domain.NewIOError("read", file, err)
	}
	doc, err := s.normalizer().Normalize(file, raw)
	if err != nil {
		return err
	}
	state.Index = doc
	return nil
}

func (s *service) renderIndex(state *BuildState) (RenderedPage, error) {
	start := s.now()
	rc := documentContext(state, state.Index, s.cfg.DefaultLayout)
	tpl, err := state.Layouts.Wrap(rc.Layout, state.Index.Body)
	if err != nil {
		return RenderedPage{}, err
	}
	html, err := templates.Render(state.Engine, "index", tpl, rc.Values)
	if err != nil {
		return RenderedPage{}, err
	}
	return RenderedPage{
		NodeID:   indexSection,
		Section:  indexSection,
		Output:   indexOutput,
		Layout:   rc.Layout,
		HTML:     html,
		Duration: s.now().Sub(start),
	}, nil
}

func (s *service) normalizer() *markdown.Normalizer {
	return markdown.NewNormalizer(s.deps.FrontMatter, s.deps.Markdown)
}

func (s *service) slugger() naming.Slugger {
	slugger, err := naming.SluggerFor(s.cfg.SlugStyle)
	if err != nil {
		return naming.StrictSlugger{}
	}
	return slugger
}

func (s *service) sectionSpecs() []taxonomy.SectionSpec {
	var specs []taxonomy.SectionSpec
	if len(s.cfg.PartialPatterns) > 0 || len(s.cfg.LibraryPatterns) > 0 {
		specs = append(specs, taxonomy.SectionSpec{
			Name:             SectionPartials,
			Base:             path.Clean(s.cfg.PartialsDir),
			Patterns:         s.cfg.PartialPatterns,
			LibraryPatterns:  s.cfg.LibraryPatterns,
			ParentFromPath:   true,
			RegisterPartials: true,
			Style:            taxonomy.StylePath,
			Kind:             taxonomy.KindPartial,
		})
	}
	if len(s.cfg.GuidePages) > 0 {
		specs = append(specs, taxonomy.SectionSpec{
			Name:     SectionGuide,
			Base:     sectionBase(s.cfg.GuidePages),
			Patterns: s.cfg.GuidePages,
			Style:    taxonomy.StyleAnchor,
			Kind:     taxonomy.KindPage,
		})
	}
	if len(s.cfg.Pages) > 0 {
		specs = append(specs, taxonomy.SectionSpec{
			Name:     SectionPages,
			Base:     sectionBase(s.cfg.Pages),
			Patterns: s.cfg.Pages,
			Style:    taxonomy.StylePath,
			Kind:     taxonomy.KindPage,
		})
	}
	return specs
}

func (s *service) plans(state *BuildState) []sectionPlan {
	framed := make(map[string]struct{}, len(s.cfg.FramedParents))
	for _, parent := range s.cfg.FramedParents {
		framed[parent] = struct{}{}
	}
	sections := state.Taxonomy.Sections()
	plans := make([]sectionPlan, 0, len(sections))
	for _, section := range sections {
		plan := sectionPlan{
			section:       section,
			defaultLayout: s.cfg.DefaultLayout,
		}
		if section.Spec.RegisterPartials {
			plan.defaultLayout = s.cfg.DefaultModuleLayout
			plan.frameLayout = s.cfg.FrameLayout
			plan.framed = framed
		}
		plans = append(plans, plan)
	}
	return plans
}

func selected(sections []string, name string) bool {
	if len(sections) == 0 {
		return true
	}
	for _, section := range sections {
		if strings.EqualFold(strings.TrimSpace(section), name) {
			return true
		}
	}
	return false
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}
