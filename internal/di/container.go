package di

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-assemble/internal/commands"
	staticcmd "github.com/goliatone/go-assemble/internal/commands/static"
	"github.com/goliatone/go-assemble/internal/generator"
	"github.com/goliatone/go-assemble/internal/logging"
	"github.com/goliatone/go-assemble/internal/logging/console"
	"github.com/goliatone/go-assemble/internal/logging/gologger"
	"github.com/goliatone/go-assemble/internal/runtimeconfig"
	"github.com/goliatone/go-assemble/internal/storage"
	"github.com/goliatone/go-assemble/internal/templates"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

// Container wires the generator, its file store and the command handlers
// from a validated runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	store          interfaces.FileStore
	resolver       interfaces.GlobResolver
	formatter      interfaces.HTMLFormatter

	generatorSvc generator.Service
	handlers     *StaticHandlers
}

// StaticHandlers groups the command handlers exposed to the CLI.
type StaticHandlers struct {
	Build *staticcmd.BuildSiteHandler
	Diff  *staticcmd.DiffSiteHandler
	Clean *staticcmd.CleanSiteHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithStore replaces the OS file store rooted at Config.Root.
func WithStore(store interfaces.FileStore) Option {
	return func(c *Container) {
		if store != nil {
			c.store = store
		}
	}
}

// WithResolver overrides the glob resolver derived from the store.
func WithResolver(resolver interfaces.GlobResolver) Option {
	return func(c *Container) {
		if resolver != nil {
			c.resolver = resolver
		}
	}
}

// WithFormatter overrides the HTML formatter used when pretty output is on.
func WithFormatter(formatter interfaces.HTMLFormatter) Option {
	return func(c *Container) {
		if formatter != nil {
			c.formatter = formatter
		}
	}
}

// WithGeneratorService injects a prebuilt generator service.
func WithGeneratorService(svc generator.Service) Option {
	return func(c *Container) {
		if svc != nil {
			c.generatorSvc = svc
		}
	}
}

// NewContainer validates cfg and wires the build services.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("di: invalid config: %w", err)
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if c.store == nil {
		c.store = storage.NewOS(filepath.Clean(cfg.Root))
	}
	if c.generatorSvc == nil {
		c.generatorSvc = c.newGeneratorService()
	}
	c.handlers = c.newStaticHandlers()

	logging.ModuleLogger(c.loggerProvider, "assemble.di").Debug("container.configured",
		"root", cfg.Root,
		"dist", cfg.Dist,
		"logging_provider", cfg.Logging.Provider,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:  c.Config.Logging.Level,
			Format: c.Config.Logging.Format,
		})
		if err != nil {
			return fmt.Errorf("di: configure logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) newGeneratorService() generator.Service {
	cfg := c.Config
	templatesLogger := logging.TemplatesLogger(c.loggerProvider)
	return generator.NewService(generator.Config{
		PartialsDir:         cfg.PartialsDir,
		PartialPatterns:     cfg.PartialPatterns(),
		LibraryPatterns:     cfg.LibraryPatterns(),
		Delimiter:           cfg.IDDelimiter,
		Layouts:             cfg.Layouts,
		DefaultLayout:       cfg.DefaultLayout,
		DefaultModuleLayout: cfg.DefaultModuleLayout,
		FrameLayout:         cfg.FrameLayout,
		FramedParents:       cfg.FramedParents,
		GuideIncludes:       cfg.GuideIncludes,
		GuidePages:          cfg.GuidePages,
		Pages:               cfg.Pages,
		Data:                cfg.Data,
		Index:               cfg.Index,
		OutputDir:           filepath.ToSlash(filepath.Clean(cfg.Dist)),
		Pretty:              cfg.Pretty,
		Clean:               cfg.Clean,
		Dump:                cfg.Dump,
		SlugStyle:           cfg.SlugStyle,
	}, generator.Dependencies{
		Store:     c.store,
		Resolver:  c.resolver,
		Formatter: c.formatter,
		Engine: func() interfaces.TemplateEngine {
			return templates.NewEngine("assemble", templates.WithEngineLogger(templatesLogger))
		},
		Logger:         logging.GeneratorLogger(c.loggerProvider),
		TaxonomyLogger: logging.TaxonomyLogger(c.loggerProvider),
	})
}

func (c *Container) newStaticHandlers() *StaticHandlers {
	logger := commands.CommandLogger(c.loggerProvider, "static")
	gates := staticcmd.FeatureGates{GeneratorEnabled: func() bool { return c.generatorSvc != nil }}
	return &StaticHandlers{
		Build: staticcmd.NewBuildSiteHandler(c.generatorSvc, logger, gates),
		Diff:  staticcmd.NewDiffSiteHandler(c.generatorSvc, logger, gates),
		Clean: staticcmd.NewCleanSiteHandler(c.generatorSvc, logger, gates),
	}
}

// LoggerProvider returns the provider shared by every module logger.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Store returns the file store rooted at the project root.
func (c *Container) Store() interfaces.FileStore {
	return c.store
}

// GeneratorService returns the configured generator.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// StaticHandlers returns the build, diff and clean command handlers.
func (c *Container) StaticHandlers() *StaticHandlers {
	return c.handlers
}
