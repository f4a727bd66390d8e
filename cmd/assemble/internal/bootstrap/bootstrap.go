package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-assemble"
	"github.com/goliatone/go-assemble/internal/commands"
	"github.com/goliatone/go-assemble/internal/di"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

// Options captures CLI overrides applied on top of the config file.
type Options struct {
	ConfigPath     string
	Root           string
	Dist           string
	Dump           string
	Pretty         *bool
	Clean          *bool
	LogProvider    string
	LogLevel       string
	LogFormat      string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the assemble module and the command logger used by the CLI.
type Module struct {
	Module   *assemble.Module
	Handlers *di.StaticHandlers
	Config   assemble.Config
	Logger   interfaces.Logger
}

// ResolveConfig loads the config file and applies overrides. An explicit
// ConfigPath must exist; otherwise assemble.yaml in the working directory is
// used when present. A relative root is resolved against the config file's
// directory.
func ResolveConfig(opts Options) (assemble.Config, error) {
	cfg := assemble.DefaultConfig()

	path := strings.TrimSpace(opts.ConfigPath)
	explicit := path != ""
	if !explicit {
		path = assemble.DefaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		loaded, err := assemble.LoadConfig(path)
		if err != nil {
			return assemble.Config{}, err
		}
		cfg = loaded
		if !filepath.IsAbs(cfg.Root) {
			cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
		}
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return assemble.Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	if root := strings.TrimSpace(opts.Root); root != "" {
		cfg.Root = root
	}
	if dist := strings.TrimSpace(opts.Dist); dist != "" {
		cfg.Dist = dist
	}
	if dump := strings.TrimSpace(opts.Dump); dump != "" {
		cfg.Dump = dump
	}
	if opts.Pretty != nil {
		cfg.Pretty = *opts.Pretty
	}
	if opts.Clean != nil {
		cfg.Clean = *opts.Clean
	}
	if provider := strings.TrimSpace(opts.LogProvider); provider != "" {
		cfg.Logging.Provider = provider
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(opts.LogFormat); format != "" {
		cfg.Logging.Format = format
	}
	return cfg, nil
}

// BuildModule resolves the configuration and constructs the module.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := ResolveConfig(opts)
	if err != nil {
		return nil, err
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := assemble.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise assemble module: %w", err)
	}

	return &Module{
		Module:   module,
		Handlers: module.Container().StaticHandlers(),
		Config:   cfg,
		Logger:   commands.CommandLogger(module.LoggerProvider(), "cli"),
	}, nil
}

// SplitSections parses a comma separated section list into a trimmed slice.
func SplitSections(values []string) []string {
	var sections []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				sections = append(sections, trimmed)
			}
		}
	}
	return sections
}
