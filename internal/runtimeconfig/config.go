package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

var ErrDistRequired = errors.New("assemble config: dist directory is required")

// ErrDistOutsideRoot rejects output directories that are absolute or escape the source root.
var ErrDistOutsideRoot = errors.New("assemble config: dist must be a relative path inside root")
var ErrSlugStyleInvalid = errors.New("assemble config: slug style is invalid")
var ErrPatternInvalid = errors.New("assemble config: pattern is invalid")
var ErrLoggingProviderRequired = errors.New("assemble config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("assemble config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("assemble config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("assemble config: logging format is invalid")

// DefaultFileName is the configuration file looked up by the CLI.
const DefaultFileName = "assemble.yaml"

// Patterns is a list of glob patterns. YAML accepts a single string or a
// sequence.
type Patterns []string

func (p *Patterns) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var single string
		if err := value.Decode(&single); err != nil {
			return err
		}
		if strings.TrimSpace(single) == "" {
			*p = nil
			return nil
		}
		*p = Patterns{single}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*p = list
		return nil
	default:
		return fmt.Errorf("%w: expected string or list at line %d", ErrPatternInvalid, value.Line)
	}
}

// Config captures every build input. Paths are relative to Root.
type Config struct {
	Root                string        `yaml:"root" json:"root"`
	PartialsDir         string        `yaml:"partialsDir" json:"partialsDir"`
	Common              Patterns      `yaml:"common" json:"common"`
	Blocks              Patterns      `yaml:"blocks" json:"blocks"`
	Modules             Patterns      `yaml:"modules" json:"modules"`
	PartialLib          Patterns      `yaml:"partialLib" json:"partialLib"`
	IDDelimiter         string        `yaml:"idDelimiter" json:"idDelimiter"`
	Layouts             Patterns      `yaml:"layouts" json:"layouts"`
	DefaultLayout       string        `yaml:"defaultLayout" json:"defaultLayout"`
	DefaultModuleLayout string        `yaml:"defaultModuleLayout" json:"defaultModuleLayout"`
	FrameLayout         string        `yaml:"frameLayout" json:"frameLayout"`
	FramedParents       []string      `yaml:"framedParents" json:"framedParents"`
	GuideIncludes       Patterns      `yaml:"guideIncludes" json:"guideIncludes"`
	GuidePages          Patterns      `yaml:"guidePages" json:"guidePages"`
	Pages               Patterns      `yaml:"pages" json:"pages"`
	Data                Patterns      `yaml:"data" json:"data"`
	Index               string        `yaml:"index" json:"index"`
	Dist                string        `yaml:"dist" json:"dist"`
	Pretty              bool          `yaml:"pretty" json:"pretty"`
	Clean               bool          `yaml:"clean" json:"clean"`
	Dump                string        `yaml:"dump" json:"dump"`
	SlugStyle           string        `yaml:"slugStyle" json:"slugStyle"`
	Logging             LoggingConfig `yaml:"logging" json:"logging"`
}

// LoggingConfig selects the logger provider.
type LoggingConfig struct {
	Provider string `yaml:"provider" json:"provider"`
	Level    string `yaml:"level" json:"level"`
	Format   string `yaml:"format" json:"format"`
}

// DefaultConfig returns the conventional project layout.
func DefaultConfig() Config {
	return Config{
		Root:                ".",
		PartialsDir:         "src/partials/",
		Common:              Patterns{"common/**/*"},
		Blocks:              Patterns{"blocks/**/*"},
		Modules:             Patterns{"modules/**/*"},
		PartialLib:          Patterns{"lib/**/*"},
		IDDelimiter:         "__",
		Layouts:             Patterns{"src/views/layouts/*"},
		DefaultLayout:       "default",
		DefaultModuleLayout: "module",
		FrameLayout:         "frame",
		FramedParents:       []string{"blocks"},
		GuideIncludes:       Patterns{"src/views/guide/echo/*"},
		GuidePages:          Patterns{"src/views/guide/**/*", "!src/views/guide/echo/**"},
		Pages:               Patterns{"src/views/pages/**/*"},
		Data:                Patterns{"src/data/*"},
		Index:               "src/views/index.html",
		Dist:                "dist",
		SlugStyle:           "strict",
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Parse decodes YAML over DefaultConfig. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("assemble config: decode: %w", err)
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("assemble config: read %s: %w", path, err)
	}
	return Parse(data)
}

// PartialPatterns joins the common, blocks and modules patterns onto
// PartialsDir.
func (cfg Config) PartialPatterns() []string {
	var out []string
	for _, group := range []Patterns{cfg.Common, cfg.Blocks, cfg.Modules} {
		out = append(out, cfg.underPartials(group)...)
	}
	return out
}

// LibraryPatterns joins PartialLib onto PartialsDir.
func (cfg Config) LibraryPatterns() []string {
	return cfg.underPartials(cfg.PartialLib)
}

func (cfg Config) underPartials(patterns Patterns) []string {
	out := make([]string, 0, len(patterns))
	base := strings.TrimSuffix(filepath.ToSlash(strings.TrimSpace(cfg.PartialsDir)), "/")
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		negate := strings.HasPrefix(pattern, "!")
		pattern = strings.TrimPrefix(pattern, "!")
		if base != "" && base != "." {
			pattern = base + "/" + strings.TrimPrefix(pattern, "/")
		}
		if negate {
			pattern = "!" + pattern
		}
		out = append(out, pattern)
	}
	return out
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if err := validation.ValidateStruct(&cfg,
		validation.Field(&cfg.Root, validation.Required),
		validation.Field(&cfg.IDDelimiter, validation.Required),
		validation.Field(&cfg.DefaultLayout, validation.Required),
		validation.Field(&cfg.DefaultModuleLayout, validation.Required),
		validation.Field(&cfg.FrameLayout, validation.Required.When(len(cfg.FramedParents) > 0)),
		validation.Field(&cfg.Layouts, validation.Required),
	); err != nil {
		return err
	}

	dist := strings.TrimSpace(cfg.Dist)
	if dist == "" {
		return ErrDistRequired
	}
	if clean := filepath.Clean(filepath.FromSlash(dist)); clean == "." || !filepath.IsLocal(clean) {
		return fmt.Errorf("%w: %s", ErrDistOutsideRoot, dist)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.SlugStyle)) {
	case "", "strict", "normalize":
	default:
		return fmt.Errorf("%w: %s", ErrSlugStyleInvalid, cfg.SlugStyle)
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
