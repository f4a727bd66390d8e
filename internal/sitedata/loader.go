// Package sitedata loads the YAML files that make up the global site context.
package sitedata

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-assemble/internal/domain"
	"github.com/goliatone/go-assemble/internal/naming"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

// YAMLLoader implements interfaces.DataLoader with yaml.v3.
type YAMLLoader struct{}

var _ interfaces.DataLoader = YAMLLoader{}

func (YAMLLoader) Load(source []byte) (any, error) {
	var out any
	if err := yaml.Unmarshal(source, &out); err != nil {
		return nil, fmt.Errorf("sitedata: decode yaml: %w", err)
	}
	return out, nil
}

// LoadFiles reads and decodes every file, keyed by the template identifier of
// its name without ordering prefix ("02-site-meta.yaml" -> "site_meta"). A
// later file with the same key replaces an earlier one.
func LoadFiles(store interfaces.FileStore, loader interfaces.DataLoader, files []string) (map[string]any, error) {
	if loader == nil {
		loader = YAMLLoader{}
	}
	out := make(map[string]any, len(files))
	for _, file := range files {
		raw, err := store.ReadFile(file)
		if err != nil {
			return nil, domain.NewIOError("read", file, err)
		}
		value, err := loader.Load(raw)
		if err != nil {
			return nil, domain.NewParseError(file, "invalid site data", err)
		}
		out[Key(file)] = value
	}
	return out, nil
}

// Key returns the context key used for a data file.
func Key(file string) string {
	return naming.Identifier(naming.NameOf(file, false))
}
