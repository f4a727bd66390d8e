package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-assemble/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and body from source. YAML ("---"), TOML
// ("+++") and JSON (";;;") blocks are recognised; a file without a block
// yields empty metadata and the full source as body.
func ParseFrontMatter(source []byte) (map[string]any, []byte, error) {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return normalizeMap(meta), body, nil
}

// FrontMatter adapts ParseFrontMatter to interfaces.FrontMatterParser.
type FrontMatter struct{}

var _ interfaces.FrontMatterParser = FrontMatter{}

func (FrontMatter) Parse(source []byte) (map[string]any, []byte, error) {
	return ParseFrontMatter(source)
}

// normalizeMap converts nested map[any]any values produced by the YAML
// decoder into map[string]any so templates and the JSON dump see one shape.
func normalizeMap(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return normalizeMap(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, elem := range typed {
			out[fmt.Sprint(key)] = normalizeValue(elem)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, elem := range typed {
			out[i] = normalizeValue(elem)
		}
		return out
	default:
		return typed
	}
}
