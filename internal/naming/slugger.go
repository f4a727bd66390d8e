package naming

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
)

const (
	StyleStrict    = "strict"
	StyleNormalize = "normalize"
)

// Slugger turns a single path segment into a URL-safe token.
type Slugger interface {
	Slug(segment string) string
}

// StrictSlugger applies Slugify.
type StrictSlugger struct{}

func (StrictSlugger) Slug(segment string) string {
	return Slugify(segment)
}

// NormalizerSlugger transliterates through go-slug, falling back to Slugify
// when the normalizer rejects the input or yields nothing.
type NormalizerSlugger struct{}

func (NormalizerSlugger) Slug(segment string) string {
	normalized, err := slug.Normalize(segment)
	if err != nil || normalized == "" {
		return Slugify(segment)
	}
	if !slug.IsValid(normalized) {
		return Slugify(normalized)
	}
	return normalized
}

// SluggerFor resolves a configured slug style. An empty style selects strict.
func SluggerFor(style string) (Slugger, error) {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", StyleStrict:
		return StrictSlugger{}, nil
	case StyleNormalize:
		return NormalizerSlugger{}, nil
	default:
		return nil, fmt.Errorf("naming: unknown slug style %q", style)
	}
}
