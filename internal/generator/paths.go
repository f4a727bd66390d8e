package generator

import (
	"path"
	"strings"

	"github.com/goliatone/go-assemble/internal/discovery"
)

const (
	indexSection = "index"
	indexOutput  = "index.html"
)

func joinOutputPath(base string, rel string) string {
	rel = strings.TrimLeft(rel, "/")
	if strings.TrimSpace(base) == "" || base == "." {
		return rel
	}
	return path.Join(strings.Trim(base, "/"), rel)
}

// sectionBase derives a section's classification base from its first
// include pattern.
func sectionBase(patterns []string) string {
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			continue
		}
		return discovery.StaticPrefix(pattern)
	}
	return "."
}
