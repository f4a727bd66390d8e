package taxonomy

import (
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-assemble/internal/naming"
)

// RewriteTokens points "{{ key }}", "{{#key}}" and "{{/key}}" at the
// namespaced field "{{namespace.key}}" for every key in fields, keeping the
// "#" or "/" marker. Whitespace inside the braces is dropped. Keys are
// converted with naming.Identifier so the result is a valid variable path.
func RewriteTokens(content string, fields map[string]any, namespace string) string {
	if content == "" || len(fields) == 0 || namespace == "" {
		return content
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if strings.TrimSpace(key) != "" {
			keys = append(keys, key)
		}
	}
	// Longest keys first, then lexical.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, key := range keys {
		pattern := regexp.MustCompile(`\{\{([#/]?)\s*` + regexp.QuoteMeta(key) + `\s*\}\}`)
		target := strings.ReplaceAll(namespace+"."+naming.Identifier(key), "$", "$$")
		content = pattern.ReplaceAllString(content, "{{${1}"+target+"}}")
	}
	return content
}

// NamespaceKey is the context key holding every leaf's own data, keyed by
// the leaf's partial identifier.
const NamespaceKey = "ns"

func namespaceOf(partialID string) string {
	return NamespaceKey + "." + naming.Identifier(partialID)
}
