// Package naming derives names, titles, slugs and template identifiers from
// source file paths. Every function is pure and total.
package naming

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

var (
	orderingPrefix  = regexp.MustCompile(`^[0-9.\-|]+`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	slugDisallowed  = regexp.MustCompile(`[^a-z0-9_-]`)
	dashRun         = regexp.MustCompile(`-{2,}`)
	identDisallowed = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// NameOf returns the base name of a file path without directory or extension.
// Whitespace becomes "-". Unless preserveNumbers is set, a leading ordering
// prefix such as "02-" is removed; a name made only of prefix characters is
// returned unchanged.
func NameOf(filePath string, preserveNumbers bool) string {
	base := path.Base(strings.ReplaceAll(filePath, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, base)
	if preserveNumbers {
		return base
	}
	if stripped := orderingPrefix.ReplaceAllString(base, ""); stripped != "" {
		return stripped
	}
	return base
}

// TitleCase turns each "-" and "_" into a space and capitalizes each word.
// Separators are not collapsed: "nav--item" becomes "Nav  Item".
func TitleCase(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	start := true
	for _, r := range name {
		switch {
		case r == '-' || r == '_':
			b.WriteRune(' ')
			start = true
		case unicode.IsSpace(r):
			b.WriteRune(r)
			start = true
		case start:
			b.WriteRune(unicode.ToUpper(r))
			start = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Slugify lowercases name and reduces it to [a-z0-9_-] with no leading,
// trailing or repeated dashes. Slugify(Slugify(s)) == Slugify(s).
func Slugify(name string) string {
	out := strings.ToLower(name)
	out = whitespaceRun.ReplaceAllString(out, "-")
	out = slugDisallowed.ReplaceAllString(out, "")
	out = dashRun.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}

// Identifier converts name into a template variable name: only letters,
// digits and underscores, never starting with a digit.
func Identifier(name string) string {
	out := identDisallowed.ReplaceAllString(strings.TrimSpace(name), "_")
	if out == "" {
		return "_"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}
