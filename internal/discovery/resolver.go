// Package discovery expands glob patterns over a billy filesystem.
package discovery

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/gobwas/glob"

	"github.com/goliatone/go-assemble/pkg/interfaces"
)

const metaChars = "*?[{\\"

// Resolver implements interfaces.GlobResolver. Results follow pattern order,
// then walk order within a pattern, and each file appears once.
type Resolver struct {
	fs billy.Filesystem
}

var _ interfaces.GlobResolver = (*Resolver)(nil)

func NewResolver(fs billy.Filesystem) *Resolver {
	return &Resolver{fs: fs}
}

type matcher struct {
	source string
	globs  []glob.Glob
}

func (m matcher) match(name string) bool {
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Resolve expands patterns. A pattern starting with "!" removes matches
// produced by any other pattern.
func (r *Resolver) Resolve(patterns ...string) ([]string, error) {
	var includes, excludes []matcher
	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}
		negate := strings.HasPrefix(pattern, "!")
		pattern = CleanPattern(strings.TrimPrefix(pattern, "!"))
		m, err := compile(pattern)
		if err != nil {
			return nil, err
		}
		if negate {
			excludes = append(excludes, m)
		} else {
			includes = append(includes, m)
		}
	}

	seen := map[string]struct{}{}
	var out []string
	for _, inc := range includes {
		files, err := r.expand(inc)
		if err != nil {
			return nil, err
		}
		for _, name := range files {
			if _, ok := seen[name]; ok || excluded(excludes, name) {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out, nil
}

func (r *Resolver) expand(m matcher) ([]string, error) {
	root := StaticPrefix(m.source)
	if root == m.source {
		info, err := r.fs.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("discovery: stat %s: %w", root, err)
		}
		if info.IsDir() {
			return nil, nil
		}
		return []string{root}, nil
	}

	if _, err := r.fs.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("discovery: stat %s: %w", root, err)
	}

	var files []string
	err := util.Walk(r.fs, root, func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name = CleanPattern(filepath.ToSlash(name))
		if m.match(name) {
			files = append(files, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovery: walk %s: %w", root, err)
	}
	return files, nil
}

func excluded(excludes []matcher, name string) bool {
	for _, ex := range excludes {
		if ex.match(name) {
			return true
		}
	}
	return false
}

// compile builds the glob for pattern plus a variant with every "**/"
// removed, so "dir/**/*" also matches files directly inside dir.
func compile(pattern string) (matcher, error) {
	m := matcher{source: pattern}
	variants := []string{pattern}
	if strings.Contains(pattern, "**/") {
		variants = append(variants, strings.ReplaceAll(pattern, "**/", ""))
	}
	for _, variant := range variants {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return matcher{}, fmt.Errorf("discovery: invalid pattern %q: %w", pattern, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

// CleanPattern normalizes separators and strips a leading "./".
func CleanPattern(pattern string) string {
	pattern = strings.ReplaceAll(strings.TrimSpace(pattern), "\\", "/")
	for strings.HasPrefix(pattern, "./") {
		pattern = strings.TrimPrefix(pattern, "./")
	}
	return pattern
}

// StaticPrefix returns the leading path segments of pattern that contain no
// glob syntax, or "." when the first segment is already a wildcard. A
// pattern without glob syntax is returned as is.
func StaticPrefix(pattern string) string {
	pattern = CleanPattern(pattern)
	if !strings.ContainsAny(pattern, metaChars) {
		return strings.TrimSuffix(pattern, "/")
	}
	segments := strings.Split(pattern, "/")
	static := make([]string, 0, len(segments))
	for _, segment := range segments {
		if strings.ContainsAny(segment, metaChars) {
			break
		}
		static = append(static, segment)
	}
	if len(static) == 0 {
		return "."
	}
	return path.Clean(strings.Join(static, "/"))
}
