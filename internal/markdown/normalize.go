package markdown

import (
	"fmt"
	"regexp"

	"github.com/goliatone/go-assemble/internal/domain"
	"github.com/goliatone/go-assemble/pkg/interfaces"
)

const (
	notesKey = "notes"
	specKey  = "spec"
)

var blankEdges = regexp.MustCompile(`^(\s*(\r?\n|\r))+|(\s*(\r?\n|\r))+$`)

// Document is a normalized source file.
type Document struct {
	Path string `json:"path"`
	// Data is the front matter without the reserved notes and spec keys.
	Data  map[string]any `json:"data"`
	Body  string         `json:"body"`
	Notes string         `json:"notes"`
	Spec  string         `json:"spec"`
}

// Normalizer turns raw file content into Documents.
type Normalizer struct {
	frontMatter interfaces.FrontMatterParser
	markdown    interfaces.MarkdownParser
}

// NewNormalizer wires the front matter and markdown collaborators. Nil
// arguments fall back to the adrg/frontmatter and goldmark implementations.
func NewNormalizer(frontMatter interfaces.FrontMatterParser, markdown interfaces.MarkdownParser) *Normalizer {
	if frontMatter == nil {
		frontMatter = FrontMatter{}
	}
	if markdown == nil {
		markdown = NewGoldmarkParser(interfaces.ParseOptions{})
	}
	return &Normalizer{frontMatter: frontMatter, markdown: markdown}
}

// Normalize parses source and separates the reserved fields. Any failure is
// returned as a *domain.ParseError.
func (n *Normalizer) Normalize(path string, source []byte) (*Document, error) {
	meta, body, err := n.frontMatter.Parse(source)
	if err != nil {
		return nil, domain.NewParseError(path, "invalid front matter", err)
	}

	data := make(map[string]any, len(meta))
	for key, value := range meta {
		data[key] = value
	}

	doc := &Document{
		Path: path,
		Body: TrimBlankLines(string(body)),
	}

	if raw, ok := data[notesKey]; ok {
		delete(data, notesKey)
		if text := stringify(raw); text != "" {
			html, err := n.markdown.Parse([]byte(text))
			if err != nil {
				return nil, domain.NewParseError(path, "notes could not be rendered", err)
			}
			doc.Notes = string(html)
		}
	}

	if raw, ok := data[specKey]; ok {
		delete(data, specKey)
		doc.Spec = stringify(raw)
	}

	doc.Data = data
	return doc, nil
}

// TrimBlankLines removes runs of blank lines from both ends of body.
func TrimBlankLines(body string) string {
	return blankEdges.ReplaceAllString(body, "")
}

func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}
