// Package htmlfmt re-indents rendered HTML using the x/net/html tokenizer.
package htmlfmt

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-assemble/pkg/interfaces"
)

var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "param": {}, "source": {}, "track": {}, "wbr": {},
}

// Content of these elements is copied verbatim.
var preservedElements = map[string]struct{}{
	"pre": {}, "script": {}, "style": {}, "textarea": {},
}

// Formatter places every tag and text run on its own line, indented by
// nesting depth.
type Formatter struct {
	Indent string
}

var _ interfaces.HTMLFormatter = Formatter{}

// New returns a Formatter indenting with two spaces.
func New() Formatter {
	return Formatter{Indent: "  "}
}

func (f Formatter) Format(src string) (string, error) {
	indent := f.Indent
	if indent == "" {
		indent = "  "
	}

	var b strings.Builder
	b.Grow(len(src) + len(src)/4)
	line := func(depth int, text string) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(indent, depth))
		b.WriteString(text)
	}

	z := html.NewTokenizer(strings.NewReader(src))
	depth := 0
	preserved := ""
	nested := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return b.String(), nil
		}

		raw := string(z.Raw())
		name, _ := z.TagName()
		tag := string(name)

		if preserved != "" {
			b.WriteString(raw)
			switch {
			case tt == html.StartTagToken && tag == preserved:
				nested++
			case tt == html.EndTagToken && tag == preserved:
				if nested == 0 {
					preserved = ""
					depth--
				} else {
					nested--
				}
			}
			continue
		}

		switch tt {
		case html.TextToken:
			if text := strings.TrimSpace(raw); text != "" {
				line(depth, text)
			}
		case html.StartTagToken:
			line(depth, raw)
			if _, ok := voidElements[tag]; ok {
				continue
			}
			depth++
			if _, ok := preservedElements[tag]; ok {
				preserved = tag
			}
		case html.EndTagToken:
			if depth > 0 {
				depth--
			}
			line(depth, raw)
		default:
			line(depth, raw)
		}
	}
}
