package reference

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// newMarkdown returns the goldmark engine shared by HTML rendering and extraction.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

// splitFrontMatter separates an optional YAML frontmatter block from the body.
// Content without frontmatter is returned unchanged.
func splitFrontMatter(source []byte) (frontMatter, []byte, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return frontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// RenderHTML converts a rendered reference to an HTML fragment. Frontmatter,
// when present, is dropped. Raw HTML in descriptions is not passed through.
func RenderHTML(markdown []byte) ([]byte, error) {
	_, body, err := splitFrontMatter(markdown)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := newMarkdown().Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	return buf.Bytes(), nil
}
