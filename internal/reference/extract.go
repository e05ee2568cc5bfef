package reference

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/harrison/folderdoc/internal/models"
)

// Extract recovers entries from a reference produced by Render. Each level-2
// heading opens a block; its bullet list supplies the Location code span and
// the Purpose/Notes text. Blocks without a Location are dropped.
func Extract(r io.Reader) ([]models.ReferenceEntry, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	_, body, err := splitFrontMatter(content)
	if err != nil {
		return nil, err
	}

	doc := newMarkdown().Parser().Parse(text.NewReader(body))

	entries := make([]models.ReferenceEntry, 0)
	var current *models.ReferenceEntry

	flush := func() {
		if current != nil && current.Path != "" {
			entries = append(entries, *current)
		}
		current = nil
	}

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			flush()
			if node.Level == 2 {
				current = &models.ReferenceEntry{Exists: true}
			}
			return ast.WalkSkipChildren, nil
		case *ast.List:
			if current != nil {
				readFields(node, body, current)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	flush()

	return entries, nil
}

// readFields fills entry from the list items under an entry heading.
func readFields(list *ast.List, source []byte, entry *models.ReferenceEntry) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		first := item.FirstChild()
		if first == nil {
			continue
		}
		line := blockText(first, source)

		if rest, ok := strings.CutPrefix(line, locationLabel); ok {
			entry.Path = strings.Trim(strings.TrimSpace(rest), "`")
			for c := first.NextSibling(); c != nil; c = c.NextSibling() {
				if nested, ok := c.(*ast.List); ok && hasWarning(nested, source) {
					entry.Exists = false
				}
			}
			continue
		}
		if rest, ok := strings.CutPrefix(line, notesLabel); ok {
			entry.Description = strings.TrimSpace(rest)
		}
	}
}

func hasWarning(list *ast.List, source []byte) bool {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		if first := item.FirstChild(); first != nil && strings.Contains(blockText(first, source), "Warning:") {
			return true
		}
	}
	return false
}

// blockText joins the raw source lines of a text block.
func blockText(n ast.Node, source []byte) string {
	if n.Type() != ast.TypeBlock {
		return ""
	}
	lines := n.Lines()
	if lines == nil {
		return ""
	}
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimSpace(string(seg.Value(source))))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
