package reference

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harrison/folderdoc/internal/models"
)

const (
	locationLabel = "**Location:**"
	notesLabel    = "**Purpose/Notes:**"
	missingNote   = "**(Warning: Path may not exist or is not a directory at generation time)**"
	emptyNotice   = "No folder entries found or processed from the manifest."
)

// RenderOptions controls optional parts of the rendered document
type RenderOptions struct {
	// Timestamp adds a "Generated on" line; zero keeps output reproducible
	Timestamp time.Time
	// FrontMatter prefixes the document with a YAML metadata block
	FrontMatter bool
}

// frontMatter is the YAML block written ahead of the document
type frontMatter struct {
	Title       string `yaml:"title"`
	Manifest    string `yaml:"manifest,omitempty"`
	Entries     int    `yaml:"entries"`
	Unconfirmed int    `yaml:"unconfirmed"`
	Generated   string `yaml:"generated,omitempty"`
}

// Render produces the Markdown reference. Entries appear in document order;
// paths and descriptions are written verbatim without escaping.
func Render(doc models.MarkdownDocument, opts RenderOptions) ([]byte, error) {
	var buf bytes.Buffer

	title := doc.Title
	if title == "" {
		title = DefaultTitle
	}

	generated := ""
	if !opts.Timestamp.IsZero() {
		generated = opts.Timestamp.Format("2006-01-02 15:04:05 MST")
	}

	if opts.FrontMatter {
		meta, err := yaml.Marshal(frontMatter{
			Title:       title,
			Manifest:    doc.Source,
			Entries:     len(doc.Entries),
			Unconfirmed: doc.Unconfirmed(),
			Generated:   generated,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
		}
		buf.WriteString("---\n")
		buf.Write(meta)
		buf.WriteString("---\n\n")
	}

	fmt.Fprintf(&buf, "# %s\n\n", title)
	if generated != "" {
		fmt.Fprintf(&buf, "_Generated on: %s_\n\n", generated)
	}
	buf.WriteString("---\n\n")

	if len(doc.Entries) == 0 {
		buf.WriteString(emptyNotice + "\n")
		return buf.Bytes(), nil
	}

	for _, e := range doc.Entries {
		renderEntry(&buf, e)
	}

	return buf.Bytes(), nil
}

func renderEntry(buf *bytes.Buffer, e models.ReferenceEntry) {
	fmt.Fprintf(buf, "## %s\n\n", headingName(e.Path))
	fmt.Fprintf(buf, "* %s `%s`\n", locationLabel, e.Path)
	if !e.Exists {
		fmt.Fprintf(buf, "    * %s\n", missingNote)
	}
	fmt.Fprintf(buf, "* %s %s\n\n", notesLabel, e.Description)
	buf.WriteString("---\n\n")
}

// headingName returns the last element of p, accepting both slash styles so
// manifests written on Windows render the same everywhere.
func headingName(p string) string {
	trimmed := strings.TrimRight(p, `/\`)
	if trimmed == "" {
		return p
	}
	if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
		return trimmed[i+1:]
	}
	return filepath.Base(trimmed)
}
