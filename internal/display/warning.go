package display

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/folderdoc/internal/models"
)

// maxListed caps the number of items printed under one warning.
const maxListed = 20

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Items      []string // Affected paths or lines (optional)
	Suggestion string   // Action to take (optional)
}

// ColorEnabled reports whether w is a terminal that should receive ANSI colors.
func ColorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Display writes the warning, in yellow when out is a terminal.
func (w Warning) Display(out io.Writer) {
	w.render(out, ColorEnabled(out))
}

func (w Warning) render(out io.Writer, useColor bool) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Items) > 0 {
		if len(w.Items) == 1 {
			b.WriteString("    Affected item:\n")
		} else {
			fmt.Fprintf(&b, "    Affected items (%d):\n", len(w.Items))
		}

		for i, item := range w.Items {
			if i == maxListed {
				fmt.Fprintf(&b, "      ... and %d more\n", len(w.Items)-maxListed)
				break
			}
			fmt.Fprintf(&b, "      %d. %s\n", i+1, item)
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion: ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	c := color.New(color.FgYellow)
	if useColor {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	c.Fprint(out, b.String())
}

// suggestions holds the remedy shown for each diagnostic kind.
var suggestions = map[models.DiagnosticKind]string{
	models.DiagUnreadableDir: "Check permissions or add the folder to --ignore-dir",
	models.DiagMalformedLine: "Separate path and description with the manifest separator",
	models.DiagEmptyField:    "Fill in both the path and the description",
	models.DiagPlaceholder:   "Replace " + models.PlaceholderDescription + " with a real description",
	models.DiagMissingPath:   "Fix the path or remove the line from the manifest",
	models.DiagNoDate:        "Only files named like name-YYYYMMDD-... are organized",
	models.DiagMoveFailed:    "Close programs holding the file and run organize again",
}

var titles = map[models.DiagnosticKind]string{
	models.DiagUnreadableDir: "Folders could not be read",
	models.DiagMalformedLine: "Manifest lines skipped",
	models.DiagEmptyField:    "Manifest entries with empty fields skipped",
	models.DiagPlaceholder:   "Entries still use the placeholder description",
	models.DiagMissingPath:   "Paths not found at generation time",
	models.DiagNoDate:        "Log files without a date were left in place",
	models.DiagMoveFailed:    "Log files could not be moved",
}

// DiagnosticsWarning builds a warning listing every diagnostic under title.
func DiagnosticsWarning(title string, diags []models.Diagnostic, suggestion string) Warning {
	items := make([]string, 0, len(diags))
	for _, d := range diags {
		items = append(items, d.String())
	}
	return Warning{Title: title, Items: items, Suggestion: suggestion}
}

// GroupDiagnostics returns one warning per diagnostic kind, in a stable order.
func GroupDiagnostics(diags []models.Diagnostic) []Warning {
	byKind := make(map[models.DiagnosticKind][]models.Diagnostic)
	for _, d := range diags {
		byKind[d.Kind] = append(byKind[d.Kind], d)
	}

	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	warnings := make([]Warning, 0, len(kinds))
	for _, k := range kinds {
		kind := models.DiagnosticKind(k)
		title, ok := titles[kind]
		if !ok {
			title = k
		}
		warnings = append(warnings, DiagnosticsWarning(title, byKind[kind], suggestions[kind]))
	}
	return warnings
}

// DisplayDiagnostics writes grouped warnings for diags. Nothing is written
// when diags is empty.
func DisplayDiagnostics(out io.Writer, diags []models.Diagnostic) {
	for _, w := range GroupDiagnostics(diags) {
		w.Display(out)
	}
}
