// Package manifest reads and writes the editable folder list that sits between
// a scan and a generated reference.
//
// A manifest is plain UTF-8 text with one record per line:
//
//	# comment lines start with '#'
//	/abs/path/to/folder | free-text description
//
// The path is everything before the first separator, the description is
// everything after it; both are trimmed. Separators inside paths are not
// escaped, so a path containing the separator makes its line ambiguous.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/harrison/folderdoc/internal/models"
)

// ValidateSeparator checks that sep is exactly one non-space character that
// cannot be confused with a comment marker.
func ValidateSeparator(sep string) error {
	if utf8.RuneCountInString(sep) != 1 {
		return fmt.Errorf("separator must be a single character, got %q", sep)
	}
	if strings.TrimSpace(sep) == "" {
		return errors.New("separator cannot be whitespace")
	}
	if sep == models.CommentMarker {
		return fmt.Errorf("separator cannot be the comment marker %q", models.CommentMarker)
	}
	return nil
}

// Header describes the comment block written at the top of a manifest
type Header struct {
	Root        string    // Absolute scan root
	MaxDepth    int       // Depth the scan was run with
	ScanID      string    // Identifier of the scan run
	GeneratedAt time.Time // Zero omits the timestamp line
	Command     string    // Program name used in the instructions
}

// Write serializes entries as a manifest. Each entry becomes
// "<path> <sep> <description>"; an empty entry list writes a single notice
// comment instead.
func Write(w io.Writer, header Header, entries []models.ScanEntry, sep string) error {
	if err := ValidateSeparator(sep); err != nil {
		return err
	}

	command := header.Command
	if command == "" {
		command = "folderdoc"
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Automatically generated list of folders found in: %s\n", header.Root)
	fmt.Fprintf(bw, "# Maximum Scan Depth Relative to Start: %d\n", header.MaxDepth)
	if !header.GeneratedAt.IsZero() {
		fmt.Fprintf(bw, "# Generated on: %s\n", header.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if header.ScanID != "" {
		fmt.Fprintf(bw, "# Scan ID: %s\n", header.ScanID)
	}
	bw.WriteString("#\n")
	fmt.Fprintf(bw, "# Instructions for use with the '%s generate' command:\n", command)
	bw.WriteString("# 1. Review the folder paths below.\n")
	bw.WriteString("# 2. Remove any folders you don't need to document.\n")
	fmt.Fprintf(bw, "# 3. Replace '%s' after the '%s' with your actual notes for each folder.\n", models.PlaceholderDescription, sep)
	bw.WriteString("# 4. Save this file.\n")
	fmt.Fprintf(bw, "# 5. Run: %s generate <this_file_name> -o final_notes.md\n", command)
	bw.WriteString("#---------------------------------------------------------------------------\n\n")

	if len(entries) == 0 {
		bw.WriteString("# No subfolders found matching the criteria.\n")
	}
	for _, e := range entries {
		desc := e.Description
		if desc == "" {
			desc = models.PlaceholderDescription
		}
		fmt.Fprintf(bw, "%s %s %s\n", e.Path, sep, desc)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// WriteEntries serializes reference entries (path + description) without a
// scan header. Used when a manifest is recovered from an existing reference.
func WriteEntries(w io.Writer, source string, entries []models.ReferenceEntry, sep string) error {
	if err := ValidateSeparator(sep); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# Folder list recovered from: %s\n", source)
	fmt.Fprintf(bw, "# Edit descriptions after the '%s' and regenerate the reference.\n", sep)
	bw.WriteString("#---------------------------------------------------------------------------\n\n")
	for _, e := range entries {
		fmt.Fprintf(bw, "%s %s %s\n", e.Path, sep, e.Description)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ParseLine classifies a single manifest line.
func ParseLine(lineNumber int, raw, sep string) models.ManifestRecord {
	rec := models.ManifestRecord{
		LineNumber: lineNumber,
		RawLine:    raw,
	}

	line := strings.TrimSpace(raw)
	switch {
	case line == "":
		rec.Kind = models.RecordBlank
	case strings.HasPrefix(line, models.CommentMarker):
		rec.Kind = models.RecordComment
	case !strings.Contains(line, sep):
		rec.Kind = models.RecordMalformed
	default:
		path, desc, _ := strings.Cut(line, sep)
		rec.Kind = models.RecordEntry
		rec.Path = strings.TrimSpace(path)
		rec.Description = strings.TrimSpace(desc)
	}
	return rec
}

// Parse reads every line of r and returns one record per line, in order.
func Parse(r io.Reader, sep string) ([]models.ManifestRecord, error) {
	if err := ValidateSeparator(sep); err != nil {
		return nil, err
	}

	br := bufio.NewReader(r)

	var records []models.ManifestRecord
	lineNumber := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lineNumber++
			raw := strings.TrimRight(line, "\r\n")
			if lineNumber == 1 {
				raw = strings.TrimPrefix(raw, "\ufeff")
			}
			records = append(records, ParseLine(lineNumber, raw, sep))
		}
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("failed to read manifest at line %d: %w", lineNumber+1, err)
		}
	}
}

// Entries filters records down to RecordEntry, preserving order.
func Entries(records []models.ManifestRecord) []models.ManifestRecord {
	out := make([]models.ManifestRecord, 0, len(records))
	for _, r := range records {
		if r.Kind == models.RecordEntry {
			out = append(out, r)
		}
	}
	return out
}
