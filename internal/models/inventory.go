package models

// PlaceholderDescription is written next to every scanned path and is expected
// to be replaced by the user before generating the reference.
const PlaceholderDescription = "PLEASE ADD DESCRIPTION"

// DefaultSeparator splits a manifest line into path and description.
const DefaultSeparator = "|"

// CommentMarker starts a manifest comment line.
const CommentMarker = "#"

// ScanEntry represents one directory discovered by a scan
type ScanEntry struct {
	Path        string // Absolute path, unique within a scan run
	Depth       int    // Distance from the scan root (immediate children are 1)
	Description string // Placeholder text at scan time
}

// RecordKind classifies a manifest line
type RecordKind int

const (
	// RecordBlank is an empty or whitespace-only line.
	RecordBlank RecordKind = iota
	// RecordComment is a line whose first non-whitespace character is the comment marker.
	RecordComment
	// RecordEntry is a line split into path and description by the separator.
	RecordEntry
	// RecordMalformed is a non-blank, non-comment line without a separator.
	RecordMalformed
)

// String returns the string representation of RecordKind.
func (k RecordKind) String() string {
	switch k {
	case RecordBlank:
		return "blank"
	case RecordComment:
		return "comment"
	case RecordEntry:
		return "entry"
	case RecordMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// ManifestRecord is one line of a manifest file
type ManifestRecord struct {
	LineNumber  int        // 1-based line number
	RawLine     string     // Line as read, without the trailing newline
	Kind        RecordKind // Classification of the line
	Path        string     // Set only for RecordEntry
	Description string     // Set only for RecordEntry
}

// ReferenceEntry is one rendered block of the reference document
type ReferenceEntry struct {
	Path        string // Path as written in the manifest
	Description string // User-supplied notes
	Exists      bool   // Whether the path was confirmed as a directory at generation time
	LineNumber  int    // Manifest line the entry came from (0 when extracted from Markdown)
}

// MarkdownDocument is the ordered content of a reference document.
// Entries keep manifest order; nothing is sorted or de-duplicated.
type MarkdownDocument struct {
	Title   string
	Source  string // Manifest path the document was generated from
	Entries []ReferenceEntry
}

// Unconfirmed returns the number of entries whose path could not be confirmed.
func (d MarkdownDocument) Unconfirmed() int {
	count := 0
	for _, e := range d.Entries {
		if !e.Exists {
			count++
		}
	}
	return count
}
