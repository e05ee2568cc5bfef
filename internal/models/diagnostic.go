package models

import (
	"fmt"
	"strings"
)

// DiagnosticKind identifies the kind of recoverable per-item problem.
type DiagnosticKind string

const (
	// DiagUnreadableDir is reported when a directory cannot be stat'ed or listed during a scan.
	DiagUnreadableDir DiagnosticKind = "unreadable-dir"
	// DiagMalformedLine is reported for manifest lines without a separator.
	DiagMalformedLine DiagnosticKind = "malformed-line"
	// DiagEmptyField is reported for manifest entries with an empty path or description.
	DiagEmptyField DiagnosticKind = "empty-field"
	// DiagPlaceholder is reported for entries that still carry the placeholder description.
	DiagPlaceholder DiagnosticKind = "placeholder"
	// DiagMissingPath is reported when an entry's path is not an existing directory.
	DiagMissingPath DiagnosticKind = "missing-path"
	// DiagNoDate is reported for log files without a date key in their name.
	DiagNoDate DiagnosticKind = "no-date"
	// DiagMoveFailed is reported when a log file could not be moved.
	DiagMoveFailed DiagnosticKind = "move-failed"
)

// Diagnostic describes a skipped or suspicious item. Diagnostics never abort a run.
type Diagnostic struct {
	Kind    DiagnosticKind
	Path    string // Filesystem path involved, if any
	Line    int    // Manifest line number (0 when not line-bound)
	Message string // Human-readable description
	Err     error  // Underlying error (optional)
}

// String formats the diagnostic on a single line.
func (d Diagnostic) String() string {
	var sb strings.Builder
	if d.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d: ", d.Line))
	}
	sb.WriteString(d.Message)
	if d.Path != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", d.Path))
	}
	if d.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", d.Err))
	}
	return sb.String()
}

// CountDiagnostics returns the number of diagnostics of the given kind.
func CountDiagnostics(diags []Diagnostic, kind DiagnosticKind) int {
	n := 0
	for _, d := range diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
