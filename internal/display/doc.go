// Package display formats user-facing warnings for the folderdoc CLI.
//
// Commands collect diagnostics while they run and show them once, grouped,
// after the run finishes:
//
//	w := display.DiagnosticsWarning("Manifest lines skipped", diags,
//	    "Add a separator between path and description")
//	w.Display(os.Stderr)
//
// Color is applied with fatih/color only when the writer is a terminal.
// All functions accept io.Writer for testability.
package display
