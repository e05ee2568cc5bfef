// Package logger provides console logging for folderdoc runs.
//
// The logger offers leveled messages plus one summary per command (scan,
// generate, organize) and one line per diagnostic. Implementations are
// thread-safe.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/harrison/folderdoc/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
)

var levels = map[string]int{
	"trace": levelTrace,
	"debug": levelDebug,
	"info":  levelInfo,
	"warn":  levelWarn,
	"error": levelError,
}

// ValidLevels lists the accepted log level names, most verbose first.
var ValidLevels = []string{"trace", "debug", "info", "warn", "error"}

// Logger is the logging surface used by the commands.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogDiagnostic(d models.Diagnostic)
	LogScanSummary(s models.ScanSummary)
	LogGenerateSummary(s models.GenerateSummary)
	LogOrganizeSummary(s models.OrganizeSummary)
}

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    NormalizeLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is os.Stdout or os.Stderr and color is enabled.
// fatih/color already honours NO_COLOR and non-TTY output.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		return !color.NoColor
	}
	return false
}

// NormalizeLevel lowercases level and falls back to "info" when it is unknown.
func NormalizeLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if _, ok := levels[normalized]; ok {
		return normalized
	}
	return "info"
}

// IsValidLevel reports whether level names a known log level.
func IsValidLevel(level string) bool {
	_, ok := levels[strings.ToLower(strings.TrimSpace(level))]
	return ok
}

// shouldLog checks if a message at the given level passes the configured threshold.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return levels[messageLevel] >= levels[cl.logLevel]
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// LogDiagnostic logs a non-fatal problem at DEBUG level, tagged with its kind.
// Users see diagnostics grouped by the display package; this is the raw stream.
// Format: "[HH:MM:SS] [DEBUG] <kind>: <diagnostic>"
func (cl *ConsoleLogger) LogDiagnostic(d models.Diagnostic) {
	cl.logWithLevel("DEBUG", fmt.Sprintf("%s: %s", d.Kind, d.String()))
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		level = levelColor(level).Sprint(level)
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, level, message)
}

func levelColor(level string) *color.Color {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack)
	case "DEBUG":
		return color.New(color.FgCyan)
	case "WARN":
		return color.New(color.FgYellow)
	case "ERROR":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgBlue)
	}
}

// writeSummary writes a block of summary lines at INFO level under one timestamp.
func (cl *ConsoleLogger) writeSummary(title string, lines []string) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	header := fmt.Sprintf("=== %s ===", title)
	if cl.colorOutput {
		header = color.New(color.Bold).Sprint(header)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s\n", ts, header)
	for _, line := range lines {
		fmt.Fprintf(&sb, "[%s] %s\n", ts, line)
	}
	cl.writer.Write([]byte(sb.String()))
}

// LogScanSummary logs the outcome of a scan at INFO level.
func (cl *ConsoleLogger) LogScanSummary(s models.ScanSummary) {
	scheme := cl.scheme()
	lines := []string{
		formatMetric("Root", s.Root, scheme.label, scheme.value),
		formatMetric("Folders", s.Entries, scheme.label, scheme.success),
		formatMetric("Ignored", s.Ignored, scheme.label, scheme.value),
		formatCount("Diagnostics", s.Diagnostics, scheme.warn, scheme),
		formatMetric("Manifest", s.Output, scheme.label, scheme.value),
		formatMetric("Duration", formatDuration(s.Duration), scheme.label, scheme.value),
	}
	cl.writeSummary("Scan Summary", lines)
}

// LogGenerateSummary logs the outcome of a generate run at INFO level.
func (cl *ConsoleLogger) LogGenerateSummary(s models.GenerateSummary) {
	scheme := cl.scheme()
	lines := []string{
		formatMetric("Manifest", s.Manifest, scheme.label, scheme.value),
		formatMetric("Entries", s.Entries, scheme.label, scheme.success),
		formatCount("Unconfirmed paths", s.Unconfirmed, scheme.warn, scheme),
		formatCount("Skipped lines", s.Skipped(), scheme.warn, scheme),
		formatCount("Malformed lines", s.Malformed, scheme.warn, scheme),
		formatCount("Empty fields", s.EmptyField, scheme.warn, scheme),
		formatCount("Placeholders", s.Placeholder, scheme.warn, scheme),
		formatMetric("Reference", s.Output, scheme.label, scheme.value),
	}
	if s.HTMLOutput != "" {
		lines = append(lines, formatMetric("HTML", s.HTMLOutput, scheme.label, scheme.value))
	}
	lines = append(lines, formatMetric("Duration", formatDuration(s.Duration), scheme.label, scheme.value))
	cl.writeSummary("Generate Summary", lines)
}

// LogOrganizeSummary logs the outcome of an organize run at INFO level.
func (cl *ConsoleLogger) LogOrganizeSummary(s models.OrganizeSummary) {
	scheme := cl.scheme()
	title := "Organize Summary"
	if s.DryRun {
		title = "Organize Summary (dry run)"
	}
	lines := []string{
		formatMetric("Directory", s.Dir, scheme.label, scheme.value),
		formatMetric("Moved", s.Moved, scheme.label, scheme.success),
		formatCount("Skipped", s.Skipped, scheme.warn, scheme),
		formatCount("Failed", s.Failed, scheme.fail, scheme),
	}
	if len(s.Folders) > 0 {
		lines = append(lines, formatMetric("Folders", strings.Join(s.Folders, ", "), scheme.label, scheme.value))
	}
	lines = append(lines, formatMetric("Duration", formatDuration(s.Duration), scheme.label, scheme.value))
	cl.writeSummary(title, lines)
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger is a Logger implementation that discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string) {}
func (n *NoOpLogger) LogDebug(string) {}
func (n *NoOpLogger) LogInfo(string) {}
func (n *NoOpLogger) LogWarn(string) {}
func (n *NoOpLogger) LogError(string) {}
func (n *NoOpLogger) LogDiagnostic(models.Diagnostic) {}
func (n *NoOpLogger) LogScanSummary(models.ScanSummary) {}
func (n *NoOpLogger) LogGenerateSummary(models.GenerateSummary) {}
func (n *NoOpLogger) LogOrganizeSummary(models.OrganizeSummary) {}

var (
	_ Logger = (*ConsoleLogger)(nil)
	_ Logger = (*NoOpLogger)(nil)
)
