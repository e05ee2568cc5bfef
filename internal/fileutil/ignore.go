package fileutil

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultIgnoreDirs lists clutter directories that are never scanned, even when
// hidden directories are included.
var DefaultIgnoreDirs = []string{
	".git",
	"__pycache__",
	".venv",
	"venv",
	"env",
	"node_modules",
	".vscode",
	".idea",
	"build",
	"dist",
	"*.egg-info",
	"$RECYCLE.BIN",
	"System Volume Information",
}

// hiddenPrefix marks a hidden directory name.
const hiddenPrefix = "."

// IgnoreReason explains why a directory was pruned
type IgnoreReason string

const (
	// NotIgnored means the directory is scanned.
	NotIgnored IgnoreReason = ""
	// IgnoredHidden means the name starts with "." and hidden directories are excluded.
	IgnoredHidden IgnoreReason = "hidden"
	// IgnoredDefault means the name is on the default clutter list.
	IgnoredDefault IgnoreReason = "default"
	// IgnoredPattern means a user-supplied pattern matched the name.
	IgnoredPattern IgnoreReason = "pattern"
)

// IgnoreMatcher decides whether a directory name is pruned from a scan
type IgnoreMatcher struct {
	patterns      []string
	includeHidden bool
}

// NewIgnoreMatcher validates the user patterns and returns a matcher.
// Patterns use filepath.Match syntax ("*", "?", "[...]") against the bare name.
func NewIgnoreMatcher(patterns []string, includeHidden bool) (*IgnoreMatcher, error) {
	cleaned := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		cleaned = append(cleaned, p)
	}

	return &IgnoreMatcher{
		patterns:      cleaned,
		includeHidden: includeHidden,
	}, nil
}

// Match returns the reason the named directory is ignored, or NotIgnored.
// The hidden rule is checked first; the default list applies regardless of
// includeHidden.
func (m *IgnoreMatcher) Match(name string) IgnoreReason {
	if !m.includeHidden && strings.HasPrefix(name, hiddenPrefix) {
		return IgnoredHidden
	}
	if matchAny(DefaultIgnoreDirs, name) {
		return IgnoredDefault
	}
	if matchAny(m.patterns, name) {
		return IgnoredPattern
	}
	return NotIgnored
}

// Ignored reports whether the named directory is pruned.
func (m *IgnoreMatcher) Ignored(name string) bool {
	return m.Match(name) != NotIgnored
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		// Patterns were validated up front; the defaults are known-good.
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
