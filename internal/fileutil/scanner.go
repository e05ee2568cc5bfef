package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/harrison/folderdoc/internal/models"
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// MaxDepth is the deepest level emitted (0 = nothing, 1 = immediate subdirectories)
	MaxDepth int
	// IgnorePatterns are glob patterns matched against bare directory names
	IgnorePatterns []string
	// IncludeHidden keeps directories whose name starts with "."
	IncludeHidden bool
	// ReadDir lists a directory; defaults to os.ReadDir
	ReadDir func(name string) ([]os.DirEntry, error)
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Root is the absolute path of the scanned directory
	Root string
	// Entries holds discovered directories in visit order
	Entries []models.ScanEntry
	// Ignored counts directories pruned by ignore rules
	Ignored int
	// Diagnostics holds non-fatal problems encountered during scanning
	Diagnostics []models.Diagnostic
}

// frame is one pending directory in the traversal worklist
type frame struct {
	path  string
	depth int
}

// ScanDirectories walks startDir depth-first up to opts.MaxDepth and returns
// every directory that survives the ignore rules. The root itself is never
// emitted. Only a missing or non-directory root and invalid options are fatal;
// unreadable subdirectories are skipped and reported as diagnostics.
func ScanDirectories(startDir string, opts ScanOptions) (*ScanResult, error) {
	if opts.MaxDepth < 0 {
		return nil, models.NewInputError("scan", startDir, fmt.Errorf("depth cannot be negative: %d", opts.MaxDepth))
	}

	matcher, err := NewIgnoreMatcher(opts.IgnorePatterns, opts.IncludeHidden)
	if err != nil {
		return nil, models.NewInputError("scan", startDir, err)
	}

	root, err := filepath.Abs(startDir)
	if err != nil {
		return nil, models.NewInputError("scan", startDir, fmt.Errorf("failed to resolve path: %w", err))
	}

	// Validate directory exists
	info, err := os.Stat(root)
	if err != nil {
		return nil, models.NewInputError("scan", root, fmt.Errorf("failed to access directory: %w", err))
	}
	if !info.IsDir() {
		return nil, models.NewInputError("scan", root, errors.New("path is not a directory"))
	}

	result := &ScanResult{
		Root:        root,
		Entries:     make([]models.ScanEntry, 0),
		Diagnostics: make([]models.Diagnostic, 0),
	}

	readDir := opts.ReadDir
	if readDir == nil {
		readDir = os.ReadDir
	}

	visited := make(map[string]bool)
	stack := []frame{{path: root, depth: 0}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.depth >= opts.MaxDepth {
			// Leaf level: emitted without being opened
			if cur.depth > 0 {
				result.Entries = append(result.Entries, newEntry(cur))
			}
			continue
		}

		// A directory reached twice through symlinks is emitted but not descended again
		realPath, err := filepath.EvalSymlinks(cur.path)
		if err != nil {
			realPath = cur.path
		}
		if visited[realPath] {
			result.Entries = append(result.Entries, newEntry(cur))
			continue
		}
		visited[realPath] = true

		children, err := readSubdirs(readDir, cur.path, matcher, result)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
				Kind:    models.DiagUnreadableDir,
				Path:    cur.path,
				Message: "cannot list directory, skipping",
				Err:     err,
			})
			continue
		}

		if cur.depth > 0 {
			result.Entries = append(result.Entries, newEntry(cur))
		}

		// Push in reverse so the first sibling is visited first
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{path: children[i], depth: cur.depth + 1})
		}
	}

	return result, nil
}

func newEntry(f frame) models.ScanEntry {
	return models.ScanEntry{
		Path:        f.path,
		Depth:       f.depth,
		Description: models.PlaceholderDescription,
	}
}

// readSubdirs lists the subdirectories of dir that pass the matcher, in
// readDir order. Entries whose attributes cannot be read are reported on
// result and skipped.
func readSubdirs(readDir func(string) ([]os.DirEntry, error), dir string, matcher *IgnoreMatcher, result *ScanResult) ([]string, error) {
	entries, err := readDir(dir)
	if err != nil {
		return nil, err
	}

	var subdirs []string
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(full)
			if err != nil {
				result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
					Kind:    models.DiagUnreadableDir,
					Path:    full,
					Message: "cannot access attributes, skipping",
					Err:     err,
				})
				continue
			}
			isDir = info.IsDir()
		}
		if !isDir {
			continue
		}

		if matcher.Ignored(entry.Name()) {
			result.Ignored++
			continue
		}
		subdirs = append(subdirs, full)
	}

	return subdirs, nil
}
