// Package logsort groups dated log files into per-day folders.
//
// A file such as "app-20240115-1.log" is moved into "2024-01-15/" next to
// it. Files are never overwritten and files without a date stay where they
// are.
package logsort

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/harrison/folderdoc/internal/filelock"
	"github.com/harrison/folderdoc/internal/models"
)

// LockName is the lock file taken in the organized directory.
const LockName = ".folderdoc-organize.lock"

var datePattern = regexp.MustCompile(`-(\d{8})-`)

// ExtractDateKey returns the YYYY-MM-DD folder name for the first -YYYYMMDD-
// run in filename. Digit runs that are not a calendar date are ignored.
func ExtractDateKey(filename string) (string, bool) {
	for _, m := range datePattern.FindAllStringSubmatchIndex(filename, -1) {
		digits := filename[m[2]:m[3]]
		day, err := time.Parse("20060102", digits)
		if err != nil {
			continue
		}
		return day.Format("2006-01-02"), true
	}
	return "", false
}

// Options configures an organize run
type Options struct {
	// Extension selects files by suffix (default ".log")
	Extension string
	// Retries is the number of extra move attempts after a failure
	Retries int
	// RetryDelay is the pause between attempts
	RetryDelay time.Duration
	// DryRun plans moves without touching the filesystem
	DryRun bool
	// Rename moves one file; nil means os.Rename
	Rename func(oldpath, newpath string) error
}

// Move records one file placed (or planned) into a date folder
type Move struct {
	File     string // Base name of the file
	Folder   string // Date folder name
	Attempts int    // Rename calls made (0 in a dry run)
}

// Result contains the outcome of an organize run
type Result struct {
	Dir         string
	Moves       []Move
	Created     []string // Date folders created by this run
	Skipped     int      // Matching files without a date key
	Diagnostics []models.Diagnostic
}

// Folders returns the sorted, de-duplicated date folders touched by the run.
func (r *Result) Folders() []string {
	seen := make(map[string]bool)
	folders := make([]string, 0)
	for _, m := range r.Moves {
		if !seen[m.Folder] {
			seen[m.Folder] = true
			folders = append(folders, m.Folder)
		}
	}
	sort.Strings(folders)
	return folders
}

// Failed returns the number of files that could not be moved.
func (r *Result) Failed() int {
	return models.CountDiagnostics(r.Diagnostics, models.DiagMoveFailed)
}

// Organize moves every regular file in dir whose name ends with
// opts.Extension into a sibling folder named after its date key. Only the
// top level of dir is examined. A missing directory or a lock held by another
// run is fatal; every per-file problem is reported as a diagnostic.
func Organize(ctx context.Context, dir string, opts Options) (*Result, error) {
	if opts.Extension == "" {
		opts.Extension = ".log"
	}
	if opts.Retries < 0 {
		return nil, models.NewInputError("organize", dir, fmt.Errorf("retries cannot be negative: %d", opts.Retries))
	}
	if opts.Rename == nil {
		opts.Rename = os.Rename
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, models.NewInputError("organize", dir, fmt.Errorf("failed to resolve path: %w", err))
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, models.NewInputError("organize", root, fmt.Errorf("failed to access directory: %w", err))
	}
	if !info.IsDir() {
		return nil, models.NewInputError("organize", root, errors.New("path is not a directory"))
	}

	lock, err := filelock.TryLockDir(root, LockName)
	if err != nil {
		return nil, models.NewInputError("organize", root, err)
	}
	defer lock.Unlock()

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, models.NewInputError("organize", root, fmt.Errorf("failed to list directory: %w", err))
	}

	result := &Result{
		Dir:         root,
		Moves:       make([]Move, 0),
		Created:     make([]string, 0),
		Diagnostics: make([]models.Diagnostic, 0),
	}
	created := make(map[string]bool)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		name := entry.Name()
		if name == LockName || !entry.Type().IsRegular() || !strings.HasSuffix(name, opts.Extension) {
			continue
		}
		src := filepath.Join(root, name)

		key, ok := ExtractDateKey(name)
		if !ok {
			result.Skipped++
			result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
				Kind:    models.DiagNoDate,
				Path:    src,
				Message: "no -YYYYMMDD- date in file name",
			})
			continue
		}

		folder := filepath.Join(root, key)
		dst := filepath.Join(folder, name)

		if problem := checkDestination(folder, dst); problem != nil {
			result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
				Kind:    models.DiagMoveFailed,
				Path:    src,
				Message: "cannot move into " + key,
				Err:     problem,
			})
			continue
		}

		if opts.DryRun {
			result.Moves = append(result.Moves, Move{File: name, Folder: key})
			continue
		}

		if !created[key] {
			made, err := ensureFolder(folder)
			if err != nil {
				result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
					Kind:    models.DiagMoveFailed,
					Path:    src,
					Message: "cannot create folder " + key,
					Err:     err,
				})
				continue
			}
			created[key] = true
			if made {
				result.Created = append(result.Created, key)
			}
		}

		attempts, err := moveWithRetry(ctx, src, dst, opts)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
				Kind:    models.DiagMoveFailed,
				Path:    src,
				Message: fmt.Sprintf("move failed after %d attempt(s)", attempts),
				Err:     err,
			})
			continue
		}
		result.Moves = append(result.Moves, Move{File: name, Folder: key, Attempts: attempts})
	}

	return result, nil
}

// checkDestination rejects a folder path occupied by a non-directory and an
// already existing destination file.
func checkDestination(folder, dst string) error {
	if info, err := os.Stat(folder); err == nil && !info.IsDir() {
		return fmt.Errorf("%s exists and is not a directory", filepath.Base(folder))
	}
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("destination %s already exists", dst)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ensureFolder creates folder when missing and reports whether it did.
func ensureFolder(folder string) (bool, error) {
	err := os.Mkdir(folder, 0755)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	return false, err
}

// moveWithRetry calls opts.Rename up to 1+opts.Retries times.
func moveWithRetry(ctx context.Context, src, dst string, opts Options) (int, error) {
	var err error
	attempts := 0
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 && opts.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return attempts, ctx.Err()
			case <-time.After(opts.RetryDelay):
			}
		}
		attempts++
		if err = opts.Rename(src, dst); err == nil {
			return attempts, nil
		}
	}
	return attempts, err
}
