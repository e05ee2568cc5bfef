// Package filelock provides the atomic output writes used for manifests and
// references, and the directory lock that keeps two organizer runs apart.
package filelock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by TryLockDir when another process holds the lock.
var ErrLocked = errors.New("directory is locked by another run")

// FileLock wraps a flock file lock for coordinating access to a directory.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
// The lock file is created on first acquisition.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// TryLock attempts to acquire an exclusive lock on the file without blocking.
// Returns true if the lock was acquired, false if the lock is held by another process.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock. The lock file stays on disk so every run locks
// the same inode.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// TryLockDir takes the named lock file inside dir without blocking.
// Returns ErrLocked if another run holds it.
func TryLockDir(dir, name string) (*FileLock, error) {
	lock := NewFileLock(filepath.Join(dir, name))
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lock.path)
	}
	return lock, nil
}

// Output is one file written by AtomicWriteAll.
type Output struct {
	Path string
	Data []byte
}

// AtomicWrite writes data to a file atomically using a temp file and rename strategy.
// Missing parent directories are created. If the operation fails at any point,
// the original file (if it exists) remains unchanged and no partial file is left.
func AtomicWrite(path string, data []byte) error {
	tempPath, err := stage(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}

// AtomicWriteAll stages every output in a temp file before renaming any of
// them into place. When an output cannot be staged no target is touched.
// Errors are *fs.PathError values naming the failing output.
func AtomicWriteAll(outputs ...Output) error {
	staged := make([]string, 0, len(outputs))
	for _, o := range outputs {
		tempPath, err := stage(o.Path, o.Data)
		if err != nil {
			removeAll(staged)
			return &fs.PathError{Op: "write", Path: o.Path, Err: err}
		}
		staged = append(staged, tempPath)
	}

	for i, o := range outputs {
		if err := os.Rename(staged[i], o.Path); err != nil {
			removeAll(staged[i:])
			return &fs.PathError{Op: "write", Path: o.Path, Err: fmt.Errorf("failed to rename temp file: %w", err)}
		}
	}
	return nil
}

func removeAll(paths []string) {
	for _, p := range paths {
		os.Remove(p)
	}
}

// stage writes data to a synced temp file next to path and returns the temp
// file's name. Nothing is left behind on failure.
func stage(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory as the target, so the rename stays on one filesystem
	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	fail := func(err error) (string, error) {
		tempFile.Close()
		os.Remove(tempPath)
		return "", err
	}

	if _, err := tempFile.Write(data); err != nil {
		return fail(fmt.Errorf("failed to write to temp file: %w", err))
	}
	if err := tempFile.Sync(); err != nil {
		return fail(fmt.Errorf("failed to sync temp file: %w", err))
	}
	if err := tempFile.Close(); err != nil {
		return fail(fmt.Errorf("failed to close temp file: %w", err))
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fail(fmt.Errorf("failed to set permissions: %w", err))
	}

	// Refuse to replace a directory with a file
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fail(fmt.Errorf("output path %s is a directory", path))
	}

	return tempPath, nil
}
