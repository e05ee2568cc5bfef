package logsort

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/folderdoc/internal/filelock"
	"github.com/harrison/folderdoc/internal/models"
)

func TestExtractDateKey(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		want   string
		wantOK bool
	}{
		{"standard", "server-20240115-001.log", "2024-01-15", true},
		{"date in middle", "app-prod-20231231-node1.log", "2023-12-31", true},
		{"leap day", "x-20240229-y.log", "2024-02-29", true},
		{"no hyphens around date", "server20240115.log", "", false},
		{"missing trailing hyphen", "server-20240115.log", "", false},
		{"seven digits", "server-2024011-a.log", "", false},
		{"nine digits", "server-202401150-a.log", "", false},
		{"invalid month", "server-20241301-a.log", "", false},
		{"invalid leap day", "x-20230229-y.log", "", false},
		{"second run is valid", "a-99999999-b-20240102-c.log", "2024-01-02", true},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDateKey(tt.file)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(n), 0644))
	}
}

func TestOrganize(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"api-20240115-1.log",
		"api-20240115-2.log",
		"web-20240116-1.log",
		"notes.log",
		"api-20240115-1.txt",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub-20240115-dir.log"), 0755))

	result, err := Organize(context.Background(), dir, Options{})
	require.NoError(t, err)

	assert.Len(t, result.Moves, 3)
	assert.Equal(t, []string{"2024-01-15", "2024-01-16"}, result.Folders())
	assert.Equal(t, []string{"2024-01-15", "2024-01-16"}, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 0, result.Failed())
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, models.DiagNoDate, result.Diagnostics[0].Kind)

	assert.FileExists(t, filepath.Join(dir, "2024-01-15", "api-20240115-1.log"))
	assert.FileExists(t, filepath.Join(dir, "2024-01-15", "api-20240115-2.log"))
	assert.FileExists(t, filepath.Join(dir, "2024-01-16", "web-20240116-1.log"))
	assert.FileExists(t, filepath.Join(dir, "notes.log"))
	assert.FileExists(t, filepath.Join(dir, "api-20240115-1.txt"))
	assert.DirExists(t, filepath.Join(dir, "sub-20240115-dir.log"))
	// The lock file stays behind and is never treated as a log
	assert.FileExists(t, filepath.Join(dir, LockName))

	for _, m := range result.Moves {
		assert.Equal(t, 1, m.Attempts)
	}
}

func TestOrganize_DryRun(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a-20240101-x.log")

	result, err := Organize(context.Background(), dir, Options{DryRun: true})
	require.NoError(t, err)

	require.Len(t, result.Moves, 1)
	assert.Equal(t, Move{File: "a-20240101-x.log", Folder: "2024-01-01"}, result.Moves[0])
	assert.Empty(t, result.Created)
	assert.FileExists(t, filepath.Join(dir, "a-20240101-x.log"))
	assert.NoDirExists(t, filepath.Join(dir, "2024-01-01"))
}

func TestOrganize_CustomExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a-20240101-x.log", "a-20240101-x.txt")

	result, err := Organize(context.Background(), dir, Options{Extension: ".txt"})
	require.NoError(t, err)

	require.Len(t, result.Moves, 1)
	assert.Equal(t, "a-20240101-x.txt", result.Moves[0].File)
	assert.FileExists(t, filepath.Join(dir, "a-20240101-x.log"))
}

func TestOrganize_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a-20240101-x.log")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "2024-01-01"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-01-01", "a-20240101-x.log"), []byte("older"), 0644))

	result, err := Organize(context.Background(), dir, Options{})
	require.NoError(t, err)

	assert.Empty(t, result.Moves)
	assert.Equal(t, 1, result.Failed())

	data, err := os.ReadFile(filepath.Join(dir, "2024-01-01", "a-20240101-x.log"))
	require.NoError(t, err)
	assert.Equal(t, "older", string(data))
	assert.FileExists(t, filepath.Join(dir, "a-20240101-x.log"))
}

func TestOrganize_FolderNameTakenByFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a-20240101-x.log", "2024-01-01")

	result, err := Organize(context.Background(), dir, Options{})
	require.NoError(t, err)

	assert.Empty(t, result.Moves)
	require.Equal(t, 1, result.Failed())
	assert.Contains(t, result.Diagnostics[0].Err.Error(), "not a directory")
}

func TestOrganize_RetriesThenSucceeds(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a-20240101-x.log")

	calls := 0
	rename := func(oldpath, newpath string) error {
		calls++
		if calls < 3 {
			return errors.New("file in use")
		}
		return os.Rename(oldpath, newpath)
	}

	result, err := Organize(context.Background(), dir, Options{Retries: 3, RetryDelay: time.Millisecond, Rename: rename})
	require.NoError(t, err)

	require.Len(t, result.Moves, 1)
	assert.Equal(t, 3, result.Moves[0].Attempts)
	assert.Empty(t, result.Diagnostics)
}

func TestOrganize_RetriesExhausted(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a-20240101-x.log")

	calls := 0
	rename := func(string, string) error {
		calls++
		return errors.New("file in use")
	}

	result, err := Organize(context.Background(), dir, Options{Retries: 2, Rename: rename})
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Empty(t, result.Moves)
	require.Equal(t, 1, result.Failed())
	assert.Contains(t, result.Diagnostics[0].Message, "3 attempt(s)")
	assert.FileExists(t, filepath.Join(dir, "a-20240101-x.log"))
}

func TestOrganize_Locked(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a-20240101-x.log")

	held, err := filelock.TryLockDir(dir, LockName)
	require.NoError(t, err)
	defer held.Unlock()

	_, err = Organize(context.Background(), dir, Options{})
	require.Error(t, err)
	assert.True(t, models.IsInputError(err))
	assert.ErrorIs(t, err, filelock.ErrLocked)
	assert.FileExists(t, filepath.Join(dir, "a-20240101-x.log"))
}

func TestOrganize_LeftoverLockFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a-20240101-x.lock")

	// An earlier run leaves its lock file in place
	prev, err := filelock.TryLockDir(dir, LockName)
	require.NoError(t, err)
	require.NoError(t, prev.Unlock())

	result, err := Organize(context.Background(), dir, Options{Extension: ".lock"})
	require.NoError(t, err)
	require.Len(t, result.Moves, 1)
	assert.Equal(t, "a-20240101-x.lock", result.Moves[0].File)
	assert.Equal(t, 0, result.Skipped)
	assert.FileExists(t, filepath.Join(dir, LockName))
}

func TestOrganize_FatalErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Organize(context.Background(), filepath.Join(dir, "missing"), Options{})
	require.Error(t, err)
	assert.True(t, models.IsInputError(err))

	file := filepath.Join(dir, "file.log")
	touch(t, dir, "file.log")
	_, err = Organize(context.Background(), file, Options{})
	require.Error(t, err)
	assert.True(t, models.IsInputError(err))

	_, err = Organize(context.Background(), dir, Options{Retries: -1})
	require.Error(t, err)
	assert.True(t, models.IsInputError(err))
}

func TestOrganize_Cancelled(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a-20240101-x.log")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Organize(ctx, dir, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.FileExists(t, filepath.Join(dir, "a-20240101-x.log"))
}
