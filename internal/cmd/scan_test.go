package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/folderdoc/internal/models"
)

func makeWorkTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{"A/A1", "B", ".git/objects", "node_modules/pkg"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0755))
	}
	return root
}

func TestNewScanCommand(t *testing.T) {
	cmd := NewScanCommand()

	assert.Equal(t, "scan <start-dir>", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	defaults := map[string]string{
		"depth":          "1",
		"output":         "folder_list_for_editing.txt",
		"include-hidden": "false",
		"separator":      "|",
		"ignore-dir":     "[]",
	}
	for name, def := range defaults {
		f := cmd.Flags().Lookup(name)
		require.NotNil(t, f, "flag %s should exist", name)
		assert.Equal(t, def, f.DefValue, "default of %s", name)
	}
	assert.Equal(t, "d", cmd.Flags().Lookup("depth").Shorthand)
	assert.Equal(t, "o", cmd.Flags().Lookup("output").Shorthand)
}

func TestScanCommand(t *testing.T) {
	root := makeWorkTree(t)
	out := filepath.Join(t.TempDir(), "folders.txt")

	stdout, _, err := execute(t, "scan", root, "-o", out)
	require.NoError(t, err)

	content := readFile(t, out)
	assert.Contains(t, content, "# Automatically generated list of folders found in: "+root)
	assert.Contains(t, content, "# Scan ID: ")
	assert.Contains(t, content, filepath.Join(root, "A")+" | "+models.PlaceholderDescription+"\n")
	assert.Contains(t, content, filepath.Join(root, "B")+" | "+models.PlaceholderDescription+"\n")
	assert.NotContains(t, content, ".git")
	assert.NotContains(t, content, "node_modules")
	assert.NotContains(t, content, filepath.Join(root, "A", "A1"))

	assert.Contains(t, stdout, "=== Scan Summary ===")
	assert.Contains(t, stdout, "Folders: 2")
	assert.Contains(t, stdout, "Ignored: 2")
	assert.Contains(t, stdout, "Next: edit "+out)
}

func TestScanCommand_Options(t *testing.T) {
	root := makeWorkTree(t)
	out := filepath.Join(t.TempDir(), "folders.txt")

	_, _, err := execute(t, "scan", root, "-o", out, "-d", "3", "--include-hidden", "--ignore-dir", "B", "--separator", ";")
	require.NoError(t, err)

	content := readFile(t, out)
	assert.Contains(t, content, filepath.Join(root, "A", "A1")+" ; ")
	assert.NotContains(t, content, filepath.Join(root, "B")+" ;")
	// .git stays excluded even with hidden folders included
	assert.NotContains(t, content, filepath.Join(root, ".git"))
}

func TestScanCommand_NoSubfolders(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "folders.txt")

	stdout, _, err := execute(t, "scan", root, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, out), "# No subfolders found matching the criteria.")
	assert.Contains(t, stdout, "Folders: 0")
	assert.NotContains(t, stdout, "Next:")
}

func TestScanCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	tests := []struct {
		name string
		args []string
	}{
		{"missing root", []string{"scan", filepath.Join(dir, "nope"), "-o", out}},
		{"negative depth", []string{"scan", dir, "-o", out, "-d", "-1"}},
		{"bad pattern", []string{"scan", dir, "-o", out, "--ignore-dir", "[x"}},
		{"bad separator", []string{"scan", dir, "-o", out, "--separator", "||"}},
		{"output is a directory", []string{"scan", dir, "-o", dir}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.True(t, models.IsInputError(err), "expected InputError, got %T: %v", err, err)
		})
	}

	_, _, err := execute(t, "scan")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "accepts 1 arg"))
}
