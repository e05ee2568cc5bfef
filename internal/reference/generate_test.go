package reference

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/folderdoc/internal/filelock"
	"github.com/harrison/folderdoc/internal/fileutil"
	"github.com/harrison/folderdoc/internal/manifest"
	"github.com/harrison/folderdoc/internal/models"
)

// dirInfo is a minimal os.FileInfo used to fake existing directories.
type dirInfo struct{ name string }

func (d dirInfo) Name() string       { return d.name }
func (d dirInfo) Size() int64        { return 0 }
func (d dirInfo) Mode() fs.FileMode  { return fs.ModeDir | 0755 }
func (d dirInfo) ModTime() time.Time { return time.Time{} }
func (d dirInfo) IsDir() bool        { return true }
func (d dirInfo) Sys() any           { return nil }

// fakeStat reports every path in existing as a directory and everything else as missing.
func fakeStat(existing ...string) func(string) (os.FileInfo, error) {
	set := make(map[string]bool, len(existing))
	for _, p := range existing {
		set[p] = true
	}
	return func(name string) (os.FileInfo, error) {
		if set[name] {
			return dirInfo{name: filepath.Base(name)}, nil
		}
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "folders.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGenerate_Scenario(t *testing.T) {
	path := writeManifest(t, "# note\n\n/x | desc one\n/y\n/z | desc two\n")

	result, err := Generate(path, GenerateOptions{Separator: "|", Stat: fakeStat("/x", "/z")})
	require.NoError(t, err)

	entries := result.Document.Entries
	require.Len(t, entries, 2)
	assert.Equal(t, "/x", entries[0].Path)
	assert.Equal(t, "desc one", entries[0].Description)
	assert.Equal(t, 3, entries[0].LineNumber)
	assert.Equal(t, "/z", entries[1].Path)
	assert.Equal(t, "desc two", entries[1].Description)

	require.Len(t, result.Diagnostics, 1)
	diag := result.Diagnostics[0]
	assert.Equal(t, models.DiagMalformedLine, diag.Kind)
	assert.Equal(t, 4, diag.Line)
	assert.Contains(t, diag.Message, "/y")
	assert.Len(t, result.Records, 5)
}

func TestGenerate_MalformedRobustness(t *testing.T) {
	var sb strings.Builder
	var existing []string
	const wellFormed, malformed = 7, 4
	for i := 0; i < wellFormed; i++ {
		p := "/data/dir" + string(rune('a'+i))
		existing = append(existing, p)
		sb.WriteString(p + " | notes\n")
		if i < malformed {
			sb.WriteString("no separator on this line\n")
		}
	}

	result, err := Build(strings.NewReader(sb.String()), "inline", GenerateOptions{
		Separator: "|",
		Stat:      fakeStat(existing...),
	})
	require.NoError(t, err)

	assert.Len(t, result.Document.Entries, wellFormed)
	assert.Equal(t, malformed, models.CountDiagnostics(result.Diagnostics, models.DiagMalformedLine))
	assert.Len(t, result.Diagnostics, malformed)

	out, err := Render(result.Document, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, wellFormed, strings.Count(string(out), "\n## "))
}

func TestGenerate_MissingPathAnnotated(t *testing.T) {
	existing := t.TempDir()
	missing := filepath.Join(existing, "gone")
	file := filepath.Join(existing, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	content := existing + " | real folder\n" + missing + " | removed folder\n" + file + " | a file\n"
	result, err := Build(strings.NewReader(content), "inline", GenerateOptions{Separator: "|"})
	require.NoError(t, err)

	entries := result.Document.Entries
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Exists)
	assert.False(t, entries[1].Exists)
	assert.False(t, entries[2].Exists)
	assert.Equal(t, 2, result.Document.Unconfirmed())
	assert.Equal(t, 2, models.CountDiagnostics(result.Diagnostics, models.DiagMissingPath))

	out, err := Render(result.Document, RenderOptions{})
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "`"+missing+"`\n    * "+missingNote+"\n")
	assert.Contains(t, doc, "removed folder")
	assert.Equal(t, 2, strings.Count(doc, missingNote))
}

func TestGenerate_EmptyAndPlaceholderFields(t *testing.T) {
	content := " | no path\n/a |\n/b | " + models.PlaceholderDescription + "\n"

	result, err := Build(strings.NewReader(content), "inline", GenerateOptions{
		Separator: "|",
		Stat:      fakeStat("/a", "/b"),
	})
	require.NoError(t, err)

	require.Len(t, result.Document.Entries, 1)
	assert.Equal(t, "/b", result.Document.Entries[0].Path)
	assert.Equal(t, 2, models.CountDiagnostics(result.Diagnostics, models.DiagEmptyField))
	assert.Equal(t, 1, models.CountDiagnostics(result.Diagnostics, models.DiagPlaceholder))
}

func TestGenerate_NoEntries(t *testing.T) {
	path := writeManifest(t, "# only comments\n\n# here\n")

	result, err := Generate(path, GenerateOptions{Separator: "|"})
	require.NoError(t, err)
	assert.Empty(t, result.Document.Entries)
	assert.Empty(t, result.Diagnostics)

	out, err := Render(result.Document, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "# Work Folder Quick Reference\n\n---\n\n"+emptyNotice+"\n", string(out))
}

func TestGenerate_FatalErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Generate(filepath.Join(dir, "missing.txt"), GenerateOptions{Separator: "|"})
	require.Error(t, err)
	assert.True(t, models.IsInputError(err))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = Generate(dir, GenerateOptions{Separator: "|"})
	require.Error(t, err)
	assert.True(t, models.IsInputError(err))

	path := writeManifest(t, "/a | b\n")
	_, err = Generate(path, GenerateOptions{Separator: "||"})
	require.Error(t, err)
	assert.True(t, models.IsInputError(err))
}

func TestGenerate_SeparatorMismatch(t *testing.T) {
	path := writeManifest(t, "/a | one\n/b | two\n")

	result, err := Generate(path, GenerateOptions{Separator: ";", Stat: fakeStat("/a", "/b")})
	require.NoError(t, err)
	assert.Empty(t, result.Document.Entries)
	assert.Equal(t, 2, models.CountDiagnostics(result.Diagnostics, models.DiagMalformedLine))
}

func TestGenerate_Idempotent(t *testing.T) {
	existing := t.TempDir()
	path := writeManifest(t, "# c\n"+existing+" | here\n/not/here/at/all | gone\n")

	render := func() []byte {
		result, err := Generate(path, GenerateOptions{Separator: "|"})
		require.NoError(t, err)
		out, err := Render(result.Document, RenderOptions{FrontMatter: true})
		require.NoError(t, err)
		return out
	}

	first := render()
	second := render()
	assert.True(t, bytes.Equal(first, second), "outputs differ:\n%s\n---\n%s", first, second)
}

func TestScanToGenerateRoundTrip(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"alpha/inner", "beta", "gamma/one/two"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0755))
	}

	scan, err := fileutil.ScanDirectories(root, fileutil.ScanOptions{MaxDepth: 2})
	require.NoError(t, err)
	require.Len(t, scan.Entries, 5)

	var buf bytes.Buffer
	require.NoError(t, manifest.Write(&buf, manifest.Header{Root: scan.Root, MaxDepth: 2}, scan.Entries, "|"))
	manifestPath := writeManifest(t, buf.String())

	result, err := Generate(manifestPath, GenerateOptions{Separator: "|"})
	require.NoError(t, err)

	require.Len(t, result.Document.Entries, len(scan.Entries))
	for i, e := range result.Document.Entries {
		assert.Equal(t, scan.Entries[i].Path, e.Path)
		assert.Equal(t, models.PlaceholderDescription, e.Description)
		assert.True(t, e.Exists)
	}
	assert.Equal(t, len(scan.Entries), models.CountDiagnostics(result.Diagnostics, models.DiagPlaceholder))

	out, err := Render(result.Document, RenderOptions{})
	require.NoError(t, err)
	doc := string(out)
	assert.Equal(t, len(scan.Entries), strings.Count(doc, models.PlaceholderDescription))

	// Blocks keep scan order
	last := -1
	for _, e := range scan.Entries {
		idx := strings.Index(doc, "`"+e.Path+"`")
		require.GreaterOrEqual(t, idx, 0, "missing %s", e.Path)
		assert.Greater(t, idx, last, "out of order: %s", e.Path)
		last = idx
	}
}

func TestWriteDocuments(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out", "reference.md")

	require.NoError(t, WriteDocuments(filelock.Output{Path: target, Data: []byte("# doc\n")}))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "# doc\n", string(data))

	err = WriteDocuments(
		filelock.Output{Path: target, Data: []byte("# changed\n")},
		filelock.Output{Path: dir, Data: []byte("x")},
	)
	require.Error(t, err)
	var inputErr *models.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, dir, inputErr.Path)

	data, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "# doc\n", string(data))
}
