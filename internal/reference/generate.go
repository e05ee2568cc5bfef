// Package reference turns a curated manifest into a Markdown folder reference
// and recovers manifests from existing references.
package reference

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/harrison/folderdoc/internal/filelock"
	"github.com/harrison/folderdoc/internal/manifest"
	"github.com/harrison/folderdoc/internal/models"
)

// DefaultTitle heads every generated reference.
const DefaultTitle = "Work Folder Quick Reference"

// GenerateOptions configures manifest processing
type GenerateOptions struct {
	// Separator splits path from description; must match the one used at scan time
	Separator string
	// Stat checks entry paths; defaults to os.Stat
	Stat func(name string) (os.FileInfo, error)
}

// GenerateResult holds the document built from a manifest
type GenerateResult struct {
	Document    models.MarkdownDocument
	Records     []models.ManifestRecord
	Diagnostics []models.Diagnostic
}

// Generate reads the manifest at manifestPath and builds the reference document.
// Only an unreadable manifest or an invalid separator is fatal.
func Generate(manifestPath string, opts GenerateOptions) (*GenerateResult, error) {
	if err := manifest.ValidateSeparator(opts.Separator); err != nil {
		return nil, models.NewInputError("generate", manifestPath, err)
	}

	f, err := os.Open(manifestPath)
	if err != nil {
		return nil, models.NewInputError("generate", manifestPath, fmt.Errorf("cannot open manifest: %w", err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, models.NewInputError("generate", manifestPath, err)
	}
	if info.IsDir() {
		return nil, models.NewInputError("generate", manifestPath, fmt.Errorf("manifest is a directory"))
	}

	return Build(f, manifestPath, opts)
}

// Build processes manifest content from r. source names the manifest in the
// resulting document.
func Build(r io.Reader, source string, opts GenerateOptions) (*GenerateResult, error) {
	records, err := manifest.Parse(r, opts.Separator)
	if err != nil {
		return nil, models.NewInputError("generate", source, err)
	}

	stat := opts.Stat
	if stat == nil {
		stat = os.Stat
	}

	result := &GenerateResult{
		Document: models.MarkdownDocument{
			Title:   DefaultTitle,
			Source:  source,
			Entries: make([]models.ReferenceEntry, 0),
		},
		Records:     records,
		Diagnostics: make([]models.Diagnostic, 0),
	}

	for _, rec := range records {
		switch rec.Kind {
		case models.RecordBlank, models.RecordComment:
			continue
		case models.RecordMalformed:
			result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
				Kind:    models.DiagMalformedLine,
				Line:    rec.LineNumber,
				Message: fmt.Sprintf("missing separator '%s', skipping: %s", opts.Separator, rec.RawLine),
			})
			continue
		}

		if rec.Path == "" || rec.Description == "" {
			result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
				Kind:    models.DiagEmptyField,
				Line:    rec.LineNumber,
				Message: fmt.Sprintf("empty path or description, skipping: %s", rec.RawLine),
			})
			continue
		}

		if rec.Description == models.PlaceholderDescription {
			result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
				Kind:    models.DiagPlaceholder,
				Line:    rec.LineNumber,
				Path:    rec.Path,
				Message: "still has the placeholder description",
			})
		}

		entry := models.ReferenceEntry{
			Path:        rec.Path,
			Description: rec.Description,
			LineNumber:  rec.LineNumber,
		}

		info, err := stat(rec.Path)
		switch {
		case err != nil:
			result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
				Kind:    models.DiagMissingPath,
				Line:    rec.LineNumber,
				Path:    rec.Path,
				Message: "path could not be confirmed",
				Err:     err,
			})
		case !info.IsDir():
			result.Diagnostics = append(result.Diagnostics, models.Diagnostic{
				Kind:    models.DiagMissingPath,
				Line:    rec.LineNumber,
				Path:    rec.Path,
				Message: "path is not a directory",
			})
		default:
			entry.Exists = true
		}

		result.Document.Entries = append(result.Document.Entries, entry)
	}

	return result, nil
}

// WriteDocuments writes every rendered output atomically, creating parent
// directories. No output is replaced unless all of them could be staged.
func WriteDocuments(docs ...filelock.Output) error {
	if err := filelock.AtomicWriteAll(docs...); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return models.NewInputError("write", pathErr.Path, pathErr.Err)
		}
		return models.NewInputError("write", "", err)
	}
	return nil
}
