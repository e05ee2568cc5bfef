package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/folderdoc/internal/config"
	"github.com/harrison/folderdoc/internal/filelock"
	"github.com/harrison/folderdoc/internal/models"
	"github.com/harrison/folderdoc/internal/reference"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <manifest>",
		Short: "Turn an edited manifest into a Markdown reference",
		Long: `Generate reads a manifest written by 'folderdoc scan' (and edited by you)
and writes a Markdown reference with one section per folder.

Lines starting with '#' and blank lines are ignored. Lines without the
separator are skipped with a warning. Folders that no longer exist are kept
but marked with a warning in the reference.

The output is byte-for-byte reproducible unless --timestamp is given.

Examples:
  folderdoc generate folder_list_for_editing.txt
  folderdoc generate work_folders.txt -o docs/work.md --html docs/work.html
  folderdoc generate list.txt --separator ';' --frontmatter`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}

	cmd.Flags().StringP("output", "o", config.DefaultReferenceName, "Markdown file to write")
	cmd.Flags().String("separator", models.DefaultSeparator, "Character between path and description (must match the manifest)")
	cmd.Flags().String("html", "", "Also write an HTML rendering to this path")
	cmd.Flags().String("title", "", "Document title (default \""+reference.DefaultTitle+"\")")
	cmd.Flags().Bool("timestamp", false, "Add a 'Generated on' line")
	cmd.Flags().Bool("frontmatter", false, "Prefix the reference with YAML frontmatter")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.MergeGenerateFlags(
		changedString(cmd, "output"),
		changedString(cmd, "html"),
		changedString(cmd, "separator"),
		changedString(cmd, "title"),
		changedBool(cmd, "timestamp"),
		changedBool(cmd, "frontmatter"),
	)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	gen := cfg.Generate
	for _, out := range []string{gen.Output, gen.HTMLOutput} {
		if out != "" && samePath(out, manifestPath) {
			return models.NewInputError("generate", out, errors.New("output would overwrite the manifest"))
		}
	}

	log := newLogger(cmd, cfg)
	start := time.Now()
	log.LogDebug(fmt.Sprintf("Reading manifest %s", manifestPath))

	result, err := reference.Generate(manifestPath, reference.GenerateOptions{Separator: gen.Separator})
	if err != nil {
		return err
	}

	doc := result.Document
	if gen.Title != "" {
		doc.Title = gen.Title
	}
	opts := reference.RenderOptions{FrontMatter: gen.FrontMatter}
	if gen.Timestamp {
		opts.Timestamp = start
	}

	markdown, err := reference.Render(doc, opts)
	if err != nil {
		return err
	}

	outputs := []filelock.Output{{Path: gen.Output, Data: markdown}}
	if gen.HTMLOutput != "" {
		html, err := reference.RenderHTML(markdown)
		if err != nil {
			return err
		}
		outputs = append(outputs, filelock.Output{Path: gen.HTMLOutput, Data: html})
	}

	if err := reference.WriteDocuments(outputs...); err != nil {
		return err
	}

	reportDiagnostics(cmd, log, result.Diagnostics)
	log.LogGenerateSummary(models.GenerateSummary{
		Manifest:    manifestPath,
		Output:      gen.Output,
		HTMLOutput:  gen.HTMLOutput,
		Entries:     len(doc.Entries),
		Unconfirmed: doc.Unconfirmed(),
		Malformed:   models.CountDiagnostics(result.Diagnostics, models.DiagMalformedLine),
		EmptyField:  models.CountDiagnostics(result.Diagnostics, models.DiagEmptyField),
		Placeholder: models.CountDiagnostics(result.Diagnostics, models.DiagPlaceholder),
		Duration:    time.Since(start),
	})

	return nil
}

// samePath reports whether a and b name the same file after cleaning.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
