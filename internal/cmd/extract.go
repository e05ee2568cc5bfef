package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/folderdoc/internal/config"
	"github.com/harrison/folderdoc/internal/filelock"
	"github.com/harrison/folderdoc/internal/manifest"
	"github.com/harrison/folderdoc/internal/models"
	"github.com/harrison/folderdoc/internal/reference"
)

// NewExtractCommand creates the extract command
func NewExtractCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <reference.md>",
		Short: "Recover an editable manifest from a generated reference",
		Long: `Extract reads a Markdown reference written by 'folderdoc generate' and writes
the manifest it came from: one "<path> | <description>" line per folder
section, in document order.

Use it when the original manifest was lost, or to update descriptions and
regenerate.

Examples:
  folderdoc extract folder_reference.md
  folderdoc extract docs/work.md -o work_folders.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}

	cmd.Flags().StringP("output", "o", config.DefaultManifestName, "Manifest file to write (config: scan.output)")
	cmd.Flags().String("separator", models.DefaultSeparator, "Character between path and description (config: generate.separator)")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	source := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	// The recovered manifest must parse under the same config that generated the reference
	output := cfg.Scan.Output
	if v := changedString(cmd, "output"); v != nil {
		output = *v
	}
	sep := cfg.Generate.Separator
	if v := changedString(cmd, "separator"); v != nil {
		sep = *v
	}
	if err := manifest.ValidateSeparator(sep); err != nil {
		return models.NewInputError("extract", source, err)
	}
	if samePath(output, source) {
		return models.NewInputError("extract", output, errors.New("output would overwrite the reference"))
	}

	log := newLogger(cmd, cfg)
	start := time.Now()

	f, err := os.Open(source)
	if err != nil {
		return models.NewInputError("extract", source, fmt.Errorf("cannot open reference: %w", err))
	}
	defer f.Close()

	entries, err := reference.Extract(f)
	if err != nil {
		return models.NewInputError("extract", source, err)
	}

	var buf bytes.Buffer
	if err := manifest.WriteEntries(&buf, source, entries, sep); err != nil {
		return models.NewInputError("extract", output, err)
	}
	if err := filelock.AtomicWrite(output, buf.Bytes()); err != nil {
		return models.NewInputError("write", output, err)
	}

	unconfirmed := models.MarkdownDocument{Entries: entries}.Unconfirmed()
	log.LogInfo(fmt.Sprintf("Recovered %d folder(s) from %s into %s (%d marked missing) in %s",
		len(entries), source, output, unconfirmed, time.Since(start).Round(time.Millisecond)))

	return nil
}
