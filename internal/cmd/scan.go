package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harrison/folderdoc/internal/config"
	"github.com/harrison/folderdoc/internal/fileutil"
	"github.com/harrison/folderdoc/internal/filelock"
	"github.com/harrison/folderdoc/internal/manifest"
	"github.com/harrison/folderdoc/internal/models"
)

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <start-dir>",
		Short: "List subfolders into an editable manifest",
		Long: `Scan walks <start-dir> up to --depth levels and writes every folder it finds
to a manifest, one per line, followed by the separator and a placeholder
description.

Hidden folders (names starting with ".") and common clutter such as .git,
node_modules, __pycache__, build and dist are skipped together with
everything below them. Add more names or glob patterns with --ignore-dir.

Examples:
  folderdoc scan ~/Work
  folderdoc scan ~/Work -d 2 -o work_folders.txt
  folderdoc scan . --ignore-dir 'tmp*' --ignore-dir archive`,
		Args: cobra.ExactArgs(1),
		RunE: runScan,
	}

	cmd.Flags().IntP("depth", "d", 1, "Maximum depth to scan (1 = immediate subfolders)")
	cmd.Flags().StringP("output", "o", config.DefaultManifestName, "Manifest file to write")
	cmd.Flags().StringArray("ignore-dir", nil, "Folder name or glob pattern to skip (repeatable)")
	cmd.Flags().Bool("include-hidden", false, "Include folders whose name starts with '.'")
	cmd.Flags().String("separator", models.DefaultSeparator, "Character between path and description")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var ignoreDirs []string
	if cmd.Flags().Changed("ignore-dir") {
		ignoreDirs, _ = cmd.Flags().GetStringArray("ignore-dir")
	}
	cfg.MergeScanFlags(
		changedInt(cmd, "depth"),
		changedString(cmd, "output"),
		ignoreDirs,
		changedBool(cmd, "include-hidden"),
		changedString(cmd, "separator"),
	)
	if err := validateConfig(cfg); err != nil {
		return err
	}

	log := newLogger(cmd, cfg)
	start := time.Now()
	log.LogDebug(fmt.Sprintf("Scanning %s to depth %d", args[0], cfg.Scan.Depth))

	result, err := fileutil.ScanDirectories(args[0], fileutil.ScanOptions{
		MaxDepth:       cfg.Scan.Depth,
		IgnorePatterns: cfg.Scan.IgnoreDirs,
		IncludeHidden:  cfg.Scan.IncludeHidden,
	})
	if err != nil {
		return err
	}

	header := manifest.Header{
		Root:        result.Root,
		MaxDepth:    cfg.Scan.Depth,
		ScanID:      uuid.NewString(),
		GeneratedAt: start,
		Command:     cmd.Root().Name(),
	}

	var buf bytes.Buffer
	if err := manifest.Write(&buf, header, result.Entries, cfg.Scan.Separator); err != nil {
		return models.NewInputError("scan", cfg.Scan.Output, err)
	}
	if err := filelock.AtomicWrite(cfg.Scan.Output, buf.Bytes()); err != nil {
		return models.NewInputError("write", cfg.Scan.Output, err)
	}

	reportDiagnostics(cmd, log, result.Diagnostics)
	log.LogScanSummary(models.ScanSummary{
		Root:        result.Root,
		Output:      cfg.Scan.Output,
		Entries:     len(result.Entries),
		Ignored:     result.Ignored,
		Diagnostics: len(result.Diagnostics),
		Duration:    time.Since(start),
	})
	if len(result.Entries) > 0 {
		log.LogInfo(fmt.Sprintf("Next: edit %s, then run '%s generate %s'", cfg.Scan.Output, cmd.Root().Name(), cfg.Scan.Output))
	}

	return nil
}
