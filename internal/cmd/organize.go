package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/folderdoc/internal/config"
	"github.com/harrison/folderdoc/internal/logsort"
	"github.com/harrison/folderdoc/internal/models"
)

// NewOrganizeCommand creates the organize command
func NewOrganizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize [dir]",
		Short: "Move dated log files into per-day folders",
		Long: `Organize looks at the files directly inside [dir] (default: the current
directory). Every file ending in --ext whose name contains -YYYYMMDD- is moved
into a folder named YYYY-MM-DD, created when needed.

Files without a date are left in place. Existing files are never overwritten.
Only one organize run per directory is allowed at a time.

Examples:
  folderdoc organize
  folderdoc organize /var/log/myapp --dry-run
  folderdoc organize logs --ext .txt --retries 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: runOrganize,
	}

	cmd.Flags().String("ext", config.DefaultLogExtension, "File extension to organize")
	cmd.Flags().Bool("dry-run", false, "Show planned moves without moving anything")
	cmd.Flags().Int("retries", 3, "Extra attempts for a move that fails")

	return cmd
}

func runOrganize(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.MergeOrganizeFlags(changedString(cmd, "ext"), changedInt(cmd, "retries"))
	if err := validateConfig(cfg); err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	log := newLogger(cmd, cfg)
	start := time.Now()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := logsort.Organize(ctx, dir, logsort.Options{
		Extension:  cfg.Organize.Extension,
		Retries:    cfg.Organize.Retries,
		RetryDelay: cfg.Organize.RetryDelay,
		DryRun:     dryRun,
	})
	if err != nil {
		return err
	}

	verb := "Moved"
	if dryRun {
		verb = "Would move"
	}
	for _, folder := range result.Created {
		log.LogDebug(fmt.Sprintf("Created folder %s", folder))
	}
	for _, m := range result.Moves {
		log.LogInfo(fmt.Sprintf("%s %s -> %s", verb, m.File, filepath.Join(m.Folder, m.File)))
	}

	reportDiagnostics(cmd, log, result.Diagnostics)
	log.LogOrganizeSummary(models.OrganizeSummary{
		Dir:      result.Dir,
		Moved:    len(result.Moves),
		Skipped:  result.Skipped,
		Failed:   result.Failed(),
		Folders:  result.Folders(),
		DryRun:   dryRun,
		Duration: time.Since(start),
	})

	return nil
}
