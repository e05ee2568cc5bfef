package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/folderdoc/internal/config"
	"github.com/harrison/folderdoc/internal/display"
	"github.com/harrison/folderdoc/internal/logger"
	"github.com/harrison/folderdoc/internal/models"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for folderdoc
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folderdoc",
		Short: "Document a folder tree as an editable list and a Markdown reference",
		Long: `folderdoc keeps a human-curated reference of important folders.

The workflow has two steps with a manual edit in between:

  1. folderdoc scan <dir>          writes a text list of subfolders
  2. edit the list: delete folders you don't need, describe the rest
  3. folderdoc generate <list>     turns the list into a Markdown reference

folderdoc extract recovers an editable list from an existing reference and
folderdoc organize sorts dated log files into per-day folders.

Defaults are read from .folderdoc.yaml in the current directory when present.
Command-line flags override the file.`,
		Version: Version,
		// main prints the error; silence cobra's copy and the usage dump
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("log-level", "", "Log verbosity: trace, debug, info, warn, error (default from config, else info)")
	cmd.PersistentFlags().String("config", "", "Path to config file (default: ./"+config.FileName+")")

	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewGenerateCommand())
	cmd.AddCommand(NewExtractCommand())
	cmd.AddCommand(NewOrganizeCommand())

	return cmd
}

// loadConfig reads the config file named by --config, or .folderdoc.yaml in
// the working directory, and applies --log-level. An explicit --config path
// must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		if _, statErr := os.Stat(configPath); statErr != nil {
			return nil, models.NewInputError("config", configPath, statErr)
		}
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return nil, models.NewInputError("config", configPath, err)
	}

	cfg.MergeLogLevel(changedString(cmd, "log-level"))
	return cfg, nil
}

// validateConfig runs after command flags were merged so flag values are checked too.
func validateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return models.NewInputError("config", "", fmt.Errorf("invalid configuration: %w", err))
	}
	return nil
}

// newLogger returns the console logger for a command run.
func newLogger(cmd *cobra.Command, cfg *config.Config) logger.Logger {
	return logger.NewConsoleLogger(cmd.OutOrStdout(), cfg.LogLevel)
}

// reportDiagnostics streams diagnostics to the log and shows them grouped on stderr.
func reportDiagnostics(cmd *cobra.Command, log logger.Logger, diags []models.Diagnostic) {
	for _, d := range diags {
		log.LogDiagnostic(d)
	}
	display.DisplayDiagnostics(cmd.ErrOrStderr(), diags)
}

func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func changedInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

func changedBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}
