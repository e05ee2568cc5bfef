package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/harrison/folderdoc/internal/manifest"
	"github.com/harrison/folderdoc/internal/models"
)

// FileName is the per-directory configuration file looked up by LoadConfigFromDir.
const FileName = ".folderdoc.yaml"

// Default output names used when neither flags nor the config file set one.
const (
	DefaultManifestName  = "folder_list_for_editing.txt"
	DefaultReferenceName = "folder_reference.md"
	DefaultLogExtension  = ".log"
)

func init() {
	// Report validation errors under the YAML key the user wrote.
	validation.ErrorTag = "yaml"
}

var extensionPattern = regexp.MustCompile(`^\.[^./\\\s]+$`)

// ScanConfig holds defaults for the scan command
type ScanConfig struct {
	// Depth is the deepest directory level written to the manifest
	Depth int `yaml:"depth"`

	// Output is the manifest file to write
	Output string `yaml:"output"`

	// IgnoreDirs are extra glob patterns matched against directory names
	IgnoreDirs []string `yaml:"ignore_dirs"`

	// IncludeHidden keeps dot-directories in the scan
	IncludeHidden bool `yaml:"include_hidden"`

	// Separator splits path from description in the manifest
	Separator string `yaml:"separator"`
}

// GenerateConfig holds defaults for the generate command
type GenerateConfig struct {
	// Output is the Markdown reference to write
	Output string `yaml:"output"`

	// HTMLOutput, when set, also writes an HTML rendering
	HTMLOutput string `yaml:"html_output"`

	// Separator must match the one used in the manifest
	Separator string `yaml:"separator"`

	// Title overrides the document heading
	Title string `yaml:"title"`

	// Timestamp adds a "Generated on" line to the reference
	Timestamp bool `yaml:"timestamp"`

	// FrontMatter prefixes the reference with YAML metadata
	FrontMatter bool `yaml:"frontmatter"`
}

// OrganizeConfig holds defaults for the organize command
type OrganizeConfig struct {
	// Extension selects which files are organized
	Extension string `yaml:"extension"`

	// Retries is how many extra attempts a failed move gets
	Retries int `yaml:"retries"`

	// RetryDelay is the pause between move attempts
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// Config represents folderdoc configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	Scan     ScanConfig     `yaml:"scan"`
	Generate GenerateConfig `yaml:"generate"`
	Organize OrganizeConfig `yaml:"organize"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Scan: ScanConfig{
			Depth:     1,
			Output:    DefaultManifestName,
			Separator: models.DefaultSeparator,
		},
		Generate: GenerateConfig{
			Output:    DefaultReferenceName,
			Separator: models.DefaultSeparator,
		},
		Organize: OrganizeConfig{
			Extension:  DefaultLogExtension,
			Retries:    3,
			RetryDelay: 500 * time.Millisecond,
		},
	}
}

// fileConfig mirrors Config with pointer fields so keys absent from the file
// leave defaults untouched, even when the file sets a zero value elsewhere.
type fileConfig struct {
	LogLevel *string `yaml:"log_level"`
	Scan     struct {
		Depth         *int     `yaml:"depth"`
		Output        *string  `yaml:"output"`
		IgnoreDirs    []string `yaml:"ignore_dirs"`
		IncludeHidden *bool    `yaml:"include_hidden"`
		Separator     *string  `yaml:"separator"`
	} `yaml:"scan"`
	Generate struct {
		Output      *string `yaml:"output"`
		HTMLOutput  *string `yaml:"html_output"`
		Separator   *string `yaml:"separator"`
		Title       *string `yaml:"title"`
		Timestamp   *bool   `yaml:"timestamp"`
		FrontMatter *bool   `yaml:"frontmatter"`
	} `yaml:"generate"`
	Organize struct {
		Extension  *string `yaml:"extension"`
		Retries    *int    `yaml:"retries"`
		RetryDelay *string `yaml:"retry_delay"`
	} `yaml:"organize"`
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*fc.LogLevel))
	}

	setInt(&cfg.Scan.Depth, fc.Scan.Depth)
	setString(&cfg.Scan.Output, fc.Scan.Output)
	if fc.Scan.IgnoreDirs != nil {
		cfg.Scan.IgnoreDirs = fc.Scan.IgnoreDirs
	}
	setBool(&cfg.Scan.IncludeHidden, fc.Scan.IncludeHidden)
	setString(&cfg.Scan.Separator, fc.Scan.Separator)

	setString(&cfg.Generate.Output, fc.Generate.Output)
	setString(&cfg.Generate.HTMLOutput, fc.Generate.HTMLOutput)
	setString(&cfg.Generate.Separator, fc.Generate.Separator)
	setString(&cfg.Generate.Title, fc.Generate.Title)
	setBool(&cfg.Generate.Timestamp, fc.Generate.Timestamp)
	setBool(&cfg.Generate.FrontMatter, fc.Generate.FrontMatter)

	setString(&cfg.Organize.Extension, fc.Organize.Extension)
	setInt(&cfg.Organize.Retries, fc.Organize.Retries)
	if fc.Organize.RetryDelay != nil {
		delay, err := time.ParseDuration(*fc.Organize.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("invalid retry_delay format %q: %w", *fc.Organize.RetryDelay, err)
		}
		cfg.Organize.RetryDelay = delay
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .folderdoc.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, FileName))
}

// MergeScanFlags merges scan command flags into the configuration.
// Non-nil values override the file; ignore patterns from flags are appended
// to those from the file.
func (c *Config) MergeScanFlags(depth *int, output *string, ignoreDirs []string, includeHidden *bool, separator *string) {
	setInt(&c.Scan.Depth, depth)
	setString(&c.Scan.Output, output)
	c.Scan.IgnoreDirs = append(c.Scan.IgnoreDirs, ignoreDirs...)
	setBool(&c.Scan.IncludeHidden, includeHidden)
	setString(&c.Scan.Separator, separator)
}

// MergeGenerateFlags merges generate command flags into the configuration.
// Non-nil values override the file.
func (c *Config) MergeGenerateFlags(output, htmlOutput, separator, title *string, timestamp, frontMatter *bool) {
	setString(&c.Generate.Output, output)
	setString(&c.Generate.HTMLOutput, htmlOutput)
	setString(&c.Generate.Separator, separator)
	setString(&c.Generate.Title, title)
	setBool(&c.Generate.Timestamp, timestamp)
	setBool(&c.Generate.FrontMatter, frontMatter)
}

// MergeOrganizeFlags merges organize command flags into the configuration.
func (c *Config) MergeOrganizeFlags(extension *string, retries *int) {
	setString(&c.Organize.Extension, extension)
	setInt(&c.Organize.Retries, retries)
}

// MergeLogLevel applies the global --log-level flag when it was set.
func (c *Config) MergeLogLevel(level *string) {
	if level != nil {
		c.LogLevel = strings.ToLower(strings.TrimSpace(*level))
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.Required, validation.In("trace", "debug", "info", "warn", "error").
			Error("must be one of: trace, debug, info, warn, error")),
		validation.Field(&c.Scan),
		validation.Field(&c.Generate),
		validation.Field(&c.Organize),
	)
}

// Validate checks the scan section.
func (s ScanConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Depth, validation.Min(0)),
		validation.Field(&s.Output, validation.Required),
		validation.Field(&s.IgnoreDirs, validation.Each(validation.By(globRule))),
		validation.Field(&s.Separator, validation.By(separatorRule)),
	)
}

// Validate checks the generate section.
func (g GenerateConfig) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Output, validation.Required),
		validation.Field(&g.Separator, validation.By(separatorRule)),
		validation.Field(&g.HTMLOutput, validation.By(func(value any) error {
			if v, _ := value.(string); v != "" && filepath.Clean(v) == filepath.Clean(g.Output) {
				return validation.NewError("validation_html_output_clash", "must differ from the Markdown output")
			}
			return nil
		})),
	)
}

// Validate checks the organize section.
func (o OrganizeConfig) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Extension, validation.Required, validation.Match(extensionPattern).
			Error("must look like .log")),
		validation.Field(&o.Retries, validation.Min(0)),
		validation.Field(&o.RetryDelay, validation.By(func(value any) error {
			if d, _ := value.(time.Duration); d < 0 {
				return validation.NewError("validation_retry_delay_negative", "must not be negative")
			}
			return nil
		})),
	)
}

func separatorRule(value any) error {
	sep, _ := value.(string)
	if err := manifest.ValidateSeparator(sep); err != nil {
		return validation.NewError("validation_separator_invalid", err.Error())
	}
	return nil
}

func globRule(value any) error {
	pattern, _ := value.(string)
	if _, err := filepath.Match(pattern, ""); err != nil {
		return validation.NewError("validation_glob_invalid", fmt.Sprintf("invalid pattern %q", pattern))
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
