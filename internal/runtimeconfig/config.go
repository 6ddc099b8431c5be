package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrContentDirRequired indicates the content section has no source directory.
var ErrContentDirRequired = errors.New("pagination config: content directory is required")

// ErrContentSortInvalid indicates an unsupported collection ordering.
var ErrContentSortInvalid = errors.New("pagination config: content sort_by is invalid")

// ErrPaginationIterateeRequired ensures an iteratee name is always resolvable.
var ErrPaginationIterateeRequired = errors.New("pagination config: iteratee name is required")
var ErrPaginationSummaryLimitInvalid = errors.New("pagination config: summary limit must be zero or positive")
var ErrPaginationLocationInvalid = errors.New("pagination config: location is invalid")
var ErrPaginationPathInvalid = errors.New("pagination config: path must be relative")
var ErrGeneratorOutputDirRequired = errors.New("pagination config: generator output directory is required")
var ErrGeneratorWorkersInvalid = errors.New("pagination config: generator workers must be zero or positive")
var ErrLoggingProviderUnknown = errors.New("pagination config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("pagination config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("pagination config: logging format is invalid")

// Logging providers understood by the runtime.
const (
	LoggingProviderNone     = "none"
	LoggingProviderGoLogger = "gologger"
)

// Collection orderings understood by ContentConfig.SortBy.
const (
	SortByName = "name"
	SortByDate = "date"
)

// Config aggregates the settings of a pagination build. Fields use plain
// types so the struct can be filled from YAML or command line flags.
type Config struct {
	Content    ContentConfig    `yaml:"content"`
	Pagination PaginationConfig `yaml:"pagination"`
	Markdown   MarkdownConfig   `yaml:"markdown"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ContentConfig describes where documents are read from and how collections
// are ordered.
type ContentConfig struct {
	Dir       string   `yaml:"dir"`
	Patterns  []string `yaml:"patterns"`
	Recursive bool     `yaml:"recursive"`
	SortBy    string   `yaml:"sort_by"`
	Reverse   bool     `yaml:"reverse"`
}

// PaginationConfig mirrors the paginator options.
type PaginationConfig struct {
	// Path is the page name template. ":collection" is replaced by the
	// collection name.
	Path           string `yaml:"path"`
	Iteratee       string `yaml:"iteratee"`
	SummaryLimit   int    `yaml:"summary_limit"`
	SlugCollection bool   `yaml:"slug_collection"`
	DateKey        string `yaml:"date_key"`
	// Location is an IANA zone name used for zone-less dates.
	Location string `yaml:"location"`
}

// MarkdownConfig captures parser behaviour.
type MarkdownConfig struct {
	Parser MarkdownParserConfig `yaml:"parser"`
}

// MarkdownParserConfig mirrors markdown.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string `yaml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// GeneratorConfig captures behaviour for the build step.
type GeneratorConfig struct {
	OutputDir       string `yaml:"output_dir"`
	BaseURL         string `yaml:"base_url"`
	LayoutFile      string `yaml:"layout_file"`
	GenerateSitemap bool   `yaml:"generate_sitemap"`
	WriteManifest   bool   `yaml:"write_manifest"`
	Workers         int    `yaml:"workers"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the defaults used by the paginate command.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Dir:       "content",
			Patterns:  []string{"*.md", "*.markdown", "*.html"},
			Recursive: true,
			SortBy:    SortByName,
		},
		Pagination: PaginationConfig{
			Iteratee:     "identity",
			SummaryLimit: 10,
			DateKey:      "date",
			Location:     "UTC",
		},
		Markdown: MarkdownConfig{},
		Generator: GeneratorConfig{
			OutputDir:     "dist",
			WriteManifest: true,
			Workers:       0,
		},
		Logging: LoggingConfig{
			Provider: LoggingProviderGoLogger,
			Level:    "info",
			Format:   "console",
		},
	}
}

// LoadFile reads a YAML file on top of DefaultConfig. Keys missing from the
// file keep their default values.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("pagination config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("pagination config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Content.SortBy)) {
	case "", SortByName, SortByDate:
	default:
		return fmt.Errorf("%w: %s", ErrContentSortInvalid, cfg.Content.SortBy)
	}

	if strings.TrimSpace(cfg.Pagination.Iteratee) == "" {
		return ErrPaginationIterateeRequired
	}
	if cfg.Pagination.SummaryLimit < 0 {
		return ErrPaginationSummaryLimitInvalid
	}
	if path := strings.TrimSpace(cfg.Pagination.Path); strings.HasPrefix(path, "/") || strings.Contains(path, "..") {
		return fmt.Errorf("%w: %s", ErrPaginationPathInvalid, path)
	}
	if _, err := cfg.Pagination.ResolveLocation(); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrGeneratorOutputDirRequired
	}
	if cfg.Generator.Workers < 0 {
		return ErrGeneratorWorkersInvalid
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if provider == LoggingProviderGoLogger {
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// ResolveLocation loads the configured zone. Empty means UTC.
func (p PaginationConfig) ResolveLocation() (*time.Location, error) {
	name := strings.TrimSpace(p.Location)
	if name == "" || strings.EqualFold(name, "utc") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPaginationLocationInvalid, name)
	}
	return loc, nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "", LoggingProviderNone, LoggingProviderGoLogger:
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
