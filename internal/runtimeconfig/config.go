package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-folio/internal/nav"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

var (
	ErrContentDirRequired      = errors.New("folio config: content directory is required")
	ErrPostsPatternInvalid     = errors.New("folio config: posts pattern is invalid")
	ErrWorkersInvalid          = errors.New("folio config: workers must be zero or positive")
	ErrSectionLevelInvalid     = errors.New("folio config: resume section level must be between 2 and 5")
	ErrFeedLimitInvalid        = errors.New("folio config: feed limit must be zero or positive")
	ErrSummaryLengthInvalid    = errors.New("folio config: summary length must be zero or positive")
	ErrBaseURLInvalid          = errors.New("folio config: site base url must be an absolute http(s) url")
	ErrOutputDirRequired       = errors.New("folio config: output directory is required")
	ErrBuildTimeoutInvalid     = errors.New("folio config: build timeout must be zero or positive")
	ErrLoggingProviderUnknown  = errors.New("folio config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("folio config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("folio config: logging format is invalid")
	ErrConfigFormatUnsupported = errors.New("folio config: unsupported config file format")
)

// Config aggregates every setting the site build needs.
type Config struct {
	Site     SiteConfig     `yaml:"site" toml:"site" json:"site"`
	Content  ContentConfig  `yaml:"content" toml:"content" json:"content"`
	Markdown MarkdownConfig `yaml:"markdown" toml:"markdown" json:"markdown"`
	Resume   ResumeConfig   `yaml:"resume" toml:"resume" json:"resume"`
	Feeds    FeedsConfig    `yaml:"feeds" toml:"feeds" json:"feeds"`
	Routes   nav.Config     `yaml:"routes" toml:"routes" json:"routes"`
	Build    BuildConfig    `yaml:"build" toml:"build" json:"build"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging" json:"logging"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	Title       string `yaml:"title" toml:"title" json:"title"`
	Description string `yaml:"description" toml:"description" json:"description"`
	Author      string `yaml:"author" toml:"author" json:"author"`
	Language    string `yaml:"language" toml:"language" json:"language"`
	BaseURL     string `yaml:"base_url" toml:"base_url" json:"base_url"`
}

// ContentConfig locates the source content. PostsDir and ResumeFile are
// relative to Dir.
type ContentConfig struct {
	Dir              string `yaml:"dir" toml:"dir" json:"dir"`
	PostsDir         string `yaml:"posts_dir" toml:"posts_dir" json:"posts_dir"`
	Pattern          string `yaml:"pattern" toml:"pattern" json:"pattern"`
	Recursive        bool   `yaml:"recursive" toml:"recursive" json:"recursive"`
	ResumeFile       string `yaml:"resume_file" toml:"resume_file" json:"resume_file"`
	Workers          int    `yaml:"workers" toml:"workers" json:"workers"`
	SkipInvalidPosts bool   `yaml:"skip_invalid_posts" toml:"skip_invalid_posts" json:"skip_invalid_posts"`
	RequirePosts     bool   `yaml:"require_posts" toml:"require_posts" json:"require_posts"`
}

// MarkdownConfig mirrors interfaces.RenderOptions plus summary settings.
type MarkdownConfig struct {
	Extensions    []string `yaml:"extensions" toml:"extensions" json:"extensions"`
	HardWraps     bool     `yaml:"hard_wraps" toml:"hard_wraps" json:"hard_wraps"`
	SafeMode      bool     `yaml:"safe_mode" toml:"safe_mode" json:"safe_mode"`
	SummaryLength int      `yaml:"summary_length" toml:"summary_length" json:"summary_length"`
}

// RenderOptions converts the section into renderer options.
func (m MarkdownConfig) RenderOptions() interfaces.RenderOptions {
	return interfaces.RenderOptions{
		Extensions: append([]string(nil), m.Extensions...),
		HardWraps:  m.HardWraps,
		SafeMode:   m.SafeMode,
	}
}

type ResumeConfig struct {
	SectionLevel int `yaml:"section_level" toml:"section_level" json:"section_level"`
}

// FeedsConfig controls Atom and RSS output.
type FeedsConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled" json:"enabled"`
	Limit   int  `yaml:"limit" toml:"limit" json:"limit"`
}

// BuildConfig controls where and how the build command writes its output.
type BuildConfig struct {
	OutputDir string        `yaml:"output_dir" toml:"output_dir" json:"output_dir"`
	Timeout   time.Duration `yaml:"timeout" toml:"timeout" json:"timeout"`
}

// LoggingConfig selects the logger provider. Format and Focus only apply to
// the gologger provider.
type LoggingConfig struct {
	Provider  string   `yaml:"provider" toml:"provider" json:"provider"`
	Level     string   `yaml:"level" toml:"level" json:"level"`
	Format    string   `yaml:"format" toml:"format" json:"format"`
	AddSource bool     `yaml:"add_source" toml:"add_source" json:"add_source"`
	Focus     []string `yaml:"focus" toml:"focus" json:"focus"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Portfolio",
			Language: "en",
		},
		Content: ContentConfig{
			Dir:        "content",
			PostsDir:   "_posts",
			Pattern:    "*.md",
			ResumeFile: "resume.yaml",
		},
		Markdown: MarkdownConfig{
			Extensions:    []string{"gfm", "footnote"},
			SummaryLength: 280,
		},
		Resume: ResumeConfig{
			SectionLevel: 2,
		},
		Feeds: FeedsConfig{
			Enabled: true,
			Limit:   20,
		},
		Routes: nav.DefaultConfig(),
		Build: BuildConfig{
			OutputDir: "dist",
			Timeout:   time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if _, err := filepath.Match(cfg.Content.Pattern, "probe.md"); err != nil {
		return fmt.Errorf("%w: %s", ErrPostsPatternInvalid, cfg.Content.Pattern)
	}
	if cfg.Content.Workers < 0 {
		return ErrWorkersInvalid
	}
	if level := cfg.Resume.SectionLevel; level != 0 && (level < 2 || level > 5) {
		return fmt.Errorf("%w: %d", ErrSectionLevelInvalid, level)
	}
	if cfg.Feeds.Limit < 0 {
		return ErrFeedLimitInvalid
	}
	if cfg.Markdown.SummaryLength < 0 {
		return ErrSummaryLengthInvalid
	}
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" && !isAbsoluteHTTP(base) {
		return fmt.Errorf("%w: %s", ErrBaseURLInvalid, base)
	}
	if strings.TrimSpace(cfg.Build.OutputDir) == "" {
		return ErrOutputDirRequired
	}
	if cfg.Build.Timeout < 0 {
		return ErrBuildTimeoutInvalid
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over DefaultConfig
// and validates the result. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("folio config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("folio config: decode %s: %w", path, err)
		}
	case ".toml":
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("folio config: decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("folio config: decode %s: unknown keys %v", path, undecoded)
		}
	default:
		return cfg, fmt.Errorf("%w: %s", ErrConfigFormatUnsupported, path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// PostsDir returns the posts directory joined with the content directory.
func (cfg Config) PostsDir() string {
	return filepath.Join(cfg.Content.Dir, cfg.Content.PostsDir)
}

// ResumePath returns the resume file joined with the content directory.
func (cfg Config) ResumePath() string {
	if strings.TrimSpace(cfg.Content.ResumeFile) == "" {
		return ""
	}
	return filepath.Join(cfg.Content.Dir, cfg.Content.ResumeFile)
}

func isAbsoluteHTTP(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
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
