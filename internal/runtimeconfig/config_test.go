package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-folio/internal/runtimeconfig"
)

func TestConfigValidate_DefaultsAreValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"content dir", func(c *runtimeconfig.Config) { c.Content.Dir = " " }, runtimeconfig.ErrContentDirRequired},
		{"pattern", func(c *runtimeconfig.Config) { c.Content.Pattern = "[" }, runtimeconfig.ErrPostsPatternInvalid},
		{"workers", func(c *runtimeconfig.Config) { c.Content.Workers = -1 }, runtimeconfig.ErrWorkersInvalid},
		{"section level", func(c *runtimeconfig.Config) { c.Resume.SectionLevel = 6 }, runtimeconfig.ErrSectionLevelInvalid},
		{"feed limit", func(c *runtimeconfig.Config) { c.Feeds.Limit = -5 }, runtimeconfig.ErrFeedLimitInvalid},
		{"summary length", func(c *runtimeconfig.Config) { c.Markdown.SummaryLength = -1 }, runtimeconfig.ErrSummaryLengthInvalid},
		{"base url", func(c *runtimeconfig.Config) { c.Site.BaseURL = "example.com" }, runtimeconfig.ErrBaseURLInvalid},
		{"output dir", func(c *runtimeconfig.Config) { c.Build.OutputDir = "" }, runtimeconfig.ErrOutputDirRequired},
		{"timeout", func(c *runtimeconfig.Config) { c.Build.Timeout = -time.Second }, runtimeconfig.ErrBuildTimeoutInvalid},
		{"provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"format", func(c *runtimeconfig.Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, runtimeconfig.ErrLoggingFormatInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestConfigValidate_IgnoresFormatForConsoleProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "folio.yaml", `
site:
  title: Jane Doe
  base_url: https://jane.dev
content:
  dir: site
  workers: 2
feeds:
  limit: 5
routes:
  post: /blog/:id
build:
  timeout: 30s
logging:
  provider: gologger
  format: json
`)
	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Title != "Jane Doe" || cfg.Site.BaseURL != "https://jane.dev" {
		t.Fatalf("unexpected site section %+v", cfg.Site)
	}
	if cfg.Content.Dir != "site" || cfg.Content.Workers != 2 || cfg.Content.Pattern != "*.md" {
		t.Fatalf("unexpected content section %+v", cfg.Content)
	}
	if cfg.Routes.Post != "/blog/:id" || cfg.Routes.Tag != "/tags/:name" {
		t.Fatalf("unexpected routes %+v", cfg.Routes)
	}
	if cfg.Feeds.Limit != 5 || !cfg.Feeds.Enabled {
		t.Fatalf("unexpected feeds %+v", cfg.Feeds)
	}
	if cfg.Build.Timeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %s", cfg.Build.Timeout)
	}
	if got := cfg.PostsDir(); got != filepath.Join("site", "_posts") {
		t.Fatalf("unexpected posts dir %q", got)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "folio.toml", `
[site]
title = "Jane Doe"

[content]
dir = "site"
resume_file = ""

[resume]
section_level = 3
`)
	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Title != "Jane Doe" || cfg.Resume.SectionLevel != 3 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.ResumePath() != "" {
		t.Fatalf("expected resume to be disabled, got %q", cfg.ResumePath())
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	for name, body := range map[string]string{
		"folio.yaml": "site:\n  titel: typo\n",
		"folio.toml": "[site]\ntitel = \"typo\"\n",
	} {
		if _, err := runtimeconfig.Load(writeConfig(t, name, body)); err == nil {
			t.Fatalf("%s: expected unknown key error", name)
		}
	}
}

func TestLoad_ValidatesResult(t *testing.T) {
	path := writeConfig(t, "folio.yml", "content:\n  workers: -3\n")
	if _, err := runtimeconfig.Load(path); !errors.Is(err, runtimeconfig.ErrWorkersInvalid) {
		t.Fatalf("expected ErrWorkersInvalid, got %v", err)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "folio.ini", "title=x\n")
	if _, err := runtimeconfig.Load(path); !errors.Is(err, runtimeconfig.ErrConfigFormatUnsupported) {
		t.Fatalf("expected ErrConfigFormatUnsupported, got %v", err)
	}
}

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
