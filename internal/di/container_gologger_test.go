package di

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/logging/gologger"
	"github.com/goliatone/go-folio/internal/runtimeconfig"
	"github.com/goliatone/go-folio/internal/site"
)

func gologgerConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "error"
	cfg.Logging.Format = "json"
	return cfg
}

func TestGoLoggerProviderBacksFolioModuleLoggers(t *testing.T) {
	container, err := NewContainer(gologgerConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, ok := container.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}

	modules := map[string]any{
		logging.PostsModule:    logging.PostsLogger(container.LoggerProvider()),
		logging.ResumeModule:   logging.ResumeLogger(container.LoggerProvider()),
		logging.SiteModule:     logging.SiteLogger(container.LoggerProvider()),
		logging.CommandsModule: logging.CommandsLogger(container.LoggerProvider()),
	}
	for module, logger := range modules {
		if got := fmt.Sprintf("%T", logger); !strings.HasPrefix(got, "*gologger.") {
			t.Fatalf("%s logger resolved to %s, want a go-logger adapter", module, got)
		}
	}
}

func TestGoLoggerContainerBuildsSite(t *testing.T) {
	fsys := fstest.MapFS{
		"_posts/2024-05-25-part-1.md": {Data: []byte("---\ntitle: Part 1\ndate: 2024-05-25\ntags: [CouchDB]\n---\nBody.\n")},
	}
	container, err := NewContainer(gologgerConfig(), WithContentFS(fsys))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	result, err := container.SiteService().Build(context.Background(), site.BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(result.Site.Pages) != 1 || result.Site.Pages[0].ID != "2024-05-25-part-1" {
		t.Fatalf("unexpected pages %+v", result.Site.Pages)
	}
	if !result.Output.DryRun {
		t.Fatalf("expected dry run output, got %+v", result.Output)
	}
}

func TestGoLoggerRejectsUnknownFormat(t *testing.T) {
	cfg := gologgerConfig()
	cfg.Logging.Format = "xml"
	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}
