package folio

import (
	"context"
	"time"

	staticcmd "github.com/goliatone/go-folio/internal/commands/static"
	"github.com/goliatone/go-folio/internal/di"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/site"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

type (
	// Site is a built portfolio: resume tree, post pages, archives and feeds.
	Site = site.Site
	// Snapshot is the JSON form of a Site.
	Snapshot = site.Snapshot

	BuildSiteCommand = staticcmd.BuildSiteCommand
	CleanSiteCommand = staticcmd.CleanSiteCommand
	Option           = di.Option
)

var (
	WithLoggerProvider = di.WithLoggerProvider
	WithLogWriter      = di.WithLogWriter
	WithContentFS      = di.WithContentFS
	WithRenderer       = di.WithRenderer
	WithClock          = di.WithClock
)

// Module is the top level folio runtime.
type Module struct {
	container *di.Container
}

// New constructs a Module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Config() Config {
	return m.container.Config()
}

func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.container.LoggerProvider()
}

// Build assembles the site in memory without writing anything.
func (m *Module) Build(ctx context.Context) (*Site, error) {
	result, err := m.container.SiteService().Build(ctx, site.BuildOptions{DryRun: true})
	if err != nil {
		return nil, err
	}
	return result.Site, nil
}

// BuildSiteHandler returns the command handler that builds and writes the site.
func (m *Module) BuildSiteHandler() *staticcmd.BuildSiteHandler {
	return m.container.BuildSiteHandler()
}

// CleanSiteHandler returns the command handler that removes generated files.
func (m *Module) CleanSiteHandler() *staticcmd.CleanSiteHandler {
	return m.container.CleanSiteHandler()
}

// Watch calls rebuild whenever files under the content directory change,
// until ctx is done.
func (m *Module) Watch(ctx context.Context, debounce time.Duration, rebuild func(context.Context) error) error {
	cfg := m.Config()
	watcher := site.NewWatcher(cfg.Content.Dir, rebuild,
		site.WithDebounce(debounce),
		site.WithIgnoredDirs(cfg.Build.OutputDir),
		site.WithWatchLogger(logging.SiteLogger(m.LoggerProvider())),
	)
	return watcher.Run(ctx)
}

// Build is a shortcut for New followed by Module.Build.
func Build(ctx context.Context, cfg Config, opts ...Option) (*Site, error) {
	module, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return module.Build(ctx)
}
