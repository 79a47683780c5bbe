package di

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/commands"
	staticcmd "github.com/goliatone/go-folio/internal/commands/static"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/logging/console"
	"github.com/goliatone/go-folio/internal/logging/gologger"
	"github.com/goliatone/go-folio/internal/runtimeconfig"
	"github.com/goliatone/go-folio/internal/site"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Option mutates the container before services are wired.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithLogWriter sets where the console provider writes. Defaults to stderr.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		if w != nil {
			c.logWriter = w
		}
	}
}

// WithContentFS serves content from fsys instead of the content directory.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.siteOptions = append(c.siteOptions, site.WithContentFS(fsys))
	}
}

func WithRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(c *Container) {
		c.siteOptions = append(c.siteOptions, site.WithRenderer(renderer))
	}
}

// WithClock fixes the build timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.siteOptions = append(c.siteOptions, site.WithClock(now))
	}
}

// WithSiteService replaces the site service, mostly for tests.
func WithSiteService(svc site.Service) Option {
	return func(c *Container) {
		if svc != nil {
			c.siteService = svc
		}
	}
}

// Container wires the configured services together.
type Container struct {
	cfg runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	siteOptions    []site.Option

	siteService  site.Service
	buildHandler *staticcmd.BuildSiteHandler
	cleanHandler *staticcmd.CleanSiteHandler
}

// NewContainer validates cfg and builds the service graph.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{cfg: cfg, logWriter: os.Stderr}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.loggerProvider == nil {
		provider, err := newLoggerProvider(cfg.Logging, c.logWriter)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}

	if c.siteService == nil {
		c.siteService = site.NewService(cfg, append([]site.Option{site.WithLoggerProvider(c.loggerProvider)}, c.siteOptions...)...)
	}

	commandLogger := logging.CommandsLogger(c.loggerProvider)
	c.buildHandler = staticcmd.NewBuildSiteHandler(c.siteService, commandLogger,
		commands.WithTimeout[staticcmd.BuildSiteCommand](cfg.Build.Timeout))
	c.cleanHandler = staticcmd.NewCleanSiteHandler(c.siteService, commandLogger)

	logging.ModuleLogger(c.loggerProvider, logging.RootModule).Debug("container.configured",
		"provider", providerName(cfg.Logging.Provider),
		"content_dir", cfg.Content.Dir,
		"output_dir", cfg.Build.OutputDir,
	)
	return c, nil
}

func (c *Container) Config() runtimeconfig.Config { return c.cfg }

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) SiteService() site.Service { return c.siteService }

// BuildSiteHandler returns the handler for staticcmd.BuildSiteCommand.
func (c *Container) BuildSiteHandler() *staticcmd.BuildSiteHandler { return c.buildHandler }

// CleanSiteHandler returns the handler for staticcmd.CleanSiteCommand.
func (c *Container) CleanSiteHandler() *staticcmd.CleanSiteHandler { return c.cleanHandler }

func newLoggerProvider(cfg runtimeconfig.LoggingConfig, w io.Writer) (interfaces.LoggerProvider, error) {
	switch providerName(cfg.Provider) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, fmt.Errorf("di: configure gologger: %w", err)
		}
		return provider, nil
	default:
		opts := console.Options{Writer: w}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	}
}

func providerName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "console"
	}
	return name
}
