package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	folio "github.com/goliatone/go-folio"
)

type commandRunner interface {
	BuildSiteHandler() buildExecutor
	CleanSiteHandler() cleanExecutor
	Watch(ctx context.Context, debounce time.Duration, rebuild func(context.Context) error) error
}

type buildExecutor interface {
	Execute(context.Context, folio.BuildSiteCommand) error
}

type cleanExecutor interface {
	Execute(context.Context, folio.CleanSiteCommand) error
}

type moduleRunner struct {
	module *folio.Module
}

func (r moduleRunner) BuildSiteHandler() buildExecutor { return r.module.BuildSiteHandler() }
func (r moduleRunner) CleanSiteHandler() cleanExecutor { return r.module.CleanSiteHandler() }
func (r moduleRunner) Watch(ctx context.Context, debounce time.Duration, rebuild func(context.Context) error) error {
	return r.module.Watch(ctx, debounce, rebuild)
}

var moduleBuilder = func(cfg folio.Config) (commandRunner, error) {
	module, err := folio.New(cfg)
	if err != nil {
		return nil, err
	}
	return moduleRunner{module: module}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("folio: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("folio", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML or TOML config file")
	contentDir := fs.String("content-dir", "", "Content root holding the resume file and posts directory")
	outputDir := fs.String("out", "", "Directory receiving site.json and the feeds")
	dryRun := fs.Bool("dry-run", false, "Build without writing any file")
	clean := fs.Bool("clean", false, "Remove generated files instead of building")
	watch := fs.Bool("watch", false, "Rebuild whenever content changes until interrupted")
	debounce := fs.Duration("debounce", 300*time.Millisecond, "Quiet period before a watch rebuild")
	logLevel := fs.String("log-level", "", "Log level override (trace, debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := folio.DefaultConfig()
	if path := strings.TrimSpace(*configPath); path != "" {
		loaded, err := folio.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if dir := strings.TrimSpace(*contentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	if dir := strings.TrimSpace(*outputDir); dir != "" {
		cfg.Build.OutputDir = dir
	}
	if level := strings.TrimSpace(*logLevel); level != "" {
		cfg.Logging.Level = level
	}

	runner, err := moduleBuilder(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}

	if *clean {
		if err := runner.CleanSiteHandler().Execute(ctx, folio.CleanSiteCommand{OutputDir: cfg.Build.OutputDir}); err != nil {
			return fmt.Errorf("execute clean command: %w", err)
		}
		fmt.Fprintf(stdout, "cleaned %s\n", cfg.Build.OutputDir)
		return nil
	}

	cmd := folio.BuildSiteCommand{
		ContentDir: cfg.Content.Dir,
		OutputDir:  cfg.Build.OutputDir,
		DryRun:     *dryRun,
	}
	build := func(ctx context.Context) error {
		if err := runner.BuildSiteHandler().Execute(ctx, cmd); err != nil {
			return fmt.Errorf("execute build command: %w", err)
		}
		if *dryRun {
			fmt.Fprintf(stdout, "site built from %s (dry run)\n", cfg.Content.Dir)
		} else {
			fmt.Fprintf(stdout, "site built from %s into %s\n", cfg.Content.Dir, cfg.Build.OutputDir)
		}
		return nil
	}
	if err := build(ctx); err != nil {
		return err
	}
	if !*watch {
		return nil
	}
	fmt.Fprintf(stdout, "watching %s\n", cfg.Content.Dir)
	return runner.Watch(ctx, *debounce, build)
}
