package site

import (
	"context"
	"strings"

	"github.com/goliatone/go-folio/internal/runtimeconfig"
)

// BuildOptions override the configured directories for one build.
type BuildOptions struct {
	ContentDir string
	OutputDir  string
	DryRun     bool
}

// BuildResult pairs the built site with what was written for it.
type BuildResult struct {
	Site   *Site
	Output *WriteResult
}

// Service builds and cleans sites for the command layer.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context, outputDir string) ([]string, error)
}

type service struct {
	cfg  runtimeconfig.Config
	opts []Option
}

// NewService returns a Service building from cfg. opts are applied to every
// Builder it creates.
func NewService(cfg runtimeconfig.Config, opts ...Option) Service {
	return &service{cfg: cfg, opts: opts}
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	cfg := s.cfg
	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	builder, err := NewBuilder(cfg, s.opts...)
	if err != nil {
		return nil, err
	}
	built, err := builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	output, err := Write(ctx, built, s.outputDir(opts.OutputDir), opts.DryRun)
	if err != nil {
		return nil, err
	}
	builder.logger.Info("site.output.written",
		"dir", output.Dir,
		"files", len(output.Artifacts),
		"dry_run", output.DryRun,
	)
	return &BuildResult{Site: built, Output: output}, nil
}

func (s *service) Clean(ctx context.Context, outputDir string) ([]string, error) {
	return Clean(ctx, s.outputDir(outputDir))
}

func (s *service) outputDir(override string) string {
	if dir := strings.TrimSpace(override); dir != "" {
		return dir
	}
	return s.cfg.Build.OutputDir
}
