package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	folio "github.com/goliatone/go-folio"
)

type stubBuild struct {
	calls []folio.BuildSiteCommand
	err   error
}

func (s *stubBuild) Execute(_ context.Context, cmd folio.BuildSiteCommand) error {
	s.calls = append(s.calls, cmd)
	return s.err
}

type stubClean struct {
	calls []folio.CleanSiteCommand
}

func (s *stubClean) Execute(_ context.Context, cmd folio.CleanSiteCommand) error {
	s.calls = append(s.calls, cmd)
	return nil
}

type stubWatch struct {
	debounce time.Duration
	rebuilds int
}

type stubRunner struct {
	build *stubBuild
	clean *stubClean
	watch *stubWatch
}

func (r stubRunner) BuildSiteHandler() buildExecutor { return r.build }
func (r stubRunner) CleanSiteHandler() cleanExecutor { return r.clean }
func (r stubRunner) Watch(ctx context.Context, debounce time.Duration, rebuild func(context.Context) error) error {
	r.watch.debounce = debounce
	r.watch.rebuilds++
	return rebuild(ctx)
}

func stubModule(t *testing.T) (stubRunner, *folio.Config) {
	t.Helper()
	original := moduleBuilder
	t.Cleanup(func() { moduleBuilder = original })

	runner := stubRunner{build: &stubBuild{}, clean: &stubClean{}, watch: &stubWatch{}}
	var captured folio.Config
	moduleBuilder = func(cfg folio.Config) (commandRunner, error) {
		captured = cfg
		return runner, nil
	}
	return runner, &captured
}

func TestRunUsesBuildCommand(t *testing.T) {
	runner, cfg := stubModule(t)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-content-dir", "site", "-out", "public", "-dry-run", "-log-level", "debug"}, &out)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if len(runner.build.calls) != 1 {
		t.Fatalf("expected one build call, got %d", len(runner.build.calls))
	}
	got := runner.build.calls[0]
	if got.ContentDir != "site" || got.OutputDir != "public" || !got.DryRun {
		t.Fatalf("unexpected command %+v", got)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected log level override, got %q", cfg.Logging.Level)
	}
	if !strings.Contains(out.String(), "dry run") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunLoadsConfigFile(t *testing.T) {
	runner, cfg := stubModule(t)

	path := filepath.Join(t.TempDir(), "folio.yaml")
	if err := os.WriteFile(path, []byte("content:\n  dir: notes\nbuild:\n  output_dir: www\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := run(context.Background(), []string{"-config", path}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if cfg.Content.Dir != "notes" || runner.build.calls[0].OutputDir != "www" {
		t.Fatalf("expected config file values, got %+v", runner.build.calls[0])
	}
}

func TestRunClean(t *testing.T) {
	runner, _ := stubModule(t)
	if err := run(context.Background(), []string{"-clean", "-out", "public"}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if len(runner.clean.calls) != 1 || runner.clean.calls[0].OutputDir != "public" || len(runner.build.calls) != 0 {
		t.Fatalf("expected only a clean call, got %+v %+v", runner.clean.calls, runner.build.calls)
	}
}

func TestRunWatchRebuilds(t *testing.T) {
	runner, _ := stubModule(t)
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-watch", "-debounce", "50ms"}, &out); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if runner.watch.rebuilds != 1 || runner.watch.debounce != 50*time.Millisecond {
		t.Fatalf("unexpected watch call %+v", runner.watch)
	}
	if len(runner.build.calls) != 2 {
		t.Fatalf("expected initial build plus one rebuild, got %d", len(runner.build.calls))
	}
	if !strings.Contains(out.String(), "watching content") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunWithoutWatchSkipsWatcher(t *testing.T) {
	runner, _ := stubModule(t)
	if err := run(context.Background(), nil, &bytes.Buffer{}); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if runner.watch.rebuilds != 0 {
		t.Fatalf("expected no watch, got %+v", runner.watch)
	}
}

func TestRunPropagatesBuildErrors(t *testing.T) {
	runner, _ := stubModule(t)
	runner.build.err = errors.New("boom")
	if err := run(context.Background(), nil, &bytes.Buffer{}); !errors.Is(err, runner.build.err) {
		t.Fatalf("expected build error, got %v", err)
	}
}

func TestRunEndToEnd(t *testing.T) {
	root := t.TempDir()
	content := filepath.Join(root, "content")
	if err := os.MkdirAll(filepath.Join(content, "_posts"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	post := "---\ntitle: Hello\ndate: 2024-05-25\n---\nHi.\n"
	if err := os.WriteFile(filepath.Join(content, "_posts", "2024-05-25-hello.md"), []byte(post), 0o644); err != nil {
		t.Fatalf("write post: %v", err)
	}
	out := filepath.Join(root, "public")

	if err := run(context.Background(), []string{"-content-dir", content, "-out", out, "-log-level", "error"}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	for _, name := range []string{"site.json", "atom.xml", "rss.xml"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}
