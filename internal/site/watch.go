package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

const defaultDebounce = 300 * time.Millisecond

// RebuildFunc is called by a Watcher after content changes settle.
type RebuildFunc func(ctx context.Context) error

// Watcher rebuilds the site when files under a directory change. Bursts of
// events are collapsed into a single rebuild and rebuilds never overlap.
type Watcher struct {
	dir      string
	rebuild  RebuildFunc
	debounce time.Duration
	ignored  []string
	logger   interfaces.Logger
}

type WatchOption func(*Watcher)

// WithDebounce sets how long the watcher waits for quiet before rebuilding.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnoredDirs excludes directories, and everything below them, from
// watching. The build output directory belongs here when it sits inside the
// content tree, otherwise every write triggers another rebuild.
func WithIgnoredDirs(dirs ...string) WatchOption {
	return func(w *Watcher) {
		for _, dir := range dirs {
			if strings.TrimSpace(dir) == "" {
				continue
			}
			w.ignored = append(w.ignored, absPath(dir))
		}
	}
}

func WithWatchLogger(logger interfaces.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher returns a Watcher for dir.
func NewWatcher(dir string, rebuild RebuildFunc, opts ...WatchOption) *Watcher {
	w := &Watcher{
		dir:      dir,
		rebuild:  rebuild,
		debounce: defaultDebounce,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Run watches until ctx is done. Rebuild errors are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	if w.rebuild == nil {
		return errors.New("site: watcher requires a rebuild function")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("site: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := w.addTree(watcher, w.dir); err != nil {
		return err
	}
	w.logger.Info("site.watch.started", "dir", w.dir)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("site.watch.stopped", "dir", w.dir)
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) || w.isIgnored(event.Name) {
				continue
			}
			w.logger.Debug("site.watch.change", "path", event.Name, "op", event.Op.String())
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(watcher, event.Name); err != nil {
						w.logger.Warn("site.watch.add_failed", "path", event.Name, "error", err)
					}
				}
			}
			timer.Reset(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("site.watch.error", "error", err)
		case <-timer.C:
			started := time.Now()
			if err := w.rebuild(ctx); err != nil {
				w.logger.Error("site.watch.rebuild_failed", "error", err)
				continue
			}
			w.logger.Info("site.watch.rebuilt", "took", time.Since(started))
		}
	}
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(current string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("site: watch %s: %w", current, err)
		}
		if !d.IsDir() {
			return nil
		}
		if current != root && (hidden(d.Name()) || w.isIgnored(current)) {
			return fs.SkipDir
		}
		if err := watcher.Add(current); err != nil {
			return fmt.Errorf("site: watch %s: %w", current, err)
		}
		return nil
	})
}

func (w *Watcher) isIgnored(name string) bool {
	if len(w.ignored) == 0 {
		return false
	}
	target := absPath(name)
	for _, dir := range w.ignored {
		if target == dir || strings.HasPrefix(target, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func absPath(name string) string {
	if abs, err := filepath.Abs(name); err == nil {
		return abs
	}
	return filepath.Clean(name)
}

func relevant(event fsnotify.Event) bool {
	if hidden(filepath.Base(event.Name)) || strings.HasSuffix(event.Name, "~") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
