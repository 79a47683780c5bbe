package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/posts"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// ErrNoPosts is returned when discovery finds no file matching the pattern
// and RequirePosts is set.
var ErrNoPosts = errors.New("markdown loader: no posts found")

// LoaderConfig configures post discovery.
type LoaderConfig struct {
	// Dir is the slash separated directory inside the filesystem to walk.
	// Defaults to ".".
	Dir string
	// Pattern is matched against the file name, or the path relative to Dir
	// when it contains a "/". Defaults to "*.md".
	Pattern   string
	Recursive bool
	// Workers bounds parallel parsing. Defaults to GOMAXPROCS.
	Workers int
	// SkipInvalid logs and reports invalid posts instead of failing the load.
	SkipInvalid  bool
	RequirePosts bool
}

// SkippedPost records a source file dropped because SkipInvalid was set.
type SkippedPost struct {
	Path string
	Err  error
}

// LoadResult is the outcome of a successful Load.
type LoadResult struct {
	Collection *posts.Collection
	// Sources lists the parsed files in path order.
	Sources []string
	Skipped []SkippedPost
	// Errors aggregates skipped post failures. Nil when nothing was skipped.
	Errors *goerrors.ErrorCollector
}

// Loader reads post documents from an fs.FS.
type Loader struct {
	fs     fs.FS
	cfg    LoaderConfig
	logger interfaces.Logger
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for skipped posts and load summaries.
func WithLogger(logger interfaces.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader constructs a Loader for filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig, opts ...LoaderOption) *Loader {
	cfg.Dir = path.Clean(strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(cfg.Dir), "\\", "/"), "/"))
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if strings.TrimSpace(cfg.Pattern) == "" {
		cfg.Pattern = "*.md"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	loader := &Loader{
		fs:     filesystem,
		cfg:    cfg,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(loader)
		}
	}
	return loader
}

type parsed struct {
	path string
	post *posts.Post
	err  error
}

// Load discovers, parses and indexes posts. Files are parsed concurrently
// but inserted in path order, so the first failing file reported is the same
// on every run.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	paths, err := l.Discover(ctx)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 && l.cfg.RequirePosts {
		return nil, fmt.Errorf("%w in %s matching %s", ErrNoPosts, l.cfg.Dir, l.cfg.Pattern)
	}

	results, err := l.parseAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	collection := &posts.Collection{}
	result := &LoadResult{Collection: collection}
	var collector *goerrors.ErrorCollector

	for _, item := range results {
		err := item.err
		if err == nil {
			err = collection.Add(*item.post)
		}
		if err == nil {
			result.Sources = append(result.Sources, item.path)
			continue
		}
		if !l.cfg.SkipInvalid {
			return nil, fmt.Errorf("markdown loader %s: %w", item.path, err)
		}
		if collector == nil {
			collector = goerrors.NewCollector(goerrors.WithMaxErrors(len(results)))
		}
		collector.Add(err)
		result.Skipped = append(result.Skipped, SkippedPost{Path: item.path, Err: err})
		logging.WithPostContext(l.logger, item.path, postID(item.post), "skip").
			Warn("markdown.loader.post_skipped", "error", err)
	}

	collection.Seal()
	result.Errors = collector
	l.logger.Debug("markdown.loader.loaded",
		"dir", l.cfg.Dir,
		"posts", collection.Len(),
		"skipped", len(result.Skipped),
	)
	return result, nil
}

// Discover returns the slash separated paths of files to load, sorted.
func (l *Loader) Discover(ctx context.Context) ([]string, error) {
	var paths []string
	err := fs.WalkDir(l.fs, l.cfg.Dir, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if current != l.cfg.Dir && (!l.cfg.Recursive || strings.HasPrefix(d.Name(), ".")) {
				return fs.SkipDir
			}
			return nil
		}
		if l.matches(current) {
			paths = append(paths, current)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("markdown loader walk %s: %w", l.cfg.Dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (l *Loader) matches(current string) bool {
	pattern := strings.ReplaceAll(l.cfg.Pattern, "**/", "")
	target := path.Base(current)
	if strings.Contains(pattern, "/") {
		rel := strings.TrimPrefix(current, l.cfg.Dir+"/")
		if l.cfg.Dir == "." {
			rel = current
		}
		target = rel
	}
	ok, err := path.Match(pattern, target)
	return err == nil && ok
}

func (l *Loader) parseAll(ctx context.Context, paths []string) ([]parsed, error) {
	results := make([]parsed, len(paths))
	jobs := make(chan int)

	workers := min(l.cfg.Workers, len(paths))
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = l.parseOne(ctx, paths[i])
			}
		}()
	}

dispatch:
	for i := range paths {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (l *Loader) parseOne(ctx context.Context, current string) parsed {
	if err := ctx.Err(); err != nil {
		return parsed{path: current, err: err}
	}
	data, err := fs.ReadFile(l.fs, current)
	if err != nil {
		return parsed{path: current, err: err}
	}
	post, err := posts.Parse(current, data)
	return parsed{path: current, post: post, err: err}
}

func postID(post *posts.Post) string {
	if post == nil {
		return ""
	}
	return post.ID
}
