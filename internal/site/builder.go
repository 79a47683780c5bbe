package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/feeds"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/internal/nav"
	"github.com/goliatone/go-folio/internal/posts"
	"github.com/goliatone/go-folio/internal/resume"
	"github.com/goliatone/go-folio/internal/runtimeconfig"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Builder assembles a Site from the content directory.
type Builder struct {
	cfg      runtimeconfig.Config
	content  fs.FS
	renderer interfaces.MarkdownRenderer
	provider interfaces.LoggerProvider
	logger   interfaces.Logger
	now      func() time.Time
}

// Option customises a Builder.
type Option func(*Builder)

// WithContentFS reads content from fsys instead of the configured directory.
func WithContentFS(fsys fs.FS) Option {
	return func(b *Builder) {
		if fsys != nil {
			b.content = fsys
		}
	}
}

// WithRenderer overrides the goldmark renderer built from the markdown config.
func WithRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(b *Builder) {
		if renderer != nil {
			b.renderer = renderer
		}
	}
}

// WithLoggerProvider sets the provider used for site, posts and resume
// loggers.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(b *Builder) {
		b.provider = provider
	}
}

// WithClock overrides the build timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder validates cfg and returns a Builder.
func NewBuilder(cfg runtimeconfig.Config, opts ...Option) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if b.content == nil {
		b.content = os.DirFS(cfg.Content.Dir)
	}
	if b.renderer == nil {
		b.renderer = markdown.NewGoldmarkRenderer(cfg.Markdown.RenderOptions())
	}
	b.logger = logging.SiteLogger(b.provider)
	return b, nil
}

// Build loads the resume and posts and renders everything the site publishes.
func (b *Builder) Build(ctx context.Context) (*Site, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	started := b.now()
	logger := logging.WithFields(b.logger, logging.ContextFields(ctx))
	logger.Debug("site.build.start", "content", b.cfg.Content.Dir)

	routesCfg := b.cfg.Routes
	if strings.TrimSpace(routesCfg.BaseURL) == "" {
		routesCfg.BaseURL = b.cfg.Site.BaseURL
	}
	routes, err := nav.NewRoutes(routesCfg)
	if err != nil {
		return nil, err
	}

	out := &Site{
		Meta: Meta{
			Title:       b.cfg.Site.Title,
			Description: b.cfg.Site.Description,
			Author:      b.cfg.Site.Author,
			Language:    b.cfg.Site.Language,
			BaseURL:     strings.TrimRight(b.cfg.Site.BaseURL, "/"),
		},
		BuiltAt: started.UTC(),
	}

	if err := b.buildResume(ctx, out); err != nil {
		return nil, err
	}
	if err := b.buildPosts(ctx, out, routes); err != nil {
		return nil, err
	}
	out.Nav = b.navigation(out.Resume != nil)
	if b.cfg.Feeds.Enabled {
		if err := b.buildFeeds(out, routes); err != nil {
			return nil, err
		}
	}

	logger.Info("site.build.finished",
		"posts", len(out.Pages),
		"categories", len(out.Categories),
		"tags", len(out.Tags),
		"skipped", len(out.Skipped),
		"resume", out.Resume != nil,
		"took", b.now().Sub(started),
	)
	return out, nil
}

func (b *Builder) buildResume(ctx context.Context, out *Site) error {
	name := cleanFSPath(b.cfg.Content.ResumeFile)
	if name == "" {
		return nil
	}
	logger := logging.ResumeLogger(b.provider)
	data, err := fs.ReadFile(b.content, name)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("site.resume.missing", "file", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("site resume %s: %w", name, err)
	}

	var opts []resume.ComposeOption
	if level := b.cfg.Resume.SectionLevel; level > 0 {
		opts = append(opts, resume.WithSectionLevel(level))
	}
	doc, err := resume.DecodeAndCompose(data, opts...)
	if err != nil {
		logger.Error("site.resume.invalid", "file", name, "error", err)
		return fmt.Errorf("site resume %s: %w", name, err)
	}

	tree := make([]ResumeNode, 0, len(doc.Nodes))
	for _, node := range doc.Nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		rendered, err := b.renderResumeNode(node)
		if err != nil {
			return fmt.Errorf("site resume %s: %w", name, err)
		}
		tree = append(tree, rendered)
	}
	out.Resume = doc
	out.ResumeTree = tree
	logger.Debug("site.resume.composed", "file", name, "sections", len(doc.Sections()))
	return nil
}

func (b *Builder) renderResumeNode(node resume.Node) (ResumeNode, error) {
	rendered := ResumeNode{
		Kind:      node.Kind,
		Level:     node.Level,
		Heading:   node.Heading,
		TimeRange: node.TimeRange,
		Text:      node.Text,
	}
	if node.Intro != nil {
		rendered.Name = node.Intro.Name
		rendered.Role = node.Intro.Role
	}
	for _, block := range node.Body {
		out := RenderedBlock{Kind: block.Kind, Text: block.Text}
		switch block.Kind {
		case resume.BlockParagraph:
			html, err := b.renderer.Render([]byte(block.Text))
			if err != nil {
				return ResumeNode{}, err
			}
			out.HTML = strings.TrimSpace(string(html))
		case resume.BlockList:
			out.Items = append([]string(nil), block.Items...)
		}
		rendered.Body = append(rendered.Body, out)
	}
	for _, child := range node.Children {
		next, err := b.renderResumeNode(child)
		if err != nil {
			return ResumeNode{}, err
		}
		rendered.Children = append(rendered.Children, next)
	}
	return rendered, nil
}

func (b *Builder) buildPosts(ctx context.Context, out *Site, routes *nav.Routes) error {
	dir := cleanFSPath(b.cfg.Content.PostsDir)
	if dir == "" {
		dir = "."
	}
	logger := logging.PostsLogger(b.provider)

	collection := &posts.Collection{}
	if _, err := fs.Stat(b.content, dir); errors.Is(err, fs.ErrNotExist) && !b.cfg.Content.RequirePosts {
		logger.Debug("site.posts.missing", "dir", dir)
		collection.Seal()
	} else {
		loader := markdown.NewLoader(b.content, markdown.LoaderConfig{
			Dir:          dir,
			Pattern:      b.cfg.Content.Pattern,
			Recursive:    b.cfg.Content.Recursive,
			Workers:      b.cfg.Content.Workers,
			SkipInvalid:  b.cfg.Content.SkipInvalidPosts,
			RequirePosts: b.cfg.Content.RequirePosts,
		}, markdown.WithLogger(logger))
		result, err := loader.Load(ctx)
		if err != nil {
			return err
		}
		collection = result.Collection
		out.Skipped = result.Skipped
	}
	out.Posts = collection

	ordered := collection.ByDateDescending()
	out.Pages = make([]PostPage, 0, len(ordered))
	for i, post := range ordered {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := b.postPage(post, routes)
		if err != nil {
			logging.WithPostContext(logger, post.SourceID, post.ID, "render").
				Error("site.post.render_failed", "error", err)
			return fmt.Errorf("site post %s: %w", post.ID, err)
		}
		if i > 0 {
			page.Newer = ordered[i-1].ID
		}
		if i+1 < len(ordered) {
			page.Older = ordered[i+1].ID
		}
		out.Pages = append(out.Pages, page)
	}

	var err error
	if out.Categories, err = termPages(collection.Categories(), collection.ByCategory, routes.Category); err != nil {
		return err
	}
	if out.Tags, err = termPages(collection.Tags(), collection.ByTag, routes.Tag); err != nil {
		return err
	}
	return nil
}

func (b *Builder) postPage(post posts.Post, routes *nav.Routes) (PostPage, error) {
	url, err := routes.Post(post.ID)
	if err != nil {
		return PostPage{}, err
	}
	html, err := b.renderer.Render(post.Body)
	if err != nil {
		return PostPage{}, err
	}
	page := PostPage{
		ID:      post.ID,
		Source:  post.SourceID,
		Title:   post.Title,
		Date:    post.Date,
		URL:     url,
		Image:   post.Image,
		Summary: markdown.Summarize(post.Body, b.cfg.Markdown.SummaryLength),
		HTML:    string(html),
	}
	if page.Categories, err = termLinks(post.Categories, routes.Category); err != nil {
		return PostPage{}, err
	}
	if page.Tags, err = termLinks(post.Tags, routes.Tag); err != nil {
		return PostPage{}, err
	}
	return page, nil
}

func (b *Builder) navigation(withResume bool) []nav.Item {
	items := []nav.Item{{Label: "Home", Path: b.cfg.Routes.Home}}
	if withResume && strings.TrimSpace(b.cfg.Routes.Resume) != "" {
		items = append(items, nav.Item{Label: "Resume", Path: b.cfg.Routes.Resume})
	}
	if strings.TrimSpace(b.cfg.Routes.Blog) != "" {
		items = append(items, nav.Item{Label: "Blog", Path: b.cfg.Routes.Blog})
	}
	return items
}

func (b *Builder) buildFeeds(out *Site, routes *nav.Routes) error {
	summaryLength := b.cfg.Markdown.SummaryLength
	items, err := feeds.ItemsFromPosts(out.Posts.ByDateDescending(), b.cfg.Feeds.Limit, routes.Post,
		func(post posts.Post) string { return markdown.Summarize(post.Body, summaryLength) })
	if err != nil {
		return fmt.Errorf("site feeds: %w", err)
	}
	home, err := routes.Home()
	if err != nil {
		return fmt.Errorf("site feeds: %w", err)
	}
	meta := feeds.Meta{
		Title:       out.Meta.Title,
		Description: out.Meta.Description,
		Author:      out.Meta.Author,
		Language:    out.Meta.Language,
		SiteURL:     strings.TrimRight(home, "/"),
		GeneratedAt: out.BuiltAt,
	}
	out.Atom = feeds.BuildAtom(meta, items)
	out.RSS = feeds.BuildRSS(meta, items)
	return nil
}

type termURLFunc func(name string) (string, error)

func termLinks(names posts.StringSet, url termURLFunc) ([]TermLink, error) {
	links := make([]TermLink, 0, len(names))
	for _, name := range names {
		link, err := termLink(name, url)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, nil
}

func termLink(name string, url termURLFunc) (TermLink, error) {
	slug, err := nav.TermSlug(name)
	if err != nil {
		return TermLink{}, fmt.Errorf("term %q: %w", name, err)
	}
	href, err := url(name)
	if err != nil {
		return TermLink{}, err
	}
	return TermLink{Name: name, Slug: slug, URL: href}, nil
}

func termPages(terms []posts.Term, list func(string) []posts.Post, url termURLFunc) ([]TermPage, error) {
	pages := make([]TermPage, 0, len(terms))
	for _, term := range terms {
		link, err := termLink(term.Name, url)
		if err != nil {
			return nil, err
		}
		members := list(term.Name)
		ids := make([]string, 0, len(members))
		for _, post := range members {
			ids = append(ids, post.ID)
		}
		pages = append(pages, TermPage{TermLink: link, Count: term.Count, PostIDs: ids})
	}
	return pages, nil
}

func cleanFSPath(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "\\", "/"))
	if value == "" {
		return ""
	}
	return path.Clean(strings.TrimPrefix(value, "/"))
}
