package nav

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
	urlkit "github.com/goliatone/go-urlkit"
)

const (
	RouteHome     = "home"
	RouteResume   = "resume"
	RouteBlog     = "blog"
	RoutePost     = "post"
	RouteCategory = "category"
	RouteTag      = "tag"

	siteGroup = "site"
)

var (
	ErrRouteNotConfigured = errors.New("nav: route not configured")
	ErrEmptyParam         = errors.New("nav: route parameter is empty")
)

// Config holds the path templates for every site route. Post uses an :id
// parameter, Category and Tag use :name.
type Config struct {
	BaseURL  string `yaml:"base_url" toml:"base_url" json:"base_url"`
	Home     string `yaml:"home" toml:"home" json:"home"`
	Resume   string `yaml:"resume" toml:"resume" json:"resume"`
	Blog     string `yaml:"blog" toml:"blog" json:"blog"`
	Post     string `yaml:"post" toml:"post" json:"post"`
	Category string `yaml:"category" toml:"category" json:"category"`
	Tag      string `yaml:"tag" toml:"tag" json:"tag"`
}

// DefaultConfig returns the stock route layout.
func DefaultConfig() Config {
	return Config{
		Home:     "/",
		Resume:   "/resume",
		Blog:     "/posts",
		Post:     "/posts/:id",
		Category: "/categories/:name",
		Tag:      "/tags/:name",
	}
}

func (c Config) paths() map[string]string {
	paths := map[string]string{}
	for name, value := range map[string]string{
		RouteHome:     c.Home,
		RouteResume:   c.Resume,
		RouteBlog:     c.Blog,
		RoutePost:     c.Post,
		RouteCategory: c.Category,
		RouteTag:      c.Tag,
	} {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			paths[name] = trimmed
		}
	}
	return paths
}

// Routes builds site URLs through a go-urlkit route manager.
type Routes struct {
	manager *urlkit.RouteManager
	group   *urlkit.Group
	paths   map[string]string
}

// NewRoutes registers cfg with a new route manager.
func NewRoutes(cfg Config) (*Routes, error) {
	paths := cfg.paths()
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    siteGroup,
				BaseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
				Paths:   paths,
			},
		},
	})
	group, err := lookupGroup(manager, siteGroup)
	if err != nil {
		return nil, err
	}
	return &Routes{manager: manager, group: group, paths: paths}, nil
}

// Manager exposes the underlying route manager.
func (r *Routes) Manager() *urlkit.RouteManager {
	return r.manager
}

func (r *Routes) Home() (string, error)   { return r.Build(RouteHome, nil) }
func (r *Routes) Resume() (string, error) { return r.Build(RouteResume, nil) }
func (r *Routes) Blog() (string, error)   { return r.Build(RouteBlog, nil) }

// Post builds the URL of the post with the given id.
func (r *Routes) Post(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: %s id", ErrEmptyParam, RoutePost)
	}
	return r.Build(RoutePost, map[string]any{"id": id})
}

// Category builds the archive URL for a category, slugging the name.
func (r *Routes) Category(name string) (string, error) {
	return r.term(RouteCategory, name)
}

// Tag builds the archive URL for a tag, slugging the name.
func (r *Routes) Tag(name string) (string, error) {
	return r.term(RouteTag, name)
}

func (r *Routes) term(route, name string) (string, error) {
	slugged, err := TermSlug(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s name %q", ErrEmptyParam, route, name)
	}
	return r.Build(route, map[string]any{"name": slugged})
}

// TermSlug normalises a category or tag name into its URL form.
func TermSlug(name string) (string, error) {
	slugged, err := slug.Normalize(strings.TrimSpace(name))
	if err != nil {
		return "", err
	}
	if slugged == "" {
		return "", ErrEmptyParam
	}
	return slugged, nil
}

// Build resolves a named route with params.
func (r *Routes) Build(route string, params map[string]any) (url string, err error) {
	if r == nil || r.group == nil {
		return "", ErrRouteNotConfigured
	}
	if _, ok := r.paths[route]; !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotConfigured, route)
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("nav: build %s: %v", route, rec)
		}
	}()
	builder := r.group.Builder(route)
	for key, value := range params {
		builder.WithParam(key, value)
	}
	return builder.Build()
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("nav: route group %q not found", name)
		}
	}()
	return manager.Group(name), nil
}
