package site

import (
	"time"

	"github.com/goliatone/go-folio/internal/markdown"
	"github.com/goliatone/go-folio/internal/nav"
	"github.com/goliatone/go-folio/internal/posts"
	"github.com/goliatone/go-folio/internal/resume"
)

// Meta describes the published site.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Author      string `json:"author,omitempty"`
	Language    string `json:"language,omitempty"`
	BaseURL     string `json:"base_url,omitempty"`
}

// TermLink points at the archive page of a category or tag.
type TermLink struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	URL  string `json:"url"`
}

// TermPage is one archive page, listing post ids newest first.
type TermPage struct {
	TermLink
	Count   int      `json:"count"`
	PostIDs []string `json:"post_ids"`
}

// PostPage is a post ready for publishing.
type PostPage struct {
	ID         string       `json:"id"`
	Source     string       `json:"source"`
	Title      string       `json:"title"`
	Date       time.Time    `json:"date"`
	URL        string       `json:"url"`
	Categories []TermLink   `json:"categories"`
	Tags       []TermLink   `json:"tags"`
	Image      *posts.Image `json:"image,omitempty"`
	Summary    string       `json:"summary"`
	HTML       string       `json:"html"`
	// Older and Newer hold the ids of the neighbouring posts by date.
	Older string `json:"older,omitempty"`
	Newer string `json:"newer,omitempty"`
}

// RenderedBlock is a resume body block with its HTML form.
type RenderedBlock struct {
	Kind  resume.BlockKind `json:"kind"`
	Text  string           `json:"text,omitempty"`
	HTML  string           `json:"html,omitempty"`
	Items []string         `json:"items,omitempty"`
}

// ResumeNode mirrors resume.Node with rendered body blocks.
type ResumeNode struct {
	Kind      resume.NodeKind `json:"kind"`
	Level     int             `json:"level"`
	Heading   string          `json:"heading,omitempty"`
	TimeRange string          `json:"time_range,omitempty"`
	Text      string          `json:"text,omitempty"`
	Name      string          `json:"name,omitempty"`
	Role      string          `json:"role,omitempty"`
	Body      []RenderedBlock `json:"body,omitempty"`
	Children  []ResumeNode    `json:"children,omitempty"`
}

// Site is the result of a build. Resume is nil when no resume file exists.
type Site struct {
	Meta       Meta
	Resume     *resume.Document
	ResumeTree []ResumeNode
	Posts      *posts.Collection
	Pages      []PostPage
	Categories []TermPage
	Tags       []TermPage
	Nav        []nav.Item
	Atom       string
	RSS        string
	Skipped    []markdown.SkippedPost
	BuiltAt    time.Time
}

// Snapshot is the JSON form of a Site written to site.json.
type Snapshot struct {
	Meta       Meta           `json:"site"`
	BuiltAt    time.Time      `json:"built_at"`
	Nav        []nav.Item     `json:"nav"`
	Resume     []ResumeNode   `json:"resume,omitempty"`
	Posts      []PostPage     `json:"posts"`
	Categories []TermPage     `json:"categories"`
	Tags       []TermPage     `json:"tags"`
	Skipped    []SkippedEntry `json:"skipped,omitempty"`
}

type SkippedEntry struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Page returns the post page with the given id.
func (s *Site) Page(id string) (PostPage, bool) {
	for _, page := range s.Pages {
		if page.ID == id {
			return page, true
		}
	}
	return PostPage{}, false
}

// NavFor returns the navigation with the item matching currentPath marked
// active.
func (s *Site) NavFor(currentPath string) []nav.Item {
	return nav.Mark(currentPath, s.Nav)
}

// Export returns a JSON ready snapshot of the site. Slices are never nil so
// empty collections encode as [].
func (s *Site) Export() Snapshot {
	snapshot := Snapshot{
		Meta:       s.Meta,
		BuiltAt:    s.BuiltAt,
		Nav:        append([]nav.Item{}, s.Nav...),
		Resume:     s.ResumeTree,
		Posts:      append([]PostPage{}, s.Pages...),
		Categories: append([]TermPage{}, s.Categories...),
		Tags:       append([]TermPage{}, s.Tags...),
	}
	for _, skipped := range s.Skipped {
		entry := SkippedEntry{Path: skipped.Path}
		if skipped.Err != nil {
			entry.Error = skipped.Err.Error()
		}
		snapshot.Skipped = append(snapshot.Skipped, entry)
	}
	return snapshot
}
