package posts

import (
	"sort"
	"strings"
)

// Collection indexes posts by id. It is filled during content load, sealed,
// and only queried afterwards. Views are derived on every call.
type Collection struct {
	posts  map[string]Post
	sealed bool
}

// Term is a category or tag name with the number of posts carrying it.
type Term struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NewCollection adds every post and seals the collection.
func NewCollection(posts ...Post) (*Collection, error) {
	c := &Collection{posts: make(map[string]Post, len(posts))}
	for _, post := range posts {
		if err := c.Add(post); err != nil {
			return nil, err
		}
	}
	c.Seal()
	return c, nil
}

// Add stores a post. The collection is left unchanged on error.
func (c *Collection) Add(post Post) error {
	id := strings.TrimSpace(post.ID)
	if id == "" {
		return idRequiredError()
	}
	if c.sealed {
		return sealedError(id)
	}
	if c.posts == nil {
		c.posts = map[string]Post{}
	}
	if _, exists := c.posts[id]; exists {
		return duplicateIDError(id)
	}
	stored := post.Clone()
	stored.ID = id
	c.posts[id] = stored
	return nil
}

// Seal ends the load phase; subsequent Add calls fail.
func (c *Collection) Seal() {
	c.sealed = true
}

func (c *Collection) Sealed() bool {
	return c.sealed
}

func (c *Collection) Len() int {
	return len(c.posts)
}

// Get returns a copy of the post with the given id.
func (c *Collection) Get(id string) (Post, bool) {
	post, ok := c.posts[strings.TrimSpace(id)]
	if !ok {
		return Post{}, false
	}
	return post.Clone(), true
}

// ByDateDescending lists posts newest first; equal dates are ordered by id.
func (c *Collection) ByDateDescending() []Post {
	out := make([]Post, 0, len(c.posts))
	for _, post := range c.posts {
		out = append(out, post.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i], out[j])
	})
	return out
}

// ByCategory lists the posts filed under name, newest first.
func (c *Collection) ByCategory(name string) []Post {
	return c.filter(func(post Post) bool { return post.Categories.Has(name) })
}

// ByTag lists the posts tagged with name, newest first.
func (c *Collection) ByTag(name string) []Post {
	return c.filter(func(post Post) bool { return post.Tags.Has(name) })
}

// Adjacent returns the posts published right before and after id in date
// order. ok is false when id is unknown.
func (c *Collection) Adjacent(id string) (older, newer *Post, ok bool) {
	ordered := c.ByDateDescending()
	id = strings.TrimSpace(id)
	for i := range ordered {
		if ordered[i].ID != id {
			continue
		}
		if i > 0 {
			newer = &ordered[i-1]
		}
		if i+1 < len(ordered) {
			older = &ordered[i+1]
		}
		return older, newer, true
	}
	return nil, nil, false
}

// Categories lists every category with its post count, sorted by name.
func (c *Collection) Categories() []Term {
	return c.terms(func(post Post) StringSet { return post.Categories })
}

// Tags lists every tag with its post count, sorted by name.
func (c *Collection) Tags() []Term {
	return c.terms(func(post Post) StringSet { return post.Tags })
}

func (c *Collection) filter(keep func(Post) bool) []Post {
	all := c.ByDateDescending()
	out := make([]Post, 0, len(all))
	for _, post := range all {
		if keep(post) {
			out = append(out, post)
		}
	}
	return out
}

func (c *Collection) terms(names func(Post) StringSet) []Term {
	counts := map[string]int{}
	for _, post := range c.posts {
		for _, name := range names(post) {
			counts[name]++
		}
	}
	out := make([]Term, 0, len(counts))
	for name, count := range counts {
		out = append(out, Term{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func newerFirst(a, b Post) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.ID < b.ID
}
