package posts

import (
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Post is a parsed blog entry. Values handed out by a Collection are clones,
// so mutating them never affects the collection.
type Post struct {
	ID         string
	SourceID   string
	Title      string
	Date       time.Time
	Categories StringSet
	Tags       StringSet
	Image      *Image
	Extra      map[string]Value
	Body       []byte
}

// Image references the cover image declared in the metadata block.
type Image struct {
	Path    string
	Caption string
	Extra   map[string]Value
}

// Validate checks the image reference carries a path.
func (i Image) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Path, validation.Required),
	)
}

// Clone returns a deep copy of the post.
func (p Post) Clone() Post {
	out := p
	out.Categories = append(StringSet(nil), p.Categories...)
	out.Tags = append(StringSet(nil), p.Tags...)
	if p.Image != nil {
		image := *p.Image
		image.Extra = cloneValues(p.Image.Extra)
		out.Image = &image
	}
	out.Extra = cloneValues(p.Extra)
	out.Body = append([]byte(nil), p.Body...)
	return out
}

func cloneValues(in map[string]Value) map[string]Value {
	if in == nil {
		return nil
	}
	out := make(map[string]Value, len(in))
	for key, value := range in {
		out[key] = value.Clone()
	}
	return out
}

// StringSet is a sorted, duplicate free list of names.
type StringSet []string

// NewStringSet trims, drops empties and deduplicates the supplied names.
func NewStringSet(names ...string) StringSet {
	seen := make(map[string]struct{}, len(names))
	out := make(StringSet, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	sort.Strings(out)
	return out
}

// Has reports membership.
func (s StringSet) Has(name string) bool {
	name = strings.TrimSpace(name)
	i := sort.SearchStrings(s, name)
	return i < len(s) && s[i] == name
}

// Equal reports whether both sets hold the same names.
func (s StringSet) Equal(other StringSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
