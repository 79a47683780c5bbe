package posts

import (
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-folio/internal/identity"
)

const idDateLayout = "2006-01-02"

var datedName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// Parse turns a raw post document into a Post. sourceID is the identifier of
// the source (typically its path relative to the content root) and may be
// empty, in which case the id is derived from the date and title.
func Parse(sourceID string, raw []byte) (*Post, error) {
	meta, body, err := ParseMetadata(raw)
	if err != nil {
		return nil, err
	}

	return &Post{
		ID:         DeriveID(sourceID, meta.Date, meta.Title),
		SourceID:   sourceID,
		Title:      meta.Title,
		Date:       meta.Date,
		Categories: meta.Categories,
		Tags:       meta.Tags,
		Image:      meta.Image,
		Extra:      meta.Extra,
		Body:       body,
	}, nil
}

// DeriveID builds the post id. A source file named "2024-05-25-part-1.md"
// yields "2024-05-25-part-1"; undated names get the post date prepended, and
// without a source the title is slugged instead.
func DeriveID(sourceID string, date time.Time, title string) string {
	prefix := date.Format(idDateLayout)

	name := strings.TrimSpace(sourceID)
	if name != "" {
		name = path.Base(strings.ReplaceAll(name, "\\", "/"))
		name = strings.TrimSuffix(name, path.Ext(name))
	}
	if name == "" || name == "." || name == "/" {
		return prefix + "-" + slugOrHash(title)
	}

	if match := datedName.FindStringSubmatch(name); match != nil {
		return match[1] + "-" + slugOrHash(match[2])
	}
	return prefix + "-" + slugOrHash(name)
}

func slugOrHash(value string) string {
	if normalized, err := slug.Normalize(value); err == nil && normalized != "" {
		return normalized
	}
	return identity.ShortHash(value)
}
