package feeds

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/identity"
	"github.com/goliatone/go-folio/internal/posts"
)

// DefaultLimit caps the number of entries when no limit is configured.
const DefaultLimit = 20

// Meta describes the feed channel.
type Meta struct {
	Title       string
	Description string
	Author      string
	Language    string
	// SiteURL is the alternate link; FeedURL is the self link.
	SiteURL     string
	FeedURL     string
	GeneratedAt time.Time
}

// Item is one feed entry.
type Item struct {
	GUID       string
	Title      string
	Link       string
	Summary    string
	Categories []string
	Published  time.Time
	Updated    time.Time
}

// LinkFunc resolves the public URL of a post.
type LinkFunc func(id string) (string, error)

// SummaryFunc produces the plain text summary of a post.
type SummaryFunc func(post posts.Post) string

// ItemsFromPosts maps ordered posts to feed items, keeping at most limit
// entries. A limit <= 0 uses DefaultLimit.
func ItemsFromPosts(ordered []posts.Post, limit int, link LinkFunc, summary SummaryFunc) ([]Item, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	items := make([]Item, 0, len(ordered))
	for _, post := range ordered {
		item := Item{
			GUID:       identity.PostURN(post.ID),
			Title:      strings.TrimSpace(post.Title),
			Categories: append(append([]string(nil), post.Categories...), post.Tags...),
			Published:  post.Date,
		}
		if link != nil {
			href, err := link(post.ID)
			if err != nil {
				return nil, fmt.Errorf("feeds: link for %s: %w", post.ID, err)
			}
			item.Link = href
		}
		if summary != nil {
			item.Summary = normalizeWhitespace(summary(post))
		}
		items = append(items, item)
	}
	return items, nil
}

// BuildRSS renders an RSS 2.0 document.
func BuildRSS(meta Meta, items []Item) string {
	generatedAt := generated(meta)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">` + "\n")
	b.WriteString("  <channel>\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", escapeXML(title(meta)))
	fmt.Fprintf(&b, "    <link>%s</link>\n", escapeXML(siteURL(meta)))
	fmt.Fprintf(&b, "    <description>%s</description>\n", escapeXML(description(meta)))
	if lang := strings.TrimSpace(meta.Language); lang != "" {
		fmt.Fprintf(&b, "    <language>%s</language>\n", escapeXML(lang))
	}
	if feedURL := strings.TrimSpace(meta.FeedURL); feedURL != "" {
		fmt.Fprintf(&b, `    <atom:link href="%s" rel="self" type="application/rss+xml" />`+"\n", escapeXML(feedURL))
	}
	fmt.Fprintf(&b, "    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.Format(time.RFC1123Z))
	for _, item := range items {
		pub := item.Published
		if pub.IsZero() {
			pub = generatedAt
		}
		b.WriteString("    <item>\n")
		fmt.Fprintf(&b, "      <title>%s</title>\n", escapeXML(item.Title))
		if item.Link != "" {
			fmt.Fprintf(&b, "      <link>%s</link>\n", escapeXML(item.Link))
		}
		fmt.Fprintf(&b, "      <guid isPermaLink=\"false\">%s</guid>\n", escapeXML(item.GUID))
		fmt.Fprintf(&b, "      <pubDate>%s</pubDate>\n", pub.UTC().Format(time.RFC1123Z))
		for _, category := range item.Categories {
			fmt.Fprintf(&b, "      <category>%s</category>\n", escapeXML(category))
		}
		if item.Summary != "" {
			fmt.Fprintf(&b, "      <description>%s</description>\n", escapeXML(item.Summary))
		}
		b.WriteString("    </item>\n")
	}
	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}

// BuildAtom renders an Atom 1.0 document. The feed id is derived from the
// feed URL so it survives rebuilds.
func BuildAtom(meta Meta, items []Item) string {
	generatedAt := generated(meta)
	feedURL := strings.TrimSpace(meta.FeedURL)
	if feedURL == "" {
		feedURL = siteURL(meta) + "/atom.xml"
	}
	feedID := identity.UUID("go-folio:feed:" + feedURL).URN()

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if lang := strings.TrimSpace(meta.Language); lang != "" {
		fmt.Fprintf(&b, `<feed xmlns="http://www.w3.org/2005/Atom" xml:lang="%s">`+"\n", escapeXML(lang))
	} else {
		b.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	}
	fmt.Fprintf(&b, "  <id>%s</id>\n", escapeXML(feedID))
	fmt.Fprintf(&b, "  <title>%s</title>\n", escapeXML(title(meta)))
	if desc := strings.TrimSpace(meta.Description); desc != "" {
		fmt.Fprintf(&b, "  <subtitle>%s</subtitle>\n", escapeXML(desc))
	}
	fmt.Fprintf(&b, "  <updated>%s</updated>\n", latest(items, generatedAt).Format(time.RFC3339))
	fmt.Fprintf(&b, `  <link rel="alternate" href="%s" />`+"\n", escapeXML(siteURL(meta)))
	fmt.Fprintf(&b, `  <link rel="self" href="%s" />`+"\n", escapeXML(feedURL))
	if author := strings.TrimSpace(meta.Author); author != "" {
		fmt.Fprintf(&b, "  <author>\n    <name>%s</name>\n  </author>\n", escapeXML(author))
	}
	for _, item := range items {
		updated := item.Updated
		if updated.IsZero() {
			updated = item.Published
		}
		if updated.IsZero() {
			updated = generatedAt
		}
		b.WriteString("  <entry>\n")
		fmt.Fprintf(&b, "    <id>%s</id>\n", escapeXML(item.GUID))
		fmt.Fprintf(&b, "    <title>%s</title>\n", escapeXML(item.Title))
		if item.Link != "" {
			fmt.Fprintf(&b, `    <link href="%s" />`+"\n", escapeXML(item.Link))
		}
		fmt.Fprintf(&b, "    <updated>%s</updated>\n", updated.UTC().Format(time.RFC3339))
		if !item.Published.IsZero() {
			fmt.Fprintf(&b, "    <published>%s</published>\n", item.Published.UTC().Format(time.RFC3339))
		}
		for _, category := range item.Categories {
			fmt.Fprintf(&b, `    <category term="%s" />`+"\n", escapeXML(category))
		}
		if item.Summary != "" {
			fmt.Fprintf(&b, "    <summary>%s</summary>\n", escapeXML(item.Summary))
		}
		b.WriteString("  </entry>\n")
	}
	b.WriteString("</feed>\n")
	return b.String()
}

func generated(meta Meta) time.Time {
	if meta.GeneratedAt.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return meta.GeneratedAt.UTC()
}

// latest returns the most recent entry time, falling back to fallback for an
// empty feed. Using entry times keeps the output stable across rebuilds.
func latest(items []Item, fallback time.Time) time.Time {
	var newest time.Time
	for _, item := range items {
		for _, ts := range []time.Time{item.Updated, item.Published} {
			if ts.After(newest) {
				newest = ts
			}
		}
	}
	if newest.IsZero() {
		return fallback
	}
	return newest.UTC()
}

func title(meta Meta) string {
	if t := strings.TrimSpace(meta.Title); t != "" {
		return t
	}
	if base := strings.TrimSpace(meta.SiteURL); base != "" {
		return base
	}
	return "Blog"
}

func description(meta Meta) string {
	if desc := strings.TrimSpace(meta.Description); desc != "" {
		return desc
	}
	return "Latest posts"
}

func siteURL(meta Meta) string {
	trimmed := strings.TrimRight(strings.TrimSpace(meta.SiteURL), "/")
	if trimmed == "" {
		return "http://localhost"
	}
	return trimmed
}

func normalizeWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}
