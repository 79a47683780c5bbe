package posts

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-slug"
)

func TestParseEndToEndExample(t *testing.T) {
	raw := []byte("---\n" +
		"title: \"Part 1\"\n" +
		"date: 2024-05-25\n" +
		"categories: [Software Engineering, Web Development]\n" +
		"tags: [CouchDB, Keycloak]\n" +
		"---\n" +
		"Body goes here.\n")

	post, err := Parse("", raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if post.Title != "Part 1" {
		t.Fatalf("expected title Part 1, got %q", post.Title)
	}
	want := time.Date(2024, time.May, 25, 0, 0, 0, 0, time.UTC)
	if !post.Date.Equal(want) {
		t.Fatalf("expected date %s, got %s", want, post.Date)
	}
	if !post.Categories.Equal(StringSet{"Software Engineering", "Web Development"}) {
		t.Fatalf("unexpected categories: %#v", post.Categories)
	}
	if !post.Tags.Equal(StringSet{"CouchDB", "Keycloak"}) {
		t.Fatalf("unexpected tags: %#v", post.Tags)
	}
	if string(post.Body) != "Body goes here.\n" {
		t.Fatalf("expected body to pass through, got %q", string(post.Body))
	}
	if post.ID != "2024-05-25-"+mustSlug(t, "Part 1") {
		t.Fatalf("unexpected id %q", post.ID)
	}
}

func TestParseFixtureKeepsUnknownFields(t *testing.T) {
	post, err := Parse("_posts/2024-05-25-part-1.md", readFixture(t, "testdata/2024-05-25-part-1.md"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if post.ID != "2024-05-25-"+mustSlug(t, "part-1") {
		t.Fatalf("expected id derived from file name, got %q", post.ID)
	}
	if post.SourceID != "_posts/2024-05-25-part-1.md" {
		t.Fatalf("expected source id to be kept, got %q", post.SourceID)
	}
	if post.Image == nil {
		t.Fatalf("expected image reference")
	}
	if post.Image.Path != "/assets/img/posts/part-1/cover.png" || post.Image.Caption != "Architecture overview" {
		t.Fatalf("unexpected image: %#v", post.Image)
	}
	if _, ok := post.Image.Extra["lqip"]; !ok {
		t.Fatalf("expected unknown image keys to be kept: %#v", post.Image.Extra)
	}
	pin, ok := post.Extra["pin"].Text()
	if !ok || pin != "true" {
		t.Fatalf("expected pin to pass through, got %#v", post.Extra["pin"])
	}
	if _, ok := post.Extra["math"]; !ok {
		t.Fatalf("expected math to pass through: %#v", post.Extra)
	}
	if _, ok := post.Extra["title"]; ok {
		t.Fatalf("known fields must not leak into Extra")
	}
	if !strings.Contains(string(post.Body), "Setting up **CouchDB**") {
		t.Fatalf("unexpected body: %q", string(post.Body))
	}
}

func TestParseTOMLMetadata(t *testing.T) {
	post, err := Parse("notes/toml-post.md", readFixture(t, "testdata/toml-post.md"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if post.Title != "Notes in TOML" {
		t.Fatalf("unexpected title %q", post.Title)
	}
	if !post.Date.Equal(time.Date(2023, time.November, 2, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %s", post.Date)
	}
	if !post.Tags.Equal(StringSet{"go", "toml"}) {
		t.Fatalf("expected deduplicated tags, got %#v", post.Tags)
	}
	if !post.Categories.Equal(StringSet{"Notes"}) {
		t.Fatalf("expected scalar category to become a set, got %#v", post.Categories)
	}
	if !strings.HasPrefix(post.ID, "2023-11-02-") {
		t.Fatalf("expected undated file name to get the post date, got %q", post.ID)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     error
		category goerrors.Category
	}{
		{
			name:     "no delimiter",
			raw:      "title: Part 1\ndate: 2024-05-25\n",
			want:     ErrMissingDelimiter,
			category: goerrors.CategoryBadInput,
		},
		{
			name:     "unterminated block",
			raw:      "---\ntitle: Part 1\ndate: 2024-05-25\n",
			want:     ErrMissingDelimiter,
			category: goerrors.CategoryBadInput,
		},
		{
			name:     "missing date",
			raw:      "---\ntitle: Part 1\n---\nbody\n",
			want:     ErrMissingRequiredField,
			category: goerrors.CategoryValidation,
		},
		{
			name:     "null date",
			raw:      "---\ntitle: Part 1\ndate: ~\n---\nbody\n",
			want:     ErrMissingRequiredField,
			category: goerrors.CategoryValidation,
		},
		{
			name:     "missing title",
			raw:      "---\ndate: 2024-05-25\n---\nbody\n",
			want:     ErrMissingRequiredField,
			category: goerrors.CategoryValidation,
		},
		{
			name:     "empty block",
			raw:      "---\n---\nbody\n",
			want:     ErrMissingRequiredField,
			category: goerrors.CategoryValidation,
		},
		{
			name:     "invalid date",
			raw:      "---\ntitle: Part 1\ndate: next tuesday\n---\n",
			want:     ErrInvalidDate,
			category: goerrors.CategoryValidation,
		},
		{
			name:     "date as list",
			raw:      "---\ntitle: Part 1\ndate: [a, b]\n---\n",
			want:     ErrInvalidDate,
			category: goerrors.CategoryValidation,
		},
		{
			name:     "date as mapping",
			raw:      "---\ntitle: Part 1\ndate:\n  year: 2024\n---\n",
			want:     ErrInvalidDate,
			category: goerrors.CategoryValidation,
		},
		{
			name:     "duplicate key",
			raw:      "---\ntitle: x\ntitle: y\ndate: 2024-05-25\n---\n",
			want:     ErrMalformedMetadata,
			category: goerrors.CategoryBadInput,
		},
		{
			name:     "duplicate nested key",
			raw:      "---\ntitle: x\ndate: 2024-05-25\nimage:\n  path: a.png\n  path: b.png\n---\n",
			want:     ErrMalformedMetadata,
			category: goerrors.CategoryBadInput,
		},
		{
			name:     "malformed yaml",
			raw:      "---\ntitle: [unclosed\n---\n",
			want:     ErrMalformedMetadata,
			category: goerrors.CategoryBadInput,
		},
		{
			name:     "tags as mapping",
			raw:      "---\ntitle: Part 1\ndate: 2024-05-25\ntags:\n  a: b\n---\n",
			want:     ErrMalformedMetadata,
			category: goerrors.CategoryValidation,
		},
		{
			name:     "image without path",
			raw:      "---\ntitle: Part 1\ndate: 2024-05-25\nimage:\n  caption: lonely\n---\n",
			want:     ErrMissingRequiredField,
			category: goerrors.CategoryValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := Parse("", []byte(tt.raw))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !goerrors.IsCategory(err, tt.category) {
				t.Fatalf("expected category %s, got %v", tt.category, err)
			}
			if post != nil {
				t.Fatalf("expected no post on error, got %#v", post)
			}
		})
	}
}

func TestParseMissingDateFixture(t *testing.T) {
	_, err := Parse("no-date.md", readFixture(t, "testdata/no-date.md"))
	if !errors.Is(err, ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField, got %v", err)
	}
	var typed *goerrors.Error
	if !errors.As(err, &typed) || typed.Metadata["field"] != "date" {
		t.Fatalf("expected field metadata on error, got %#v", err)
	}
}

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-05-25", time.Date(2024, 5, 25, 0, 0, 0, 0, time.UTC)},
		{"2024-05-25 10:15", time.Date(2024, 5, 25, 10, 15, 0, 0, time.UTC)},
		{"2024-05-25 10:15:30", time.Date(2024, 5, 25, 10, 15, 30, 0, time.UTC)},
		{"2024-05-25T10:15:30Z", time.Date(2024, 5, 25, 10, 15, 30, 0, time.UTC)},
		{"2024-05-25 18:15:30 +0800", time.Date(2024, 5, 25, 10, 15, 30, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.raw)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tt.raw, err)
		}
		if !got.Equal(tt.want) {
			t.Fatalf("ParseDate(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestParseAcceptsZeroTimeDate(t *testing.T) {
	post, err := Parse("", []byte("---\ntitle: Origin\ndate: 0001-01-01\n---\nbody\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !post.Date.Equal(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %s", post.Date)
	}
	if post.ID != "0001-01-01-origin" {
		t.Fatalf("unexpected id %q", post.ID)
	}
}

func TestParseStripsByteOrderMark(t *testing.T) {
	post, err := Parse("", []byte("\ufeff---\ntitle: Part 1\ndate: 2024-05-25\n---\nbody\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if post.Title != "Part 1" || string(post.Body) != "body\n" {
		t.Fatalf("unexpected post %#v", post)
	}
}

func TestFormatRoundTripsStructuredFields(t *testing.T) {
	meta, body, err := ParseMetadata(readFixture(t, "testdata/2024-05-25-part-1.md"))
	if err != nil {
		t.Fatalf("ParseMetadata: %v", err)
	}

	encoded, err := Format(meta, body)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	again, againBody, err := ParseMetadata(encoded)
	if err != nil {
		t.Fatalf("ParseMetadata(round trip): %v\n%s", err, encoded)
	}
	if again.Title != meta.Title {
		t.Fatalf("title mismatch: %q vs %q", again.Title, meta.Title)
	}
	if !again.Date.Equal(meta.Date) {
		t.Fatalf("date mismatch: %s vs %s", again.Date, meta.Date)
	}
	if !again.Categories.Equal(meta.Categories) || !again.Tags.Equal(meta.Tags) {
		t.Fatalf("set mismatch: %#v %#v", again.Categories, again.Tags)
	}
	if again.Image == nil || again.Image.Caption != meta.Image.Caption {
		t.Fatalf("image mismatch: %#v", again.Image)
	}
	if string(againBody) != string(body) {
		t.Fatalf("body mismatch: %q vs %q", againBody, body)
	}
}

func TestDeriveID(t *testing.T) {
	date := time.Date(2024, 5, 25, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		source string
		title  string
		want   string
	}{
		{"_posts/2023-01-02-hello.md", "Ignored", "2023-01-02-" + mustSlug(t, "hello")},
		{"drafts/hello.md", "Ignored", "2024-05-25-" + mustSlug(t, "hello")},
		{`windows\path\2022-02-02-win.md`, "", "2022-02-02-" + mustSlug(t, "win")},
		{"", "Part 1", "2024-05-25-" + mustSlug(t, "Part 1")},
	}
	for _, tt := range tests {
		if got := DeriveID(tt.source, date, tt.title); got != tt.want {
			t.Fatalf("DeriveID(%q, %q) = %q, want %q", tt.source, tt.title, got, tt.want)
		}
	}
}

func mustSlug(tb testing.TB, value string) string {
	tb.Helper()
	normalized, err := slug.Normalize(value)
	if err != nil {
		tb.Fatalf("slug %q: %v", value, err)
	}
	return normalized
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
