package folio_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"testing/fstest"

	folio "github.com/goliatone/go-folio"
)

func TestBuildPart1Example(t *testing.T) {
	fsys := fstest.MapFS{
		"resume.yaml": {Data: []byte("- intro:\n    name: Jane Doe\n    role: Engineer\n- section: Skills\n  entries:\n    - raw: Problem-solving\n")},
		"_posts/2024-05-25-part-1.md": {Data: []byte("---\n" +
			"title: \"Part 1\"\n" +
			"date: 2024-05-25\n" +
			"categories: [CouchDB, Keycloak]\n" +
			"tags: [auth]\n" +
			"---\n" +
			"Setting up CouchDB with Keycloak.\n")},
	}

	site, err := folio.Build(context.Background(), folio.DefaultConfig(),
		folio.WithContentFS(fsys),
		folio.WithLogWriter(io.Discard),
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(site.Pages) != 1 || site.Pages[0].Title != "Part 1" {
		t.Fatalf("unexpected pages %+v", site.Pages)
	}
	page := site.Pages[0]
	if page.Date.Format("2006-01-02") != "2024-05-25" {
		t.Fatalf("unexpected date %s", page.Date)
	}
	if len(page.Categories) != 2 || page.Categories[0].Name != "CouchDB" || page.Categories[1].Name != "Keycloak" {
		t.Fatalf("unexpected categories %+v", page.Categories)
	}
	if got := site.Posts.ByCategory("CouchDB"); len(got) != 1 {
		t.Fatalf("expected post under CouchDB, got %d", len(got))
	}
	if site.Resume == nil || len(site.Resume.Sections()) != 1 {
		t.Fatalf("expected composed resume")
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := folio.DefaultConfig()
	cfg.Build.OutputDir = ""
	if _, err := folio.Build(context.Background(), cfg); !errors.Is(err, folio.ErrOutputDirRequired) {
		t.Fatalf("expected ErrOutputDirRequired, got %v", err)
	}
}
