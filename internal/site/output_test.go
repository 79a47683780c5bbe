package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteProducesSnapshotAndFeeds(t *testing.T) {
	site := buildSite(t, testConfig(), contentFS())
	dir := filepath.Join(t.TempDir(), "dist")

	result, err := Write(context.Background(), site, dir, false)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(result.Artifacts) != 3 {
		t.Fatalf("expected three artifacts, got %+v", result.Artifacts)
	}

	data, err := os.ReadFile(filepath.Join(dir, SnapshotFile))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.Meta.Title != "Jane Doe" || len(snapshot.Posts) != 3 || len(snapshot.Resume) != 3 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
	for _, name := range []string{AtomFile, RSSFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if len(result.Artifacts[0].Checksum) != 64 {
		t.Fatalf("expected sha256 checksum, got %q", result.Artifacts[0].Checksum)
	}

	removed, err := Clean(context.Background(), dir)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if len(removed) != 3 {
		t.Fatalf("expected three removed files, got %v", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, SnapshotFile)); !os.IsNotExist(err) {
		t.Fatalf("expected snapshot removed, got %v", err)
	}
}

func TestWriteDryRunTouchesNothing(t *testing.T) {
	site := buildSite(t, testConfig(), contentFS())
	dir := filepath.Join(t.TempDir(), "dist")

	result, err := Write(context.Background(), site, dir, true)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !result.DryRun || len(result.Artifacts) != 3 {
		t.Fatalf("unexpected dry run result %+v", result)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected output dir to be absent, got %v", err)
	}
}

func TestWriteSkipsDisabledFeeds(t *testing.T) {
	cfg := testConfig()
	cfg.Feeds.Enabled = false
	site := buildSite(t, cfg, contentFS())

	result, err := Write(context.Background(), site, t.TempDir(), true)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(result.Artifacts) != 1 || result.Artifacts[0].Category != CategorySnapshot {
		t.Fatalf("expected snapshot only, got %+v", result.Artifacts)
	}
}

func TestExportUsesEmptySlices(t *testing.T) {
	data, err := json.Marshal((&Site{}).Export())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"posts", "categories", "tags", "nav"} {
		if _, ok := decoded[key].([]any); !ok {
			t.Fatalf("expected %s to encode as a list, got %v", key, decoded[key])
		}
	}
	if _, ok := decoded["resume"]; ok {
		t.Fatalf("expected resume to be omitted")
	}
}

func TestDirWriterRemovesTempFileWhenRenameFails(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, SnapshotFile)
	// A non-empty directory at the target path makes the rename fail.
	if err := os.MkdirAll(filepath.Join(target, "keep"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := (dirWriter{}).WriteFile(context.Background(), target, []byte("{}")); err == nil {
		t.Fatal("expected rename error")
	}
	if _, err := os.Stat(target + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be removed, got %v", err)
	}
}
