package site

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	SnapshotFile = "site.json"
	AtomFile     = "atom.xml"
	RSSFile      = "rss.xml"
)

type ArtifactCategory string

const (
	CategorySnapshot ArtifactCategory = "snapshot"
	CategoryFeed     ArtifactCategory = "feed"
)

// Artifact describes one generated file.
type Artifact struct {
	Path     string           `json:"path"`
	Category ArtifactCategory `json:"category"`
	Size     int              `json:"size"`
	Checksum string           `json:"checksum"`
}

// WriteResult lists the artifacts produced by Write, in write order.
type WriteResult struct {
	Dir       string     `json:"dir"`
	DryRun    bool       `json:"dry_run"`
	Artifacts []Artifact `json:"artifacts"`
}

type artifact struct {
	name     string
	category ArtifactCategory
	data     []byte
}

// artifactWriter abstracts where generated files go.
type artifactWriter interface {
	EnsureDir(ctx context.Context, dir string) error
	WriteFile(ctx context.Context, path string, data []byte) error
}

type dirWriter struct{}

func (dirWriter) EnsureDir(_ context.Context, dir string) error {
	return os.MkdirAll(dir, 0o755)
}

func (dirWriter) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, string, []byte) error { return nil }

// Write renders s into dir: the site.json snapshot and, when the site has
// feeds, atom.xml and rss.xml. With dryRun nothing touches the disk but the
// result still reports what would be written.
func Write(ctx context.Context, s *Site, dir string, dryRun bool) (*WriteResult, error) {
	if s == nil {
		return nil, errors.New("site: write requires a site")
	}
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("site: write requires an output directory")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	artifacts, err := renderArtifacts(s)
	if err != nil {
		return nil, err
	}

	var writer artifactWriter = dirWriter{}
	if dryRun {
		writer = noopWriter{}
	}
	if err := writer.EnsureDir(ctx, dir); err != nil {
		return nil, fmt.Errorf("site: prepare %s: %w", dir, err)
	}

	result := &WriteResult{Dir: dir, DryRun: dryRun}
	for _, item := range artifacts {
		target := filepath.Join(dir, item.name)
		if err := writer.WriteFile(ctx, target, item.data); err != nil {
			return nil, fmt.Errorf("site: write %s: %w", target, err)
		}
		sum := sha256.Sum256(item.data)
		result.Artifacts = append(result.Artifacts, Artifact{
			Path:     target,
			Category: item.category,
			Size:     len(item.data),
			Checksum: hex.EncodeToString(sum[:]),
		})
	}
	return result, nil
}

// Clean removes the artifacts Write produces from dir. Missing files are
// ignored; other files in dir are left alone.
func Clean(ctx context.Context, dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("site: clean requires an output directory")
	}
	var removed []string
	for _, name := range []string{SnapshotFile, AtomFile, RSSFile} {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return removed, err
			}
		}
		target := filepath.Join(dir, name)
		err := os.Remove(target)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("site: remove %s: %w", target, err)
		}
		removed = append(removed, target)
	}
	return removed, nil
}

func renderArtifacts(s *Site) ([]artifact, error) {
	snapshot, err := json.MarshalIndent(s.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("site: encode snapshot: %w", err)
	}
	out := []artifact{{name: SnapshotFile, category: CategorySnapshot, data: append(snapshot, '\n')}}
	if s.Atom != "" {
		out = append(out, artifact{name: AtomFile, category: CategoryFeed, data: []byte(s.Atom)})
	}
	if s.RSS != "" {
		out = append(out, artifact{name: RSSFile, category: CategoryFeed, data: []byte(s.RSS)})
	}
	return out, nil
}
