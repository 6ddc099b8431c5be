package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteCategory tags an artifact by its role in the build.
type WriteCategory string

const (
	CategoryPage     WriteCategory = "page"
	CategorySitemap  WriteCategory = "sitemap"
	CategoryManifest WriteCategory = "manifest"
)

// WriteFileRequest describes a file write routed through an ArtifactWriter.
type WriteFileRequest struct {
	Path        string
	Content     []byte
	Category    WriteCategory
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// ArtifactWriter abstracts where build outputs are stored. Paths are slash
// separated and relative to the writer's root.
type ArtifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req WriteFileRequest) error
}

// FileWriter stores artifacts below Root on the local filesystem.
type FileWriter struct {
	Root string
	// Perm is applied to written files. Defaults to 0o644.
	Perm os.FileMode
}

// NewFileWriter returns a FileWriter rooted at root.
func NewFileWriter(root string) *FileWriter {
	return &FileWriter{Root: root, Perm: 0o644}
}

func (w *FileWriter) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := w.resolve(path)
	if err != nil {
		return err
	}
	return os.MkdirAll(target, 0o755)
}

func (w *FileWriter) WriteFile(ctx context.Context, req WriteFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires path")
	}
	target, err := w.resolve(req.Path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	perm := w.Perm
	if perm == 0 {
		perm = 0o644
	}
	return os.WriteFile(target, req.Content, perm)
}

func (w *FileWriter) resolve(rel string) (string, error) {
	root := strings.TrimSpace(w.Root)
	if root == "" {
		root = "."
	}
	clean := filepath.Clean(filepath.FromSlash(strings.TrimLeft(rel, "/")))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("generator: path %q escapes output root", rel)
	}
	return filepath.Join(root, clean), nil
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, WriteFileRequest) error { return nil }
