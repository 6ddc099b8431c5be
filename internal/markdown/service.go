package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-pagination/internal/logging"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// Config controls how the content service discovers and renders files.
type Config struct {
	// BasePath is the content root on disk. Ignored when FS is set.
	BasePath string
	// FS overrides the filesystem content is read from.
	FS        fs.FS
	Patterns  []string
	Recursive bool
	Parser    ParseOptions
}

// Service loads content documents and renders their Markdown bodies.
type Service struct {
	cfg      Config
	renderer Renderer
	loader   *Loader
	logger   interfaces.Logger
}

// NewService constructs a content service. When renderer is nil a goldmark
// parser with cfg.Parser options is used.
func NewService(cfg Config, renderer Renderer, logger interfaces.Logger) (*Service, error) {
	filesystem := cfg.FS
	if filesystem == nil {
		prepared, err := prepareFilesystem(cfg.BasePath)
		if err != nil {
			return nil, err
		}
		filesystem = prepared
	}

	if renderer == nil {
		renderer = NewGoldmarkParser(cfg.Parser)
	}
	logger = logging.Ensure(logger)

	return &Service{
		cfg:      cfg,
		renderer: renderer,
		loader: NewLoader(filesystem, LoaderConfig{
			Patterns:  cfg.Patterns,
			Recursive: cfg.Recursive,
		}, logger),
		logger: logger,
	}, nil
}

// Load reads a single document relative to the content root.
func (s *Service) Load(ctx context.Context, name string) (interfaces.Document, error) {
	return s.loader.LoadFile(ctx, name)
}

// LoadAll reads every matching document under the content root.
func (s *Service) LoadAll(ctx context.Context) (interfaces.Files, error) {
	return s.loader.LoadFiles(ctx, ".")
}

// Render converts Markdown bytes into HTML.
func (s *Service) Render(ctx context.Context, markdown []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.renderer.Render(markdown)
}

// RenderDocument renders the document body. Non-Markdown documents are
// returned as is.
func (s *Service) RenderDocument(ctx context.Context, name string, doc interfaces.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("markdown service: document is nil")
	}
	body := doc.Contents()
	if !IsMarkdown(name) {
		return body, nil
	}
	html, err := s.Render(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("markdown render document %s: %w", name, err)
	}
	return html, nil
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("markdown service: base path %s is not a directory", basePath)
	}
	return os.DirFS(basePath), nil
}
