package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ParseOptions tunes Markdown rendering.
type ParseOptions struct {
	// Extensions names goldmark extensions from the registry. Empty enables
	// gfm, linkify and tasklist.
	Extensions []string
	HardWraps  bool
	// SafeMode drops raw HTML embedded in the Markdown source.
	SafeMode bool
}

// Renderer converts Markdown into HTML.
type Renderer interface {
	Render(markdown []byte) ([]byte, error)
}

// GoldmarkParser renders Markdown with goldmark. The engine is built once per
// parser and reused; goldmark engines are safe for concurrent use.
type GoldmarkParser struct {
	options ParseOptions
	once    sync.Once
	engine  goldmark.Markdown
}

var _ Renderer = (*GoldmarkParser)(nil)

// NewGoldmarkParser constructs a parser for the given options.
func NewGoldmarkParser(opts ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{options: opts}
}

// Render converts markdown using the parser's options.
func (p *GoldmarkParser) Render(markdown []byte) ([]byte, error) {
	p.once.Do(func() {
		p.engine = newGoldmarkEngine(p.options)
	})
	return convert(p.engine, markdown)
}

// RenderWithOptions converts markdown with one-off options.
func (p *GoldmarkParser) RenderWithOptions(markdown []byte, opts ParseOptions) ([]byte, error) {
	return convert(newGoldmarkEngine(opts), markdown)
}

func convert(engine goldmark.Markdown, markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

func newGoldmarkEngine(opts ParseOptions) goldmark.Markdown {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

var (
	extensionMu       sync.RWMutex
	extensionRegistry = map[string]goldmark.Extender{
		"gfm":           extension.GFM,
		"table":         extension.Table,
		"tables":        extension.Table,
		"strikethrough": extension.Strikethrough,
		"linkify":       extension.Linkify,
		"autolink":      extension.Linkify,
		"tasklist":      extension.TaskList,
		"definition":    extension.DefinitionList,
		"footnote":      extension.Footnote,
		"typographer":   extension.Typographer,
	}
)

// RegisterExtension makes a goldmark extension selectable by name.
func RegisterExtension(name string, ext goldmark.Extender) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || ext == nil {
		return
	}
	extensionMu.Lock()
	defer extensionMu.Unlock()
	extensionRegistry[key] = ext
}

// KnownExtension reports whether name is registered.
func KnownExtension(name string) bool {
	extensionMu.RLock()
	defer extensionMu.RUnlock()
	_, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
		}
	}

	extensionMu.RLock()
	defer extensionMu.RUnlock()

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders
}
