package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-pagination/internal/logging"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// DefaultPatterns are the file globs loaded when LoaderConfig.Patterns is empty.
var DefaultPatterns = []string{"*.md", "*.markdown", "*.html"}

// LoaderConfig configures how content files are discovered.
type LoaderConfig struct {
	// Patterns limits discovered files to names matching any glob. Globs
	// without a slash match the base name.
	Patterns []string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
	// IncludeHidden loads dot files and walks dot directories.
	IncludeHidden bool
}

// Loader turns files in an fs.FS into pipeline documents keyed by their
// slash separated path.
type Loader struct {
	fs            fs.FS
	patterns      []string
	recursive     bool
	includeHidden bool
	logger        interfaces.Logger
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig, logger interfaces.Logger) *Loader {
	patterns := make([]string, 0, len(cfg.Patterns))
	for _, pattern := range cfg.Patterns {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			patterns = append(patterns, path.Clean(strings.ReplaceAll(trimmed, "**/", "")))
		}
	}
	if len(patterns) == 0 {
		patterns = append(patterns, DefaultPatterns...)
	}

	return &Loader{
		fs:            filesystem,
		patterns:      patterns,
		recursive:     cfg.Recursive,
		includeHidden: cfg.IncludeHidden,
		logger:        logging.Ensure(logger),
	}
}

// LoadFile reads and parses a single content file.
func (l *Loader) LoadFile(ctx context.Context, name string) (interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name = cleanName(name)
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", name, err)
	}

	info, err := fs.Stat(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", name, err)
	}

	doc, err := BuildDocument(name, data, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("markdown loader: %w", err)
	}
	logging.WithPathContext(l.logger, name).Trace("markdown.file.parsed", "bytes", len(data))
	return doc, nil
}

// LoadFiles discovers content under dir and returns every parsed document.
// The context is checked between files.
func (l *Loader) LoadFiles(ctx context.Context, dir string) (interfaces.Files, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := cleanName(dir)
	files := interfaces.Files{}

	walkErr := fs.WalkDir(l.fs, root, func(name string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if name == root {
				return nil
			}
			if !l.recursive || (!l.includeHidden && isHidden(name)) {
				return fs.SkipDir
			}
			return nil
		}

		if !l.includeHidden && isHidden(name) {
			return nil
		}
		if !l.matches(name) {
			return nil
		}

		doc, err := l.LoadFile(ctx, name)
		if err != nil {
			return err
		}
		files[name] = doc
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	l.logger.Debug("markdown.files.loaded", "dir", root, "count", len(files))
	return files, nil
}

// Names returns the file names in sorted order.
func Names(files interfaces.Files) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Loader) matches(name string) bool {
	for _, pattern := range l.patterns {
		target := path.Base(name)
		if strings.Contains(pattern, "/") {
			target = name
		}
		if ok, err := path.Match(pattern, target); err == nil && ok {
			return true
		}
	}
	return false
}

func cleanName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return "."
	}
	name = strings.TrimPrefix(path.Clean(name), "/")
	if name == "" {
		return "."
	}
	return name
}

func isHidden(name string) bool {
	base := path.Base(name)
	return len(base) > 1 && strings.HasPrefix(base, ".")
}
