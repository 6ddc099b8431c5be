package di

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/goliatone/go-pagination/internal/collections"
	"github.com/goliatone/go-pagination/internal/generator"
	"github.com/goliatone/go-pagination/internal/logging"
	"github.com/goliatone/go-pagination/internal/logging/gologger"
	"github.com/goliatone/go-pagination/internal/markdown"
	"github.com/goliatone/go-pagination/internal/pagination"
	"github.com/goliatone/go-pagination/internal/runtimeconfig"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// Container wires the content pipeline from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	contentFS      fs.FS
	renderer       markdown.Renderer
	writer         generator.ArtifactWriter
	iteratee       interfaces.Iteratee
	location       *time.Location

	markdownSvc   *markdown.Service
	paginationSvc *pagination.Service
	generatorSvc  generator.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithContentFS reads content from fsys instead of Config.Content.Dir.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.contentFS = fsys
	}
}

// WithRenderer overrides the goldmark renderer.
func WithRenderer(renderer markdown.Renderer) Option {
	return func(c *Container) {
		c.renderer = renderer
	}
}

// WithArtifactWriter overrides the filesystem writer rooted at
// Config.Generator.OutputDir.
func WithArtifactWriter(writer generator.ArtifactWriter) Option {
	return func(c *Container) {
		c.writer = writer
	}
}

// WithIteratee bypasses the named iteratee registry.
func WithIteratee(iteratee interfaces.Iteratee) Option {
	return func(c *Container) {
		c.iteratee = iteratee
	}
}

// NewContainer validates cfg and builds the services it describes.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configurePagination(); err != nil {
		return nil, err
	}
	if err := c.configureMarkdown(); err != nil {
		return nil, err
	}
	c.configureGenerator()

	logging.ModuleLogger(c.loggerProvider, "pagination.di").Debug("container.configured",
		"content_dir", cfg.Content.Dir,
		"output_dir", cfg.Generator.OutputDir,
		"iteratee", cfg.Pagination.Iteratee,
		"path", cfg.Pagination.Path,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	provider, err := gologger.FromConfig(c.Config.Logging)
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configurePagination() error {
	cfg := c.Config.Pagination

	loc, err := cfg.ResolveLocation()
	if err != nil {
		return err
	}
	c.location = loc

	iteratee := c.iteratee
	if iteratee == nil {
		iteratee, err = pagination.LookupIteratee(cfg.Iteratee, pagination.IterateeOptions{
			SummaryLimit: cfg.SummaryLimit,
		})
		if err != nil {
			return err
		}
	}

	svc, err := pagination.NewService(pagination.Options{
		Path:           cfg.Path,
		Iteratee:       iteratee,
		SlugCollection: cfg.SlugCollection,
		Location:       loc,
		DateKey:        cfg.DateKey,
	}, logging.PaginationLogger(c.loggerProvider))
	if err != nil {
		return err
	}
	c.paginationSvc = svc
	return nil
}

func (c *Container) configureMarkdown() error {
	cfg := c.Config
	svc, err := markdown.NewService(markdown.Config{
		BasePath:  cfg.Content.Dir,
		FS:        c.contentFS,
		Patterns:  cfg.Content.Patterns,
		Recursive: cfg.Content.Recursive,
		Parser: markdown.ParseOptions{
			Extensions: cfg.Markdown.Parser.Extensions,
			HardWraps:  cfg.Markdown.Parser.HardWraps,
			SafeMode:   cfg.Markdown.Parser.SafeMode,
		},
	}, c.renderer, logging.MarkdownLogger(c.loggerProvider))
	if err != nil {
		return fmt.Errorf("content: %w", err)
	}
	c.markdownSvc = svc
	return nil
}

func (c *Container) configureGenerator() {
	cfg := c.Config
	if c.writer == nil {
		c.writer = generator.NewFileWriter(cfg.Generator.OutputDir)
	}

	sortBy := strings.ToLower(strings.TrimSpace(cfg.Content.SortBy))
	if sortBy != runtimeconfig.SortByDate {
		sortBy = ""
	}

	c.generatorSvc = generator.NewService(generator.Config{
		BaseURL:    cfg.Generator.BaseURL,
		LayoutFile: cfg.Generator.LayoutFile,
		Collections: collections.Options{
			SortBy:   sortBy,
			Reverse:  cfg.Content.Reverse,
			Location: c.location,
			DateKey:  cfg.Pagination.DateKey,
		},
		GenerateSitemap: cfg.Generator.GenerateSitemap,
		WriteManifest:   cfg.Generator.WriteManifest,
		Workers:         cfg.Generator.Workers,
	}, generator.Dependencies{
		Content:   c.markdownSvc,
		Paginator: c.paginationSvc,
		Writer:    c.writer,
		Logger:    logging.GeneratorLogger(c.loggerProvider),
	})
}

// LoggerProvider returns the provider shared by every module logger. It may
// be nil when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) MarkdownService() *markdown.Service {
	return c.markdownSvc
}

func (c *Container) PaginationService() *pagination.Service {
	return c.paginationSvc
}

func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}
