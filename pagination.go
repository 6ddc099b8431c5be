// Package pagination splits dated collections into one document per calendar
// year and links those documents into a prev/next chain. The Module type wires
// the full content pipeline (load, paginate, render, write) from a Config.
package pagination

import (
	"context"

	"github.com/goliatone/go-pagination/internal/di"
	"github.com/goliatone/go-pagination/internal/generator"
	"github.com/goliatone/go-pagination/internal/markdown"
	paginator "github.com/goliatone/go-pagination/internal/pagination"
	"github.com/goliatone/go-pagination/internal/yearly"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

type (
	Document         = interfaces.Document
	Files            = interfaces.Files
	Collections      = interfaces.Collections
	MetadataProvider = interfaces.MetadataProvider
	Iteratee         = interfaces.Iteratee
	PageInfo         = interfaces.PageInfo
	Logger           = interfaces.Logger
	LoggerProvider   = interfaces.LoggerProvider
)

// Options configures a Paginator.
type Options = paginator.Options

// Result lists the chains produced by one pagination pass.
type Result = paginator.Result

// Chain describes the pages produced for a single anchor document.
type Chain = yearly.Chain

// SummaryItem is the value stored by the summary iteratee.
type SummaryItem = paginator.SummaryItem

// IterateeOptions parameterises named iteratees.
type IterateeOptions = paginator.IterateeOptions

// GeneratorService exports the build pipeline contract.
type GeneratorService = generator.Service

type (
	BuildOptions = generator.BuildOptions
	BuildResult  = generator.BuildResult
	Plan         = generator.Plan
	ChainSummary = generator.ChainSummary
)

var (
	ErrFilesRequired      = paginator.ErrFilesRequired
	ErrMetadataRequired   = paginator.ErrMetadataRequired
	ErrCollectionNotFound = paginator.ErrCollectionNotFound
	ErrInvalidPaginate    = paginator.ErrInvalidPaginate
	ErrUnknownIteratee    = paginator.ErrUnknownIteratee
)

// Built-in iteratees.
var (
	Identity = paginator.Identity
	Indexed  = paginator.Indexed
)

// Summary flags the first limit posts of every page for summary display.
func Summary(limit int) Iteratee {
	return paginator.Summary(limit)
}

// LookupIteratee resolves a registered iteratee by name.
func LookupIteratee(name string, opts IterateeOptions) (Iteratee, error) {
	return paginator.LookupIteratee(name, opts)
}

// Paginator is the yearly pagination step.
type Paginator = paginator.Service

// NewPaginator validates opts and returns a reusable paginator.
func NewPaginator(opts Options, logger Logger) (*Paginator, error) {
	return paginator.NewService(opts, logger)
}

// Paginate runs a single pass over files with opts.
func Paginate(files Files, metadata MetadataProvider, opts Options) (*Result, error) {
	svc, err := paginator.NewService(opts, nil)
	if err != nil {
		return nil, err
	}
	return svc.Paginate(files, metadata)
}

// Run is the callback form of Paginate. done is invoked exactly once.
func Run(files Files, metadata MetadataProvider, opts Options, done func(error)) {
	svc, err := paginator.NewService(opts, nil)
	if err != nil {
		if done != nil {
			done(err)
		}
		return
	}
	svc.Run(files, metadata, done)
}

// Module is the top level pipeline facade.
type Module struct {
	container *di.Container
}

// New constructs a Module from cfg and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Generator returns the configured build pipeline.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Paginator returns the configured pagination step.
func (m *Module) Paginator() *Paginator {
	return m.container.PaginationService()
}

// Content returns the content loader and renderer.
func (m *Module) Content() *markdown.Service {
	return m.container.MarkdownService()
}

// Build runs the full pipeline.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	return m.Generator().Build(ctx, opts)
}
