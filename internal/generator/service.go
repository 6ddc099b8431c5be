// Package generator runs the content pipeline: load files, group collections,
// paginate by year, render Markdown into a layout and write the artifacts.
package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-pagination/internal/collections"
	"github.com/goliatone/go-pagination/internal/logging"
	"github.com/goliatone/go-pagination/internal/markdown"
	"github.com/goliatone/go-pagination/internal/pagination"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

var (
	// ErrContentRequired indicates the generator was built without a content source.
	ErrContentRequired = errors.New("generator: content source is required")
	// ErrPaginatorRequired indicates the generator was built without a paginator.
	ErrPaginatorRequired = errors.New("generator: paginator is required")
)

// Service describes the static build contract.
type Service interface {
	Plan(ctx context.Context) (*Plan, error)
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
}

// ContentSource loads documents and renders their bodies.
type ContentSource interface {
	LoadAll(ctx context.Context) (interfaces.Files, error)
	RenderDocument(ctx context.Context, name string, doc interfaces.Document) ([]byte, error)
}

// Paginator attaches yearly pagination to the loaded files.
type Paginator interface {
	Paginate(files interfaces.Files, metadata interfaces.MetadataProvider) (*pagination.Result, error)
}

// Config captures runtime behaviour toggles for the generator.
// Artifact paths are relative; the ArtifactWriter decides where they land.
type Config struct {
	BaseURL string
	// LayoutFile points to an html/template wrapping every page. Empty uses
	// the built-in layout.
	LayoutFile      string
	Collections     collections.Options
	GenerateSitemap bool
	WriteManifest   bool
	Workers         int
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	DryRun bool
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Content   ContentSource
	Paginator Paginator
	Writer    ArtifactWriter
	Logger    interfaces.Logger
}

// Plan is the in-memory result of loading and paginating content.
type Plan struct {
	Files       interfaces.Files
	Collections interfaces.Collections
	Pagination  *pagination.Result
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	BuildID     uuid.UUID
	Files       int
	Chains      []ChainSummary
	Rendered    []RenderedPage
	// Written counts emitted artifacts. Dry runs count what would have been written.
	Written     int
	Manifest    string
	Duration    time.Duration
	Diagnostics []RenderDiagnostic
	Errors      []error
	DryRun      bool
}

// NewService wires a generator with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return &service{
		cfg:    cfg,
		deps:   deps,
		logger: logging.Ensure(deps.Logger),
		now:    time.Now,
		newID:  uuid.New,
	}
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

// Plan loads content, builds collections and paginates without rendering.
func (s *service) Plan(ctx context.Context) (*Plan, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.deps.Content == nil {
		return nil, ErrContentRequired
	}
	if s.deps.Paginator == nil {
		return nil, ErrPaginatorRequired
	}

	files, err := s.deps.Content.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("generator: load content: %w", err)
	}
	groups := collections.Build(files, s.cfg.Collections)
	s.logger.Debug("generator.collections.built", "files", len(files), "collections", len(groups))

	result, err := s.deps.Paginator.Paginate(files, groups)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Files:       files,
		Collections: groups,
		Pagination:  result,
	}, nil
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	buildID := s.newID()
	logger := logging.WithFields(logging.FromContext(s.logger, ctx), map[string]any{"build_id": buildID.String()})

	layout, err := loadLayout(s.cfg.LayoutFile)
	if err != nil {
		return nil, err
	}

	plan, err := s.Plan(ctx)
	if err != nil {
		return nil, err
	}

	generatedAt := s.now()
	outputs := outputIndex(plan.Files)
	result := &BuildResult{
		BuildID: buildID,
		Files:   len(plan.Files),
		Chains:  summariseChains(plan.Pagination, plan.Files, outputs),
		DryRun:  opts.DryRun,
	}

	site := SiteMetadata{
		BaseURL: strings.TrimRight(strings.TrimSpace(s.cfg.BaseURL), "/"),
	}
	build := BuildMetadata{
		ID:          buildID.String(),
		GeneratedAt: generatedAt,
		DryRun:      opts.DryRun,
	}

	names := make([]string, 0, len(plan.Files))
	for name := range plan.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		mu       sync.Mutex
		rendered = make([]RenderedPage, 0, len(names))
		errs     []error
	)
	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.err != nil {
			errs = append(errs, outcome.err)
			return
		}
		rendered = append(rendered, outcome.page)
	}

	job := renderJob{site: site, build: build, layout: layout, files: plan.Files, outputs: outputs}
	if err := s.renderAll(ctx, job, names, collect); err != nil {
		errs = append(errs, err)
	}
	sort.Slice(rendered, func(i, j int) bool { return rendered[i].Output < rendered[j].Output })
	sort.Slice(result.Diagnostics, func(i, j int) bool { return result.Diagnostics[i].Name < result.Diagnostics[j].Name })

	writer := s.writerFor(opts)
	if len(errs) == 0 {
		written, err := s.persistPages(ctx, writer, rendered)
		result.Written += written
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 && s.cfg.GenerateSitemap {
		if err := s.writeSitemap(ctx, writer, site, rendered, generatedAt); err != nil {
			errs = append(errs, err)
		} else {
			result.Written++
		}
	}

	if len(errs) == 0 && s.cfg.WriteManifest {
		manifest := newPaginationManifest(buildID, generatedAt, result.Chains)
		target, err := s.persistManifest(ctx, writer, manifest)
		if err != nil {
			errs = append(errs, err)
		} else {
			result.Manifest = target
			result.Written++
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)
	if len(errs) > 0 {
		result.Errors = append(result.Errors, errs...)
		logger.Error("generator.build.failed", "errors", len(errs))
		return result, errors.Join(errs...)
	}

	logger.Info("generator.build.completed",
		"files", result.Files,
		"chains", len(result.Chains),
		"rendered", len(result.Rendered),
		"written", result.Written,
		"dry_run", opts.DryRun,
		"duration", result.Duration,
	)
	return result, nil
}

func (s *service) renderAll(ctx context.Context, job renderJob, names []string, collect func(renderOutcome)) error {
	workers := s.effectiveWorkerCount(len(names))
	if workers <= 1 {
		for _, name := range names {
			if err := ctx.Err(); err != nil {
				return err
			}
			collect(s.renderPage(ctx, job, name))
		}
		return nil
	}

	queue := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range queue {
				collect(s.renderPage(ctx, job, name))
			}
		}()
	}

	for _, name := range names {
		select {
		case <-ctx.Done():
			close(queue)
			wg.Wait()
			return ctx.Err()
		case queue <- name:
		}
	}
	close(queue)
	wg.Wait()
	return nil
}

func (s *service) renderPage(ctx context.Context, job renderJob, name string) renderOutcome {
	doc := job.files[name]
	output := job.outputs[name]
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{Name: name, Output: output},
	}
	if err := ctx.Err(); err != nil {
		outcome.err = err
		outcome.diagnostic.Err = err
		return outcome
	}

	start := time.Now()
	body, err := s.deps.Content.RenderDocument(ctx, name, doc)
	if err != nil {
		outcome.err = fmt.Errorf("generator: render %s: %w", name, err)
		outcome.diagnostic.Err = outcome.err
		return outcome
	}

	html := string(body)
	if usesLayout(doc) {
		html, err = job.layout.render(TemplateContext{
			Site:  job.site,
			Page:  newPageView(name, doc, body, job),
			Build: job.build,
		})
		if err != nil {
			outcome.err = fmt.Errorf("generator: layout %s: %w", name, err)
			outcome.diagnostic.Err = outcome.err
			return outcome
		}
	}

	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	outcome.page = RenderedPage{
		Name:         name,
		Output:       output,
		Route:        routeFor(output),
		HTML:         html,
		LastModified: lastModified(doc),
		Duration:     duration,
	}
	if info, ok := doc.Pagination(); ok {
		outcome.page.Year = info.Year
	}
	return outcome
}

func (s *service) persistPages(ctx context.Context, writer ArtifactWriter, pages []RenderedPage) (int, error) {
	dirCache := map[string]struct{}{}
	written := 0
	for i := range pages {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		fullPath := pages[i].Output
		if err := ensureDir(ctx, writer, dirCache, path.Dir(fullPath)); err != nil {
			return written, err
		}
		pages[i].Checksum = computeHash([]byte(pages[i].HTML))

		req := WriteFileRequest{
			Path:        fullPath,
			Content:     []byte(pages[i].HTML),
			Category:    CategoryPage,
			ContentType: "text/html; charset=utf-8",
			Checksum:    pages[i].Checksum,
			Metadata: map[string]string{
				"source": pages[i].Name,
				"route":  pages[i].Route,
			},
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return written, fmt.Errorf("generator: write %s: %w", fullPath, err)
		}
		written++
	}
	return written, nil
}

func (s *service) writeSitemap(ctx context.Context, writer ArtifactWriter, site SiteMetadata, pages []RenderedPage, generatedAt time.Time) error {
	content := buildSitemap(site.BaseURL, pages, generatedAt)
	target := sitemapFileName
	if err := ensureDir(ctx, writer, nil, path.Dir(target)); err != nil {
		return err
	}
	return writer.WriteFile(ctx, WriteFileRequest{
		Path:        target,
		Content:     []byte(content),
		Category:    CategorySitemap,
		ContentType: "application/xml",
		Checksum:    computeHash([]byte(content)),
	})
}

func (s *service) persistManifest(ctx context.Context, writer ArtifactWriter, manifest *paginationManifest) (string, error) {
	data, err := manifest.marshal()
	if err != nil {
		return "", err
	}
	target := ManifestFileName
	if err := ensureDir(ctx, writer, nil, path.Dir(target)); err != nil {
		return "", err
	}
	err = writer.WriteFile(ctx, WriteFileRequest{
		Path:        target,
		Content:     data,
		Category:    CategoryManifest,
		ContentType: "application/json",
		Checksum:    computeHash(data),
		Metadata: map[string]string{
			"build_id": manifest.BuildID,
			"version":  fmt.Sprint(manifest.Version),
		},
	})
	if err != nil {
		return "", err
	}
	return target, nil
}

func (s *service) writerFor(opts BuildOptions) ArtifactWriter {
	if opts.DryRun || s.deps.Writer == nil {
		return noopWriter{}
	}
	return s.deps.Writer
}

func (s *service) effectiveWorkerCount(jobs int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if jobs > 0 && workers > jobs {
		return jobs
	}
	return workers
}

func ensureDir(ctx context.Context, writer ArtifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func lastModified(doc interfaces.Document) time.Time {
	if modified, ok := doc[markdown.AttrModified].(time.Time); ok {
		return modified
	}
	return time.Time{}
}
