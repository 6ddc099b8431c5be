// Package pagination finds the documents that request yearly pagination and
// builds one chain of year pages per anchor.
package pagination

import (
	"sort"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-pagination/internal/logging"
	"github.com/goliatone/go-pagination/internal/yearly"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// Result summarises one Paginate call.
type Result struct {
	Chains []*yearly.Chain
	// Skipped lists anchors whose collection had no dated items.
	Skipped []string
}

// Pages returns every page name across all chains, anchors included.
func (r *Result) Pages() []string {
	if r == nil {
		return nil
	}
	var pages []string
	for _, chain := range r.Chains {
		pages = append(pages, chain.Pages...)
	}
	return pages
}

// Created counts the year pages added to the files map.
func (r *Result) Created() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, chain := range r.Chains {
		total += len(chain.Created)
	}
	return total
}

// Service paginates collections by year.
type Service struct {
	opts   Options
	logger interfaces.Logger
}

// NewService validates opts and resolves their defaults.
func NewService(opts Options, logger interfaces.Logger) (*Service, error) {
	if err := opts.Validate(); err != nil {
		return nil, invalidOptions(err)
	}
	return &Service{
		opts:   opts.withDefaults(),
		logger: logging.Ensure(logger),
	}, nil
}

// Options returns the resolved options.
func (s *Service) Options() Options {
	return s.opts
}

type anchorPlan struct {
	name       string
	collection string
	basePath   string
	buckets    []yearly.Bucket
}

// Paginate processes every document whose paginate attribute names a
// collection. Anchors are resolved, bucketed and cloned before any document
// is touched, so configuration and clone errors leave files unchanged.
// Anchors are handled in name order; pages generated during the call are
// never treated as anchors.
func (s *Service) Paginate(files interfaces.Files, metadata interfaces.MetadataProvider) (*Result, error) {
	if files == nil {
		return nil, ErrFilesRequired
	}
	if metadata == nil {
		return nil, ErrMetadataRequired
	}
	collections := metadata.Collections()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	plans := make([]anchorPlan, 0)
	result := &Result{}
	for _, name := range names {
		doc := files[name]
		raw, ok := doc[interfaces.AttrPaginate]
		if !ok || raw == nil {
			continue
		}
		collection, ok := raw.(string)
		if !ok {
			return nil, invalidPaginate(name, raw)
		}
		collection = strings.TrimSpace(collection)
		if collection == "" {
			continue
		}

		items, ok := collections[collection]
		if !ok {
			return nil, collectionNotFound(name, collection)
		}

		logger := logging.WithAnchorContext(s.logger, name, collection)
		buckets := yearly.BucketByYear(items,
			yearly.WithLocation(s.opts.Location),
			yearly.WithDateKey(s.opts.DateKey),
		)
		if len(buckets) == 0 {
			logger.Debug("pagination.anchor.skipped", "reason", "no dated items", "items", len(items))
			result.Skipped = append(result.Skipped, name)
			continue
		}

		basePath, err := s.BasePath(collection)
		if err != nil {
			return nil, invalidOptions(err)
		}
		plans = append(plans, anchorPlan{
			name:       name,
			collection: collection,
			basePath:   basePath,
			buckets:    buckets,
		})
	}

	prepared := make([]*yearly.PreparedChain, 0, len(plans))
	for _, plan := range plans {
		logger := logging.WithAnchorContext(s.logger, plan.name, plan.collection)
		chain, err := yearly.PrepareChain(yearly.ChainRequest{
			Files:    files,
			Anchor:   plan.name,
			Buckets:  plan.buckets,
			BasePath: plan.basePath,
			Iteratee: s.opts.Iteratee,
			Logger:   logger,
		})
		if err != nil {
			logger.Error("pagination.anchor.failed", "error", err)
			return result, chainFailed(plan.name, err)
		}
		prepared = append(prepared, chain)
	}

	for i, chain := range prepared {
		plan := plans[i]
		built := chain.Commit()
		logging.WithAnchorContext(s.logger, plan.name, plan.collection).
			Info("pagination.anchor.paginated", "years", built.Years, "pages", len(built.Pages))
		result.Chains = append(result.Chains, built)
	}

	return result, nil
}

// Run paginates and reports completion through done, which is invoked exactly
// once after every anchor has been processed. done receives nil on success.
func (s *Service) Run(files interfaces.Files, metadata interfaces.MetadataProvider, done func(error)) {
	_, err := s.Paginate(files, metadata)
	if done != nil {
		done(err)
	}
}

// BasePath expands the configured path template for collection. An empty
// template yields an empty base so page names derive from the anchor.
func (s *Service) BasePath(collection string) (string, error) {
	if s.opts.Path == "" {
		return "", nil
	}
	if !strings.Contains(s.opts.Path, CollectionPlaceholder) {
		return s.opts.Path, nil
	}
	value := collection
	if s.opts.SlugCollection {
		normalized, err := slug.Normalize(collection)
		if err != nil {
			return "", err
		}
		if normalized != "" {
			value = normalized
		}
	}
	return strings.ReplaceAll(s.opts.Path, CollectionPlaceholder, value), nil
}
