package yearly

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-pagination/internal/clone"
	"github.com/goliatone/go-pagination/internal/logging"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

var (
	// ErrNoBuckets is returned when BuildChain receives nothing to paginate.
	ErrNoBuckets = errors.New("yearly: no year buckets to chain")
	// ErrAnchorNotFound is returned when the anchor name is missing from the files map.
	ErrAnchorNotFound = errors.New("yearly: anchor document not found")
	// ErrFilesRequired is returned when no files map is supplied.
	ErrFilesRequired = errors.New("yearly: files map is required")
)

// ChainRequest describes a single anchor to paginate.
type ChainRequest struct {
	Files    interfaces.Files
	Anchor   string
	Buckets  []Bucket
	BasePath string
	Iteratee interfaces.Iteratee
	Logger   interfaces.Logger
}

// Chain reports the pages produced for one anchor, newest year first.
type Chain struct {
	Anchor      string
	Pages       []string
	Years       []int
	Created     map[string]interfaces.Document
	Overwritten []string
}

// Identity is the default iteratee; it stores items unchanged.
func Identity(item interfaces.Document, _ int) any {
	return item
}

// PreparedChain holds the cloned pages of an anchor that has not been
// committed yet. Preparing never touches the files map or the anchor.
type PreparedChain struct {
	req    ChainRequest
	anchor interfaces.Document
	pages  []interfaces.Document
	names  []string
}

// BuildChain attaches year pagination to the anchor and creates one page per
// additional year. It is PrepareChain followed by Commit.
func BuildChain(req ChainRequest) (*Chain, error) {
	prepared, err := PrepareChain(req)
	if err != nil {
		return nil, err
	}
	return prepared.Commit(), nil
}

// PrepareChain validates req and clones the anchor once per additional year.
// A clone failure leaves files and anchor untouched.
func PrepareChain(req ChainRequest) (*PreparedChain, error) {
	if req.Files == nil {
		return nil, ErrFilesRequired
	}
	if len(req.Buckets) == 0 {
		return nil, ErrNoBuckets
	}
	anchor, ok := req.Files[req.Anchor]
	if !ok || anchor == nil {
		return nil, fmt.Errorf("%w: %s", ErrAnchorNotFound, req.Anchor)
	}
	if req.Iteratee == nil {
		req.Iteratee = Identity
	}
	if req.Logger == nil {
		req.Logger = logging.NoOp()
	}

	pages := make([]interfaces.Document, len(req.Buckets))
	names := make([]string, len(req.Buckets))
	pages[0], names[0] = anchor, req.Anchor
	for i := 1; i < len(req.Buckets); i++ {
		page, err := clone.Document(anchor, []string{interfaces.AttrPagination})
		if err != nil {
			return nil, fmt.Errorf("yearly: clone anchor %s: %w", req.Anchor, err)
		}
		pages[i] = page
		names[i] = PageName(req.Anchor, req.BasePath, req.Buckets[i].Year)
	}

	return &PreparedChain{req: req, anchor: anchor, pages: pages, names: names}, nil
}

// Commit links the prepared pages and inserts them into the files map.
func (p *PreparedChain) Commit() *Chain {
	req := p.req
	chain := &Chain{
		Anchor:  req.Anchor,
		Pages:   p.names,
		Years:   Years(req.Buckets),
		Created: make(map[string]interfaces.Document, len(req.Buckets)-1),
	}

	first := req.Buckets[0]
	p.anchor[interfaces.AttrPagination] = &interfaces.PageInfo{
		Year:  first.Year,
		Posts: mapItems(first.Items, req.Iteratee),
	}

	prev, prevName := p.anchor, req.Anchor
	for i := 1; i < len(req.Buckets); i++ {
		bucket := req.Buckets[i]
		page, name := p.pages[i], p.names[i]

		page[interfaces.AttrPagination] = &interfaces.PageInfo{
			Year:     bucket.Year,
			Posts:    mapItems(bucket.Items, req.Iteratee),
			Prev:     prev,
			PrevName: prevName,
		}

		info, _ := prev.Pagination()
		info.Next = page
		info.NextName = name

		if _, exists := req.Files[name]; exists {
			req.Logger.Warn("pagination.page.overwrite", "anchor", req.Anchor, "page", name, "year", bucket.Year)
			chain.Overwritten = append(chain.Overwritten, name)
		}
		req.Files[name] = page
		chain.Created[name] = page

		prev, prevName = page, name
	}

	req.Logger.Debug("pagination.chain.built", "anchor", req.Anchor, "pages", len(p.names), "years", chain.Years)
	return chain
}

func mapItems(items []interfaces.Document, iteratee interfaces.Iteratee) []any {
	posts := make([]any, 0, len(items))
	for idx, item := range items {
		posts = append(posts, iteratee(item, idx))
	}
	return posts
}
