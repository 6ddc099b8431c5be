package pagination

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-pagination/internal/yearly"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// DefaultSummaryLimit is the number of leading items per page flagged for
// summary display by the summary iteratee.
const DefaultSummaryLimit = 10

// Built-in iteratee names.
const (
	IterateeIdentity = "identity"
	IterateeIndexed  = "indexed"
	IterateeSummary  = "summary"
)

// Identity stores items unchanged.
var Identity interfaces.Iteratee = yearly.Identity

// IterateeOptions parameterises iteratee factories.
type IterateeOptions struct {
	SummaryLimit int
}

// IterateeFactory builds an iteratee from options.
type IterateeFactory func(IterateeOptions) interfaces.Iteratee

// SummaryItem wraps a post with its summary display flag.
type SummaryItem struct {
	Post             interfaces.Document `json:"post"`
	DisplayAsSummary bool                `json:"display_as_summary"`
}

var (
	iterateeMu sync.RWMutex
	iteratees  = map[string]IterateeFactory{
		IterateeIdentity: func(IterateeOptions) interfaces.Iteratee { return Identity },
		IterateeIndexed:  func(IterateeOptions) interfaces.Iteratee { return Indexed },
		IterateeSummary: func(opts IterateeOptions) interfaces.Iteratee {
			return Summary(opts.SummaryLimit)
		},
	}
)

// Indexed wraps each item as {"idx": index, "post": item}.
func Indexed(item interfaces.Document, index int) any {
	return map[string]any{
		"idx":  index,
		"post": item,
	}
}

// Summary flags the first limit items of every page for summary display.
// A non-positive limit falls back to DefaultSummaryLimit.
func Summary(limit int) interfaces.Iteratee {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}
	return func(item interfaces.Document, index int) any {
		return SummaryItem{
			Post:             item,
			DisplayAsSummary: index < limit,
		}
	}
}

// RegisterIteratee adds or replaces a named iteratee factory.
func RegisterIteratee(name string, factory IterateeFactory) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || factory == nil {
		return fmt.Errorf("pagination: iteratee name and factory are required")
	}
	iterateeMu.Lock()
	defer iterateeMu.Unlock()
	iteratees[name] = factory
	return nil
}

// LookupIteratee resolves a registered iteratee. An empty name resolves to identity.
func LookupIteratee(name string, opts IterateeOptions) (interfaces.Iteratee, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = IterateeIdentity
	}
	iterateeMu.RLock()
	factory, ok := iteratees[name]
	iterateeMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIteratee, name)
	}
	return factory(opts), nil
}

// IterateeNames lists the registered iteratees in name order.
func IterateeNames() []string {
	iterateeMu.RLock()
	defer iterateeMu.RUnlock()
	names := make([]string, 0, len(iteratees))
	for name := range iteratees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PostDocument unwraps the document carried by a value produced by one of the
// built-in iteratees.
func PostDocument(post any) (interfaces.Document, bool) {
	switch v := post.(type) {
	case interfaces.Document:
		return v, v != nil
	case SummaryItem:
		return v.Post, v.Post != nil
	case *SummaryItem:
		if v == nil {
			return nil, false
		}
		return v.Post, v.Post != nil
	case map[string]any:
		if doc, ok := v["post"].(interfaces.Document); ok {
			return doc, doc != nil
		}
		return interfaces.Document(v), true
	default:
		return nil, false
	}
}
