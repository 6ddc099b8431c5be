// Package collections groups loaded documents into the named collections the
// paginator reads from.
package collections

import (
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-pagination/internal/dates"
	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// SortByDate orders collection items by their date attribute.
const SortByDate = "date"

// Options controls collection ordering.
type Options struct {
	// SortBy is either empty (file name order) or "date".
	SortBy string
	// Reverse flips the order. With date sorting this yields newest first and
	// only the dated items move; undated items stay last in name order.
	Reverse bool
	// Location resolves dates without an explicit offset. Defaults to UTC.
	Location *time.Location
	// DateKey names the date attribute. Defaults to "date".
	DateKey string
}

// Build groups files by their "collection" attribute, which may hold a single
// name or a list of names. Documents are shared, never copied or mutated.
func Build(files interfaces.Files, opts Options) interfaces.Collections {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	dateKey := opts.DateKey
	if strings.TrimSpace(dateKey) == "" {
		dateKey = interfaces.AttrDate
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	out := interfaces.Collections{}
	for _, name := range names {
		doc := files[name]
		for _, collection := range Names(doc) {
			out[collection] = append(out[collection], doc)
		}
	}

	for _, items := range out {
		if opts.SortBy != SortByDate {
			if opts.Reverse {
				reverse(items)
			}
			continue
		}
		dated := sortByDate(items, dateKey, loc)
		if opts.Reverse {
			reverse(items[:dated])
		}
	}
	return out
}

// Names returns the collections a document belongs to.
func Names(doc interfaces.Document) []string {
	if doc == nil {
		return nil
	}
	var names []string
	add := func(value string) {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	switch v := doc[interfaces.AttrCollection].(type) {
	case string:
		add(v)
	case []string:
		for _, item := range v {
			add(item)
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	}
	return names
}

// sortByDate orders dated items oldest first and returns how many there are.
// Undated items follow in their existing order.
func sortByDate(items []interfaces.Document, key string, loc *time.Location) int {
	dated := 0
	for _, item := range items {
		if _, ok := dates.Parse(item[key], loc); ok {
			dated++
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		left, lok := dates.Parse(items[i][key], loc)
		right, rok := dates.Parse(items[j][key], loc)
		switch {
		case lok && rok:
			return left.Before(right)
		case lok:
			return true
		default:
			return false
		}
	})
	return dated
}

func reverse(items []interfaces.Document) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
