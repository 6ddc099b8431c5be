package interfaces

// Well known document attributes shared by the loader, the paginator and the
// generator.
const (
	AttrPaginate   = "paginate"
	AttrPagination = "pagination"
	AttrDate       = "date"
	AttrContents   = "contents"
	AttrCollection = "collection"
	AttrPath       = "path"
	AttrTitle      = "title"
)

// Document is a named record flowing through the build pipeline. Attributes are
// free form; binary payloads (file bodies) are stored as []byte values.
type Document map[string]any

// Files maps slash separated document names to documents. The map owns every
// document it holds; references stored inside PageInfo never do.
type Files map[string]Document

// Collections maps a collection name to its ordered items.
type Collections map[string][]Document

// MetadataProvider supplies the named collections a pipeline step can read.
type MetadataProvider interface {
	Collections() Collections
}

// Collections lets a plain collection map act as its own provider.
func (c Collections) Collections() Collections {
	return c
}

// Iteratee transforms a paginated item before it is stored in PageInfo.Posts.
// index is the item's position within its year bucket.
type Iteratee func(item Document, index int) any

// PageInfo is attached to every year page under the "pagination" attribute.
type PageInfo struct {
	Year  int   `json:"year"`
	Posts []any `json:"-"`
	// Prev references the newer adjacent page; nil on the first page.
	Prev Document `json:"-"`
	// Next references the older adjacent page; nil on the last page.
	Next     Document `json:"-"`
	PrevName string   `json:"prev,omitempty"`
	NextName string   `json:"next,omitempty"`
}

// HasPrev reports whether a newer page exists.
func (p *PageInfo) HasPrev() bool {
	return p != nil && p.Prev != nil
}

// HasNext reports whether an older page exists.
func (p *PageInfo) HasNext() bool {
	return p != nil && p.Next != nil
}

// Pagination returns the page info attached to the document, if any.
func (d Document) Pagination() (*PageInfo, bool) {
	if d == nil {
		return nil, false
	}
	info, ok := d[AttrPagination].(*PageInfo)
	if !ok || info == nil {
		return nil, false
	}
	return info, true
}

// String returns the attribute as a string when it holds one.
func (d Document) String(key string) string {
	if d == nil {
		return ""
	}
	value, _ := d[key].(string)
	return value
}

// Contents returns the document body.
func (d Document) Contents() []byte {
	if d == nil {
		return nil
	}
	switch body := d[AttrContents].(type) {
	case []byte:
		return body
	case string:
		return []byte(body)
	default:
		return nil
	}
}
