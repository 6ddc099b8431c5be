package pagination

import (
	"path"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-pagination/pkg/interfaces"
)

// CollectionPlaceholder is replaced with the collection name in Options.Path.
const CollectionPlaceholder = ":collection"

// Options configures the paginator. Defaults are resolved once by NewService.
type Options struct {
	// Path is the base name template for generated pages, e.g. ":collection/page".
	// Empty derives names from the anchor document.
	Path string
	// Iteratee transforms each item before it is stored in PageInfo.Posts.
	Iteratee interfaces.Iteratee
	// SlugCollection slugifies the collection name before substituting it into Path.
	SlugCollection bool
	// Location is used for epoch dates and dates without an offset. Defaults to UTC.
	Location *time.Location
	// DateKey names the item attribute holding the date. Defaults to "date".
	DateKey string
}

// Validate checks the path template and date key.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Path, validation.By(func(value any) error {
			raw, _ := value.(string)
			raw = strings.TrimSpace(raw)
			if raw == "" {
				return nil
			}
			if strings.HasPrefix(raw, "/") || strings.HasSuffix(raw, "/") {
				return validation.NewError("pagination.options.path_invalid", "path must be relative and name a file base")
			}
			for _, segment := range strings.Split(raw, "/") {
				if segment == ".." {
					return validation.NewError("pagination.options.path_escape", "path must not leave the content root")
				}
			}
			return nil
		})),
		validation.Field(&o.DateKey, validation.By(func(value any) error {
			raw, _ := value.(string)
			if raw != "" && strings.TrimSpace(raw) == "" {
				return validation.NewError("pagination.options.date_key_blank", "date key must not be blank")
			}
			return nil
		})),
	)
}

func (o Options) withDefaults() Options {
	o.Path = strings.TrimSpace(o.Path)
	if o.Path != "" {
		o.Path = path.Clean(o.Path)
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if strings.TrimSpace(o.DateKey) == "" {
		o.DateKey = interfaces.AttrDate
	}
	if o.Iteratee == nil {
		o.Iteratee = Identity
	}
	return o
}
