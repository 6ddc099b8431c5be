package pagination

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrFilesRequired indicates Paginate was called without a files map.
	ErrFilesRequired = errors.New("pagination: files map is required")
	// ErrMetadataRequired indicates no metadata provider was supplied.
	ErrMetadataRequired = errors.New("pagination: metadata provider is required")
	// ErrCollectionNotFound indicates an anchor names a collection the metadata does not hold.
	ErrCollectionNotFound = errors.New("pagination: collection not found")
	// ErrInvalidPaginate indicates the paginate attribute is not a string.
	ErrInvalidPaginate = errors.New("pagination: paginate attribute must be a collection name")
	// ErrUnknownIteratee indicates LookupIteratee received an unregistered name.
	ErrUnknownIteratee = errors.New("pagination: unknown iteratee")
)

const (
	collectionNotFoundCode = "PAGINATION_COLLECTION_NOT_FOUND"
	invalidPaginateCode    = "PAGINATION_INVALID_ATTRIBUTE"
	invalidOptionsCode     = "PAGINATION_INVALID_OPTIONS"
	chainFailedCode        = "PAGINATION_CHAIN_FAILED"
)

func collectionNotFound(anchor, collection string) error {
	return goerrors.Wrap(
		fmt.Errorf("%w: %q (anchor %s)", ErrCollectionNotFound, collection, anchor),
		goerrors.CategoryNotFound,
		"paginated collection is not defined",
	).WithTextCode(collectionNotFoundCode)
}

func invalidPaginate(anchor string, value any) error {
	return goerrors.Wrap(
		fmt.Errorf("%w: %s has %T", ErrInvalidPaginate, anchor, value),
		goerrors.CategoryValidation,
		"paginate attribute is invalid",
	).WithTextCode(invalidPaginateCode)
}

func invalidOptions(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "pagination options are invalid").
		WithTextCode(invalidOptionsCode)
}

func chainFailed(anchor string, err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(
		fmt.Errorf("pagination: anchor %s: %w", anchor, err),
		goerrors.CategoryCommand,
		"yearly chain could not be built",
	).WithTextCode(chainFailedCode)
}
