package services

import "errors"

var (
	// ErrInvalidEnumValue means a catalog entity carries a value outside a closed enumeration.
	ErrInvalidEnumValue = errors.New("invalid enum value")

	// ErrMissingOwner means a document was projected without its owning API or API product.
	ErrMissingOwner = errors.New("document owner is missing")

	// ErrEntityNotFound is returned by a CatalogStore when an indexed entity no longer exists.
	ErrEntityNotFound = errors.New("catalog entity not found")
)
