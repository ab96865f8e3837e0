package catalog

import "errors"

// Errors returned by Store operations.
var (
	// ErrDuplicateSection indicates a section with that name already exists.
	ErrDuplicateSection = errors.New("section already exists")

	// ErrEmptyName indicates a blank section name.
	ErrEmptyName = errors.New("name is empty")

	// ErrSectionNotFound indicates no section has that name.
	ErrSectionNotFound = errors.New("section not found")

	// ErrEntryNotFound indicates no entry in the section has that name.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInvalidText indicates a field the catalog text format cannot hold:
	// a line break, the field separator, or a formula starting with a line
	// marker.
	ErrInvalidText = errors.New("text cannot be stored in the catalog")
)
