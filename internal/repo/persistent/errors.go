package persistent

import "errors"

var (
	// ErrNotFound is returned when no row matches the given id or slug.
	ErrNotFound = errors.New("record not found")

	// ErrSlugTaken is returned when a create races another create to the
	// same slug and loses on the unique constraint. The use case layer
	// retries slug generation once on this error.
	ErrSlugTaken = errors.New("slug already taken")
)
