package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a malformed document or missing query text.
	ErrValidation = errors.New("validation error")

	// ErrDuplicateID indicates an id that is already indexed.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrEmbedding indicates text that cannot be encoded, e.g. invalid UTF-8.
	ErrEmbedding = errors.New("embedding error")

	// ErrUnsupportedFormat indicates an unknown report export format.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrDimensionMismatch indicates a vector whose length disagrees with the
	// index dimension. It signals a wiring bug and is never caught internally.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
