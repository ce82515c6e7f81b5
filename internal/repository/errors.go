package repository

import "errors"

// ErrNotFound is returned when no row matches a lookup; the embedding cache
// treats it as a miss.
var ErrNotFound = errors.New("repository: not found")
