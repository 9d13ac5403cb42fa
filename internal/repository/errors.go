package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
// The current schema defines no unique index beyond the primary key, so
// this only fires if one is added later.
var ErrDuplicate = errors.New("duplicate entry")
