package repository

import "errors"

// ErrNotFound is returned when a required row does not exist, including
// updates and deletes that affected zero rows.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness
// constraint.
var ErrDuplicate = errors.New("duplicate")
