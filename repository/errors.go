package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row for the tenant.
var ErrNotFound = errors.New("not found")
