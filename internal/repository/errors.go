// Package repository defines error types that are reused across the account
// store implementations. These sentinel values allow higher layers such as
// the service to distinguish between different failure scenarios without
// knowing which database driver produced them.
package repository

import "errors"

// ErrNotFound is returned when no account matches the lookup key.
// The service translates this into an HTTP 404 for admin operations and
// into an authentication failure everywhere else.
var ErrNotFound = errors.New("account not found")

// ErrEmailExists is returned when an insert violates the unique index on
// accounts.email. Both MySQL (1062) and SQLite unique-constraint errors map
// to it.
var ErrEmailExists = errors.New("email already exists")
