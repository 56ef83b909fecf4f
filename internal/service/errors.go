package service

import (
	"errors"
	"fmt"
)

// Outcome classes. Handlers map each to exactly one HTTP status; everything
// that matches none of them is an internal error.
var (
	// ErrValidation marks user-correctable input problems (400).
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated covers every reason a caller has no usable identity (401).
	ErrUnauthenticated = errors.New("could not validate credentials")
	// ErrForbidden means the identity is valid but lacks the required scope (403).
	ErrForbidden = errors.New("not enough permissions")
	// ErrNotFound is returned when an admin operation targets an unknown account (404).
	ErrNotFound = errors.New("user not found")
)

// Specific causes, each matching one of the classes above.
var (
	ErrDuplicateEmail  = fmt.Errorf("%w: email already registered", ErrValidation)
	ErrBadCredentials  = fmt.Errorf("%w: incorrect email or password", ErrUnauthenticated)
	ErrAccountNotFound = fmt.Errorf("%w: account no longer exists", ErrUnauthenticated)
	ErrAccountInactive = fmt.Errorf("%w: inactive account", ErrUnauthenticated)
	ErrMissingToken    = fmt.Errorf("%w: missing bearer token", ErrUnauthenticated)
)
