// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors. For example, ErrEmailExists maps
// a MySQL duplicate-key violation on users.email into something the
// registration handler can translate into a client error, while
// ErrBookNotFound covers both a missing row and a deleted record.
package repository

import "errors"

// ErrEmailExists is returned when an insert into the users table hits
// the unique index on the email column. Uniqueness is enforced by the
// store, not pre-checked, so this error only surfaces after a
// persistence attempt.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user row matches the requested
// email or id.
var ErrUserNotFound = errors.New("user not found")

// ErrBookNotFound is returned when no book row matches the requested
// id. Handlers translate this into an HTTP 404 response.
var ErrBookNotFound = errors.New("book not found")
