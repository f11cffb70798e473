// Package repository implements MySQL persistence for users and contacts.
// Sentinel errors let handlers translate failure scenarios into HTTP
// statuses without inspecting error strings.
package repository

import "errors"

// ErrEmailExists is returned when signup reuses an existing email.
// Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a user, token or contact lookup matches no
// row. Handlers translate this into HTTP 404 (or 401 on auth paths).
var ErrNotFound = errors.New("not found")

// ErrAlreadyVerified is returned when a verification token is redeemed for
// a user whose account is already verified. Handlers translate this into
// HTTP 400; the account state is left untouched.
var ErrAlreadyVerified = errors.New("already verified")
