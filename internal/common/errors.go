// Package common defines shared constants and sentinel errors used across
// CAJ-Pro components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control). ErrorInternal is
	// what callers see when the store fails; the detailed cause is logged
	// server-side and never included in the message.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrorInvalidArgument covers request payloads that fail validation;
	// wrap it with a field-specific message.
	ErrorInvalidArgument = errors.New("invalid argument")

	// Registration validation errors.
	ErrDuplicateEmail = errors.New("email already registered")
	ErrWeakPassword   = errors.New("password does not meet the minimum length policy")
	ErrInvalidEmail   = errors.New("invalid email address")

	// Login error. Deliberately covers both "no such user" and "wrong
	// password" so the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
