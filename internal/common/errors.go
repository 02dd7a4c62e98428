// Package common defines shared constants and sentinel errors used across
// the storage, service and transport layers. Callers should wrap these with
// fmt.Errorf("%w: ...") and match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("already exists")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
	ErrValidation = errors.New("validation error")
	ErrStorage    = errors.New("storage error")

	// Access control errors.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Token errors. Both are reported to clients as authentication failures.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
