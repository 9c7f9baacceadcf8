package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = fmt.Errorf("authentication required")
	ErrForbidden          = fmt.Errorf("operation not allowed")
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrNotFound           = fmt.Errorf("not found")
	ErrDuplicateKey       = fmt.Errorf("duplicate key")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
)

// Kind classifies a failure for the API boundary.
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInvalidInput Kind = "invalid_input"
	KindNotFound     Kind = "not_found"
	KindDuplicateKey Kind = "duplicate_key"
	KindInternal     Kind = "internal"
)

// KindOf maps an error chain to its Kind. Unknown errors are internal:
// their message must not leak to clients.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidPassword):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrDuplicateKey):
		return KindDuplicateKey
	default:
		return KindInternal
	}
}
