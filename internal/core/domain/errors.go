package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories the customer core reports.
type ErrorKind string

const (
	KindNone                   ErrorKind = ""
	KindUnauthenticated        ErrorKind = "unauthenticated"
	KindForbidden              ErrorKind = "forbidden"
	KindNotFound               ErrorKind = "not_found"
	KindHasDependents          ErrorKind = "has_dependents"
	KindUnsupportedImageFormat ErrorKind = "unsupported_image_format"
	KindInvalidSortDirection   ErrorKind = "invalid_sort_direction"
	KindValidation             ErrorKind = "validation_failure"
	KindInternal               ErrorKind = "internal"
)

// ErrAuthorization is the umbrella for both authorization causes. Callers that
// do not care about the cause match on it; logs and metrics use KindOf.
var ErrAuthorization = errors.New("access denied")

var (
	ErrUnauthenticated        = fmt.Errorf("%w: unauthenticated", ErrAuthorization)
	ErrForbidden              = fmt.Errorf("%w: forbidden", ErrAuthorization)
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrHasDependents          = errors.New("customer has related orders and cannot be deleted")
	ErrUnsupportedImageFormat = errors.New("unsupported image format")
	ErrInvalidSortDirection   = errors.New("invalid sort direction")
	ErrValidation             = errors.New("validation failure")
)

// Raised by repositories only; the service translates them before they leave the core.
var (
	ErrIntegrityViolation = errors.New("integrity violation")
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrValidation)
	ErrInvalidSortField   = fmt.Errorf("%w: unknown sort field", ErrValidation)
)

// ErrInvalidCredentials is returned by login when the email/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// KindOf classifies err into its ErrorKind. Unknown errors are KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrCustomerNotFound):
		return KindNotFound
	case errors.Is(err, ErrHasDependents):
		return KindHasDependents
	case errors.Is(err, ErrUnsupportedImageFormat):
		return KindUnsupportedImageFormat
	case errors.Is(err, ErrInvalidSortDirection):
		return KindInvalidSortDirection
	case errors.Is(err, ErrValidation):
		return KindValidation
	default:
		return KindInternal
	}
}
