package domain

import "fmt"

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindRateLimited
	KindTimeout
	KindUnavailable
)

// Error is the domain error type. Class sentinels (ErrValidation, ErrNotFound, ...)
// carry no message and match any Error of the same Kind through errors.Is.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is lets errors.Is(err, ErrNotFound) match every not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return t.Kind == e.Kind
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation failed"
	case KindAuthentication:
		return "authentication required"
	case KindAuthorization:
		return "access forbidden"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "too many requests"
	case KindTimeout:
		return "store timeout"
	case KindUnavailable:
		return "store unavailable"
	default:
		return "unknown error"
	}
}

// Class sentinels.
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrUnauthenticated  = &Error{Kind: KindAuthentication}
	ErrForbidden        = &Error{Kind: KindAuthorization}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrRateLimited      = &Error{Kind: KindRateLimited}
	ErrStoreTimeout     = &Error{Kind: KindTimeout}
	ErrStoreUnavailable = &Error{Kind: KindUnavailable}
)

var (
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Message: "invalid credentials"}
	ErrMissingToken       = &Error{Kind: KindAuthentication, Message: "missing token"}
	ErrInvalidToken       = &Error{Kind: KindAuthentication, Message: "invalid or expired token"}

	ErrRoleNotPermitted = &Error{Kind: KindAuthorization, Message: "role not permitted"}
	ErrNotOwner         = &Error{Kind: KindAuthorization, Message: "not the owner of this resource"}

	ErrAccountNotFound    = &Error{Kind: KindNotFound, Message: "account not found"}
	ErrBabysitterNotFound = &Error{Kind: KindNotFound, Message: "babysitter not found"}
	ErrBookingNotFound    = &Error{Kind: KindNotFound, Message: "booking not found"}

	ErrEmailTaken        = &Error{Kind: KindConflict, Message: "email already registered"}
	ErrInvalidTransition = &Error{Kind: KindConflict, Message: "invalid status transition"}
	ErrStatusChanged     = &Error{Kind: KindConflict, Message: "booking status was changed concurrently"}

	ErrTooManyAttempts = &Error{Kind: KindRateLimited, Message: "too many login attempts, try again later"}
)

// Validation builds a ValidationError with a formatted message.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}
