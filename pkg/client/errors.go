package client

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionUnresolved is returned by protected calls made before Session.Resolve.
	ErrSessionUnresolved = errors.New("client: session not resolved")
	// ErrNotAuthenticated is returned by protected calls made while anonymous.
	ErrNotAuthenticated = errors.New("client: not authenticated")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
