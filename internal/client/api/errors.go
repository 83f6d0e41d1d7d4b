package api

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response with a structured error body. Message holds
// the server-provided text, or a generic fallback when the body could not be
// parsed.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
}
