package github

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidUsername is returned for names GitHub would never accept.
	ErrInvalidUsername = errors.New("invalid GitHub username")

	// ErrDecode is returned when an upstream body is not the expected JSON.
	ErrDecode = errors.New("failed to decode response")
)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// NotFound reports whether the upstream answered 404.
func (e *StatusError) NotFound() bool {
	return e.StatusCode == 404
}
