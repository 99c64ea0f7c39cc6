package backend

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload marks a request rejected by the contract before sending.
var ErrInvalidPayload = errors.New("backend: invalid payload")

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 512

// StatusError reports a non-2xx response.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend: %s: unexpected status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("backend: %s: unexpected status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
