// ABOUTME: Typed error taxonomy for the request executor
// ABOUTME: Distinguishes network-level failures from non-2xx HTTP responses

package transport

import (
	"errors"
	"fmt"
)

// TransportError wraps a network-level failure: the request never produced
// an HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError represents a non-2xx response from the service. Body holds the
// response payload for status-specific messaging ("Conversation not found"
// detection and the like).
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an
// HTTPError.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}
