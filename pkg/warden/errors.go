package warden

import (
	"context"
	"errors"
	"net"
)

// APIError is the single failure shape every Client operation returns.
// Callers branch on fields rather than on distinct error types:
//
//   - StatusCode > 0: the backend answered with a failure status. Message is
//     the backend's own explanation when it sent one.
//   - StatusCode == 0: no usable response. Either the request never completed
//     (timeout, connection failure) or a success response violated the
//     expected shape (missing token, malformed profile).
type APIError struct {
	// Message is ready for display to an end user.
	Message string
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	// RawBody is the unparsed response body, when one was read.
	RawBody string
	// Details is the decoded JSON object from the response body, when the
	// backend sent one. Field-level validation feedback lives here.
	Details map[string]any

	cause error
}

func (e *APIError) Error() string { return e.Message }

// Unwrap exposes the underlying transport or decode error so callers can use
// errors.Is against context.DeadlineExceeded and friends.
func (e *APIError) Unwrap() error { return e.cause }

// isTimeout reports whether err represents an elapsed deadline rather than a
// connection-level failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// newTransportError classifies a failure that happened before any response
// was received. The two messages are stable: callers and tests match on them.
func newTransportError(err error) *APIError {
	if isTimeout(err) {
		return &APIError{Message: "Request timed out. Please try again.", cause: err}
	}
	return &APIError{Message: "Network error. Check your connection.", cause: err}
}

// transportLabel is the metrics status label for a failed round-trip.
func transportLabel(err error) string {
	if isTimeout(err) {
		return "timeout"
	}
	return "network_error"
}
