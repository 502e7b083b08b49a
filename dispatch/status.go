package dispatch

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors understood by the status mapper.
var (
	// ErrInvalidArgument marks handler failures caused by malformed caller
	// input; the mapper turns it into 400 Bad Request.
	ErrInvalidArgument = errors.New("dispatch: invalid argument")

	// ErrNoSuchElement marks lookups of required elements that are absent,
	// also mapped to 400 Bad Request.
	ErrNoSuchElement = errors.New("dispatch: no such element")

	// ErrChainExhausted is returned by Chain.Next once no routes remain.
	ErrChainExhausted = errors.New("dispatch: route chain exhausted")

	// ErrCommitted is returned when an operation needs an uncommitted
	// response but bytes are already on the wire.
	ErrCommitted = errors.New("dispatch: response already committed")
)

// HTTPError is a failure carrying an explicit HTTP status. Handlers return
// or wrap one to choose the response status; the synthetic fallback routes
// use it for their 404, 405, 406 and 415 outcomes.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

// NewHTTPError builds an HTTPError from a status code and a diagnostic
// message.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// Error renders the status line together with the diagnostic message.
func (e *HTTPError) Error() string {
	reason := Reason(e.Status)
	switch {
	case e.Message != "":
		return fmt.Sprintf("%d %s: %s", e.Status, reason, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%d %s: %v", e.Status, reason, e.Err)
	default:
		return fmt.Sprintf("%d %s", e.Status, reason)
	}
}

// Unwrap exposes the wrapped cause for errors.Is and errors.As.
func (e *HTTPError) Unwrap() error { return e.Err }

// Reason returns the canonical reason phrase for a status code, per RFC
// 7231 Section 6.1, or a generic phrase for unassigned codes.
func Reason(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}
