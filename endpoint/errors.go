package endpoint

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is implemented by every error value that maps to a concrete HTTP
// status code. The dispatch package uses it as the single conversion point
// from surfaced errors to responses.
type Error interface {
	error
	StatusCode() int
}

type statusError struct {
	code int
	err  error
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: %v", http.StatusText(e.code), e.err)
}

func (e *statusError) StatusCode() int { return e.code }
func (e *statusError) Unwrap() error   { return e.err }

// Status wraps err with the given HTTP status code.
func Status(code int, err error) Error {
	return &statusError{code: code, err: err}
}

// BadRequest wraps err as a 400 class error.
func BadRequest(err error) Error {
	return Status(http.StatusBadRequest, err)
}

// NotFound wraps err as a hard 404 error, not eligible for Or fallthrough.
// For a recoverable routing mismatch use NotMatched instead.
func NotFound(err error) Error {
	return Status(http.StatusNotFound, err)
}

// InternalServerError wraps err as a 500 class error.
func InternalServerError(err error) Error {
	return Status(http.StatusInternalServerError, err)
}

// notMatchedError is the advisory error class: it signals that an endpoint
// does not match the request, without aborting the resolution. Only the Or
// combinators catch it, everything else propagates it unchanged.
type notMatchedError struct {
	code   int
	reason string
}

func (e *notMatchedError) Error() string   { return "not matched: " + e.reason }
func (e *notMatchedError) StatusCode() int { return e.code }

// NotMatched creates an advisory match failure. When it escapes to the
// dispatcher uncaught, it becomes a not found response.
func NotMatched(reason string) error {
	return &notMatchedError{code: http.StatusNotFound, reason: reason}
}

// NotMatchedStatus creates an advisory match failure carrying a specific
// status code, e.g. 400 for a failed segment conversion or 405 for a
// method mismatch.
func NotMatchedStatus(code int, reason string) error {
	return &notMatchedError{code: code, reason: reason}
}

// IsNotMatched reports whether err belongs to the advisory error class.
func IsNotMatched(err error) bool {
	var nm *notMatchedError
	return errors.As(err, &nm)
}

// StatusCodeOf extracts the HTTP status code associated with err, falling
// back to 500 for errors that do not carry one.
func StatusCodeOf(err error) int {
	var he Error
	if errors.As(err, &he) {
		return he.StatusCode()
	}

	return http.StatusInternalServerError
}

// Contract violation errors. These indicate a bug in the calling code, not
// a property of the request, and are never advisory.
var (
	ErrPreflightRepeated   = InternalServerError(errors.New("preflight called more than once"))
	ErrPollBeforePreflight = InternalServerError(errors.New("poll called before preflight"))
	ErrActionDone          = InternalServerError(errors.New("action polled after completion"))
)

// ErrBodyConsumed is returned when an endpoint attempts to take the request
// body after another endpoint already claimed it. It is terminal: by the
// time two endpoints compete for the body there is no meaningful fallback.
var ErrBodyConsumed = InternalServerError(errors.New("request body already consumed"))
