package openrouter

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorKind classifies an Error.
type ErrorKind string

const (
	KindAuth       ErrorKind = "auth"
	KindTimeout    ErrorKind = "timeout"
	KindHTTP       ErrorKind = "http"
	KindNetwork    ErrorKind = "network"
	KindValidation ErrorKind = "validation"
	KindSchema     ErrorKind = "schema"
	KindAborted    ErrorKind = "aborted"
	KindConfig     ErrorKind = "config"
	KindUnknown    ErrorKind = "unknown"
)

// Error is returned by every Client operation. It is built once, where the
// failure happens, and callers switch on Kind.
type Error struct {
	Kind    ErrorKind
	Message string
	// Status is the upstream HTTP status, zero when no response was received.
	Status int
	// RetryAfter is the upstream Retry-After hint, zero when absent.
	RetryAfter time.Duration
	// Details carries schema validation output or the upstream error body.
	Details any
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("openrouter %s error: %s", e.Kind, e.Message)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt may succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindNetwork:
		return true
	case KindHTTP:
		return isRetryableStatus(e.Status)
	default:
		return false
	}
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func abortedError(cause error) *Error {
	return &Error{Kind: KindAborted, Message: "request aborted by caller", Err: cause}
}
