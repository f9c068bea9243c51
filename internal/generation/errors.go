package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by generators
var (
	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrNoCandidates is returned when the LLM produced no usable candidate
	ErrNoCandidates = errors.New("language model returned no flashcard candidates")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// ErrorCode is the closed set of failures reported by a generation call.
type ErrorCode string

const (
	CodeTimeout        ErrorCode = "GENERATION_TIMEOUT"
	CodeAIServiceError ErrorCode = "AI_SERVICE_ERROR"
	CodeDatabaseError  ErrorCode = "DATABASE_ERROR"
)

// Error is the only error type returned by the generation service.
// Provider-specific errors are kept as Err for logging, never inspected by
// callers.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error.
func NewError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of err, or "" when err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
