package service

import (
	"errors"
	"fmt"
)

// ErrInvalidCommand is returned when a caller breaks a service
// precondition. Nothing is written when it is returned; the API validates
// requests first, so seeing it means a caller bug.
var ErrInvalidCommand = errors.New("invalid command")

// FlashcardErrorCode is the closed set of flashcard service failures.
type FlashcardErrorCode string

const (
	CodeGenerationNotFound FlashcardErrorCode = "GENERATION_NOT_FOUND"
	CodeDatabaseError      FlashcardErrorCode = "DATABASE_ERROR"
	CodeNotFound           FlashcardErrorCode = "NOT_FOUND"
)

// FlashcardError is returned by FlashcardService for every failure other
// than ErrInvalidCommand.
type FlashcardError struct {
	Code    FlashcardErrorCode
	Message string
	Err     error
}

func (e *FlashcardError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *FlashcardError) Unwrap() error {
	return e.Err
}

// NewFlashcardError creates a FlashcardError.
func NewFlashcardError(code FlashcardErrorCode, message string, err error) *FlashcardError {
	return &FlashcardError{Code: code, Message: message, Err: err}
}

// FlashcardCodeOf returns the code carried by err, or "" when err is not a
// *FlashcardError.
func FlashcardCodeOf(err error) FlashcardErrorCode {
	var e *FlashcardError
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func invalidCommand(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCommand, fmt.Sprintf(format, args...))
}
