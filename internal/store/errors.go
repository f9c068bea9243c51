package store

import (
	"errors"
	"fmt"
)

// Common store errors
var (
	// ErrNotFound indicates the requested entity does not exist or is not
	// owned by the requesting user.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity indicates the entity failed validation or a check constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed indicates an update affected no rows or failed.
	ErrUpdateFailed = errors.New("update failed")

	// ErrDeleteFailed indicates a delete affected no rows or failed.
	ErrDeleteFailed = errors.New("delete failed")
)

// Entity-specific not-found errors
var (
	ErrGenerationNotFound = fmt.Errorf("%w: generation", ErrNotFound)
	ErrFlashcardNotFound  = fmt.Errorf("%w: flashcard", ErrNotFound)
)

// IsNotFoundError reports whether err is any not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError carries the entity and operation of a failed store call.
type StoreError struct {
	Entity    string // The entity type (e.g., "flashcard", "generation")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
