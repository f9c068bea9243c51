package api

import (
	"errors"
	"net/http"

	"github.com/azsonic/10xdevs-flashcards/internal/api/shared"
	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/generation"
	"github.com/azsonic/10xdevs-flashcards/internal/service"
	"github.com/azsonic/10xdevs-flashcards/internal/service/auth"
	"github.com/azsonic/10xdevs-flashcards/internal/store"
)

// Error codes of the error envelope that are not owned by a service.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidationError = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	var genErr *generation.Error
	if errors.As(err, &genErr) {
		if genErr.Code == generation.CodeTimeout {
			return http.StatusRequestTimeout
		}
		return http.StatusInternalServerError
	}

	var fcErr *service.FlashcardError
	if errors.As(err, &fcErr) {
		switch fcErr.Code {
		case service.CodeGenerationNotFound, service.CodeNotFound:
			return http.StatusNotFound
		default:
			return http.StatusInternalServerError
		}
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrInvalidCommand),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		shared.ValidationDetails(err) != nil:
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// ErrorCodeOf returns the envelope code for err.
func ErrorCodeOf(err error) string {
	if code := generation.CodeOf(err); code != "" {
		return string(code)
	}
	if code := service.FlashcardCodeOf(err); code != "" {
		return string(code)
	}

	switch MapErrorToStatusCode(err) {
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusBadRequest:
		return CodeValidationError
	default:
		return CodeInternalError
	}
}

// GetSafeErrorMessage returns a user-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch generation.CodeOf(err) {
	case generation.CodeTimeout:
		return "Generation took too long. Please try again with a shorter text."
	case generation.CodeAIServiceError:
		return "The AI service failed to generate flashcards. Please try again later."
	case generation.CodeDatabaseError:
		return "Failed to save generation record. Please try again later."
	}

	switch service.FlashcardCodeOf(err) {
	case service.CodeGenerationNotFound:
		return "Generation not found. Please regenerate flashcards."
	case service.CodeNotFound:
		return "Flashcard not found."
	case service.CodeDatabaseError:
		return "A database error occurred. Please try again later."
	}

	switch MapErrorToStatusCode(err) {
	case http.StatusUnauthorized:
		return "Authentication required"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusBadRequest:
		return "Invalid input provided."
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error envelope for err. A non-empty message
// overrides the default safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if details := shared.ValidationDetails(err); details != nil {
		opts = append(opts, shared.WithDetails(details))
	}
	if status == http.StatusRequestTimeout {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, ErrorCodeOf(err), message, err, opts...)
}
