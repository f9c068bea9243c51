package review

import (
	"context"
	"errors"
	"net/http"

	"github.com/azsonic/10xdevs-flashcards/internal/apiclient"
)

// User-facing messages.
const (
	MsgSourceTextLength   = "Source text must be between 1000 and 5000 characters."
	MsgGenerationTimeout  = "Generation took too long. Please try again with shorter text or try again later."
	MsgGenerateLogin      = "You must be logged in to generate flashcards."
	MsgGenerateFailed     = "Failed to generate flashcards. Please try again."
	MsgGenerateCancelled  = "Generation cancelled."
	MsgNetwork            = "Network error. Please check your connection and try again."
	MsgNoGenerationID     = "No generation ID found. Please regenerate flashcards."
	MsgNoFlashcards       = "No flashcards to save. Please add at least one flashcard."
	MsgSaveLogin          = "You must be logged in to save flashcards."
	MsgSaveFailed         = "Failed to save flashcards. Please try again."
	MsgGenerationNotFound = "Generation not found. Please regenerate flashcards."
)

// GenerationErrorMessage maps a generation request failure to a message.
func GenerationErrorMessage(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr):
		switch apiErr.Status {
		case http.StatusRequestTimeout:
			return MsgGenerationTimeout
		case http.StatusBadRequest:
			return apiErr.Message
		case http.StatusUnauthorized:
			return MsgGenerateLogin
		}
		return MsgGenerateFailed
	case errors.Is(err, context.Canceled):
		return MsgGenerateCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return MsgGenerationTimeout
	case errors.Is(err, apiclient.ErrNetwork):
		return MsgNetwork
	default:
		return MsgGenerateFailed
	}
}

// SaveErrorMessage maps a save request failure to a message. A stale
// generation gets its own message so the user knows to regenerate rather
// than retry.
func SaveErrorMessage(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr):
		switch apiErr.Status {
		case http.StatusBadRequest:
			return apiErr.Message
		case http.StatusUnauthorized:
			return MsgSaveLogin
		case http.StatusNotFound:
			return MsgGenerationNotFound
		}
		return MsgSaveFailed
	case errors.Is(err, apiclient.ErrNetwork):
		return MsgNetwork
	default:
		return MsgSaveFailed
	}
}
