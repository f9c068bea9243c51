package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/azsonic/10xdevs-flashcards/internal/api/shared"
	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/generation"
	"github.com/azsonic/10xdevs-flashcards/internal/service"
	"github.com/azsonic/10xdevs-flashcards/internal/service/auth"
	"github.com/azsonic/10xdevs-flashcards/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"generation timeout", generation.NewError(generation.CodeTimeout, "t", context.DeadlineExceeded), http.StatusRequestTimeout, "GENERATION_TIMEOUT"},
		{"ai error", generation.NewError(generation.CodeAIServiceError, "a", nil), http.StatusInternalServerError, "AI_SERVICE_ERROR"},
		{"generation db error", generation.NewError(generation.CodeDatabaseError, "d", nil), http.StatusInternalServerError, "DATABASE_ERROR"},
		{"generation not found", service.NewFlashcardError(service.CodeGenerationNotFound, "g", nil), http.StatusNotFound, "GENERATION_NOT_FOUND"},
		{"flashcard not found", service.NewFlashcardError(service.CodeNotFound, "f", nil), http.StatusNotFound, "NOT_FOUND"},
		{"flashcard db error", service.NewFlashcardError(service.CodeDatabaseError, "d", nil), http.StatusInternalServerError, "DATABASE_ERROR"},
		{"wrapped flashcard error", fmt.Errorf("ctx: %w", service.NewFlashcardError(service.CodeNotFound, "f", nil)), http.StatusNotFound, "NOT_FOUND"},
		{"invalid command", fmt.Errorf("%w: bad", service.ErrInvalidCommand), http.StatusBadRequest, CodeValidationError},
		{"domain validation", domain.ErrValidation, http.StatusBadRequest, CodeValidationError},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest, CodeValidationError},
		{"field errors", shared.FieldErrors{{Field: "x", Message: "bad"}}, http.StatusBadRequest, CodeValidationError},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized, CodeUnauthorized},
		{"not yet valid token", auth.ErrTokenNotYetValid, http.StatusUnauthorized, CodeUnauthorized},
		{"store not found", store.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, MapErrorToStatusCode(tt.err))
			assert.Equal(t, tt.wantCode, ErrorCodeOf(tt.err))
			assert.NotEmpty(t, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestGetSafeErrorMessageHidesInternals(t *testing.T) {
	err := service.NewFlashcardError(service.CodeDatabaseError, "insert failed",
		errors.New(`pq: duplicate key value violates unique constraint "flashcards_pkey"`))

	msg := GetSafeErrorMessage(err)

	assert.NotContains(t, msg, "flashcards_pkey")
	assert.NotContains(t, msg, "insert failed")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}
