package mocks

import (
	"context"

	"github.com/azsonic/10xdevs-flashcards/internal/service"
	"github.com/google/uuid"
)

// MockGenerationService implements service.GenerationService for testing
type MockGenerationService struct {
	GenerateFlashcardsFn func(ctx context.Context, userID uuid.UUID, sourceText string) (*service.GenerationResult, error)

	Result *service.GenerationResult
	Err    error
}

var _ service.GenerationService = (*MockGenerationService)(nil)

// GenerateFlashcards implements the service.GenerationService interface
func (m *MockGenerationService) GenerateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	sourceText string,
) (*service.GenerationResult, error) {
	if m.GenerateFlashcardsFn != nil {
		return m.GenerateFlashcardsFn(ctx, userID, sourceText)
	}
	return m.Result, m.Err
}
