package mocks

import (
	"context"

	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/service"
	"github.com/google/uuid"
)

// MockFlashcardService implements service.FlashcardService for testing.
// Unset functions return Err.
type MockFlashcardService struct {
	CreateFlashcardsFn func(ctx context.Context, cmd service.CreateFlashcardsCommand) (*service.CreateFlashcardsResult, error)
	ListFlashcardsFn   func(ctx context.Context, userID uuid.UUID, q service.ListFlashcardsQuery) (*service.FlashcardPage, error)
	GetFlashcardFn     func(ctx context.Context, userID uuid.UUID, id int64) (*domain.Flashcard, error)
	UpdateFlashcardFn  func(ctx context.Context, userID uuid.UUID, id int64, cmd service.UpdateFlashcardCommand) (*domain.Flashcard, error)
	DeleteFlashcardFn  func(ctx context.Context, userID uuid.UUID, id int64) error

	Err error
}

var _ service.FlashcardService = (*MockFlashcardService)(nil)

// CreateFlashcards implements the service.FlashcardService interface
func (m *MockFlashcardService) CreateFlashcards(
	ctx context.Context,
	cmd service.CreateFlashcardsCommand,
) (*service.CreateFlashcardsResult, error) {
	if m.CreateFlashcardsFn != nil {
		return m.CreateFlashcardsFn(ctx, cmd)
	}
	return nil, m.Err
}

// ListFlashcards implements the service.FlashcardService interface
func (m *MockFlashcardService) ListFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	q service.ListFlashcardsQuery,
) (*service.FlashcardPage, error) {
	if m.ListFlashcardsFn != nil {
		return m.ListFlashcardsFn(ctx, userID, q)
	}
	return nil, m.Err
}

// GetFlashcard implements the service.FlashcardService interface
func (m *MockFlashcardService) GetFlashcard(ctx context.Context, userID uuid.UUID, id int64) (*domain.Flashcard, error) {
	if m.GetFlashcardFn != nil {
		return m.GetFlashcardFn(ctx, userID, id)
	}
	return nil, m.Err
}

// UpdateFlashcard implements the service.FlashcardService interface
func (m *MockFlashcardService) UpdateFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
	cmd service.UpdateFlashcardCommand,
) (*domain.Flashcard, error) {
	if m.UpdateFlashcardFn != nil {
		return m.UpdateFlashcardFn(ctx, userID, id, cmd)
	}
	return nil, m.Err
}

// DeleteFlashcard implements the service.FlashcardService interface
func (m *MockFlashcardService) DeleteFlashcard(ctx context.Context, userID uuid.UUID, id int64) error {
	if m.DeleteFlashcardFn != nil {
		return m.DeleteFlashcardFn(ctx, userID, id)
	}
	return m.Err
}
