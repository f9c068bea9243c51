package service_test

import (
	"context"
	"database/sql"
	"errors"

	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/generation"
	"github.com/azsonic/10xdevs-flashcards/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// blockingGenerator ignores ctx and returns only when release is closed.
type blockingGenerator struct {
	release chan struct{}
}

func (g *blockingGenerator) Model() string { return "slow-model" }

func (g *blockingGenerator) Generate(context.Context, string) (*generation.Output, error) {
	<-g.release
	return nil, errors.New("released")
}

// mockGenerationStore is a testify mock of store.GenerationStore.
type mockGenerationStore struct {
	mock.Mock
}

func (m *mockGenerationStore) Create(ctx context.Context, g *domain.Generation) error {
	return m.Called(ctx, g).Error(0)
}

func (m *mockGenerationStore) GetByIDForUser(ctx context.Context, id int64, userID uuid.UUID) (*domain.Generation, error) {
	args := m.Called(ctx, id, userID)
	g, _ := args.Get(0).(*domain.Generation)
	return g, args.Error(1)
}

func (m *mockGenerationStore) IncrementAcceptance(
	ctx context.Context,
	id int64,
	userID uuid.UUID,
	d domain.AcceptanceDeltas,
) error {
	return m.Called(ctx, id, userID, d).Error(0)
}

func (m *mockGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	return m
}

// mockErrorLogStore is a testify mock of store.GenerationErrorLogStore.
type mockErrorLogStore struct {
	mock.Mock
}

func (m *mockErrorLogStore) Create(ctx context.Context, l *domain.GenerationErrorLog) error {
	return m.Called(ctx, l).Error(0)
}

// failAfterInsertStore inserts through the wrapped store and then fails,
// leaving rows a transaction must roll back.
type failAfterInsertStore struct {
	store.FlashcardStore
}

func (s *failAfterInsertStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &failAfterInsertStore{FlashcardStore: s.FlashcardStore.WithTx(tx)}
}

func (s *failAfterInsertStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	if err := s.FlashcardStore.CreateMultiple(ctx, cards); err != nil {
		return err
	}
	return errors.New("disk full")
}
