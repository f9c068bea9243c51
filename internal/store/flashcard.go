package store

import (
	"context"
	"database/sql"

	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/google/uuid"
)

// FlashcardQuery filters and pages a flashcard listing.
type FlashcardQuery struct {
	// Search matches front or back case-insensitively when non-empty.
	Search string
	Limit  int
	Offset int
}

// FlashcardStore persists flashcards. Every read and write is scoped to
// the owning user.
type FlashcardStore interface {
	// CreateMultiple inserts cards in order and sets their IDs and
	// timestamps. Callers wanting all-or-nothing semantics bind the store
	// to a transaction.
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error

	// GetByIDForUser returns the card or ErrFlashcardNotFound.
	GetByIDForUser(ctx context.Context, id int64, userID uuid.UUID) (*domain.Flashcard, error)

	// ListForUser returns one page of the user's cards, newest first, and
	// the total number of cards matching q.
	ListForUser(ctx context.Context, userID uuid.UUID, q FlashcardQuery) ([]*domain.Flashcard, int, error)

	// Update writes front, back and source of card and refreshes UpdatedAt.
	Update(ctx context.Context, card *domain.Flashcard) error

	// DeleteForUser removes the card or returns ErrFlashcardNotFound.
	DeleteForUser(ctx context.Context, id int64, userID uuid.UUID) error

	// WithTx returns a store bound to tx.
	WithTx(tx *sql.Tx) FlashcardStore
}
