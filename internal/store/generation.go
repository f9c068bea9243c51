package store

import (
	"context"
	"database/sql"

	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/google/uuid"
)

// GenerationStore persists generation records.
type GenerationStore interface {
	// Create inserts g and sets its ID and timestamps.
	Create(ctx context.Context, g *domain.Generation) error

	// GetByIDForUser returns the generation with id owned by userID,
	// or ErrGenerationNotFound.
	GetByIDForUser(ctx context.Context, id int64, userID uuid.UUID) (*domain.Generation, error)

	// IncrementAcceptance adds d to the accepted counters of the generation
	// with id owned by userID. The increment happens in the database, so
	// concurrent calls never lose updates. Returns ErrGenerationNotFound
	// when no row matches.
	IncrementAcceptance(ctx context.Context, id int64, userID uuid.UUID, d domain.AcceptanceDeltas) error

	// WithTx returns a store bound to tx.
	WithTx(tx *sql.Tx) GenerationStore
}

// GenerationErrorLogStore persists failed generation attempts.
type GenerationErrorLogStore interface {
	// Create inserts l and sets its ID and CreatedAt.
	Create(ctx context.Context, l *domain.GenerationErrorLog) error
}
