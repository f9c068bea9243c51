package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/logger"
	"github.com/azsonic/10xdevs-flashcards/internal/store"
	"github.com/google/uuid"
)

// PostgresGenerationStore implements store.GenerationStore.
type PostgresGenerationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.GenerationStore = (*PostgresGenerationStore)(nil)

// NewPostgresGenerationStore creates a generation store on db.
func NewPostgresGenerationStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresGenerationStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_store")),
	}
}

// WithTx implements store.GenerationStore.
func (s *PostgresGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	return &PostgresGenerationStore{db: tx, logger: s.logger}
}

// Create implements store.GenerationStore.
func (s *PostgresGenerationStore) Create(ctx context.Context, g *domain.Generation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if g.UserID == uuid.Nil {
		return store.NewStoreError("generation", "create", "user ID is required", store.ErrInvalidEntity)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO generations (
			user_id, model, source_text_hash, source_text_length, generated_count,
			accepted_unedited_count, accepted_edited_count, generation_duration,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, 0, 0, $6, $7, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		g.UserID,
		g.Model,
		g.SourceTextHash,
		g.SourceTextLength,
		g.GeneratedCount,
		g.GenerationDurationMs,
		now,
	).Scan(&g.ID)
	if err != nil {
		log.Error("failed to create generation",
			slog.String("error", err.Error()),
			slog.String("user_id", g.UserID.String()))
		return store.NewStoreError("generation", "create", "failed to insert generation", MapError(err))
	}

	g.CreatedAt = now
	g.UpdatedAt = now
	g.AcceptedUneditedCount = 0
	g.AcceptedEditedCount = 0

	log.Debug("generation created",
		slog.Int64("generation_id", g.ID),
		slog.Int("generated_count", g.GeneratedCount))
	return nil
}

// GetByIDForUser implements store.GenerationStore.
func (s *PostgresGenerationStore) GetByIDForUser(
	ctx context.Context,
	id int64,
	userID uuid.UUID,
) (*domain.Generation, error) {
	query := `
		SELECT id, user_id, model, source_text_hash, source_text_length, generated_count,
			accepted_unedited_count, accepted_edited_count, generation_duration,
			created_at, updated_at
		FROM generations
		WHERE id = $1 AND user_id = $2
	`

	var g domain.Generation
	err := s.db.QueryRowContext(ctx, query, id, userID).Scan(
		&g.ID,
		&g.UserID,
		&g.Model,
		&g.SourceTextHash,
		&g.SourceTextLength,
		&g.GeneratedCount,
		&g.AcceptedUneditedCount,
		&g.AcceptedEditedCount,
		&g.GenerationDurationMs,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGenerationNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get generation",
			slog.String("error", err.Error()),
			slog.Int64("generation_id", id))
		return nil, store.NewStoreError("generation", "get", "failed to query generation", MapError(err))
	}

	return &g, nil
}

// IncrementAcceptance implements store.GenerationStore.
func (s *PostgresGenerationStore) IncrementAcceptance(
	ctx context.Context,
	id int64,
	userID uuid.UUID,
	d domain.AcceptanceDeltas,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE generations
		SET accepted_unedited_count = accepted_unedited_count + $1,
			accepted_edited_count = accepted_edited_count + $2,
			updated_at = $3
		WHERE id = $4 AND user_id = $5
	`
	result, err := s.db.ExecContext(ctx, query, d.Unedited, d.Edited, time.Now().UTC(), id, userID)
	if err != nil {
		log.Error("failed to increment acceptance counters",
			slog.String("error", err.Error()),
			slog.Int64("generation_id", id))
		return store.NewStoreError("generation", "update", "failed to increment counters", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrGenerationNotFound); err != nil {
		return err
	}

	log.Debug("acceptance counters incremented",
		slog.Int64("generation_id", id),
		slog.Int("unedited", d.Unedited),
		slog.Int("edited", d.Edited))
	return nil
}
