package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/store"
)

// PostgresGenerationErrorLogStore implements store.GenerationErrorLogStore.
type PostgresGenerationErrorLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.GenerationErrorLogStore = (*PostgresGenerationErrorLogStore)(nil)

// NewPostgresGenerationErrorLogStore creates an error log store on db.
func NewPostgresGenerationErrorLogStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationErrorLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresGenerationErrorLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_error_log_store")),
	}
}

// Create implements store.GenerationErrorLogStore.
func (s *PostgresGenerationErrorLogStore) Create(ctx context.Context, l *domain.GenerationErrorLog) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO generation_error_logs (
			user_id, model, source_text_hash, source_text_length, error_code, error_message, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		l.UserID,
		l.Model,
		l.SourceTextHash,
		l.SourceTextLength,
		l.ErrorCode,
		l.ErrorMessage,
		now,
	).Scan(&l.ID)
	if err != nil {
		return store.NewStoreError("generation_error_log", "create", "failed to insert error log", MapError(err))
	}

	l.CreatedAt = now
	return nil
}
