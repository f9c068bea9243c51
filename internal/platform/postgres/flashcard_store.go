package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/logger"
	"github.com/azsonic/10xdevs-flashcards/internal/store"
	"github.com/google/uuid"
)

// Paging limits applied when the query leaves them unset or out of range.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

const flashcardColumns = `id, user_id, generation_id, front, back, source, created_at, updated_at`

// likeEscaper escapes LIKE metacharacters so search terms match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresFlashcardStore implements store.FlashcardStore.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// NewPostgresFlashcardStore creates a flashcard store on db.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

// WithTx implements store.FlashcardStore.
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{db: tx, logger: s.logger}
}

// CreateMultiple implements store.FlashcardStore. It stops at the first
// failing row; cards before it keep their assigned IDs.
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	query := `
		INSERT INTO flashcards (user_id, generation_id, front, back, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`
	now := time.Now().UTC()

	for i, card := range cards {
		if err := card.Validate(); err != nil {
			return store.NewStoreError("flashcard", "create", err.Error(), store.ErrInvalidEntity)
		}

		err := s.db.QueryRowContext(ctx, query,
			card.UserID,
			card.GenerationID,
			card.Front,
			card.Back,
			string(card.Source),
			now,
		).Scan(&card.ID)
		if err != nil {
			log.Error("failed to insert flashcard",
				slog.String("error", err.Error()),
				slog.Int("index", i),
				slog.String("user_id", card.UserID.String()))
			return store.NewStoreError("flashcard", "create", "failed to insert flashcard", MapError(err))
		}
		card.CreatedAt = now
		card.UpdatedAt = now
	}

	log.Debug("flashcards created", slog.Int("count", len(cards)))
	return nil
}

// GetByIDForUser implements store.FlashcardStore.
func (s *PostgresFlashcardStore) GetByIDForUser(
	ctx context.Context,
	id int64,
	userID uuid.UUID,
) (*domain.Flashcard, error) {
	query := `SELECT ` + flashcardColumns + ` FROM flashcards WHERE id = $1 AND user_id = $2`

	card, err := scanFlashcard(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFlashcardNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get flashcard",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", id))
		return nil, store.NewStoreError("flashcard", "get", "failed to query flashcard", MapError(err))
	}
	return card, nil
}

// ListForUser implements store.FlashcardStore.
func (s *PostgresFlashcardStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	q store.FlashcardQuery,
) ([]*domain.Flashcard, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	search := strings.TrimSpace(q.Search)
	pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"

	filter := `
		WHERE user_id = $1
		AND ($2 = '' OR LOWER(front) LIKE $3 ESCAPE '\' OR LOWER(back) LIKE $3 ESCAPE '\')
	`

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flashcards`+filter, userID, search, pattern).
		Scan(&total); err != nil {
		log.Error("failed to count flashcards", slog.String("error", err.Error()))
		return nil, 0, store.NewStoreError("flashcard", "list", "failed to count flashcards", MapError(err))
	}

	query := `SELECT ` + flashcardColumns + ` FROM flashcards` + filter + `
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := s.db.QueryContext(ctx, query, userID, search, pattern, limit, offset)
	if err != nil {
		log.Error("failed to list flashcards", slog.String("error", err.Error()))
		return nil, 0, store.NewStoreError("flashcard", "list", "failed to query flashcards", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := make([]*domain.Flashcard, 0, limit)
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, 0, store.NewStoreError("flashcard", "list", "failed to scan flashcard", MapError(err))
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, store.NewStoreError("flashcard", "list", "failed to iterate flashcards", MapError(err))
	}

	return cards, total, nil
}

// Update implements store.FlashcardStore.
func (s *PostgresFlashcardStore) Update(ctx context.Context, card *domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return store.NewStoreError("flashcard", "update", err.Error(), store.ErrInvalidEntity)
	}

	now := time.Now().UTC()
	query := `
		UPDATE flashcards
		SET front = $1, back = $2, source = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`
	result, err := s.db.ExecContext(ctx, query,
		card.Front,
		card.Back,
		string(card.Source),
		now,
		card.ID,
		card.UserID,
	)
	if err != nil {
		log.Error("failed to update flashcard",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", card.ID))
		return store.NewStoreError("flashcard", "update", "failed to update flashcard", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrFlashcardNotFound); err != nil {
		return err
	}

	card.UpdatedAt = now
	return nil
}

// DeleteForUser implements store.FlashcardStore.
func (s *PostgresFlashcardStore) DeleteForUser(ctx context.Context, id int64, userID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete flashcard",
			slog.String("error", err.Error()),
			slog.Int64("flashcard_id", id))
		return store.NewStoreError("flashcard", "delete", "failed to delete flashcard", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrFlashcardNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var (
		card         domain.Flashcard
		generationID sql.NullInt64
		source       string
	)
	err := row.Scan(
		&card.ID,
		&card.UserID,
		&generationID,
		&card.Front,
		&card.Back,
		&source,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if generationID.Valid {
		id := generationID.Int64
		card.GenerationID = &id
	}
	card.Source = domain.Source(source)
	return &card, nil
}
