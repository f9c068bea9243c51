package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/logger"
	"github.com/azsonic/10xdevs-flashcards/internal/store"
	"github.com/google/uuid"
)

// Batch and paging limits.
const (
	MaxBatchSize     = 50
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// FlashcardInput is one card of a create batch.
type FlashcardInput struct {
	Front  string
	Back   string
	Source domain.Source
}

// CreateFlashcardsCommand creates a batch of cards for one user. AI-sourced
// cards require GenerationID.
type CreateFlashcardsCommand struct {
	UserID       uuid.UUID
	GenerationID *int64
	Flashcards   []FlashcardInput
}

// Validate checks the command preconditions.
func (c CreateFlashcardsCommand) Validate() error {
	if c.UserID == uuid.Nil {
		return invalidCommand("user ID is required")
	}
	if len(c.Flashcards) == 0 || len(c.Flashcards) > MaxBatchSize {
		return invalidCommand("flashcards must contain 1-%d items, got %d", MaxBatchSize, len(c.Flashcards))
	}
	for i, in := range c.Flashcards {
		if err := domain.ValidateFront(in.Front); err != nil {
			return invalidCommand("flashcards[%d]: %v", i, err)
		}
		if err := domain.ValidateBack(in.Back); err != nil {
			return invalidCommand("flashcards[%d]: %v", i, err)
		}
		if !in.Source.IsValid() {
			return invalidCommand("flashcards[%d]: %v", i, domain.ErrInvalidSource)
		}
		if in.Source.IsAI() && c.GenerationID == nil {
			return invalidCommand("flashcards[%d]: %v", i, domain.ErrFlashcardGenerationRequired)
		}
	}
	return nil
}

// CreateFlashcardsResult holds the rows created, in input order.
type CreateFlashcardsResult struct {
	CreatedCount int                 `json:"created_count"`
	Flashcards   []*domain.Flashcard `json:"flashcards"`
}

// ListFlashcardsQuery selects one page of a user's cards. Zero Page and
// Limit select the first page and DefaultPageLimit.
type ListFlashcardsQuery struct {
	Page   int
	Limit  int
	Search string
}

// FlashcardPage is one page of cards plus paging metadata.
type FlashcardPage struct {
	Flashcards []*domain.Flashcard
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// UpdateFlashcardCommand carries the fields to change; nil fields are kept.
type UpdateFlashcardCommand struct {
	Front *string
	Back  *string
}

// FlashcardService manages a user's flashcards.
type FlashcardService interface {
	// CreateFlashcards inserts the batch and bumps the generation's
	// acceptance counters in one transaction.
	CreateFlashcards(ctx context.Context, cmd CreateFlashcardsCommand) (*CreateFlashcardsResult, error)

	ListFlashcards(ctx context.Context, userID uuid.UUID, q ListFlashcardsQuery) (*FlashcardPage, error)

	GetFlashcard(ctx context.Context, userID uuid.UUID, id int64) (*domain.Flashcard, error)

	// UpdateFlashcard changes front and/or back. An ai-full card whose
	// content changes becomes ai-edited.
	UpdateFlashcard(ctx context.Context, userID uuid.UUID, id int64, cmd UpdateFlashcardCommand) (*domain.Flashcard, error)

	DeleteFlashcard(ctx context.Context, userID uuid.UUID, id int64) error
}

type flashcardServiceImpl struct {
	db          *sql.DB
	flashcards  store.FlashcardStore
	generations store.GenerationStore
	logger      *slog.Logger
}

var _ FlashcardService = (*flashcardServiceImpl)(nil)

// NewFlashcardService creates a FlashcardService. The stores must be bound
// to db so WithTx can move them into its transactions.
func NewFlashcardService(
	db *sql.DB,
	flashcards store.FlashcardStore,
	generations store.GenerationStore,
	logger *slog.Logger,
) (FlashcardService, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}
	if flashcards == nil {
		return nil, fmt.Errorf("%w: flashcard store cannot be nil", domain.ErrValidation)
	}
	if generations == nil {
		return nil, fmt.Errorf("%w: generation store cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &flashcardServiceImpl{
		db:          db,
		flashcards:  flashcards,
		generations: generations,
		logger:      logger.With(slog.String("component", "flashcard_service")),
	}, nil
}

// CreateFlashcards implements FlashcardService.
func (s *flashcardServiceImpl) CreateFlashcards(
	ctx context.Context,
	cmd CreateFlashcardsCommand,
) (*CreateFlashcardsResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := cmd.Validate(); err != nil {
		log.Error("create flashcards called with invalid command", slog.String("error", err.Error()))
		return nil, err
	}

	if cmd.GenerationID != nil {
		_, err := s.generations.GetByIDForUser(ctx, *cmd.GenerationID, cmd.UserID)
		if errors.Is(err, store.ErrGenerationNotFound) {
			return nil, NewFlashcardError(CodeGenerationNotFound, "generation not found", err)
		}
		if err != nil {
			return nil, NewFlashcardError(CodeDatabaseError, "failed to verify generation", err)
		}
	}

	cards := make([]*domain.Flashcard, len(cmd.Flashcards))
	sources := make([]domain.Source, len(cmd.Flashcards))
	for i, in := range cmd.Flashcards {
		card := &domain.Flashcard{
			UserID: cmd.UserID,
			Front:  strings.TrimSpace(in.Front),
			Back:   strings.TrimSpace(in.Back),
			Source: in.Source,
		}
		if cmd.GenerationID != nil {
			id := *cmd.GenerationID
			card.GenerationID = &id
		}
		cards[i] = card
		sources[i] = in.Source
	}
	deltas := domain.CountAcceptance(sources)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if cmd.GenerationID != nil && !deltas.IsZero() {
			if err := s.generations.WithTx(tx).IncrementAcceptance(ctx, *cmd.GenerationID, cmd.UserID, deltas); err != nil {
				return fmt.Errorf("failed to increment acceptance counters: %w", err)
			}
		}
		if err := s.flashcards.WithTx(tx).CreateMultiple(ctx, cards); err != nil {
			return fmt.Errorf("failed to insert flashcards: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create flashcards", slog.String("error", err.Error()))
		return nil, NewFlashcardError(CodeDatabaseError, "failed to save flashcards", err)
	}

	log.Info("flashcards created",
		slog.Int("created_count", len(cards)),
		slog.Int("accepted_unedited", deltas.Unedited),
		slog.Int("accepted_edited", deltas.Edited))

	return &CreateFlashcardsResult{CreatedCount: len(cards), Flashcards: cards}, nil
}

// ListFlashcards implements FlashcardService.
func (s *flashcardServiceImpl) ListFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	q ListFlashcardsQuery,
) (*FlashcardPage, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Page < 1 {
		return nil, invalidCommand("page must be at least 1")
	}
	if q.Limit < 1 || q.Limit > MaxPageLimit {
		return nil, invalidCommand("limit must be 1-%d", MaxPageLimit)
	}

	cards, total, err := s.flashcards.ListForUser(ctx, userID, store.FlashcardQuery{
		Search: q.Search,
		Limit:  q.Limit,
		Offset: (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return nil, NewFlashcardError(CodeDatabaseError, "failed to list flashcards", err)
	}

	return &FlashcardPage{
		Flashcards: cards,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: (total + q.Limit - 1) / q.Limit,
	}, nil
}

// GetFlashcard implements FlashcardService.
func (s *flashcardServiceImpl) GetFlashcard(ctx context.Context, userID uuid.UUID, id int64) (*domain.Flashcard, error) {
	card, err := s.flashcards.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, s.lookupError(err)
	}
	return card, nil
}

// UpdateFlashcard implements FlashcardService.
func (s *flashcardServiceImpl) UpdateFlashcard(
	ctx context.Context,
	userID uuid.UUID,
	id int64,
	cmd UpdateFlashcardCommand,
) (*domain.Flashcard, error) {
	if cmd.Front == nil && cmd.Back == nil {
		return nil, invalidCommand("at least one of front or back is required")
	}

	card, err := s.flashcards.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, s.lookupError(err)
	}

	old := card.Content()
	if cmd.Front != nil {
		card.Front = strings.TrimSpace(*cmd.Front)
	}
	if cmd.Back != nil {
		card.Back = strings.TrimSpace(*cmd.Back)
	}
	if err := domain.ValidateFront(card.Front); err != nil {
		return nil, invalidCommand("%v", err)
	}
	if err := domain.ValidateBack(card.Back); err != nil {
		return nil, invalidCommand("%v", err)
	}
	card.Source = domain.SourceAfterEdit(card.Source, old, card.Content())

	if err := s.flashcards.Update(ctx, card); err != nil {
		return nil, s.lookupError(err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("flashcard updated",
		slog.Int64("flashcard_id", id),
		slog.String("source", string(card.Source)))
	return card, nil
}

// DeleteFlashcard implements FlashcardService.
func (s *flashcardServiceImpl) DeleteFlashcard(ctx context.Context, userID uuid.UUID, id int64) error {
	if err := s.flashcards.DeleteForUser(ctx, id, userID); err != nil {
		return s.lookupError(err)
	}
	return nil
}

func (s *flashcardServiceImpl) lookupError(err error) error {
	if errors.Is(err, store.ErrFlashcardNotFound) {
		return NewFlashcardError(CodeNotFound, "flashcard not found", err)
	}
	return NewFlashcardError(CodeDatabaseError, "flashcard query failed", err)
}
