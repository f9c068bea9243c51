package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/generation"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/logger"
	"github.com/azsonic/10xdevs-flashcards/internal/redact"
	"github.com/azsonic/10xdevs-flashcards/internal/store"
	"github.com/google/uuid"
)

// DefaultGenerationTimeout bounds one GenerateFlashcards call across all
// provider retries.
const DefaultGenerationTimeout = 30 * time.Second

// errorLogTimeout bounds the error log write, which runs detached from the
// request context so a timed-out request can still be logged.
const errorLogTimeout = 5 * time.Second

// maxErrorMessageLength caps the stored error message.
const maxErrorMessageLength = 1000

// GenerationResult is returned by a successful generation.
type GenerationResult struct {
	GenerationID         int64                  `json:"generation_id"`
	Model                string                 `json:"model"`
	GeneratedCount       int                    `json:"generated_count"`
	GenerationDurationMs int64                  `json:"generation_duration"`
	CreatedAt            time.Time              `json:"created_at"`
	Candidates           []generation.Candidate `json:"flashcard_candidates"`
}

// GenerationService turns source text into flashcard candidates.
type GenerationService interface {
	// GenerateFlashcards calls the generator under an overall deadline and
	// records the outcome. Every error it returns is a *generation.Error.
	GenerateFlashcards(ctx context.Context, userID uuid.UUID, sourceText string) (*GenerationResult, error)
}

type generationServiceImpl struct {
	generator   generation.Generator
	generations store.GenerationStore
	errorLogs   store.GenerationErrorLogStore
	timeout     time.Duration
	logger      *slog.Logger
}

var _ GenerationService = (*generationServiceImpl)(nil)

// NewGenerationService creates a GenerationService. A non-positive timeout
// selects DefaultGenerationTimeout.
func NewGenerationService(
	generator generation.Generator,
	generations store.GenerationStore,
	errorLogs store.GenerationErrorLogStore,
	timeout time.Duration,
	logger *slog.Logger,
) (GenerationService, error) {
	if generator == nil {
		return nil, fmt.Errorf("%w: generator cannot be nil", domain.ErrValidation)
	}
	if generations == nil {
		return nil, fmt.Errorf("%w: generation store cannot be nil", domain.ErrValidation)
	}
	if errorLogs == nil {
		return nil, fmt.Errorf("%w: error log store cannot be nil", domain.ErrValidation)
	}
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &generationServiceImpl{
		generator:   generator,
		generations: generations,
		errorLogs:   errorLogs,
		timeout:     timeout,
		logger:      logger.With(slog.String("component", "generation_service")),
	}, nil
}

type generateOutcome struct {
	out *generation.Output
	err error
}

// GenerateFlashcards implements GenerationService.
func (s *generationServiceImpl) GenerateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	sourceText string,
) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	hash := generation.Fingerprint(sourceText)
	length := utf8.RuneCountInString(sourceText)
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Buffered so the generator goroutine never blocks after we stop waiting.
	done := make(chan generateOutcome, 1)
	go func() {
		out, err := s.generator.Generate(callCtx, sourceText)
		done <- generateOutcome{out: out, err: err}
	}()

	var res generateOutcome
	select {
	case res = <-done:
	case <-callCtx.Done():
		res = generateOutcome{err: callCtx.Err()}
	}
	cancel()

	if res.err != nil {
		gerr := s.classify(ctx, callCtx, res.err)
		s.recordFailure(ctx, userID, s.generator.Model(), hash, length, gerr)
		return nil, gerr
	}

	model := res.out.Model
	if model == "" {
		model = s.generator.Model()
	}

	candidates := generation.CleanCandidates(res.out.Candidates)
	if len(candidates) == 0 {
		gerr := generation.NewError(generation.CodeAIServiceError,
			"no flashcard candidates generated", generation.ErrNoCandidates)
		s.recordFailure(ctx, userID, model, hash, length, gerr)
		return nil, gerr
	}

	record := &domain.Generation{
		UserID:               userID,
		Model:                model,
		SourceTextHash:       hash,
		SourceTextLength:     length,
		GeneratedCount:       len(candidates),
		GenerationDurationMs: time.Since(start).Milliseconds(),
	}
	if err := s.generations.Create(ctx, record); err != nil {
		gerr := generation.NewError(generation.CodeDatabaseError, "failed to save generation", err)
		s.recordFailure(ctx, userID, model, hash, length, gerr)
		return nil, gerr
	}

	log.Info("flashcards generated",
		slog.Int64("generation_id", record.ID),
		slog.String("model", model),
		slog.Int("generated_count", record.GeneratedCount),
		slog.Int64("duration_ms", record.GenerationDurationMs))

	return &GenerationResult{
		GenerationID:         record.ID,
		Model:                record.Model,
		GeneratedCount:       record.GeneratedCount,
		GenerationDurationMs: record.GenerationDurationMs,
		CreatedAt:            record.CreatedAt,
		Candidates:           candidates,
	}, nil
}

// classify maps a generator failure onto the service taxonomy. A caller
// cancellation shares the deadline path but is reported separately.
func (s *generationServiceImpl) classify(ctx, callCtx context.Context, err error) *generation.Error {
	switch {
	case ctx.Err() != nil:
		return generation.NewError(generation.CodeAIServiceError, "generation cancelled", err)
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return generation.NewError(generation.CodeTimeout,
			fmt.Sprintf("generation exceeded %s", s.timeout), err)
	case errors.Is(err, generation.ErrNoCandidates):
		return generation.NewError(generation.CodeAIServiceError, "no flashcard candidates generated", err)
	default:
		return generation.NewError(generation.CodeAIServiceError, "AI service request failed", err)
	}
}

// recordFailure writes an error log row. Failures are logged and dropped so
// the original error reaches the caller unchanged.
func (s *generationServiceImpl) recordFailure(
	ctx context.Context,
	userID uuid.UUID,
	model, hash string,
	length int,
	gerr *generation.Error,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Warn("generation failed",
		slog.String("error_code", string(gerr.Code)),
		slog.String("error", redact.Error(gerr)),
		slog.String("model", model))

	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), errorLogTimeout)
	defer cancel()

	entry := &domain.GenerationErrorLog{
		UserID:           userID,
		Model:            model,
		SourceTextHash:   hash,
		SourceTextLength: length,
		ErrorCode:        string(gerr.Code),
		ErrorMessage:     truncate(redact.Error(gerr), maxErrorMessageLength),
	}
	if err := s.errorLogs.Create(logCtx, entry); err != nil {
		log.Error("failed to write generation error log",
			slog.String("error", redact.Error(err)),
			slog.String("error_code", string(gerr.Code)))
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
