package api

import (
	"log/slog"
	"net/http"

	"github.com/azsonic/10xdevs-flashcards/internal/api/shared"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/logger"
	"github.com/azsonic/10xdevs-flashcards/internal/service"
)

// GenerationHandler serves POST /api/generations.
type GenerationHandler struct {
	generationService service.GenerationService
	logger            *slog.Logger
}

// NewGenerationHandler creates a GenerationHandler. A nil logger uses the
// default logger.
func NewGenerationHandler(generationService service.GenerationService, logger *slog.Logger) *GenerationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationHandler{
		generationService: generationService,
		logger:            logger.With(slog.String("component", "generation_handler")),
	}
}

// CreateGeneration generates flashcard candidates from the posted source
// text. Candidates are returned, not stored.
func (h *GenerationHandler) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	var req GenerateFlashcardsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	log := logger.FromContextOrDefault(r.Context(), h.logger)
	log.Debug("generating flashcards",
		slog.String("user_id", userID.String()),
		slog.Int("source_text_length", len([]rune(req.SourceText))))

	result, err := h.generationService.GenerateFlashcards(r.Context(), userID, req.SourceText)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, result)
}
