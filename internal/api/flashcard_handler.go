package api

import (
	"log/slog"
	"net/http"

	"github.com/azsonic/10xdevs-flashcards/internal/api/shared"
	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/logger"
	"github.com/azsonic/10xdevs-flashcards/internal/service"
)

// FlashcardHandler serves the /api/flashcards routes.
type FlashcardHandler struct {
	flashcardService service.FlashcardService
	logger           *slog.Logger
}

// NewFlashcardHandler creates a FlashcardHandler.
func NewFlashcardHandler(flashcardService service.FlashcardService, logger *slog.Logger) *FlashcardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlashcardHandler{
		flashcardService: flashcardService,
		logger:           logger.With(slog.String("component", "flashcard_handler")),
	}
}

// CreateFlashcards stores a batch of accepted or manual cards.
func (h *FlashcardHandler) CreateFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	var req CreateFlashcardsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.flashcardService.CreateFlashcards(r.Context(), req.Command(userID))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, result)
}

// ListFlashcards returns one page of the caller's cards.
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	params, err := parseListParams(r, service.DefaultPageLimit, service.MaxPageLimit)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeValidationError, "Invalid query parameters.",
			shared.WithDetails(shared.ValidationDetails(err)))
		return
	}

	page, err := h.flashcardService.ListFlashcards(r.Context(), userID, service.ListFlashcardsQuery{
		Page:   params.Page,
		Limit:  params.Limit,
		Search: params.Search,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards := page.Flashcards
	if cards == nil {
		cards = []*domain.Flashcard{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardListResponse{
		Data: cards,
		Pagination: Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			TotalItems: page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// GetFlashcard returns one of the caller's cards.
func (h *FlashcardHandler) GetFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	id, ok := getFlashcardIDFromPath(w, r)
	if !ok {
		return
	}

	card, err := h.flashcardService.GetFlashcard(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, card)
}

// UpdateFlashcard changes the front and/or back of a card.
func (h *FlashcardHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	id, ok := getFlashcardIDFromPath(w, r)
	if !ok {
		return
	}

	var req UpdateFlashcardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.flashcardService.UpdateFlashcard(r.Context(), userID, id, service.UpdateFlashcardCommand{
		Front: req.Front,
		Back:  req.Back,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, card)
}

// DeleteFlashcard removes a card.
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	id, ok := getFlashcardIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.flashcardService.DeleteFlashcard(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("flashcard deleted",
		slog.String("user_id", userID.String()),
		slog.Int64("flashcard_id", id))
	w.WriteHeader(http.StatusNoContent)
}
