package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/azsonic/10xdevs-flashcards/internal/api/middleware"
	"github.com/azsonic/10xdevs-flashcards/internal/api/shared"
	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// getUserIDFromContext returns the authenticated user ID, writing a 401
// response when there is none.
func getUserIDFromContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, CodeUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// getFlashcardIDFromPath parses the {id} path parameter as a positive
// integer, writing a 400 response when it is not one.
func getFlashcardIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, CodeValidationError, "Invalid flashcard id.",
			shared.WithDetails(shared.FieldErrors{{Field: "id", Message: "must be a positive integer"}}))
		return 0, false
	}
	return id, true
}

// decodeAndValidate decodes the JSON body into req and validates it. On
// failure it writes the 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, CodeBadRequest, "Invalid JSON in request body.", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, CodeValidationError, "Invalid input provided.", err,
			shared.WithDetails(shared.ValidationDetails(err)))
		return false
	}
	return true
}

// listParams holds the parsed query of GET /api/flashcards.
type listParams struct {
	Page   int
	Limit  int
	Search string
}

// parseListParams reads page, limit and search from the query string.
// Missing values take their defaults; malformed ones are field errors.
func parseListParams(r *http.Request, defaultLimit, maxLimit int) (listParams, error) {
	q := r.URL.Query()
	params := listParams{Page: 1, Limit: defaultLimit, Search: strings.TrimSpace(q.Get("search"))}

	var errs shared.FieldErrors
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			errs = append(errs, shared.FieldError{Field: "page", Message: "must be a positive integer"})
		} else {
			params.Page = page
		}
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			errs = append(errs, shared.FieldError{
				Field:   "limit",
				Message: fmt.Sprintf("must be an integer between 1 and %d", maxLimit),
			})
		} else {
			params.Limit = limit
		}
	}
	if len(errs) > 0 {
		return listParams{}, fmt.Errorf("%w: %w", domain.ErrValidation, errs)
	}
	return params, nil
}
