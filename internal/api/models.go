package api

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/azsonic/10xdevs-flashcards/internal/api/shared"
	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/service"
	"github.com/google/uuid"
)

// GenerateFlashcardsRequest is the body of POST /api/generations.
type GenerateFlashcardsRequest struct {
	SourceText string `json:"source_text" validate:"required,min=1000,max=5000"`
}

// FlashcardItem is one card of a create request.
type FlashcardItem struct {
	Front  string `json:"front"  validate:"required,max=200"`
	Back   string `json:"back"   validate:"required,max=500"`
	Source string `json:"source" validate:"required,oneof=manual ai-full ai-edited"`
}

// CreateFlashcardsRequest is the body of POST /api/flashcards.
type CreateFlashcardsRequest struct {
	GenerationID *int64          `json:"generation_id,omitempty" validate:"omitempty,gt=0"`
	Flashcards   []FlashcardItem `json:"flashcards"              validate:"required,min=1,max=50,dive"`
}

// Validate runs the tag rules, then the rules that span fields.
func (r *CreateFlashcardsRequest) Validate() error {
	if err := shared.Validate.Struct(r); err != nil {
		return err
	}

	var errs shared.FieldErrors
	hasAI := false
	for i, item := range r.Flashcards {
		if strings.TrimSpace(item.Front) == "" {
			errs = append(errs, shared.FieldError{Field: fmt.Sprintf("flashcards[%d].front", i), Message: "is required"})
		}
		if strings.TrimSpace(item.Back) == "" {
			errs = append(errs, shared.FieldError{Field: fmt.Sprintf("flashcards[%d].back", i), Message: "is required"})
		}
		if domain.Source(item.Source).IsAI() {
			hasAI = true
		}
	}
	if hasAI && r.GenerationID == nil {
		errs = append(errs, shared.FieldError{
			Field:   "generation_id",
			Message: "is required when any flashcard source is ai-full or ai-edited",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Command converts the request into a service command for userID.
func (r *CreateFlashcardsRequest) Command(userID uuid.UUID) service.CreateFlashcardsCommand {
	cmd := service.CreateFlashcardsCommand{
		UserID:       userID,
		GenerationID: r.GenerationID,
		Flashcards:   make([]service.FlashcardInput, len(r.Flashcards)),
	}
	for i, item := range r.Flashcards {
		cmd.Flashcards[i] = service.FlashcardInput{
			Front:  item.Front,
			Back:   item.Back,
			Source: domain.Source(item.Source),
		}
	}
	return cmd
}

// UpdateFlashcardRequest is the body of PATCH /api/flashcards/{id}.
type UpdateFlashcardRequest struct {
	Front *string `json:"front,omitempty"`
	Back  *string `json:"back,omitempty"`
}

// Validate checks that at least one field is present and that present
// fields are 1-200 (front) or 1-500 (back) characters after trimming.
func (r *UpdateFlashcardRequest) Validate() error {
	if r.Front == nil && r.Back == nil {
		return shared.FieldErrors{{Message: "At least one of front or back must be provided."}}
	}

	var errs shared.FieldErrors
	check := func(field string, v *string, max int) {
		if v == nil {
			return
		}
		n := utf8.RuneCountInString(strings.TrimSpace(*v))
		switch {
		case n == 0:
			errs = append(errs, shared.FieldError{Field: field, Message: "is required"})
		case n > max:
			errs = append(errs, shared.FieldError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)})
		}
	}
	check("front", r.Front, domain.MaxFrontLength)
	check("back", r.Back, domain.MaxBackLength)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Pagination describes the page returned by GET /api/flashcards.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// FlashcardListResponse is the body of GET /api/flashcards.
type FlashcardListResponse struct {
	Data       []*domain.Flashcard `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
