package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits, measured in characters after trimming.
const (
	MaxFrontLength = 200
	MaxBackLength  = 500
)

// Flashcard-specific validation errors
var (
	// ErrFlashcardUserIDEmpty is returned when a flashcard has no owner.
	ErrFlashcardUserIDEmpty = errors.New("flashcard user ID cannot be empty")

	// ErrFlashcardFrontInvalid is returned when the front is empty or too long.
	ErrFlashcardFrontInvalid = fmt.Errorf("flashcard front must be 1-%d characters", MaxFrontLength)

	// ErrFlashcardBackInvalid is returned when the back is empty or too long.
	ErrFlashcardBackInvalid = fmt.Errorf("flashcard back must be 1-%d characters", MaxBackLength)

	// ErrFlashcardGenerationRequired is returned when an AI-sourced card
	// has no generation.
	ErrFlashcardGenerationRequired = errors.New("generation ID is required for AI-generated flashcards")
)

// Flashcard is a card owned by one user. GenerationID is nil for cards
// created manually.
type Flashcard struct {
	ID           int64     `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	GenerationID *int64    `json:"generation_id"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	Source       Source    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Content returns the card's front/back pair.
func (f *Flashcard) Content() CardContent {
	return CardContent{Front: f.Front, Back: f.Back}
}

// ValidateFront checks a trimmed front text.
func ValidateFront(front string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(front))
	if n == 0 || n > MaxFrontLength {
		return ErrFlashcardFrontInvalid
	}
	return nil
}

// ValidateBack checks a trimmed back text.
func ValidateBack(back string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(back))
	if n == 0 || n > MaxBackLength {
		return ErrFlashcardBackInvalid
	}
	return nil
}

// Validate checks if the Flashcard has valid data.
func (f *Flashcard) Validate() error {
	if f.UserID == uuid.Nil {
		return ErrFlashcardUserIDEmpty
	}
	if err := ValidateFront(f.Front); err != nil {
		return err
	}
	if err := ValidateBack(f.Back); err != nil {
		return err
	}
	if !f.Source.IsValid() {
		return ErrInvalidSource
	}
	if f.Source.IsAI() && f.GenerationID == nil {
		return ErrFlashcardGenerationRequired
	}
	return nil
}
