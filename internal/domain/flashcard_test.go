package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFlashcardValidate(t *testing.T) {
	genID := int64(7)
	valid := func() *Flashcard {
		return &Flashcard{
			UserID:       uuid.New(),
			GenerationID: &genID,
			Front:        "front",
			Back:         "back",
			Source:       SourceAIFull,
		}
	}

	tests := []struct {
		name    string
		mutate  func(f *Flashcard)
		wantErr error
	}{
		{"valid", func(f *Flashcard) {}, nil},
		{"manual without generation", func(f *Flashcard) { f.Source = SourceManual; f.GenerationID = nil }, nil},
		{"missing user", func(f *Flashcard) { f.UserID = uuid.Nil }, ErrFlashcardUserIDEmpty},
		{"blank front", func(f *Flashcard) { f.Front = "   " }, ErrFlashcardFrontInvalid},
		{"front too long", func(f *Flashcard) { f.Front = strings.Repeat("a", MaxFrontLength+1) }, ErrFlashcardFrontInvalid},
		{"front at limit", func(f *Flashcard) { f.Front = strings.Repeat("ą", MaxFrontLength) }, nil},
		{"back too long", func(f *Flashcard) { f.Back = strings.Repeat("b", MaxBackLength+1) }, ErrFlashcardBackInvalid},
		{"unknown source", func(f *Flashcard) { f.Source = "imported" }, ErrInvalidSource},
		{"ai without generation", func(f *Flashcard) { f.GenerationID = nil }, ErrFlashcardGenerationRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid()
			tt.mutate(f)
			err := f.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
