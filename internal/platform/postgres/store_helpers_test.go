package postgres_test

import (
	"context"
	"strings"
	"testing"

	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/logger"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createGeneration(t *testing.T, s *postgres.PostgresGenerationStore, userID uuid.UUID) *domain.Generation {
	t.Helper()
	g := &domain.Generation{
		UserID:               userID,
		Model:                "openai/gpt-4o-mini",
		SourceTextHash:       strings.Repeat("a", 32),
		SourceTextLength:     1500,
		GeneratedCount:       5,
		GenerationDurationMs: 1234,
	}
	require.NoError(t, s.Create(context.Background(), g))
	return g
}

func aiCard(userID uuid.UUID, genID int64, front string) *domain.Flashcard {
	return &domain.Flashcard{
		UserID:       userID,
		GenerationID: &genID,
		Front:        front,
		Back:         "answer to " + front,
		Source:       domain.SourceAIFull,
	}
}

func manualCard(userID uuid.UUID, front, back string) *domain.Flashcard {
	return &domain.Flashcard{UserID: userID, Front: front, Back: back, Source: domain.SourceManual}
}

var discard = logger.Discard()
