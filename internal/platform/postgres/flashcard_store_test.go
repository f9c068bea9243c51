package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/postgres"
	"github.com/azsonic/10xdevs-flashcards/internal/store"
	"github.com/azsonic/10xdevs-flashcards/internal/testdb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashcardStoreCreateMultiple(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	gens := postgres.NewPostgresGenerationStore(db, discard)
	s := postgres.NewPostgresFlashcardStore(db, discard)
	userID := uuid.New()
	g := createGeneration(t, gens, userID)

	cards := []*domain.Flashcard{
		aiCard(userID, g.ID, "What is Go?"),
		manualCard(userID, "Capital of France?", "Paris"),
	}
	require.NoError(t, s.CreateMultiple(ctx, cards))

	for _, c := range cards {
		assert.NotZero(t, c.ID)
		assert.False(t, c.CreatedAt.IsZero())
	}

	got, err := s.GetByIDForUser(ctx, cards[0].ID, userID)
	require.NoError(t, err)
	require.NotNil(t, got.GenerationID)
	assert.Equal(t, g.ID, *got.GenerationID)
	assert.Equal(t, domain.SourceAIFull, got.Source)

	got, err = s.GetByIDForUser(ctx, cards[1].ID, userID)
	require.NoError(t, err)
	assert.Nil(t, got.GenerationID)
	assert.Equal(t, "Paris", got.Back)

	assert.NoError(t, s.CreateMultiple(ctx, nil))
}

func TestFlashcardStoreCreateMultipleRejectsInvalid(t *testing.T) {
	s := postgres.NewPostgresFlashcardStore(testdb.Open(t), discard)
	userID := uuid.New()

	tests := []struct {
		name string
		card *domain.Flashcard
	}{
		{"empty front", manualCard(userID, "  ", "b")},
		{"missing user", manualCard(uuid.Nil, "f", "b")},
		{"ai without generation", &domain.Flashcard{UserID: userID, Front: "f", Back: "b", Source: domain.SourceAIEdited}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateMultiple(context.Background(), []*domain.Flashcard{tt.card})
			assert.ErrorIs(t, err, store.ErrInvalidEntity)
		})
	}
}

func TestFlashcardStoreWithTxRollback(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)
	s := postgres.NewPostgresFlashcardStore(db, discard)
	userID := uuid.New()
	boom := errors.New("boom")

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.WithTx(tx).CreateMultiple(ctx, []*domain.Flashcard{manualCard(userID, "f", "b")}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	cards, total, err := s.ListForUser(ctx, userID, store.FlashcardQuery{})
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.Zero(t, total)
}

func TestFlashcardStoreListForUser(t *testing.T) {
	ctx := context.Background()
	s := postgres.NewPostgresFlashcardStore(testdb.Open(t), discard)
	userID := uuid.New()

	var cards []*domain.Flashcard
	for i := 0; i < 5; i++ {
		cards = append(cards, manualCard(userID, fmt.Sprintf("Question %d", i), fmt.Sprintf("Answer %d", i)))
	}
	cards = append(cards, manualCard(userID, "100% sure?", "Golang_rocks"))
	require.NoError(t, s.CreateMultiple(ctx, cards))
	require.NoError(t, s.CreateMultiple(ctx, []*domain.Flashcard{manualCard(uuid.New(), "Question x", "other user")}))

	tests := []struct {
		name       string
		query      store.FlashcardQuery
		wantTotal  int
		wantFronts []string
	}{
		{
			name:       "newest first",
			query:      store.FlashcardQuery{Limit: 3},
			wantTotal:  6,
			wantFronts: []string{"100% sure?", "Question 4", "Question 3"},
		},
		{
			name:       "offset",
			query:      store.FlashcardQuery{Limit: 2, Offset: 4},
			wantTotal:  6,
			wantFronts: []string{"Question 1", "Question 0"},
		},
		{
			name:       "search front case-insensitive",
			query:      store.FlashcardQuery{Search: "question 2"},
			wantTotal:  1,
			wantFronts: []string{"Question 2"},
		},
		{
			name:       "search back",
			query:      store.FlashcardQuery{Search: "ANSWER"},
			wantTotal:  5,
			wantFronts: []string{"Question 4", "Question 3", "Question 2", "Question 1", "Question 0"},
		},
		{
			name:       "percent is literal",
			query:      store.FlashcardQuery{Search: "%"},
			wantTotal:  1,
			wantFronts: []string{"100% sure?"},
		},
		{
			name:       "underscore is literal",
			query:      store.FlashcardQuery{Search: "q_e"},
			wantTotal:  0,
			wantFronts: []string{},
		},
		{
			name:       "offset past end",
			query:      store.FlashcardQuery{Offset: 50},
			wantTotal:  6,
			wantFronts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := s.ListForUser(ctx, userID, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			fronts := make([]string, 0, len(got))
			for _, c := range got {
				assert.Equal(t, userID, c.UserID)
				fronts = append(fronts, c.Front)
			}
			assert.Equal(t, tt.wantFronts, fronts)
		})
	}
}

func TestFlashcardStoreUpdate(t *testing.T) {
	ctx := context.Background()
	s := postgres.NewPostgresFlashcardStore(testdb.Open(t), discard)
	userID := uuid.New()
	card := manualCard(userID, "old front", "old back")
	require.NoError(t, s.CreateMultiple(ctx, []*domain.Flashcard{card}))
	created := card.UpdatedAt

	card.Front = "new front"
	require.NoError(t, s.Update(ctx, card))
	assert.False(t, card.UpdatedAt.Before(created))

	got, err := s.GetByIDForUser(ctx, card.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "new front", got.Front)
	assert.Equal(t, "old back", got.Back)

	other := *card
	other.UserID = uuid.New()
	assert.ErrorIs(t, s.Update(ctx, &other), store.ErrFlashcardNotFound)

	card.Back = ""
	assert.ErrorIs(t, s.Update(ctx, card), store.ErrInvalidEntity)
}

func TestFlashcardStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := postgres.NewPostgresFlashcardStore(testdb.Open(t), discard)
	userID := uuid.New()
	card := manualCard(userID, "f", "b")
	require.NoError(t, s.CreateMultiple(ctx, []*domain.Flashcard{card}))

	assert.ErrorIs(t, s.DeleteForUser(ctx, card.ID, uuid.New()), store.ErrFlashcardNotFound)
	require.NoError(t, s.DeleteForUser(ctx, card.ID, userID))
	assert.ErrorIs(t, s.DeleteForUser(ctx, card.ID, userID), store.ErrFlashcardNotFound)

	_, err := s.GetByIDForUser(ctx, card.ID, userID)
	assert.ErrorIs(t, err, store.ErrFlashcardNotFound)
}
