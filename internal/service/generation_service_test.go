package service_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/generation"
	"github.com/azsonic/10xdevs-flashcards/internal/mocks"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/logger"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/postgres"
	"github.com/azsonic/10xdevs-flashcards/internal/service"
	"github.com/azsonic/10xdevs-flashcards/internal/testdb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var sourceText = strings.Repeat("Go is a statically typed, compiled language. ", 30)

type generationFixture struct {
	db  *sql.DB
	svc service.GenerationService
}

func newGenerationFixture(t *testing.T, gen generation.Generator, timeout time.Duration) generationFixture {
	t.Helper()
	db := testdb.Open(t)
	svc, err := service.NewGenerationService(
		gen,
		postgres.NewPostgresGenerationStore(db, logger.Discard()),
		postgres.NewPostgresGenerationErrorLogStore(db, logger.Discard()),
		timeout,
		logger.Discard(),
	)
	require.NoError(t, err)
	return generationFixture{db: db, svc: svc}
}

func (f generationFixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func (f generationFixture) errorCodes(t *testing.T) []string {
	t.Helper()
	rows, err := f.db.Query("SELECT error_code FROM generation_error_logs ORDER BY id")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	var codes []string
	for rows.Next() {
		var c string
		require.NoError(t, rows.Scan(&c))
		codes = append(codes, c)
	}
	require.NoError(t, rows.Err())
	return codes
}

func TestGenerateFlashcardsSuccess(t *testing.T) {
	f := newGenerationFixture(t, generation.NewSandboxGenerator("gpt-4o-mini", 0), time.Second)
	userID := uuid.New()

	res, err := f.svc.GenerateFlashcards(context.Background(), userID, sourceText)

	require.NoError(t, err)
	assert.NotZero(t, res.GenerationID)
	assert.Equal(t, "mock-gpt-4o-mini", res.Model)
	assert.Equal(t, 3, res.GeneratedCount)
	assert.Len(t, res.Candidates, 3)
	assert.GreaterOrEqual(t, res.GenerationDurationMs, int64(0))
	assert.False(t, res.CreatedAt.IsZero())

	var hash string
	var length, generated int
	require.NoError(t, f.db.QueryRow(
		"SELECT source_text_hash, source_text_length, generated_count FROM generations WHERE id = $1",
		res.GenerationID).Scan(&hash, &length, &generated))
	assert.Equal(t, generation.Fingerprint(sourceText), hash)
	assert.Equal(t, len(sourceText), length)
	assert.Equal(t, 3, generated)
	assert.Zero(t, f.count(t, "generation_error_logs"))
}

func TestGenerateFlashcardsDropsBlankCandidates(t *testing.T) {
	gen := &mocks.MockGenerator{ModelName: "m", Output: &generation.Output{Candidates: []generation.Candidate{
		{Front: " Q ", Back: " A "},
		{Front: "", Back: "orphan"},
	}}}
	f := newGenerationFixture(t, gen, time.Second)

	res, err := f.svc.GenerateFlashcards(context.Background(), uuid.New(), sourceText)

	require.NoError(t, err)
	assert.Equal(t, 1, gen.CallCount())
	assert.Equal(t, []string{sourceText}, gen.GenerateCalls.SourceTexts)
	assert.Equal(t, "m", res.Model, "falls back to the configured model")
	assert.Equal(t, []generation.Candidate{{Front: "Q", Back: "A"}}, res.Candidates)
	assert.Equal(t, 1, res.GeneratedCount)
}

func TestGenerateFlashcardsFailures(t *testing.T) {
	tests := []struct {
		name        string
		gen         generation.Generator
		timeout     time.Duration
		ctx         func() context.Context
		wantCode    generation.ErrorCode
		wantMessage string
	}{
		{
			name:     "deadline expires",
			gen:      generation.NewSandboxGenerator("m", time.Second),
			timeout:  20 * time.Millisecond,
			wantCode: generation.CodeTimeout,
		},
		{
			name: "provider error",
			gen:         mocks.NewMockGeneratorWithError("m", errors.New("upstream 502")),
			timeout:     time.Second,
			wantCode:    generation.CodeAIServiceError,
			wantMessage: "AI service request failed",
		},
		{
			name: "no candidates",
			gen:         mocks.NewMockGeneratorWithCandidates("m", generation.Candidate{Front: " ", Back: " "}),
			timeout:     time.Second,
			wantCode:    generation.CodeAIServiceError,
			wantMessage: "no flashcard candidates generated",
		},
		{
			name:    "caller cancels",
			gen:     generation.NewSandboxGenerator("m", time.Second),
			timeout: time.Second,
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				time.AfterFunc(10*time.Millisecond, cancel)
				return ctx
			},
			wantCode:    generation.CodeAIServiceError,
			wantMessage: "generation cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGenerationFixture(t, tt.gen, tt.timeout)
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}

			res, err := f.svc.GenerateFlashcards(ctx, uuid.New(), sourceText)

			assert.Nil(t, res)
			require.Error(t, err)
			var gerr *generation.Error
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, tt.wantCode, gerr.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, gerr.Message)
			}
			assert.Zero(t, f.count(t, "generations"), "no record on failure")
			assert.Equal(t, []string{string(tt.wantCode)}, f.errorCodes(t))
		})
	}
}

func TestGenerateFlashcardsTimeoutWithUncooperativeGenerator(t *testing.T) {
	gen := &blockingGenerator{release: make(chan struct{})}
	t.Cleanup(func() { close(gen.release) })
	f := newGenerationFixture(t, gen, 30*time.Millisecond)

	start := time.Now()
	_, err := f.svc.GenerateFlashcards(context.Background(), uuid.New(), sourceText)

	assert.Equal(t, generation.CodeTimeout, generation.CodeOf(err))
	assert.Less(t, time.Since(start), time.Second)

	var model string
	require.NoError(t, f.db.QueryRow("SELECT model FROM generation_error_logs").Scan(&model))
	assert.Equal(t, "slow-model", model)
}

func TestGenerateFlashcardsErrorLogFailureDoesNotMask(t *testing.T) {
	gens := &mockGenerationStore{}
	logs := &mockErrorLogStore{}
	logs.On("Create", mock.Anything, mock.AnythingOfType("*domain.GenerationErrorLog")).
		Return(errors.New("connection refused"))

	svc, err := service.NewGenerationService(
		generation.NewSandboxGenerator("m", time.Second), gens, logs, 10*time.Millisecond, logger.Discard())
	require.NoError(t, err)

	_, err = svc.GenerateFlashcards(context.Background(), uuid.New(), sourceText)

	assert.Equal(t, generation.CodeTimeout, generation.CodeOf(err))
	logs.AssertExpectations(t)
	gens.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGenerateFlashcardsDatabaseError(t *testing.T) {
	gens := &mockGenerationStore{}
	gens.On("Create", mock.Anything, mock.Anything).Return(errors.New("relation does not exist"))
	logs := &mockErrorLogStore{}
	logs.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.GenerationErrorLog) bool {
		return l.ErrorCode == string(generation.CodeDatabaseError) && l.Model == "mock-m"
	})).Return(nil)

	svc, err := service.NewGenerationService(
		generation.NewSandboxGenerator("m", 0), gens, logs, time.Second, logger.Discard())
	require.NoError(t, err)

	_, err = svc.GenerateFlashcards(context.Background(), uuid.New(), sourceText)

	assert.Equal(t, generation.CodeDatabaseError, generation.CodeOf(err))
	logs.AssertExpectations(t)
}

func TestNewGenerationServiceValidation(t *testing.T) {
	gen := generation.NewSandboxGenerator("m", 0)
	gens := &mockGenerationStore{}
	logs := &mockErrorLogStore{}

	_, err := service.NewGenerationService(nil, gens, logs, 0, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewGenerationService(gen, nil, logs, 0, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewGenerationService(gen, gens, nil, 0, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	svc, err := service.NewGenerationService(gen, gens, logs, 0, nil)
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}
