package mocks

import (
	"context"
	"errors"
	"testing"

	"github.com/azsonic/10xdevs-flashcards/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("Default Output", func(t *testing.T) {
		m := NewMockGeneratorWithCandidates("test-model", generation.Candidate{Front: "Q", Back: "A"})

		out, err := m.Generate(ctx, "text")

		require.NoError(t, err)
		assert.Equal(t, "test-model", m.Model())
		assert.Equal(t, []generation.Candidate{{Front: "Q", Back: "A"}}, out.Candidates)
		assert.Equal(t, 1, m.CallCount())
		assert.Equal(t, []string{"text"}, m.GenerateCalls.SourceTexts)
	})

	t.Run("Error", func(t *testing.T) {
		boom := errors.New("boom")
		m := NewMockGeneratorWithError("test-model", boom)

		out, err := m.Generate(ctx, "text")

		assert.Nil(t, out)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Custom Function And Reset", func(t *testing.T) {
		m := &MockGenerator{
			GenerateFn: func(ctx context.Context, sourceText string) (*generation.Output, error) {
				return &generation.Output{Model: "fn"}, nil
			},
		}

		out, err := m.Generate(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "fn", out.Model)

		m.Reset()
		assert.Equal(t, 0, m.CallCount())
		assert.Empty(t, m.GenerateCalls.SourceTexts)
	})
}
