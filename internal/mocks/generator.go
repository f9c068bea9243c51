package mocks

import (
	"context"
	"sync"

	"github.com/azsonic/10xdevs-flashcards/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, sourceText string) (*generation.Output, error)

	// Default response values
	ModelName string
	Output    *generation.Output
	Err       error

	// Call tracking for verification
	GenerateCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times Generate was called
		Count int

		// SourceTexts contains all texts passed to Generate calls
		SourceTexts []string
	}
}

var _ generation.Generator = (*MockGenerator)(nil)

// NewMockGeneratorWithCandidates creates a MockGenerator that returns the
// given candidates from model.
func NewMockGeneratorWithCandidates(model string, candidates ...generation.Candidate) *MockGenerator {
	return &MockGenerator{
		ModelName: model,
		Output:    &generation.Output{Model: model, Candidates: candidates},
	}
}

// NewMockGeneratorWithError creates a MockGenerator that returns err.
func NewMockGeneratorWithError(model string, err error) *MockGenerator {
	return &MockGenerator{ModelName: model, Err: err}
}

// Generate implements the generation.Generator interface
func (m *MockGenerator) Generate(ctx context.Context, sourceText string) (*generation.Output, error) {
	m.GenerateCalls.mu.Lock()
	m.GenerateCalls.Count++
	m.GenerateCalls.SourceTexts = append(m.GenerateCalls.SourceTexts, sourceText)
	m.GenerateCalls.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, sourceText)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Output, nil
}

// Model implements the generation.Generator interface
func (m *MockGenerator) Model() string {
	return m.ModelName
}

// CallCount returns the number of Generate calls so far.
func (m *MockGenerator) CallCount() int {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()
	return m.GenerateCalls.Count
}

// Reset resets the call tracking state
func (m *MockGenerator) Reset() {
	m.GenerateCalls.mu.Lock()
	defer m.GenerateCalls.mu.Unlock()

	m.GenerateCalls.Count = 0
	m.GenerateCalls.SourceTexts = nil
}
