package generation

import (
	"context"
	"crypto/md5"
	"encoding/hex"
)

// Candidate is a flashcard proposed by a generator, not yet accepted.
type Candidate struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Output is the result of one Generate call.
type Output struct {
	// Model is the model that actually served the request.
	Model      string
	Candidates []Candidate
}

// Generator defines the interface for generating flashcard candidates from
// text. This interface serves as a boundary between the application core
// and external AI/LLM services; swapping the implementation (OpenRouter,
// Gemini, sandbox) changes nothing downstream.
type Generator interface {
	// Generate returns candidates for sourceText. Implementations must stop
	// and return promptly once ctx is done.
	Generate(ctx context.Context, sourceText string) (*Output, error)

	// Model returns the configured model name, used when a call fails
	// before a model is known.
	Model() string
}

// Fingerprint returns the hex MD5 of text. It correlates generations and
// error logs with their source text without storing the text.
func Fingerprint(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
