package generation

import (
	"context"
	"time"
)

// SandboxGenerator returns fixed candidates after a delay, without calling
// any provider. The delay honors ctx so deadline handling can be exercised
// without network access.
type SandboxGenerator struct {
	model string
	delay time.Duration
}

var _ Generator = (*SandboxGenerator)(nil)

// NewSandboxGenerator creates a SandboxGenerator reporting model as
// "mock-<model>".
func NewSandboxGenerator(model string, delay time.Duration) *SandboxGenerator {
	return &SandboxGenerator{model: "mock-" + model, delay: delay}
}

// Model returns the sandbox model name.
func (g *SandboxGenerator) Model() string {
	return g.model
}

// Generate waits for the configured delay and returns three candidates.
func (g *SandboxGenerator) Generate(ctx context.Context, sourceText string) (*Output, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &Output{
		Model: g.model,
		Candidates: []Candidate{
			{
				Front: "What is Astro?",
				Back:  "Astro is a web framework for content-driven sites that ships zero JavaScript by default.",
			},
			{
				Front: "What does Supabase provide?",
				Back:  "A hosted Postgres database with authentication, storage and auto-generated APIs.",
			},
			{
				Front: "What is Tailwind CSS?",
				Back:  "A utility-first CSS framework for composing designs directly in markup.",
			},
		},
	}, nil
}
