package openrouter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/azsonic/10xdevs-flashcards/internal/generation"
)

// Generator produces flashcard candidates through a Client.
type Generator struct {
	client *Client
	model  string
	stream bool
	logger *slog.Logger
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator. An empty model selects the client's
// default. With stream set, responses are consumed through ChatStream.
func NewGenerator(client *Client, model string, stream bool, logger *slog.Logger) *Generator {
	if model == "" {
		model = client.DefaultModel()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		client: client,
		model:  model,
		stream: stream,
		logger: logger.With(slog.String("component", "openrouter_generator")),
	}
}

// Model returns the configured model.
func (g *Generator) Model() string {
	return g.model
}

// Generate asks the model for candidates covering sourceText.
func (g *Generator) Generate(ctx context.Context, sourceText string) (*generation.Output, error) {
	req := ChatRequest{
		Model: g.model,
		Messages: []Message{
			{Role: RoleSystem, Content: generation.SystemPrompt},
			{Role: RoleUser, Content: sourceText},
		},
		Params:         map[string]float64{"temperature": 0.3},
		ResponseFormat: JSONSchemaFormat(generation.SchemaName, generation.CandidatesSchema),
	}

	model := g.model
	var content string
	if g.stream {
		s, err := g.client.ChatStream(ctx, req)
		if err != nil {
			return nil, err
		}
		text, err := Collect(s)
		if err != nil {
			return nil, err
		}
		if _, err := g.client.DecodeStructured(req.ResponseFormat, text); err != nil {
			return nil, err
		}
		content = text
	} else {
		resp, err := g.client.Chat(ctx, req)
		if err != nil {
			return nil, err
		}
		model = resp.Model
		content = resp.Content
	}

	candidates, err := generation.ParseCandidates([]byte(content))
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "candidates generated",
		"model", model,
		"count", len(candidates),
		"stream", g.stream)

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: model %s", generation.ErrNoCandidates, model)
	}

	return &generation.Output{Model: model, Candidates: candidates}, nil
}
