package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/azsonic/10xdevs-flashcards/internal/generation"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models used by the generator.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Config configures a GeminiGenerator.
type Config struct {
	APIKey     string
	Model      string
	MaxRetries int
	// RetryDelay is the base of the exponential backoff between attempts.
	RetryDelay time.Duration
}

// GeminiGenerator implements generation.Generator using the Gemini API.
type GeminiGenerator struct {
	logger     *slog.Logger
	models     contentGenerator
	model      string
	maxRetries int
	retryDelay time.Duration
	rng        *rand.Rand
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator with a genai client for cfg.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg Config) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, client.Models, cfg)
}

func newGenerator(logger *slog.Logger, models contentGenerator, cfg Config) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		logger.Warn("invalid max retries value, using default", "max_retries", 2)
		maxRetries = 2
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	return &GeminiGenerator{
		logger:     logger.With(slog.String("component", "gemini_generator")),
		models:     models,
		model:      cfg.Model,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Model returns the configured Gemini model.
func (g *GeminiGenerator) Model() string {
	return g.model
}

// Generate asks Gemini for candidates covering sourceText, retrying
// transient failures with jittered exponential backoff.
func (g *GeminiGenerator) Generate(ctx context.Context, sourceText string) (*generation.Output, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, fmt.Errorf("%w: source text is empty", generation.ErrInvalidResponse)
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: sourceText}},
	}}
	temperature := float32(0.3)
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: generation.SystemPrompt}}},
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    candidatesSchema(),
	}

	for attempt := 0; ; attempt++ {
		g.logger.InfoContext(ctx, "Making Gemini API call",
			"attempt", attempt+1,
			"max_attempts", g.maxRetries+1)

		out, transient, err := g.call(ctx, contents, config)
		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful",
				"attempt", attempt+1,
				"candidates", len(out.Candidates))
			return out, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attempt+1,
			"error", err)

		if !transient {
			return nil, err
		}
		if attempt >= g.maxRetries {
			return nil, fmt.Errorf("gemini: exceeded maximum retry attempts (%d): %w", g.maxRetries, err)
		}

		backoff := float64(g.retryDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + g.rng.Float64()*0.5))

		g.logger.InfoContext(ctx, "Retrying after delay",
			"attempt", attempt+1,
			"delay_ms", delay.Milliseconds())

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// call performs one request and reports whether a failure may be retried.
func (g *GeminiGenerator) call(
	ctx context.Context,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*generation.Output, bool, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, false, generation.ErrContentBlocked
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}

	candidates, err := generation.ParseCandidates([]byte(text.String()))
	if err != nil {
		return nil, false, err
	}
	if len(candidates) == 0 {
		return nil, false, generation.ErrNoCandidates
	}

	model := resp.ModelVersion
	if model == "" {
		model = g.model
	}

	return &generation.Output{Model: model, Candidates: candidates}, false, nil
}

func candidatesSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"flashcard_candidates": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"front": {Type: genai.TypeString},
						"back":  {Type: genai.TypeString},
					},
					Required: []string{"front", "back"},
				},
			},
		},
		Required: []string{"flashcard_candidates"},
	}
}
