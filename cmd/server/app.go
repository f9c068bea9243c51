package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/azsonic/10xdevs-flashcards/internal/config"
	"github.com/azsonic/10xdevs-flashcards/internal/generation"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/gemini"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/openrouter"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/postgres"
	"github.com/azsonic/10xdevs-flashcards/internal/service"
	"github.com/azsonic/10xdevs-flashcards/internal/service/auth"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService        auth.JWTService
	generator         generation.Generator
	generationService service.GenerationService
	flashcardService  service.FlashcardService
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	generationStore := postgres.NewPostgresGenerationStore(db, logger)
	errorLogStore := postgres.NewPostgresGenerationErrorLogStore(db, logger)
	flashcardStore := postgres.NewPostgresFlashcardStore(db, logger)

	app.generator, err = newGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized",
		"provider", cfg.LLM.EffectiveProvider(),
		"model", app.generator.Model())

	app.generationService, err = service.NewGenerationService(
		app.generator,
		generationStore,
		errorLogStore,
		time.Duration(cfg.LLM.GenerationTimeoutSeconds)*time.Second,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	app.flashcardService, err = service.NewFlashcardService(db, flashcardStore, generationStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// newGenerator builds the generator for the effective provider. Only this
// function knows which provider serves generations.
func newGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Generator, error) {
	switch cfg.EffectiveProvider() {
	case config.ProviderSandbox:
		return generation.NewSandboxGenerator(cfg.Model, time.Duration(cfg.MockDelayMs)*time.Millisecond), nil

	case config.ProviderGemini:
		g, err := gemini.NewGeminiGenerator(ctx, logger.With("component", "llm_generator"), gemini.Config{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: time.Duration(cfg.RetryBackoffMs) * time.Millisecond,
		})
		if err != nil {
			return nil, err
		}
		return g, nil

	case config.ProviderOpenRouter:
		headers := map[string]string{}
		if cfg.SiteURL != "" {
			headers["HTTP-Referer"] = cfg.SiteURL
		}
		if cfg.AppName != "" {
			headers["X-Title"] = cfg.AppName
		}
		client, err := openrouter.NewClient(openrouter.Config{
			APIKey:             cfg.APIKey,
			BaseURL:            cfg.BaseURL,
			DefaultModel:       cfg.Model,
			Timeout:            time.Duration(cfg.TimeoutSeconds) * time.Second,
			MaxRetries:         cfg.MaxRetries,
			RetryBackoff:       time.Duration(cfg.RetryBackoffMs) * time.Millisecond,
			Headers:            headers,
			AllowedModels:      cfg.AllowedModels,
			MaxInputCharacters: cfg.MaxInputCharacters,
			SchemaValidator:    openrouter.NewJSONSchemaValidator(),
			Logger:             logger,
		})
		if err != nil {
			return nil, err
		}
		return openrouter.NewGenerator(client, cfg.Model, cfg.Stream, logger), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.EffectiveProvider())
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
