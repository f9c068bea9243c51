package main

import (
	"context"
	"net/http"
	"time"

	"github.com/azsonic/10xdevs-flashcards/internal/api"
	apiMiddleware "github.com/azsonic/10xdevs-flashcards/internal/api/middleware"
	"github.com/azsonic/10xdevs-flashcards/internal/api/shared"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	generationHandler := api.NewGenerationHandler(app.generationService, app.logger)
	flashcardHandler := api.NewFlashcardHandler(app.flashcardService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/generations", generationHandler.CreateGeneration)

		r.Post("/flashcards", flashcardHandler.CreateFlashcards)
		r.Get("/flashcards", flashcardHandler.ListFlashcards)
		r.Get("/flashcards/{id}", flashcardHandler.GetFlashcard)
		r.Patch("/flashcards/{id}", flashcardHandler.UpdateFlashcard)
		r.Delete("/flashcards/{id}", flashcardHandler.DeleteFlashcard)
	})

	r.Get("/health", app.handleHealth)

	return r
}

// handleHealth reports whether the server can reach its database.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := app.db.PingContext(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
				"SERVICE_UNAVAILABLE", "Database unavailable", err)
			return
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, api.HealthResponse{Status: "ok"})
}
