package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/azsonic/10xdevs-flashcards/internal/api/middleware"
	"github.com/azsonic/10xdevs-flashcards/internal/api/shared"
	"github.com/azsonic/10xdevs-flashcards/internal/mocks"
	"github.com/azsonic/10xdevs-flashcards/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

// newTestRouter mounts the handlers behind the auth middleware, accepting
// testToken as userID.
func newTestRouter(
	t *testing.T,
	userID uuid.UUID,
	generations *mocks.MockGenerationService,
	flashcards *mocks.MockFlashcardService,
) http.Handler {
	t.Helper()
	if generations == nil {
		generations = &mocks.MockGenerationService{}
	}
	if flashcards == nil {
		flashcards = &mocks.MockFlashcardService{}
	}

	jwt := mocks.NewMockJWTServiceForUser(userID)
	authMiddleware := middleware.NewAuthMiddleware(jwt)
	genHandler := NewGenerationHandler(generations, logger.Discard())
	cardHandler := NewFlashcardHandler(flashcards, logger.Discard())

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(logger.Discard()))
	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/generations", genHandler.CreateGeneration)
		r.Post("/flashcards", cardHandler.CreateFlashcards)
		r.Get("/flashcards", cardHandler.ListFlashcards)
		r.Get("/flashcards/{id}", cardHandler.GetFlashcard)
		r.Patch("/flashcards/{id}", cardHandler.UpdateFlashcard)
		r.Delete("/flashcards/{id}", cardHandler.DeleteFlashcard)
	})
	return r
}

// doRequest sends an authenticated request. A string body is sent as is;
// anything else is JSON encoded.
func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeError decodes an error envelope and checks that it carries the
// response's trace ID.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	require.NotEmpty(t, resp.TraceID)
	require.Equal(t, rec.Header().Get(middleware.TraceIDHeader), resp.TraceID)
	return resp
}

func sourceText(n int) string {
	return strings.Repeat("a", n)
}

func newRawRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
