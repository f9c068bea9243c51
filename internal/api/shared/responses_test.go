package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/azsonic/10xdevs-flashcards/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithLogger(t *testing.T) (*http.Request, *logger.TestLogBuffer) {
	t.Helper()
	buf, log := logger.NewTestLogger(t)
	ctx := logger.WithLogger(SetTraceID(context.Background()), log)
	return httptest.NewRequest(http.MethodGet, "/api/x", nil).WithContext(ctx), buf
}

func TestRespondWithErrorAndLog(t *testing.T) {
	req, buf := requestWithLogger(t)
	rec := httptest.NewRecorder()

	RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "DATABASE_ERROR", "A database error occurred.",
		errors.New("dial tcp: postgres://user:secret@db/flashcards"),
		WithDetails(map[string]string{"hint": "retry"}))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DATABASE_ERROR", resp.Error.Code)
	assert.Equal(t, "A database error occurred.", resp.Error.Message)
	assert.Equal(t, map[string]interface{}{"hint": "retry"}, resp.Error.Details)
	assert.Equal(t, GetTraceID(req.Context()), resp.TraceID)
	assert.NotContains(t, rec.Body.String(), "secret")

	logger.AssertLogField(t, buf, "level", "ERROR")
	logger.AssertLogField(t, buf, "error_code", "DATABASE_ERROR")
	assert.NotContains(t, buf.String(), "secret")
}

func TestRespondWithErrorLogLevels(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		opts      []ResponseOption
		wantLevel string
	}{
		{name: "client error", status: http.StatusBadRequest, wantLevel: "DEBUG"},
		{name: "elevated client error", status: http.StatusRequestTimeout, opts: []ResponseOption{WithElevatedLogLevel()}, wantLevel: "WARN"},
		{name: "rate limited", status: http.StatusTooManyRequests, wantLevel: "WARN"},
		{name: "server error", status: http.StatusBadGateway, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, buf := requestWithLogger(t)
			rec := httptest.NewRecorder()

			RespondWithError(rec, req, tt.status, "CODE", "message", tt.opts...)

			assert.Equal(t, tt.status, rec.Code)
			assert.NotContains(t, rec.Body.String(), `"details"`)
			logger.AssertLogField(t, buf, "level", tt.wantLevel)
		})
	}
}

func TestRespondWithData(t *testing.T) {
	req, _ := requestWithLogger(t)
	rec := httptest.NewRecorder()

	RespondWithData(rec, req, http.StatusOK, map[string]int{"id": 1})

	assert.JSONEq(t, `{"data":{"id":1}}`, rec.Body.String())
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	_, ok := UserIDFromContext(ctx)
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(ctx, uuid.Nil))
	assert.False(t, ok, "nil UUID is not an authenticated user")

	id := uuid.New()
	got, ok := UserIDFromContext(WithUserID(ctx, id))
	assert.True(t, ok)
	assert.Equal(t, id, got)

	assert.Empty(t, GetTraceID(ctx))
	traceID := GetTraceID(SetTraceID(ctx))
	assert.Len(t, traceID, TraceIDLength*2)
	assert.NotEqual(t, traceID, GetTraceID(SetTraceID(ctx)))
}
