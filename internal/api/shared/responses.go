package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/azsonic/10xdevs-flashcards/internal/platform/logger"
	"github.com/azsonic/10xdevs-flashcards/internal/redact"
)

// ErrorBody is the error object of the error envelope.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse defines the standard error response structure.
type ErrorResponse struct {
	Error   ErrorBody `json:"error"`
	TraceID string    `json:"trace_id,omitempty"`
}

// DataResponse wraps a successful payload.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// ResponseOption defines a function to customize response behavior.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevateLogLevel bool
	details         interface{}
}

// WithElevatedLogLevel logs a 4xx response at WARN instead of DEBUG.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// WithDetails attaches details to the error body.
func WithDetails(details interface{}) ResponseOption {
	return func(opts *responseOptions) {
		opts.details = details
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithData writes {"data": data}.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	RespondWithJSON(w, r, status, DataResponse{Data: data})
}

// RespondWithError writes an error envelope carrying the request's trace ID.
func RespondWithError(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	code, message string,
	opts ...ResponseOption,
) {
	RespondWithErrorAndLog(w, r, status, code, message, nil, opts...)
}

// RespondWithErrorAndLog writes an error envelope with a safe message and
// logs err, redacted, for correlation by trace ID. The raw error never
// reaches the client.
//
// 5xx responses are logged at ERROR, 429 and elevated 4xx at WARN, the
// rest at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	code, message string,
	err error,
	opts ...ResponseOption,
) {
	traceID := GetTraceID(r.Context())

	responseOpts := responseOptions{}
	for _, opt := range opts {
		opt(&responseOpts)
	}

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("error_code", code),
		slog.String("user_message", message),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	switch {
	case status >= http.StatusInternalServerError:
		logLevel = slog.LevelError
	case status == http.StatusTooManyRequests:
		logLevel = slog.LevelWarn
	case responseOpts.elevateLogLevel && status >= http.StatusBadRequest:
		logLevel = slog.LevelWarn
	}
	logger.FromContext(r.Context()).LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: responseOpts.details,
		},
		TraceID: traceID,
	})
}
