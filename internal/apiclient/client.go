// Package apiclient is a typed client for the flashcards HTTP API. Non-2xx
// responses are returned as *APIError carrying the decoded error envelope.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/azsonic/10xdevs-flashcards/internal/api"
	"github.com/azsonic/10xdevs-flashcards/internal/api/shared"
	"github.com/azsonic/10xdevs-flashcards/internal/domain"
	"github.com/azsonic/10xdevs-flashcards/internal/service"
)

// DefaultTimeout bounds one request. Generation requests can take up to
// the server's generation deadline, so it is longer than that.
const DefaultTimeout = 45 * time.Second

const maxResponseBytes = 4 << 20

// ErrNetwork wraps transport failures: the request never produced an HTTP
// response.
var ErrNetwork = errors.New("network error")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Code    string
	Message string
	TraceID string
	Details json.RawMessage
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client calls the flashcards API. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "api_client"))
	return c, nil
}

// GenerateFlashcards calls POST /api/generations.
func (c *Client) GenerateFlashcards(ctx context.Context, sourceText string) (*service.GenerationResult, error) {
	result := &service.GenerationResult{}
	out := shared.DataResponse{Data: result}
	if err := c.do(ctx, http.MethodPost, "/api/generations", nil, api.GenerateFlashcardsRequest{SourceText: sourceText}, &out); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateFlashcards calls POST /api/flashcards.
func (c *Client) CreateFlashcards(
	ctx context.Context,
	req api.CreateFlashcardsRequest,
) (*service.CreateFlashcardsResult, error) {
	result := &service.CreateFlashcardsResult{}
	out := shared.DataResponse{Data: result}
	if err := c.do(ctx, http.MethodPost, "/api/flashcards", nil, req, &out); err != nil {
		return nil, err
	}
	return result, nil
}

// ListOptions selects a page of GET /api/flashcards. Zero values use the
// server defaults.
type ListOptions struct {
	Page   int
	Limit  int
	Search string
}

// ListFlashcards calls GET /api/flashcards.
func (c *Client) ListFlashcards(ctx context.Context, opts ListOptions) (*api.FlashcardListResponse, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}

	var out api.FlashcardListResponse
	if err := c.do(ctx, http.MethodGet, "/api/flashcards", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFlashcard calls GET /api/flashcards/{id}.
func (c *Client) GetFlashcard(ctx context.Context, id int64) (*domain.Flashcard, error) {
	card := &domain.Flashcard{}
	if err := c.do(ctx, http.MethodGet, flashcardPath(id), nil, nil, &shared.DataResponse{Data: card}); err != nil {
		return nil, err
	}
	return card, nil
}

// UpdateFlashcard calls PATCH /api/flashcards/{id}.
func (c *Client) UpdateFlashcard(ctx context.Context, id int64, req api.UpdateFlashcardRequest) (*domain.Flashcard, error) {
	card := &domain.Flashcard{}
	if err := c.do(ctx, http.MethodPatch, flashcardPath(id), nil, req, &shared.DataResponse{Data: card}); err != nil {
		return nil, err
	}
	return card, nil
}

// DeleteFlashcard calls DELETE /api/flashcards/{id}.
func (c *Client) DeleteFlashcard(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, flashcardPath(id), nil, nil, nil)
}

func flashcardPath(id int64) string {
	return "/api/flashcards/" + strconv.FormatInt(id, 10)
}

// do sends one request. body is JSON encoded when non-nil; a 2xx response
// body is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("trace_id", resp.Header.Get("X-Trace-ID")),
		slog.Duration("duration", time.Since(start)))

	limited := io.LimitReader(resp.Body, maxResponseBytes)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, limited)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(limited).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(status int, body io.Reader) error {
	var envelope struct {
		Error struct {
			Code    string          `json:"code"`
			Message string          `json:"message"`
			Details json.RawMessage `json:"details"`
		} `json:"error"`
		TraceID string `json:"trace_id"`
	}
	apiErr := &APIError{Status: status}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		apiErr.Message = http.StatusText(status)
		return apiErr
	}
	apiErr.Code = envelope.Error.Code
	apiErr.Message = envelope.Error.Message
	apiErr.Details = envelope.Error.Details
	apiErr.TraceID = envelope.TraceID
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// StatusOf returns the HTTP status of an *APIError in err's chain, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
