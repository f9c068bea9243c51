package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/azsonic/10xdevs-flashcards/internal/redact"
)

// Defaults applied by NewClient to zero-valued Config fields.
const (
	DefaultBaseURL      = "https://openrouter.ai/api/v1"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRetries   = 2
	DefaultRetryBackoff = time.Second
)

const (
	maxResponseBytes  = 8 << 20
	maxErrorBodyBytes = 64 << 10
)

// SchemaValidator checks a decoded JSON value against a JSON schema.
type SchemaValidator interface {
	Validate(schema json.RawMessage, value any) error
}

// Config configures a Client. It is copied at construction; later changes
// to the caller's value have no effect.
type Config struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	// Timeout bounds one attempt, from dispatch until the response headers
	// of a stream or the full body of a single-shot call.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt.
	// Negative values select DefaultMaxRetries.
	MaxRetries   int
	RetryBackoff time.Duration
	// Headers are sent with every request, e.g. HTTP-Referer and X-Title.
	Headers map[string]string
	// AllowedModels restricts the models callers may request when non-empty.
	AllowedModels []string
	// MaxInputCharacters limits the total message length when positive.
	MaxInputCharacters int
	SchemaValidator    SchemaValidator
	HTTPClient         *http.Client
	Logger             *slog.Logger
}

// Client executes chat-completion calls. It is safe for concurrent use and
// holds no mutable state after construction.
type Client struct {
	apiKey             string
	endpoint           string
	defaultModel       string
	timeout            time.Duration
	maxRetries         int
	retryBackoff       time.Duration
	headers            map[string]string
	allowedModels      map[string]struct{}
	maxInputCharacters int
	validator          SchemaValidator
	httpClient         *http.Client
	logger             *slog.Logger
}

// NewClient creates a Client from cfg. A missing API key is a config error.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &Error{Kind: KindConfig, Message: "API key is required"}
	}

	c := &Client{
		apiKey:             cfg.APIKey,
		endpoint:           strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		defaultModel:       cfg.DefaultModel,
		timeout:            cfg.Timeout,
		maxRetries:         cfg.MaxRetries,
		retryBackoff:       cfg.RetryBackoff,
		headers:            make(map[string]string, len(cfg.Headers)),
		maxInputCharacters: cfg.MaxInputCharacters,
		validator:          cfg.SchemaValidator,
		httpClient:         cfg.HTTPClient,
		logger:             cfg.Logger,
	}

	if cfg.BaseURL == "" {
		c.endpoint = DefaultBaseURL + "/chat/completions"
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.maxRetries < 0 {
		c.maxRetries = DefaultMaxRetries
	}
	if c.retryBackoff <= 0 {
		c.retryBackoff = DefaultRetryBackoff
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With(slog.String("component", "openrouter_client"))

	for k, v := range cfg.Headers {
		c.headers[k] = v
	}
	if len(cfg.AllowedModels) > 0 {
		c.allowedModels = make(map[string]struct{}, len(cfg.AllowedModels))
		for _, m := range cfg.AllowedModels {
			c.allowedModels[m] = struct{}{}
		}
	}

	return c, nil
}

// DefaultModel returns the model used when a request names none.
func (c *Client) DefaultModel() string {
	return c.defaultModel
}

// Chat performs a single-shot completion.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	model, payload, verr := c.buildPayload(req, false)
	if verr != nil {
		return nil, verr
	}

	_, body, err := c.execute(ctx, payload, req.Headers, false)
	if err != nil {
		return nil, err
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "response body is not valid JSON", Err: err}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == nil {
		return nil, validationError("response has no message content")
	}

	resp := &ChatResponse{
		Model:   parsed.Model,
		Content: *parsed.Choices[0].Message.Content,
		Raw:     json.RawMessage(body),
	}
	if resp.Model == "" {
		resp.Model = model
	}

	if req.ResponseFormat != nil {
		value, err := c.DecodeStructured(req.ResponseFormat, resp.Content)
		if err != nil {
			return nil, err
		}
		resp.Parsed = value
	}

	return resp, nil
}

// ChatStream starts a streaming completion. Validation and the HTTP exchange
// up to the response headers happen before it returns; the body is read
// lazily through the returned Stream, which the caller must Close.
func (c *Client) ChatStream(ctx context.Context, req ChatRequest) (*Stream, error) {
	_, payload, verr := c.buildPayload(req, true)
	if verr != nil {
		return nil, verr
	}

	resp, _, err := c.execute(ctx, payload, req.Headers, true)
	if err != nil {
		return nil, err
	}

	return newStream(ctx, resp.Body, c.logger), nil
}

// DecodeStructured parses content as JSON and, when a SchemaValidator is
// configured, validates it against format's schema.
func (c *Client) DecodeStructured(format *ResponseFormat, content string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(content), &value); err != nil {
		return nil, &Error{Kind: KindSchema, Message: "response content is not valid JSON", Err: err}
	}

	if c.validator != nil && format != nil && format.JSONSchema != nil {
		if err := c.validator.Validate(format.JSONSchema.Schema, value); err != nil {
			return nil, &Error{
				Kind:    KindSchema,
				Message: "response does not match schema " + format.JSONSchema.Name,
				Details: err.Error(),
				Err:     err,
			}
		}
	}

	return value, nil
}

func (c *Client) buildPayload(req ChatRequest, stream bool) (string, []byte, *Error) {
	model, verr := c.validateRequest(req)
	if verr != nil {
		return "", nil, verr
	}

	payload := make(map[string]any, len(req.Params)+4)
	for k, v := range req.Params {
		payload[k] = v
	}
	payload["model"] = model
	payload["messages"] = req.Messages
	if req.ResponseFormat != nil {
		payload["response_format"] = req.ResponseFormat
	}
	if stream {
		payload["stream"] = true
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", nil, &Error{Kind: KindValidation, Message: "failed to encode request", Err: err}
	}

	c.logger.Debug("chat request built",
		"model", model,
		"messages", len(req.Messages),
		"stream", stream,
		"structured", req.ResponseFormat != nil)

	return model, data, nil
}

// execute runs attempts until one succeeds, a non-retryable error occurs or
// retries are exhausted. For single-shot calls the body is returned fully
// read; for streams the response body is left open.
func (c *Client) execute(
	ctx context.Context,
	payload []byte,
	headers map[string]string,
	stream bool,
) (*http.Response, []byte, error) {
	var lastErr *Error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, abortedError(err)
		}

		start := time.Now()
		resp, body, err := c.attempt(ctx, payload, headers, stream)
		if err == nil {
			c.logger.DebugContext(ctx, "chat attempt succeeded",
				"attempt", attempt+1,
				"duration_ms", time.Since(start).Milliseconds())
			return resp, body, nil
		}

		lastErr = err
		c.logger.WarnContext(ctx, "chat attempt failed",
			"attempt", attempt+1,
			"max_attempts", c.maxRetries+1,
			"kind", string(err.Kind),
			"status", err.Status,
			"error", redact.Error(err))

		if !err.Retryable() || attempt == c.maxRetries {
			break
		}

		delay := c.retryBackoff * time.Duration(1<<attempt)
		c.logger.InfoContext(ctx, "retrying chat request",
			"attempt", attempt+1,
			"delay_ms", delay.Milliseconds(),
			"retry_after_ms", err.RetryAfter.Milliseconds())

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, nil, abortedError(ctx.Err())
		}
	}

	return nil, nil, lastErr
}

// attempt performs one HTTP exchange under its own timeout scope.
func (c *Client) attempt(
	ctx context.Context,
	payload []byte,
	headers map[string]string,
	stream bool,
) (*http.Response, []byte, *Error) {
	attemptCtx, cancel := context.WithCancel(ctx)
	var timedOut atomic.Bool
	timer := time.AfterFunc(c.timeout, func() {
		timedOut.Store(true)
		cancel()
	})
	release := func() {
		timer.Stop()
		cancel()
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		release()
		return nil, nil, &Error{Kind: KindConfig, Message: "failed to create request", Err: err}
	}
	c.setHeaders(httpReq, headers, stream)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		release()
		return nil, nil, classifyTransportError(ctx, timedOut.Load(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer release()
		defer resp.Body.Close()
		return nil, nil, statusError(resp)
	}

	if stream {
		timer.Stop()
		resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil, nil
	}

	defer release()
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, nil, classifyTransportError(ctx, timedOut.Load(), err)
	}
	return resp, body, nil
}

func (c *Client) setHeaders(req *http.Request, extra map[string]string, stream bool) {
	req.Header.Set("Content-Type", "application/json")
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}
}

func classifyTransportError(caller context.Context, timedOut bool, err error) *Error {
	if caller.Err() != nil {
		return abortedError(caller.Err())
	}
	if timedOut {
		return &Error{Kind: KindTimeout, Message: "attempt timed out", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: "network timeout", Err: err}
	}
	return &Error{Kind: KindNetwork, Message: "request failed", Err: err}
}

func statusError(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	e := &Error{
		Kind:       KindHTTP,
		Message:    http.StatusText(resp.StatusCode),
		Status:     resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		e.Kind = KindAuth
	}

	var upstream upstreamError
	if err := json.Unmarshal(body, &upstream); err == nil && upstream.Error.Message != "" {
		e.Message = upstream.Error.Message
		e.Details = upstream.Error
	} else if len(body) > 0 {
		e.Details = string(body)
	}

	return e
}

// parseRetryAfter accepts delay-seconds or an HTTP date.
func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// cancelOnClose releases an attempt's context when a stream body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
