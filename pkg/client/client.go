// Package client is the Go SDK for the ChemDraw AI HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/ChemDraw-AI/pkg/types/common"
)

const Version = "0.1.0"

// ErrInvalidBaseURL is returned by NewClient for an empty or non-HTTP base URL.
var ErrInvalidBaseURL = stderrors.New("chemdraw: base URL must be an absolute http or https URL")

// Logger defines the logging interface used by the Client
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// noopLogger is a no-op implementation of Logger
type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client is the ChemDraw AI SDK client.  Only GET requests are retried;
// a generation is never repeated on the caller's behalf.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	sessions     *SessionsClient
	sessionsOnce sync.Once
}

// APIError represents an error response from the API
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chemdraw: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, e.Message, e.RequestID)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// envelope is the wire shape of every JSON response.
type envelope struct {
	Success   bool                `json:"success"`
	Data      json.RawMessage     `json:"data"`
	Error     *common.ErrorDetail `json:"error"`
	RequestID string              `json:"request_id"`
}

// NewClient creates a new ChemDraw AI SDK client
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	parsedURL, err := url.Parse(baseURL)
	if baseURL == "" || err != nil || parsedURL.Host == "" ||
		(parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		return nil, ErrInvalidBaseURL
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 120 * time.Second},
		userAgent:    fmt.Sprintf("chemdraw-go-sdk/%s", Version),
		logger:       &noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Sessions returns the sessions sub-client (lazy initialization, thread-safe)
func (c *Client) Sessions() *SessionsClient {
	c.sessionsOnce.Do(func() {
		c.sessions = &SessionsClient{client: c}
	})
	return c.sessions
}

// rawResponse is a successful response whose body was read in full.
type rawResponse struct {
	header http.Header
	body   []byte
}

// send performs an HTTP request, retrying GETs on transport errors, 5xx and
// 429.  Non-2xx responses are returned as *APIError.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*rawResponse, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = b
	}

	retries := 0
	if method == http.MethodGet {
		retries = c.retryMax
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			if apiErr, ok := lastErr.(*APIError); ok && apiErr.IsRateLimited() {
				if wait := retryAfter(apiErr); wait > 0 {
					backoff = wait
				}
			}
			c.logger.Debugf("Retry attempt %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		requestID := uuid.New().String()
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Errorf("Request failed: %v", err)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode, time.Since(start))

		if resp.StatusCode >= 400 {
			apiErr := decodeAPIError(resp, respBody, requestID)
			lastErr = apiErr
			if apiErr.IsServerError() || apiErr.IsRateLimited() {
				continue
			}
			return nil, apiErr
		}
		return &rawResponse{header: resp.Header, body: respBody}, nil
	}

	return nil, lastErr
}

// do sends a JSON request and decodes the envelope's data into result.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	raw, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if result == nil || len(raw.body) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw.body, &env); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response, body []byte, requestID string) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: requestID}
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		apiErr.Detail = "retry-after=" + ra
	}
	if len(body) == 0 {
		return apiErr
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		if env.Error.Detail != "" {
			apiErr.Detail = env.Error.Detail
		}
		if env.RequestID != "" {
			apiErr.RequestID = env.RequestID
		}
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}

func retryAfter(e *APIError) time.Duration {
	v, ok := strings.CutPrefix(e.Detail, "retry-after=")
	if !ok {
		return 0
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	// Exponential backoff with jitter
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}

	// Add jitter (0-25% of backoff)
	if q := int64(backoff / 4); q > 0 {
		backoff += time.Duration(rand.Int63n(q))
	}
	return backoff
}

//Personal.AI order the ending
