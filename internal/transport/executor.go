// ABOUTME: Authenticated request executor with backoff, jitter, and rate limiting
// ABOUTME: Fetches a fresh bearer token per attempt and decodes JSON responses

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/PortoLucas1/dbx-apps-genie-api/internal/auth"
)

// Defaults matching the upstream client's backoff settings.
const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 500 * time.Millisecond
)

// Classifier decides whether a failed request should be retried.
type Classifier func(err error) bool

// RetryTransient retries transport errors, rate limiting, and server-side
// failures. Client errors (4xx other than 429) are surfaced immediately so
// bad requests are not masked behind repeated attempts.
func RetryTransient(err error) bool {
	switch status := StatusOf(err); {
	case status == 0:
		return true // transport-level failure
	case status == http.StatusTooManyRequests:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}

// RetryAll retries every failure, including 4xx client errors. This mirrors
// the upstream client's blanket policy.
func RetryAll(error) bool {
	return true
}

// Executor issues authenticated JSON requests against a base URL.
type Executor struct {
	baseURL     string
	tokens      auth.TokenProvider
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxAttempts int
	baseDelay   time.Duration
	classify    Classifier
	logger      *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Executor) { e.httpClient = c }
}

// WithRateLimit throttles outgoing requests to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(e *Executor) { e.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithRetry overrides the attempt cap and base backoff delay. The cap is
// clamped to at least one attempt so a request is always issued.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(e *Executor) {
		e.maxAttempts = max(maxAttempts, 1)
		e.baseDelay = baseDelay
	}
}

// WithClassifier overrides the retry classifier.
func WithClassifier(c Classifier) Option {
	return func(e *Executor) { e.classify = c }
}

// New creates an Executor rooted at baseURL. Tokens are fetched from the
// provider before every attempt so a refreshed credential is always used.
func New(baseURL string, tokens auth.TokenProvider, opts ...Option) *Executor {
	e := &Executor{
		baseURL:     baseURL,
		tokens:      tokens,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		classify:    RetryTransient,
		logger:      slog.Default().With("component", "transport"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do issues method against path (relative to the base URL), marshaling body
// as JSON when non-nil and decoding the response into out when non-nil.
// Failed attempts are retried per the classifier with exponential backoff
// and full jitter; after the final attempt the error propagates unchanged.
func (e *Executor) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}

	requestID := uuid.New().String()

	var err error
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if attempt > 0 {
			retriesTotal.Inc()
			delay := e.backoff(attempt)
			e.logger.Warn("request failed, retrying",
				"request_id", requestID,
				"method", method,
				"path", path,
				"attempt", attempt+1,
				"delay", delay,
				"error", err,
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err = e.attempt(ctx, method, path, payload, out)
		if err == nil {
			requestsTotal.WithLabelValues(method, "success").Inc()
			return nil
		}
		if !e.classify(err) {
			break
		}
	}

	requestsTotal.WithLabelValues(method, "failure").Inc()
	return err
}

// attempt performs a single request.
func (e *Executor) attempt(ctx context.Context, method, path string, payload []byte, out any) error {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	token, err := e.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("fetching credential: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// backoff computes the delay before the given retry attempt: the base delay
// doubled per attempt, with full random jitter applied.
func (e *Executor) backoff(attempt int) time.Duration {
	ceiling := e.baseDelay << (attempt - 1)
	return time.Duration(rand.Float64() * float64(ceiling))
}
