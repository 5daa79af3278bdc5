// Package httpclient is the thin GET/POST-JSON wrapper shared by the
// activity provider, the chat webhook, the chat uploader, and the
// analyzer. Every named client wraps its calls in a circuit breaker
// (adapted from the teacher's pkg/circuitbreaker) and, where the
// upstream is rate-limited (chat, LLM), a token-bucket limiter instead
// of a retry loop.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/posaune0423/aw-analyzer/pkg/circuitbreaker"
	awerrors "github.com/posaune0423/aw-analyzer/pkg/errors"
)

// Client wraps http.Client with a named circuit breaker and an optional
// rate limiter. The zero value is not usable; construct with New.
type Client struct {
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	cfg     *circuitbreaker.Config
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithTimeout overrides the default per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRateLimit attaches a token-bucket limiter of rps requests/second
// and the given burst, mirroring the teacher's OpenAI provider limiter.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithBreakerConfig overrides the default circuit breaker settings.
func WithBreakerConfig(cfg circuitbreaker.Config) Option {
	return func(c *Client) { c.cfg = &cfg }
}

// New builds a Client named for logging/breaker purposes, with a default
// 30s timeout.
func New(name string, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	cfg := circuitbreaker.DefaultConfig()
	if c.cfg != nil {
		cfg = *c.cfg
	}
	c.breaker = circuitbreaker.New(name, cfg)
	return c
}

// Do executes req through the rate limiter (if any) and circuit breaker,
// returning the response body bytes and status code on a transport-level
// success (the caller still must check status for HTTP-level errors).
func (c *Client) Do(ctx context.Context, req *http.Request) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, awerrors.Connection("rate limiter wait failed", err)
		}
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return rawResponse{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		return nil, 0, awerrors.Connection(fmt.Sprintf("request to %s failed", req.URL.Host), err)
	}

	rr := result.(rawResponse)
	return rr.body, rr.status, nil
}

type rawResponse struct {
	status int
	body   []byte
}

// GetJSON issues a GET request and decodes a JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, awerrors.Connection("failed to build GET request", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	body, status, err := c.Do(ctx, req)
	if err != nil {
		return 0, err
	}
	if status < 200 || status >= 300 {
		return status, nil
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return status, awerrors.Parse("failed to decode JSON response", err)
		}
	}
	return status, nil
}

// PostJSON issues a POST request with a JSON-encoded body. It does not
// decode the response: it returns the raw body alongside the status so
// callers needing API-level ok/error fields can decode it themselves.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, payload interface{}) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, awerrors.Connection("failed to marshal request body", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, 0, awerrors.Connection("failed to build POST request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.Do(ctx, req)
}

// PostForm issues a form-encoded POST request (used by the chat Web API
// upload legs, which are form- not JSON-encoded).
func (c *Client) PostForm(ctx context.Context, url string, headers map[string]string, form io.Reader, contentType string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, form)
	if err != nil {
		return nil, 0, awerrors.Connection("failed to build form POST request", err)
	}
	req.Header.Set("Content-Type", contentType)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(ctx, req)
}
