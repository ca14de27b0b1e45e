// Package httpclient is the shared HTTP helper for upstream APIs: timeout, retry, logging and metrics.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/miyamo2/amap-flomo-mcp/internal/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRetries = 2
	defaultBackoff = 300 * time.Millisecond

	// maxErrorBody bounds how much of a failed response is kept in a StatusError.
	maxErrorBody = 512
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Upstream   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Upstream, e.StatusCode, e.Body)
}

// Temporary reports whether retrying may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Client wraps an http.Client.
type Client struct {
	http    *http.Client
	retries int
	backoff time.Duration
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRetries sets how many times a failed attempt is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n < 0 {
			n = 0
		}
		c.retries = n
	}
}

// WithBackoff sets the base delay between attempts; attempt n waits n*d.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// WithHTTPClient replaces the underlying http.Client. The timeout option still applies if given after it.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New returns a Client.
func New(options ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		retries: defaultRetries,
		backoff: defaultBackoff,
		logger:  slog.Default(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// GetJSON sends a GET to rawURL with query and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, upstream, rawURL string, query url.Values, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s: parse url: %w", upstream, err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return c.do(ctx, upstream, http.MethodGet, u.String(), nil, out)
}

// PostJSON sends body as JSON to rawURL and decodes the JSON response into out.
func (c *Client) PostJSON(ctx context.Context, upstream, rawURL string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode body: %w", upstream, err)
	}
	return c.do(ctx, upstream, http.MethodPost, rawURL, b, out)
}

func (c *Client) do(ctx context.Context, upstream, method, rawURL string, body []byte, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}
		lastErr = c.attempt(ctx, upstream, method, rawURL, body, out)
		if lastErr == nil {
			return nil
		}
		if !retryable(ctx, method, lastErr) {
			return lastErr
		}
		c.logger.Warn("upstream_retry", "upstream", upstream, "attempt", attempt+1, "err", lastErr)
	}
	return lastErr
}

func (c *Client) attempt(ctx context.Context, upstream, method, rawURL string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	t0 := time.Now()
	metrics.UpstreamRequestsTotal.WithLabelValues(upstream).Inc()
	c.logger.Debug("upstream_req", "upstream", upstream, "method", method)
	resp, err := c.http.Do(req)
	defer func() {
		metrics.UpstreamDurationMs.WithLabelValues(upstream).Observe(float64(time.Since(t0).Milliseconds()))
	}()
	if err != nil {
		metrics.UpstreamFailTotal.WithLabelValues(upstream).Inc()
		c.logger.Error("upstream_http_error", "upstream", upstream, "err", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamFailTotal.WithLabelValues(upstream).Inc()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Upstream: upstream, StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.UpstreamFailTotal.WithLabelValues(upstream).Inc()
		c.logger.Error("upstream_decode_error", "upstream", upstream, "err", err)
		return fmt.Errorf("%s: decode response: %w", upstream, err)
	}
	c.logger.Debug("upstream_resp", "upstream", upstream, "status", resp.StatusCode, "duration_ms", time.Since(t0).Milliseconds())
	return nil
}

// retryable reports whether err is worth another attempt. Only GET is retried on
// transport errors and 5xx; other methods may already have taken effect upstream,
// so they are retried only on 429.
func retryable(ctx context.Context, method string, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if method != http.MethodGet {
			return statusErr.StatusCode == http.StatusTooManyRequests
		}
		return statusErr.Temporary()
	}
	if method != http.MethodGet {
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
