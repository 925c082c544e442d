// Package caseapi is the HTTP client of the upstream case-exchange API. It
// implements the case, document and participant ports and is the single
// place where the loosely typed case document is validated.
package caseapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"casebridge/internal/buc/ports"
	dErrors "casebridge/pkg/domain-errors"
	"casebridge/pkg/platform/circuit"
	"casebridge/pkg/platform/sentinel"
	"casebridge/pkg/requestcontext"
)

const (
	// DefaultTimeout is the default request timeout
	DefaultTimeout = 10 * time.Second

	// MaxResponseSize is the maximum response body size (10MB)
	MaxResponseSize = 10 * 1024 * 1024
)

// Client calls the case-exchange API.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	breaker     *circuit.Breaker
	systemToken string
	metrics     *Metrics
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithSystemToken sets the token used for calls made as the service itself.
func WithSystemToken(token string) Option {
	return func(c *Client) {
		c.systemToken = token
	}
}

// WithBreaker replaces the default circuit breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		if b != nil {
			c.breaker = b
		}
	}
}

// WithMetrics attaches metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid case API url %q", baseURL)
	}
	c := &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		breaker: circuit.New("case-api"),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var (
	_ ports.CaseFetcher      = (*Client)(nil)
	_ ports.DocumentFetcher  = (*Client)(nil)
	_ ports.DocumentCreator  = (*Client)(nil)
	_ ports.ParticipantAdder = (*Client)(nil)
)

// request is one call to the API.
type request struct {
	operation string
	method    string
	path      []string
	body      any
	as        ports.Identity
	// subject names the resource in error messages, e.g. "case 123".
	subject string
}

// do executes r and returns the response body of a 2xx response. Failures
// are coded errors wrapping a sentinel.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	start := time.Now()
	body, outcome, err := c.exchange(ctx, r)
	c.metrics.observe(r.operation, outcome, time.Since(start))
	if err != nil {
		c.logger.InfoContext(ctx, "case API call failed",
			"operation", r.operation,
			"outcome", outcome,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return body, err
}

func (c *Client) exchange(ctx context.Context, r request) ([]byte, string, error) {
	if !c.breaker.Allow() {
		return nil, "circuit_open", dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeUnavailable,
			"case API is unavailable")
	}

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, "internal", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.recordFailure(ctx)
		if isTimeout(err) {
			return nil, "timeout", dErrors.Wrap(errors.Join(sentinel.ErrUnavailable, err), dErrors.CodeTimeout,
				"case API did not respond in time")
		}
		return nil, "unavailable", dErrors.Wrap(errors.Join(sentinel.ErrUnavailable, err), dErrors.CodeUnavailable,
			"case API is unavailable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		c.recordFailure(ctx)
		return nil, "unavailable", dErrors.Wrap(errors.Join(sentinel.ErrUnavailable, err), dErrors.CodeUnavailable,
			"case API response could not be read")
	}
	if len(body) > MaxResponseSize {
		c.recordSuccess(ctx)
		return nil, "bad_data", dErrors.Wrap(sentinel.ErrBadData, dErrors.CodeInternal,
			fmt.Sprintf("case API response exceeds %d bytes", MaxResponseSize))
	}

	if resp.StatusCode >= 500 {
		c.recordFailure(ctx)
	} else {
		c.recordSuccess(ctx)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, "ok", nil
	}
	outcome, err := statusError(resp.StatusCode, r.subject)
	return nil, outcome, err
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	u := c.baseURL.JoinPath(r.path...)

	var reader io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode case API request")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), reader)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build case API request")
	}
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestcontext.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	token := c.systemToken
	if r.as == ports.AsCaller {
		token = requestcontext.BearerToken(ctx)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// statusError maps a non-2xx status to a coded error.
func statusError(status int, subject string) (string, error) {
	switch {
	case status == http.StatusNotFound:
		return "not_found", dErrors.Wrap(sentinel.ErrNotFound, dErrors.CodeNotFound, subject+" not found")
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "forbidden", dErrors.Wrap(sentinel.ErrForbidden, dErrors.CodeForbidden, "access to "+subject+" was refused")
	case status == http.StatusConflict:
		return "conflict", dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict, subject+" was changed concurrently")
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return "timeout", dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeTimeout, "case API did not respond in time")
	case status >= 500 || status == http.StatusTooManyRequests:
		return "unavailable", dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeUnavailable,
			fmt.Sprintf("case API failed with status %d", status))
	default:
		return "rejected", dErrors.Newf(dErrors.CodeValidation, "case API rejected the request for %s (status %d)", subject, status)
	}
}

func (c *Client) recordFailure(ctx context.Context) {
	_, change := c.breaker.RecordFailure()
	if change.Opened {
		c.metrics.setCircuitOpen(true)
		c.logger.WarnContext(ctx, "case API circuit opened", "breaker", c.breaker.Name())
	}
}

func (c *Client) recordSuccess(ctx context.Context) {
	_, change := c.breaker.RecordSuccess()
	if change.Closed {
		c.metrics.setCircuitOpen(false)
		c.logger.InfoContext(ctx, "case API circuit closed", "breaker", c.breaker.Name())
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
