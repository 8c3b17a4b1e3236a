package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/config"
)

// TokenSource supplies the bearer token attached to outbound calls.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// StatusError is returned for any non-2xx backend response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: backend returned %d", e.Method, e.Path, e.StatusCode)
}

// StatusCode extracts the HTTP status from err, or 0 when err is not a StatusError.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// ErrMalformedResponse is returned when a 2xx body cannot be decoded.
var ErrMalformedResponse = errors.New("malformed backend response")

const maxErrorBody = 4 << 10

// Client is the shared HTTP client for the hospital backend. Every call
// carries Authorization: Bearer <token> when a token is available.
type Client struct {
	baseURL string
	paths   config.BackendConfig
	http    *http.Client
	logger  *zap.Logger

	mu     sync.RWMutex
	tokens TokenSource
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// New builds a client bound by the configured timeout.
func New(cfg config.BackendConfig, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		paths:   cfg,
		http: &http.Client{
			Timeout: cfg.Timeout(),
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger.Named("apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UseTokenSource swaps the token source after construction, which lets the
// session store and the client be built in either order.
func (c *Client) UseTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

type requestOptions struct {
	bearer    string
	hasBearer bool
}

// RequestOption customizes a single call.
type RequestOption func(*requestOptions)

// WithBearer pins the bearer token for one call, bypassing the token source.
func WithBearer(token string) RequestOption {
	return func(o *requestOptions) {
		o.bearer = token
		o.hasBearer = true
	}
}

// Do sends a JSON request and decodes a JSON response into out when non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearerFor(ro); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	return nil
}

func (c *Client) bearerFor(ro requestOptions) string {
	if ro.hasBearer {
		return ro.bearer
	}
	c.mu.RLock()
	ts := c.tokens
	c.mu.RUnlock()
	if ts == nil {
		return ""
	}
	return ts.Token()
}
