// Package services implements the remote request/response services used by
// command handlers: encyclopedia lookup, weather, news and translation.
//
// Every request carries an explicit timeout. Expiry is reported as a
// retryable *ServiceError.
package services

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
	"time"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/internal/httpc"
)

// DefaultTimeout bounds every remote request.
const DefaultTimeout = 10 * time.Second

const maxBodySize = 1 << 20

// Config holds the options shared by all service clients.
type Config struct {
	BaseURL    string
	Query      string
	HTTPClient *http.Client
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	Logger     *slog.Logger
}

// Option is a functional option for configuring service clients.
type Option func(*Config)

// WithBaseURL overrides the service endpoint.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithQuery overrides the jq query used to extract the answer from a JSON response.
func WithQuery(q string) Option {
	return func(c *Config) { c.Query = q }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Config) { c.HTTPClient = h }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithRetry retries retryable failures up to maxRetries times.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func newConfig(baseURL, query string, opts []Option) *Config {
	cfg := &Config{
		BaseURL:    baseURL,
		Query:      query,
		HTTPClient: httpc.Client,
		Timeout:    DefaultTimeout,
		RetryDelay: 200 * time.Millisecond,
		Logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// client is the HTTP plumbing shared by the service implementations.
type client struct {
	name   string
	cfg    *Config
	logger *slog.Logger
}

func newClient(name string, cfg *Config) client {
	return client{
		name:   name,
		cfg:    cfg,
		logger: cfg.Logger.With("component", "services."+name),
	}
}

// get fetches rawURL and returns the body of a 2xx response.
func (c client) get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, c.wrap(ctx.Err(), 0)
			case <-time.After(c.cfg.RetryDelay * time.Duration(attempt)):
			}
		}

		body, err := c.once(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			break
		}
		c.logger.Warn("request failed, retrying", "attempt", attempt+1, "error", err)
	}

	return nil, lastErr
}

func (c client) once(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, c.wrap(fmt.Errorf("create request: %w", err), 0)
	}

	start := time.Now()
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, c.wrap(err, 0)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, c.wrap(fmt.Errorf("read body: %w", err), 0)
	}

	c.logger.Debug("request complete",
		"status", resp.StatusCode,
		"bytes", len(body),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.wrap(fmt.Errorf("%s", snippet(body)), resp.StatusCode)
	}
	return body, nil
}

// getJSON fetches rawURL and decodes the body into a generic JSON value.
func (c client) getJSON(ctx context.Context, rawURL string) (any, error) {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&v); err != nil {
		return nil, c.wrap(fmt.Errorf("%w: %v", ErrMalformed, err), 0)
	}
	return v, nil
}

func (c client) wrap(err error, status int) error {
	var ne net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout())
	return &ServiceError{
		Service:    c.name,
		StatusCode: status,
		Timeout:    timeout,
		Err:        err,
	}
}

func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	if len(body) == 0 {
		return "empty body"
	}
	return string(body)
}
