package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/internal/httpc"
)

const providerProxy = "proxy"

// Proxy posts {"message": ...} to a same-origin proxy that forwards to the model.
type Proxy struct {
	url    string
	config *Config
	http   *http.Client
	logger *slog.Logger
}

// NewProxy creates a proxy provider.
func NewProxy(opts ...Option) (*Proxy, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if cfg.URL == "" {
		return nil, WrapError(providerProxy, errors.New("proxy URL required"))
	}

	h := cfg.HTTPClient
	if h == nil {
		h = httpc.Client
	}

	return &Proxy{
		url:    cfg.URL,
		config: cfg,
		http:   h,
		logger: cfg.Logger.With("component", "llm.proxy"),
	}, nil
}

type proxyRequest struct {
	Message string `json:"message"`
}

type proxyResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends message to the proxy and returns the first choice's content.
func (p *Proxy) Complete(ctx context.Context, message string) (string, error) {
	start := time.Now()

	body, err := json.Marshal(proxyRequest{Message: message})
	if err != nil {
		return "", WrapError(providerProxy, fmt.Errorf("marshal payload: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	resp, err := p.doWithRetry(ctx, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", WrapError(providerProxy, fmt.Errorf("decode response: %w", err))
	}
	if len(result.Choices) == 0 {
		return "", WrapError(providerProxy, fmt.Errorf("no choices returned"))
	}

	content := result.Choices[0].Message.Content
	if content == "" {
		return "", WrapError(providerProxy, ErrEmptyResponse)
	}

	p.logger.Debug("completion", "latency_ms", time.Since(start).Milliseconds(), "chars", len(content))
	return content, nil
}

// Close releases idle connections.
func (p *Proxy) Close() error {
	p.http.CloseIdleConnections()
	return nil
}

// doWithRetry posts body, retrying rate limits and server errors.
func (p *Proxy) doWithRetry(ctx context.Context, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, WrapError(providerProxy, ctx.Err())
			case <-time.After(p.config.RetryDelay * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
		if err != nil {
			return nil, WrapError(providerProxy, fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.http.Do(req)
		if err != nil {
			lastErr = WrapError(providerProxy, err)
			p.logger.Warn("request failed", "attempt", attempt+1, "error", err)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := parseError(providerProxy, resp)
			resp.Body.Close()
			lastErr = apiErr
			if !apiErr.IsRetryable() {
				return nil, apiErr
			}
			p.logger.Warn("retrying request", "attempt", attempt+1, "status", apiErr.StatusCode)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// parseError reads an error response body.
func parseError(provider string, resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   provider,
	}
}

// Detail renders err the way it is shown to the user after "SYSTEM ERROR: ...".
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("API error: %d", apiErr.StatusCode)
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
