package llm

import (
	"log/slog"
	"net/http"
	"time"
)

// Config holds provider configuration.
type Config struct {
	// Connection
	URL        string // Proxy endpoint or API base URL
	APIKey     string // API key (direct mode only)
	HTTPClient *http.Client

	// Model is the chat model for direct mode.
	Model string

	// SystemPrompt is sent before the user message in direct mode.
	SystemPrompt string

	Timeout time.Duration

	// Retry configuration
	MaxRetries int
	RetryDelay time.Duration

	Logger *slog.Logger
}

// Option is a functional option for configuring providers.
type Option func(*Config)

// WithURL sets the proxy endpoint or API base URL.
func WithURL(url string) Option {
	return func(c *Config) { c.URL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Config) { c.HTTPClient = h }
}

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithSystemPrompt sets the system prompt.
func WithSystemPrompt(p string) Option {
	return func(c *Config) { c.SystemPrompt = p }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithRetry configures retry behavior.
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

// DefaultSystemPrompt keeps replies short enough to be spoken.
const DefaultSystemPrompt = "You are Marvin, a concise voice assistant. Answer in a few spoken sentences without markdown."

// DefaultConfig returns defaults for the Groq-backed proxy.
func DefaultConfig() *Config {
	return &Config{
		URL:          "http://localhost:8888/.netlify/functions/groq-proxy",
		Model:        "llama-3.1-8b-instant",
		SystemPrompt: DefaultSystemPrompt,
		Timeout:      10 * time.Second,
		RetryDelay:   200 * time.Millisecond,
		Logger:       slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
