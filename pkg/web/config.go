package web

import (
	"log/slog"
	"time"
)

// Default server settings.
const (
	DefaultListen            = ":8080"
	DefaultConversationLimit = 100
	DefaultReadTimeout       = 30 * time.Second
	DefaultWriteTimeout      = 60 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
)

// Config holds the dashboard server settings.
type Config struct {
	Listen string

	// StaticDir serves the browser UI when set.
	StaticDir string

	// ConversationLimit bounds the conversation log.
	ConversationLimit int

	// WriteTimeout must cover the slowest command, including speech.
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	Logger *slog.Logger
}

// Option configures the server.
type Option func(*Config)

// DefaultConfig returns the default server settings.
func DefaultConfig() *Config {
	return &Config{
		Listen:            DefaultListen,
		ConversationLimit: DefaultConversationLimit,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,
	}
}

// Apply applies opts to c.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// WithListen sets the listen address.
func WithListen(addr string) Option {
	return func(c *Config) { c.Listen = addr }
}

// WithStaticDir serves files from dir at /.
func WithStaticDir(dir string) Option {
	return func(c *Config) { c.StaticDir = dir }
}

// WithConversationLimit bounds the conversation log.
func WithConversationLimit(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.ConversationLimit = n
		}
	}
}

// WithTimeouts sets the HTTP read and write timeouts.
func WithTimeouts(read, write time.Duration) Option {
	return func(c *Config) {
		c.ReadTimeout = read
		c.WriteTimeout = write
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}
