package router

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

// Defaults.
const (
	DefaultWeatherLocation = "Bangalore"
	DefaultShutdownDelay   = time.Second
)

// Config holds Router configuration.
type Config struct {
	// WeatherLocation is used when a weather command names no place.
	WeatherLocation string

	// ShutdownDelay is the wait between the goodbye and hiding the UI.
	ShutdownDelay time.Duration

	Rand   *rand.Rand
	Now    func() time.Time
	Logger *slog.Logger
}

// Option configures a Router.
type Option func(*Config)

// WithWeatherLocation sets the default weather location.
func WithWeatherLocation(loc string) Option {
	return func(c *Config) {
		if loc != "" {
			c.WeatherLocation = loc
		}
	}
}

// WithShutdownDelay sets the delay before the UI is hidden.
func WithShutdownDelay(d time.Duration) Option {
	return func(c *Config) { c.ShutdownDelay = d }
}

// WithRand sets the random source used to pick jokes.
func WithRand(r *rand.Rand) Option {
	return func(c *Config) { c.Rand = r }
}

// WithClock sets the time source for time and date answers.
func WithClock(now func() time.Time) Option {
	return func(c *Config) { c.Now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		WeatherLocation: DefaultWeatherLocation,
		ShutdownDelay:   DefaultShutdownDelay,
		Now:             time.Now,
		Logger:          slog.Default(),
	}
}

// Apply applies options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
