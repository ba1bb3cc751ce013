package perception

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/store"
)

// Loop timing defaults.
const (
	DefaultFrameInterval   = 33 * time.Millisecond
	DefaultRetryBackoff    = 500 * time.Millisecond
	DefaultEmotionInterval = 3 * time.Second
)

// Config holds Manager configuration.
type Config struct {
	// FrameInterval paces the detection loop between successful frames.
	FrameInterval time.Duration

	// RetryBackoff is the wait after a failed or not-ready frame.
	RetryBackoff time.Duration

	// EmotionInterval is the period of the emotion readout.
	EmotionInterval time.Duration

	// Rand drives the emotion simulation. Nil seeds one randomly.
	Rand *rand.Rand

	// DetectionLog receives a snapshot whenever the detected label set changes.
	DetectionLog *store.DetectionLog

	// OnUpdate is called with the new snapshot after every published change.
	OnUpdate func(Snapshot)

	Now    func() time.Time
	Logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Config)

// WithFrameInterval sets the detection pacing interval.
func WithFrameInterval(d time.Duration) Option {
	return func(c *Config) { c.FrameInterval = d }
}

// WithRetryBackoff sets the failure backoff.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Config) { c.RetryBackoff = d }
}

// WithEmotionInterval sets the emotion readout period.
func WithEmotionInterval(d time.Duration) Option {
	return func(c *Config) { c.EmotionInterval = d }
}

// WithRand sets the random source of the emotion simulation.
func WithRand(r *rand.Rand) Option {
	return func(c *Config) { c.Rand = r }
}

// WithDetectionLog enables persisting detection snapshots.
func WithDetectionLog(l *store.DetectionLog) Option {
	return func(c *Config) { c.DetectionLog = l }
}

// WithOnUpdate registers the snapshot callback.
func WithOnUpdate(fn func(Snapshot)) Option {
	return func(c *Config) { c.OnUpdate = fn }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Config) { c.Now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns the default loop timing.
func DefaultConfig() *Config {
	return &Config{
		FrameInterval:   DefaultFrameInterval,
		RetryBackoff:    DefaultRetryBackoff,
		EmotionInterval: DefaultEmotionInterval,
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
