// Package session holds the process-wide mode flags of the assistant.
//
// Listening, webcam and emotion flags live only in memory. Pro mode is durable:
// it is written to the store on every change and restored by Load.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/store"
)

// Confirmation messages for pro mode changes.
const (
	ProModeOnMessage  = "PRO MODE ACTIVATED! All systems enhanced. Advanced AI capabilities online. Animations optimized for maximum performance. Ready for advanced queries."
	ProModeOffMessage = "Pro Mode deactivated. Returning to standard operational parameters."
)

// Flags is a point-in-time copy of the session flags.
type Flags struct {
	Listening     bool `json:"listening"`
	WebcamActive  bool `json:"webcamActive"`
	EmotionActive bool `json:"emotionActive"`
	ProMode       bool `json:"proMode"`
}

// State is the shared session state. Safe for concurrent use.
type State struct {
	listening atomic.Bool
	webcam    atomic.Bool
	emotion   atomic.Bool

	mu      sync.Mutex
	proMode bool

	store    store.Store
	onChange func(Flags)
	logger   *slog.Logger
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *State) { s.logger = l }
}

// WithOnChange registers a callback invoked with the new flags after every change.
func WithOnChange(fn func(Flags)) Option {
	return func(s *State) { s.onChange = fn }
}

// New creates a State persisting pro mode to st. A nil store keeps pro mode in memory.
func New(st store.Store, opts ...Option) *State {
	s := &State{
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "session")
	return s
}

// Load restores pro mode from the store. A missing key means off.
func (s *State) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	data, err := s.store.Get(ctx, store.KeyProMode)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load pro mode: %w", err)
	}

	on, err := strconv.ParseBool(string(data))
	if err != nil {
		s.logger.Warn("ignoring malformed pro mode value", "value", string(data))
		return nil
	}

	s.mu.Lock()
	s.proMode = on
	s.mu.Unlock()

	s.logger.Debug("restored pro mode", "on", on)
	return nil
}

// Flags returns a copy of the current flags.
func (s *State) Flags() Flags {
	s.mu.Lock()
	pro := s.proMode
	s.mu.Unlock()

	return Flags{
		Listening:     s.listening.Load(),
		WebcamActive:  s.webcam.Load(),
		EmotionActive: s.emotion.Load(),
		ProMode:       pro,
	}
}

// ProMode reports whether advanced mode is on.
func (s *State) ProMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proMode
}

// SetProMode switches advanced mode, persists it and returns the confirmation message.
// The in-memory flag changes even when persisting fails.
func (s *State) SetProMode(ctx context.Context, on bool) (string, error) {
	s.mu.Lock()
	s.proMode = on
	s.mu.Unlock()

	msg := ProModeOffMessage
	if on {
		msg = ProModeOnMessage
	}

	s.notify()

	if s.store == nil {
		return msg, nil
	}
	if err := s.store.Set(ctx, store.KeyProMode, []byte(strconv.FormatBool(on))); err != nil {
		return msg, fmt.Errorf("persist pro mode: %w", err)
	}
	return msg, nil
}

// Listening reports whether a recognition session is active.
func (s *State) Listening() bool { return s.listening.Load() }

// SetListening sets the listening flag and reports whether it changed.
func (s *State) SetListening(on bool) bool {
	return s.swap(&s.listening, on)
}

// WebcamActive reports whether the camera stream is open.
func (s *State) WebcamActive() bool { return s.webcam.Load() }

// SetWebcamActive sets the webcam flag and reports whether it changed.
func (s *State) SetWebcamActive(on bool) bool {
	return s.swap(&s.webcam, on)
}

// EmotionActive reports whether emotion analysis is running.
func (s *State) EmotionActive() bool { return s.emotion.Load() }

// SetEmotionActive sets the emotion flag and reports whether it changed.
func (s *State) SetEmotionActive(on bool) bool {
	return s.swap(&s.emotion, on)
}

func (s *State) swap(flag *atomic.Bool, on bool) bool {
	if flag.Swap(on) == on {
		return false
	}
	s.notify()
	return true
}

func (s *State) notify() {
	if s.onChange != nil {
		s.onChange(s.Flags())
	}
}
