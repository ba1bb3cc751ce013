package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/tts"
)

// Player plays an encoded audio buffer and blocks until playback ends or ctx is done.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// TTSSpeaker synthesizes text with a tts.Provider and plays the result.
// Starting a new utterance cancels the one in progress.
type TTSSpeaker struct {
	provider tts.Provider
	player   Player
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
}

// NewTTSSpeaker creates a speaker from a provider and a player.
func NewTTSSpeaker(provider tts.Provider, player Player, logger *slog.Logger) *TTSSpeaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &TTSSpeaker{
		provider: provider,
		player:   player,
		logger:   logger.With("component", "speech.tts"),
	}
}

// Speak synthesizes and plays text, returning when playback completes.
// A superseded utterance returns context.Canceled.
func (s *TTSSpeaker) Speak(ctx context.Context, text string) error {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.seq == seq {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}()

	result, err := s.provider.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesize: %w", err)
	}

	if err := s.player.Play(ctx, result.Audio); err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Debug("utterance interrupted", "chars", len(text))
		}
		return err
	}
	return nil
}

// Cancel stops the utterance in progress, if any.
func (s *TTSSpeaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

var _ Speaker = (*TTSSpeaker)(nil)
