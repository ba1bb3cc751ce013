// Package speech is the speech I/O adapter: it speaks responses and turns
// recognizer events into command transcripts.
package speech

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/tts"
)

// Speaker speaks text. Speak returns once the utterance has finished or ctx is done.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// LogSpeaker "speaks" by logging the text. It is the output used when no
// audio device or TTS provider is configured.
type LogSpeaker struct {
	logger *slog.Logger
	pace   bool
}

// LogOption configures a LogSpeaker.
type LogOption func(*LogSpeaker)

// WithPacing makes Speak wait for the estimated spoken duration of the text.
func WithPacing() LogOption {
	return func(s *LogSpeaker) { s.pace = true }
}

// NewLogSpeaker creates a LogSpeaker writing to logger (slog.Default() if nil).
func NewLogSpeaker(logger *slog.Logger, opts ...LogOption) *LogSpeaker {
	if logger == nil {
		logger = slog.Default()
	}
	s := &LogSpeaker{logger: logger.With("component", "speech.log")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Speak logs text and optionally waits as long as it would take to say it.
func (s *LogSpeaker) Speak(ctx context.Context, text string) error {
	s.logger.Info("speak", "text", text)
	if !s.pace {
		return nil
	}

	t := time.NewTimer(tts.EstimateDuration(text))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SpeakerFunc adapts a function to the Speaker interface.
type SpeakerFunc func(ctx context.Context, text string) error

// Speak calls f.
func (f SpeakerFunc) Speak(ctx context.Context, text string) error {
	return f(ctx, text)
}

var (
	_ Speaker = (*LogSpeaker)(nil)
	_ Speaker = SpeakerFunc(nil)
)
