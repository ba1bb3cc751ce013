package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// playbackRate is the rate the speaker is initialized at; streams are resampled to it.
const playbackRate = beep.SampleRate(44100)

// BeepPlayer plays MP3 audio on the default output device.
type BeepPlayer struct {
	initOnce sync.Once
	initErr  error
	mu       sync.Mutex
}

// NewBeepPlayer creates a player. The audio device is opened on first use.
func NewBeepPlayer() *BeepPlayer {
	return &BeepPlayer{}
}

// Play decodes an MP3 buffer and blocks until it has been played.
func (p *BeepPlayer) Play(ctx context.Context, audio []byte) error {
	p.initOnce.Do(func() {
		p.initErr = speaker.Init(playbackRate, playbackRate.N(time.Second/10))
	})
	if p.initErr != nil {
		return fmt.Errorf("init speaker: %w", p.initErr)
	}

	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(audio)))
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}
	defer streamer.Close()

	// One utterance at a time on the device.
	p.mu.Lock()
	defer p.mu.Unlock()

	var s beep.Streamer = streamer
	if format.SampleRate != playbackRate {
		s = beep.Resample(4, format.SampleRate, playbackRate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

var _ Player = (*BeepPlayer)(nil)
