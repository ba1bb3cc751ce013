package speech

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/tts"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type flag struct{ on atomic.Bool }

func (f *flag) Listening() bool { return f.on.Load() }
func (f *flag) SetListening(on bool) bool {
	return f.on.Swap(on) != on
}

type result struct {
	mu    sync.Mutex
	got   []string
	calls chan string
}

func newResult() *result { return &result{calls: make(chan string, 8)} }

func (r *result) handle(_ context.Context, t string) {
	r.mu.Lock()
	r.got = append(r.got, t)
	r.mu.Unlock()
	r.calls <- t
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestLogSpeaker(t *testing.T) {
	s := NewLogSpeaker(quietLogger())
	if err := s.Speak(context.Background(), "hello"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
}

func TestLogSpeakerPacingHonorsContext(t *testing.T) {
	s := NewLogSpeaker(quietLogger(), WithPacing())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := s.Speak(ctx, "this sentence would take several seconds to say out loud")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Speak did not return promptly on cancellation")
	}
}

type blockingPlayer struct {
	mu      sync.Mutex
	started chan struct{}
	results []error
}

func (p *blockingPlayer) Play(ctx context.Context, audio []byte) error {
	p.started <- struct{}{}
	if string(audio) == "first" {
		<-ctx.Done()
		p.record(ctx.Err())
		return ctx.Err()
	}
	p.record(nil)
	return nil
}

func (p *blockingPlayer) record(err error) {
	p.mu.Lock()
	p.results = append(p.results, err)
	p.mu.Unlock()
}

func TestTTSSpeakerCancelsPreviousUtterance(t *testing.T) {
	provider := tts.NewMock()
	provider.SynthesizeFunc = func(ctx context.Context, text string) (*tts.AudioResult, error) {
		return &tts.AudioResult{Audio: []byte(text)}, nil
	}
	player := &blockingPlayer{started: make(chan struct{}, 2)}
	s := NewTTSSpeaker(provider, player, quietLogger())

	firstErr := make(chan error, 1)
	go func() { firstErr <- s.Speak(context.Background(), "first") }()
	<-player.started

	if err := s.Speak(context.Background(), "second"); err != nil {
		t.Fatalf("second Speak: %v", err)
	}

	select {
	case err := <-firstErr:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("first Speak: got %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("first utterance was not cancelled")
	}
}

func TestTTSSpeakerSynthesisError(t *testing.T) {
	provider := tts.NewMock()
	provider.SynthesizeFunc = func(ctx context.Context, text string) (*tts.AudioResult, error) {
		return nil, tts.ErrProviderUnavailable
	}
	s := NewTTSSpeaker(provider, &blockingPlayer{started: make(chan struct{}, 1)}, quietLogger())

	if err := s.Speak(context.Background(), "hi"); !errors.Is(err, tts.ErrProviderUnavailable) {
		t.Errorf("got %v, want ErrProviderUnavailable", err)
	}
}

func TestLineRecognizer(t *testing.T) {
	pr, pw := io.Pipe()
	rec := NewLineRecognizer(pr)

	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := rec.Start(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start: got %v, want ErrBusy", err)
	}

	go pw.Write([]byte("What Time Is It\n"))

	if ev := <-rec.Events(); ev.Kind != EventStart {
		t.Fatalf("first event: got %v, want start", ev.Kind)
	}
	ev := <-rec.Events()
	if ev.Kind != EventResult || ev.Transcript != "What Time Is It" {
		t.Fatalf("got %+v", ev)
	}

	pw.Close()
	waitFor(t, func() bool { return rec.Start(context.Background()) == nil })
	<-rec.Events()
	if ev := <-rec.Events(); ev.Kind != EventError || !errors.Is(ev.Err, ErrAborted) {
		t.Errorf("after EOF: got %+v", ev)
	}
}

func TestListenerDeliversLowercasedTranscript(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	f := &flag{}
	res := newResult()
	var status atomic.Value
	l := NewListener(NewLineRecognizer(pr), f, res.handle,
		WithDelays(0, 0),
		WithStatus(func(s string) { status.Store(s) }),
		WithListenerLogger(quietLogger()),
	)

	l.Start(context.Background())
	if !f.Listening() {
		t.Fatal("flag should be set on Start")
	}

	go pw.Write([]byte("Open YouTube\n"))

	select {
	case got := <-res.calls:
		if got != "open youtube" {
			t.Errorf("transcript: got %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called")
	}

	if s, _ := status.Load().(string); s != ListeningStatus {
		t.Errorf("status: got %q, want %q", s, ListeningStatus)
	}
	waitFor(t, func() bool { return !l.Active() && !f.Listening() })
}

func TestListenerHandlerContextOutlivesSession(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	errs := make(chan error, 1)
	handler := func(ctx context.Context, _ string) {
		// Handlers speak and call remote services after the session ends.
		time.Sleep(20 * time.Millisecond)
		errs <- ctx.Err()
	}
	l := NewListener(NewLineRecognizer(pr), &flag{}, handler,
		WithDelays(0, 0),
		WithListenerLogger(quietLogger()),
	)

	l.Start(context.Background())
	go pw.Write([]byte("what is the weather in paris\n"))

	select {
	case err := <-errs:
		if err != nil {
			t.Errorf("handler ctx.Err(): got %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called")
	}
}

func TestListenerHandlerContextFollowsParent(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan context.Context, 1)
	l := NewListener(NewLineRecognizer(pr), &flag{}, func(ctx context.Context, _ string) { got <- ctx },
		WithDelays(0, 0),
		WithListenerLogger(quietLogger()),
	)

	l.Start(ctx)
	go pw.Write([]byte("hello\n"))

	select {
	case hctx := <-got:
		cancel()
		select {
		case <-hctx.Done():
		case <-time.After(time.Second):
			t.Error("handler ctx should be canceled with the parent")
		}
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("handler not called")
	}
}

func TestListenerToggle(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	f := &flag{}
	l := NewListener(NewLineRecognizer(pr), f, newResult().handle, WithListenerLogger(quietLogger()))

	if !l.Toggle(context.Background()) {
		t.Fatal("first Toggle should start listening")
	}
	if l.Toggle(context.Background()) {
		t.Fatal("second Toggle should stop listening")
	}
	if l.Active() || f.Listening() {
		t.Error("listener should be idle after toggling off")
	}
}

func TestListenerStopsOnNoSpeech(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	f := &flag{}
	res := newResult()
	l := NewListener(NewLineRecognizer(pr), f, res.handle, WithDelays(0, 0), WithListenerLogger(quietLogger()))

	l.Start(context.Background())
	go pw.Write([]byte("   \n"))

	waitFor(t, func() bool { return !l.Active() })
	if f.Listening() {
		t.Error("flag should be cleared")
	}
	if len(res.got) != 0 {
		t.Errorf("handler should not be called, got %v", res.got)
	}
}

// scriptedRecognizer emits one scripted batch of events per Start.
type scriptedRecognizer struct {
	mu      sync.Mutex
	batches [][]Event
	starts  int
	events  chan Event
}

func (s *scriptedRecognizer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.starts >= len(s.batches) {
		return errors.New("script exhausted")
	}
	for _, ev := range s.batches[s.starts] {
		s.events <- ev
	}
	s.starts++
	return nil
}

func (s *scriptedRecognizer) Stop()                {}
func (s *scriptedRecognizer) Events() <-chan Event { return s.events }

func (s *scriptedRecognizer) Starts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}

func TestListenerRestartsAfterEndAndTransientError(t *testing.T) {
	rec := &scriptedRecognizer{
		events: make(chan Event, 8),
		batches: [][]Event{
			{{Kind: EventStart}, {Kind: EventEnd}},
			{{Kind: EventStart}, {Kind: EventError, Err: errors.New("network")}},
			{{Kind: EventStart}, {Kind: EventResult, Transcript: "Tell Me A Joke"}},
		},
	}
	res := newResult()
	l := NewListener(rec, &flag{}, res.handle, WithDelays(0, time.Millisecond), WithListenerLogger(quietLogger()))

	l.Start(context.Background())

	select {
	case got := <-res.calls:
		if got != "tell me a joke" {
			t.Errorf("transcript: got %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called")
	}
	if n := rec.Starts(); n != 3 {
		t.Errorf("starts: got %d, want 3", n)
	}
}

func TestListenerGivesUpWhenRecognizerFails(t *testing.T) {
	rec := &scriptedRecognizer{events: make(chan Event, 1)}
	f := &flag{}
	l := NewListener(rec, f, newResult().handle, WithDelays(0, 0), WithListenerLogger(quietLogger()))

	l.Start(context.Background())
	waitFor(t, func() bool { return !l.Active() && !f.Listening() })
}
