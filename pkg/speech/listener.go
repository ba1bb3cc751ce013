package speech

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// ListeningStatus is shown when the recognizer starts capturing.
const ListeningStatus = "Marvin is listening..."

// Listener timing.
const (
	DefaultStartDelay   = 100 * time.Millisecond
	DefaultRestartDelay = 500 * time.Millisecond
)

// ListeningFlag records whether a listening session is active.
type ListeningFlag interface {
	Listening() bool
	SetListening(on bool) bool
}

// Handler receives a lower-cased transcript.
type Handler func(ctx context.Context, transcript string)

// Listener runs at most one recognition session at a time and hands
// each transcript to a Handler. After a result, or an ErrNoSpeech or
// ErrAborted error, listening stops. An end event or any other error
// restarts recognition while the session is still active.
type Listener struct {
	rec     Recognizer
	flag    ListeningFlag
	handler Handler
	status  func(string)
	logger  *slog.Logger

	startDelay   time.Duration
	restartDelay time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

// WithStatus sets the callback that shows ListeningStatus.
func WithStatus(fn func(string)) ListenerOption {
	return func(l *Listener) { l.status = fn }
}

// WithDelays overrides the start and restart delays.
func WithDelays(start, restart time.Duration) ListenerOption {
	return func(l *Listener) {
		l.startDelay = start
		l.restartDelay = restart
	}
}

// WithListenerLogger sets the logger.
func WithListenerLogger(logger *slog.Logger) ListenerOption {
	return func(l *Listener) { l.logger = logger }
}

// NewListener creates a listener.
func NewListener(rec Recognizer, flag ListeningFlag, handler Handler, opts ...ListenerOption) *Listener {
	l := &Listener{
		rec:          rec,
		flag:         flag,
		handler:      handler,
		status:       func(string) {},
		logger:       slog.Default(),
		startDelay:   DefaultStartDelay,
		restartDelay: DefaultRestartDelay,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "speech.listener")
	return l
}

// Toggle starts listening, or stops it if a session is active.
// It reports whether the listener is now listening.
func (l *Listener) Toggle(ctx context.Context) bool {
	if l.Active() {
		l.Stop()
		return false
	}
	l.Start(ctx)
	return true
}

// Active reports whether a session is running.
func (l *Listener) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

// Start begins a session. It is a no-op when one is already running.
func (l *Listener) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}

	session, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.flag.SetListening(true)

	l.wg.Add(1)
	go l.run(ctx, session, cancel)
}

// Stop ends the session and waits for its goroutine to exit.
func (l *Listener) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()

	l.flag.SetListening(false)
	if cancel == nil {
		return
	}
	cancel()
	l.rec.Stop()
	l.wg.Wait()
}

// run drives one listening session. The handler gets base, not the
// session context, since the session is over once a transcript arrives.
func (l *Listener) run(base, ctx context.Context, cancel context.CancelFunc) {
	defer l.wg.Done()

	delay := l.startDelay
	for {
		if !sleep(ctx, delay) {
			return
		}

		// A stale session may still be winding down.
		l.rec.Stop()
		if err := l.rec.Start(ctx); err != nil {
			l.logger.Warn("recognizer start failed", "error", err)
			l.finish(cancel)
			return
		}

		transcript, restart := l.session(ctx)
		if transcript != "" {
			l.finish(cancel)
			l.handler(base, transcript)
			return
		}
		if !restart || ctx.Err() != nil {
			l.finish(cancel)
			return
		}
		delay = l.restartDelay
	}
}

// session consumes events until the recognizer session ends.
func (l *Listener) session(ctx context.Context) (transcript string, restart bool) {
	for {
		select {
		case <-ctx.Done():
			return "", false
		case ev, ok := <-l.rec.Events():
			if !ok {
				return "", false
			}
			switch ev.Kind {
			case EventStart:
				l.status(ListeningStatus)
			case EventResult:
				l.rec.Stop()
				t := strings.ToLower(strings.TrimSpace(ev.Transcript))
				if t == "" {
					return "", false
				}
				return t, false
			case EventError:
				l.rec.Stop()
				if errors.Is(ev.Err, ErrNoSpeech) || errors.Is(ev.Err, ErrAborted) {
					l.logger.Debug("recognition ended", "error", ev.Err)
					return "", false
				}
				l.logger.Warn("recognition error", "error", ev.Err)
				return "", true
			case EventEnd:
				return "", true
			}
		}
	}
}

// finish clears the session if it is still the current one.
func (l *Listener) finish(cancel context.CancelFunc) {
	l.mu.Lock()
	owned := l.cancel != nil
	if owned {
		l.cancel = nil
	}
	l.mu.Unlock()

	cancel()
	if owned {
		l.flag.SetListening(false)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
