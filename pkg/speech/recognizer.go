package speech

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// EventKind identifies a recognizer event.
type EventKind int

const (
	EventStart EventKind = iota
	EventResult
	EventError
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventResult:
		return "result"
	case EventError:
		return "error"
	case EventEnd:
		return "end"
	}
	return "unknown"
}

// Recognition errors that end a session without a retry.
var (
	ErrNoSpeech = errors.New("no speech detected")
	ErrAborted  = errors.New("recognition aborted")
	ErrBusy     = errors.New("recognizer already started")
)

// Event is emitted by a Recognizer.
type Event struct {
	Kind       EventKind
	Transcript string
	Err        error
}

// Recognizer produces transcripts. A session begins with Start and
// ends with a Result, Error or End event.
type Recognizer interface {
	Start(ctx context.Context) error
	Stop()
	Events() <-chan Event
}

// LineRecognizer treats each line read from r as one utterance.
type LineRecognizer struct {
	lines  chan string
	events chan Event

	mu   sync.Mutex
	stop chan struct{}
}

// NewLineRecognizer starts reading lines from r.
func NewLineRecognizer(r io.Reader) *LineRecognizer {
	l := &LineRecognizer{
		lines:  make(chan string),
		events: make(chan Event, 4),
	}
	go l.scan(r)
	return l
}

func (l *LineRecognizer) scan(r io.Reader) {
	defer close(l.lines)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		l.lines <- sc.Text()
	}
}

// Start begins a session that ends with the next line.
func (l *LineRecognizer) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		return ErrBusy
	}
	stop := make(chan struct{})
	l.stop = stop
	go l.session(ctx, stop)
	return nil
}

func (l *LineRecognizer) session(ctx context.Context, stop chan struct{}) {
	defer func() {
		l.mu.Lock()
		if l.stop == stop {
			l.stop = nil
		}
		l.mu.Unlock()
	}()

	if !l.emit(Event{Kind: EventStart}, stop) {
		return
	}

	select {
	case <-stop:
		return
	case <-ctx.Done():
		l.emit(Event{Kind: EventError, Err: ErrAborted}, stop)
	case line, ok := <-l.lines:
		switch {
		case !ok:
			l.emit(Event{Kind: EventError, Err: ErrAborted}, stop)
		case strings.TrimSpace(line) == "":
			l.emit(Event{Kind: EventError, Err: ErrNoSpeech}, stop)
		default:
			l.emit(Event{Kind: EventResult, Transcript: line}, stop)
		}
	}
}

func (l *LineRecognizer) emit(ev Event, stop chan struct{}) bool {
	select {
	case l.events <- ev:
		return true
	case <-stop:
		return false
	}
}

// Stop ends the current session, if any.
func (l *LineRecognizer) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		close(l.stop)
		l.stop = nil
	}
}

// Events returns the event channel.
func (l *LineRecognizer) Events() <-chan Event {
	return l.events
}

var _ Recognizer = (*LineRecognizer)(nil)
