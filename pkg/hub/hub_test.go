package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
)

// fakeConn feeds inbound frames from a channel and records writes.
type fakeConn struct {
	in chan []byte

	mu      sync.Mutex
	written [][]byte
	closed  bool
	done    chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{in: make(chan []byte, 4), done: make(chan struct{})}
}

func (c *fakeConn) SetReadLimit(int64)                {}
func (c *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetPongHandler(func(string) error) {}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-c.in:
		return websocket.TextMessage, data, nil
	case <-c.done:
		return 0, nil, errors.New("closed")
	}
}

func (c *fakeConn) WriteMessage(msgType int, data []byte) error {
	if msgType != websocket.TextMessage {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
	})
	return nil
}

func (c *fakeConn) Written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.written))
	for i, w := range c.written {
		out[i] = string(w)
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastReachesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test", nil)
	go h.Run(ctx)

	a, b := newFakeConn(), newFakeConn()
	ca, cb := NewClient(h, a), NewClient(h, b)
	go ca.Run()
	go cb.Run()
	waitFor(t, func() bool { return h.ClientCount() == 2 })

	h.Broadcast([]byte(`{"x":1}`))

	waitFor(t, func() bool { return len(a.Written()) == 1 && len(b.Written()) == 1 })
	if got := a.Written()[0]; got != `{"x":1}` {
		t.Errorf("a got %q", got)
	}
}

func TestWriteBacklogBeyondSendBuffer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test", nil)
	go h.Run(ctx)

	conn := newFakeConn()
	c := NewClient(h, conn)
	for i := range sendBuffer * 2 {
		if err := c.Write([]byte(fmt.Sprint(i))); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}
	go c.Run()

	h.Broadcast([]byte("live"))

	waitFor(t, func() bool { return len(conn.Written()) == sendBuffer*2+1 })
	got := conn.Written()
	for i := range sendBuffer * 2 {
		if got[i] != fmt.Sprint(i) {
			t.Fatalf("message %d: got %q", i, got[i])
		}
	}
	if got[len(got)-1] != "live" {
		t.Errorf("last message: got %q, want live", got[len(got)-1])
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test", nil)
	go h.Run(ctx)

	conn := newFakeConn()
	c := NewClient(h, conn)
	go c.Run()
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	conn.Close()
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	if c.Queue([]byte("late")) {
		t.Error("Queue on a dropped client should fail")
	}
}

func TestOnMessageAndQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test", nil)
	go h.Run(ctx)

	conn := newFakeConn()
	c := NewClient(h, conn)
	c.OnMessage = func(c *Client, data []byte) {
		c.Queue(append([]byte("echo:"), data...))
	}
	go c.Run()

	conn.in <- []byte("hello")
	waitFor(t, func() bool { return len(conn.Written()) == 1 })
	if got := conn.Written()[0]; got != "echo:hello" {
		t.Errorf("got %q, want echo:hello", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := New("test", nil)
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	conn := newFakeConn()
	c := NewClient(h, conn)
	go c.writePump()
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	waitFor(t, func() bool {
		conn.mu.Lock()
		defer conn.mu.Unlock()
		return conn.closed
	})
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount: got %d, want 0", h.ClientCount())
	}
}

func TestPublishEnvelope(t *testing.T) {
	data, err := Encode("status", map[string]bool{"webcam_active": true})
	if err != nil {
		t.Fatal(err)
	}
	env, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if env.Type != "status" {
		t.Errorf("Type: got %q", env.Type)
	}
	if string(env.Data) != `{"webcam_active":true}` {
		t.Errorf("Data: got %s", env.Data)
	}
}
