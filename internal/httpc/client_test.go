package httpc

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClientTimeout(t *testing.T) {
	c := NewClient(3 * time.Second)
	if c.Timeout != 3*time.Second {
		t.Errorf("Timeout: got %v, want 3s", c.Timeout)
	}
	if c.Transport == nil {
		t.Error("Transport should be set")
	}
}

func TestNewProxyClientDirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c, err := NewProxyClient(time.Second, "")
	if err != nil {
		t.Fatalf("NewProxyClient: %v", err)
	}

	resp, err := c.Get(server.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", resp.StatusCode)
	}
}

func TestNewProxyClientSocks(t *testing.T) {
	c, err := NewProxyClient(time.Second, "127.0.0.1:1080")
	if err != nil {
		t.Fatalf("NewProxyClient: %v", err)
	}
	if c.Timeout != time.Second {
		t.Errorf("Timeout: got %v, want 1s", c.Timeout)
	}
}
