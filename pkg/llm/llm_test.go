package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestProxyComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type: got %q", ct)
		}

		var req proxyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Message != "explain black holes" {
			t.Errorf("message: got %q", req.Message)
		}

		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Black holes are..."}}]}`)
	}))
	defer server.Close()

	p, err := NewProxy(WithURL(server.URL))
	if err != nil {
		t.Fatalf("NewProxy: %v", err)
	}
	defer p.Close()

	got, err := p.Complete(context.Background(), "explain black holes")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Black holes are..." {
		t.Errorf("got %q", got)
	}
}

func TestProxyFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, "API error: 500"},
		{"unauthorized", http.StatusUnauthorized, `nope`, "API error: 401"},
		{"malformed body", http.StatusOK, `not json`, ""},
		{"no choices", http.StatusOK, `{"choices":[]}`, "no choices returned"},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":""}}]}`, ErrEmptyResponse.Error()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			p, _ := NewProxy(WithURL(server.URL))
			_, err := p.Complete(context.Background(), "hi")
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.wantDetail != "" && Detail(err) != tc.wantDetail {
				t.Errorf("Detail: got %q, want %q", Detail(err), tc.wantDetail)
			}
		})
	}
}

func TestProxyRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer server.Close()

	p, _ := NewProxy(WithURL(server.URL), WithRetry(3, time.Millisecond))
	got, err := p.Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "ok" || attempts != 3 {
		t.Errorf("got %q after %d attempts", got, attempts)
	}
}

func TestProxyTimeoutIsRetryable(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	p, _ := NewProxy(WithURL(server.URL), WithTimeout(50*time.Millisecond), WithRetry(0, 0))
	_, err := p.Complete(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var pe *ProviderError
	if !errors.As(err, &pe) || !pe.Timeout {
		t.Fatalf("expected timeout ProviderError, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("timeout should be retryable")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadline", WrapError("proxy", context.DeadlineExceeded), true},
		{"server error", &APIError{StatusCode: 503}, true},
		{"rate limited", &APIError{StatusCode: 429}, true},
		{"bad request", &APIError{StatusCode: 400}, false},
		{"malformed", WrapError("proxy", ErrEmptyResponse), false},
		{"chain of timeouts", &ChainError{Errors: []error{WrapError("proxy", context.DeadlineExceeded)}}, true},
		{"nil", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Errorf("IsRetryable(%v): got %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestProxyRequiresURL(t *testing.T) {
	if _, err := NewProxy(WithURL("")); err == nil {
		t.Error("expected error for empty URL")
	}
}

func TestOpenAIComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected /chat/completions, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Expected Bearer test-key, got %s", auth)
		}

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Model != "llama-test" {
			t.Errorf("model: got %q", body.Model)
		}
		if n := len(body.Messages); n != 2 || body.Messages[1].Content != "hello marvin" {
			t.Errorf("messages: got %+v", body.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "llama-test",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Hi there"}}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 2, "total_tokens": 7}
		}`)
	}))
	defer server.Close()

	o, err := NewOpenAI(WithURL(server.URL), WithAPIKey("test-key"), WithModel("llama-test"))
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}

	got, err := o.Complete(context.Background(), "hello marvin")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Hi there" {
		t.Errorf("got %q", got)
	}
}

func TestOpenAIAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"slow down","type":"rate_limit"}}`)
	}))
	defer server.Close()

	o, _ := NewOpenAI(WithURL(server.URL), WithAPIKey("k"))
	_, err := o.Complete(context.Background(), "x")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !apiErr.IsRateLimited() {
		t.Errorf("expected rate limit, got %d", apiErr.StatusCode)
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI(); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestChain(t *testing.T) {
	failing := WithError(errors.New("down"))
	working := NewMock("fallback answer")

	chain, err := NewChain(failing, working)
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}

	got, err := chain.Complete(context.Background(), "q")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "fallback answer" {
		t.Errorf("got %q", got)
	}
	if failing.CallCount() != 1 || working.CallCount() != 1 {
		t.Errorf("calls: failing=%d working=%d", failing.CallCount(), working.CallCount())
	}
}

func TestChainAllFail(t *testing.T) {
	chain, _ := NewChain(WithError(errors.New("a")), WithError(errors.New("b")))

	_, err := chain.Complete(context.Background(), "q")
	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("expected ChainError, got %v", err)
	}
	if len(chainErr.Errors) != 2 {
		t.Errorf("errors: got %d, want 2", len(chainErr.Errors))
	}
}

func TestNewChainEmpty(t *testing.T) {
	if _, err := NewChain(); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}
