package tts_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/tts"
)

func TestOpenAISynthesize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Expected Bearer test-key, got %s", auth)
		}
		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["input"] != "Hello world" {
			t.Errorf("input: got %q", payload["input"])
		}
		if payload["voice"] != tts.VoiceFable {
			t.Errorf("voice: got %q", payload["voice"])
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3fake-mp3"))
	}))
	defer server.Close()

	p, err := tts.NewOpenAI(tts.WithAPIKey("test-key"), tts.WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	defer p.Close()

	result, err := p.Synthesize(context.Background(), "  Hello world ")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(result.Audio) != "ID3fake-mp3" {
		t.Errorf("audio: got %q", result.Audio)
	}
	if result.Format.Encoding != tts.EncodingMP3 {
		t.Errorf("encoding: got %q", result.Format.Encoding)
	}
	if result.CharCount != 11 {
		t.Errorf("expected 11 chars, got %d", result.CharCount)
	}
}

func TestOpenAIErrors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		if _, err := tts.NewOpenAI(); !errors.Is(err, tts.ErrNoAPIKey) {
			t.Errorf("expected ErrNoAPIKey, got %v", err)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		p, _ := tts.NewOpenAI(tts.WithAPIKey("k"))
		if _, err := p.Synthesize(context.Background(), "   "); !errors.Is(err, tts.ErrEmptyText) {
			t.Errorf("expected ErrEmptyText, got %v", err)
		}
	})

	t.Run("unauthorized is not retried", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"bad key"}}`))
		}))
		defer server.Close()

		p, _ := tts.NewOpenAI(tts.WithAPIKey("k"), tts.WithBaseURL(server.URL), tts.WithRetry(3, time.Millisecond))
		_, err := p.Synthesize(context.Background(), "hi")

		var apiErr *tts.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != 401 || apiErr.Message != "bad key" {
			t.Errorf("expected 401 APIError, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("server error is retried", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte("ID3"))
		}))
		defer server.Close()

		p, _ := tts.NewOpenAI(tts.WithAPIKey("k"), tts.WithBaseURL(server.URL), tts.WithRetry(2, time.Millisecond))
		if _, err := p.Synthesize(context.Background(), "hi"); err != nil {
			t.Fatalf("Synthesize: %v", err)
		}
		if calls != 2 {
			t.Errorf("expected 2 calls, got %d", calls)
		}
	})
}

func TestMock(t *testing.T) {
	m := tts.NewMock()
	ctx := context.Background()

	if _, err := m.Synthesize(ctx, "one"); err != nil {
		t.Fatal(err)
	}
	m.SynthesizeFunc = func(context.Context, string) (*tts.AudioResult, error) {
		return nil, errors.New("offline")
	}
	if _, err := m.Synthesize(ctx, "two"); err == nil {
		t.Error("expected error from SynthesizeFunc")
	}

	texts := m.Texts()
	if len(texts) != 2 || texts[0] != "one" || texts[1] != "two" {
		t.Errorf("texts: got %v", texts)
	}
}

func TestEstimateDuration(t *testing.T) {
	if d := tts.EstimateDuration(""); d != 0 {
		t.Errorf("empty: got %v", d)
	}
	if d := tts.EstimateDuration("hello world"); d <= 0 {
		t.Errorf("expected positive duration, got %v", d)
	}
}
