package session

import (
	"context"
	"errors"
	"testing"

	"github.com/Adystar786/Marvin-AI-Virtual-Assistant-with-Object-Detection/pkg/store"
)

func TestProModePersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	s := New(st)
	msg, err := s.SetProMode(ctx, true)
	if err != nil {
		t.Fatalf("SetProMode: %v", err)
	}
	if msg != ProModeOnMessage {
		t.Errorf("message: got %q", msg)
	}

	reloaded := New(st)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reloaded.ProMode() {
		t.Error("pro mode should be restored as on")
	}

	msg, _ = reloaded.SetProMode(ctx, false)
	if msg != ProModeOffMessage {
		t.Errorf("message: got %q", msg)
	}

	again := New(st)
	_ = again.Load(ctx)
	if again.ProMode() {
		t.Error("pro mode should be restored as off")
	}
}

func TestLoadMissingAndMalformed(t *testing.T) {
	ctx := context.Background()

	s := New(store.NewMemory())
	if err := s.Load(ctx); err != nil || s.ProMode() {
		t.Errorf("missing key: err=%v proMode=%v", err, s.ProMode())
	}

	st := store.NewMemory()
	_ = st.Set(ctx, store.KeyProMode, []byte("maybe"))
	s = New(st)
	if err := s.Load(ctx); err != nil || s.ProMode() {
		t.Errorf("malformed value: err=%v proMode=%v", err, s.ProMode())
	}
}

type failingStore struct{ store.Memory }

func (*failingStore) Set(context.Context, string, []byte) error { return errors.New("disk full") }

func TestSetProModePersistFailure(t *testing.T) {
	s := New(&failingStore{})
	msg, err := s.SetProMode(context.Background(), true)
	if err == nil {
		t.Fatal("expected persist error")
	}
	if msg != ProModeOnMessage || !s.ProMode() {
		t.Errorf("in-memory flag should still change: msg=%q proMode=%v", msg, s.ProMode())
	}
}

func TestFlagsAndOnChange(t *testing.T) {
	var changes []Flags
	s := New(nil, WithOnChange(func(f Flags) { changes = append(changes, f) }))

	if !s.SetWebcamActive(true) {
		t.Error("first SetWebcamActive(true) should report a change")
	}
	if s.SetWebcamActive(true) {
		t.Error("repeated SetWebcamActive(true) should not report a change")
	}
	s.SetEmotionActive(true)
	s.SetListening(true)

	got := s.Flags()
	want := Flags{Listening: true, WebcamActive: true, EmotionActive: true}
	if got != want {
		t.Errorf("Flags: got %+v, want %+v", got, want)
	}
	if len(changes) != 3 {
		t.Errorf("onChange calls: got %d, want 3", len(changes))
	}
}
