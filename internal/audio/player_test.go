package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestClipPlayer_PlaysSmallClip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Under one second of audio, so pacing rounds down to zero.
		w.Write(make([]byte, 1000))
	}))
	defer srv.Close()

	p := NewClipPlayer(time.Second, zap.NewNop())
	if err := p.Play(context.Background(), srv.URL+"/audio/a.mp3"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestClipPlayer_MissingClipIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := NewClipPlayer(time.Second, zap.NewNop())
	if err := p.Play(context.Background(), srv.URL+"/audio/missing.mp3"); err == nil {
		t.Fatalf("expected error for missing clip")
	}
}

func TestClipPlayer_CancelledContextStopsPacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// ~2.5s of audio at 4000 B/s.
		w.Write(make([]byte, 10000))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	p := NewClipPlayer(time.Second, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- p.Play(ctx, srv.URL+"/audio/long.mp3") }()
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected ctx error")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("cancelled playback did not return promptly")
	}
}
