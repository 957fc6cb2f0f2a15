package elevenlabs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeSendsExpectedRequest(t *testing.T) {
	var (
		gotPath   string
		gotAPIKey string
		gotBody   map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("xi-api-key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	s := NewSynthesizer("key-123", "voice-1", func(o *Options) {
		o.BaseURL = srv.URL
	})

	clip, err := s.Synthesize(context.Background(), "The heart pumps blood.")
	require.NoError(t, err)

	assert.Equal(t, "/v1/text-to-speech/voice-1", gotPath)
	assert.Equal(t, "key-123", gotAPIKey)
	assert.Equal(t, "The heart pumps blood.", gotBody["text"])
	assert.Equal(t, "eleven_monolingual_v1", gotBody["model_id"])

	settings, ok := gotBody["voice_settings"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.5, settings["stability"], 1e-9)
	assert.InDelta(t, 0.75, settings["similarity_boost"], 1e-9)

	assert.Equal(t, []byte("mp3-bytes"), clip.Data)
	assert.Equal(t, "audio/mpeg", clip.MIMEType)
}

func TestSynthesizeNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewSynthesizer("key-123", "voice-1", func(o *Options) {
		o.BaseURL = srv.URL
	})

	_, err := s.Synthesize(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSynthesizeMissingAPIKey(t *testing.T) {
	s := NewSynthesizer("", "voice-1")

	_, err := s.Synthesize(context.Background(), "text")
	assert.Error(t, err)
}

func TestSynthesizeHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	s := NewSynthesizer("key-123", "voice-1", func(o *Options) {
		o.BaseURL = srv.URL
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Synthesize(ctx, "text")
	assert.Error(t, err)
}
