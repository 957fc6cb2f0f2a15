// Package elevenlabs implements speech.Synthesizer against the ElevenLabs
// text-to-speech HTTP API.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sceneweave/sceneweave/speech"
)

// DefaultBaseURL is the hosted ElevenLabs API endpoint.
const DefaultBaseURL = "https://api.elevenlabs.io"

// Options configure the ElevenLabs synthesizer.
type Options struct {
	APIKey          string
	VoiceID         string
	ModelID         string
	BaseURL         string
	HTTPClient      *http.Client
	Stability       float64
	SimilarityBoost float64
}

// Synthesizer calls the ElevenLabs text-to-speech endpoint.
type Synthesizer struct {
	opts Options
}

// NewSynthesizer constructs a Synthesizer. APIKey and VoiceID are required
// at call time; the remaining options carry sensible defaults.
func NewSynthesizer(apiKey, voiceID string, optFns ...func(o *Options)) *Synthesizer {
	opts := Options{
		APIKey:          apiKey,
		VoiceID:         voiceID,
		ModelID:         "eleven_monolingual_v1",
		BaseURL:         DefaultBaseURL,
		HTTPClient:      &http.Client{Timeout: 30 * time.Second},
		Stability:       0.5,
		SimilarityBoost: 0.75,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Synthesizer{opts: opts}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize implements speech.Synthesizer.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (speech.Clip, error) {
	if s.opts.APIKey == "" {
		return speech.Clip{}, fmt.Errorf("elevenlabs api key not configured")
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:    text,
		ModelID: s.opts.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       s.opts.Stability,
			SimilarityBoost: s.opts.SimilarityBoost,
		},
	})
	if err != nil {
		return speech.Clip{}, fmt.Errorf("failed to encode tts request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.opts.BaseURL, s.opts.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return speech.Clip{}, fmt.Errorf("failed to build tts request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", s.opts.APIKey)

	resp, err := s.opts.HTTPClient.Do(req)
	if err != nil {
		return speech.Clip{}, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return speech.Clip{}, fmt.Errorf("tts api returned status %d: %s", resp.StatusCode, snippet)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return speech.Clip{}, fmt.Errorf("failed to read tts response: %w", err)
	}
	return speech.Clip{Data: data, MIMEType: "audio/mpeg"}, nil
}
