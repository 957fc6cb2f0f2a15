package speech

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Clip is a synthesized audio segment.
type Clip struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
}

// Synthesizer converts narration text into audio.
//
// Implementations must honor ctx cancellation. Failures are per-call; the
// caller decides whether a failed clip degrades or aborts the run.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (Clip, error)
}

// MockSynthesizer is an in-memory Synthesizer for tests. It records every
// request and returns deterministic pseudo-audio, or a scripted error for
// texts containing a registered substring.
type MockSynthesizer struct {
	mu    sync.Mutex
	fails map[string]error
	calls []string
}

// NewMockSynthesizer constructs a MockSynthesizer.
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{fails: make(map[string]error)}
}

// FailOn registers err to be returned for any text containing match.
func (m *MockSynthesizer) FailOn(match string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fails[match] = err
}

// Calls returns a snapshot of all texts synthesized so far.
func (m *MockSynthesizer) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Synthesize implements Synthesizer.
func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) (Clip, error) {
	if err := ctx.Err(); err != nil {
		return Clip{}, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, text)
	for match, err := range m.fails {
		if strings.Contains(text, match) {
			m.mu.Unlock()
			return Clip{}, err
		}
	}
	m.mu.Unlock()

	return Clip{
		Data:     []byte(fmt.Sprintf("AUDIO[%s]", text)),
		MIMEType: "audio/mpeg",
	}, nil
}
