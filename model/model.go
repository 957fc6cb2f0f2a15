package model

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Request captures the normalized model input produced by pipeline stages.
// SchemaHint, when set, describes the JSON shape the caller expects; adapters
// fold it into the provider's instruction channel. Callers remain responsible
// for parsing and validating the returned text.
type Request struct {
	Instructions string `json:"instructions"` // system-level guidance
	Prompt       string `json:"prompt"`       // user content
	SchemaHint   string `json:"schema_hint,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed model output.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface pipeline stages use to drive generation.
// Implementations must honor ctx cancellation; callers treat timeouts and
// malformed output as retryable.
type Model interface {
	Complete(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Stubs are matched by substring against the request prompt; once-stubs are
// consumed before persistent ones, enabling fail-then-succeed scripts.
type MockModel struct {
	mu    sync.Mutex
	info  Info
	once  []mockStub
	stubs []mockStub
	calls []Request
}

type mockStub struct {
	match string
	text  string
	err   error
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{info: Info{Name: name, Provider: provider}}
}

// AddResponse registers a canned completion returned whenever the prompt
// contains match. An empty match matches every prompt.
func (m *MockModel) AddResponse(match, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, mockStub{match: match, text: text})
}

// AddResponseOnce registers a canned completion consumed on first use.
func (m *MockModel) AddResponseOnce(match, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.once = append(m.once, mockStub{match: match, text: text})
}

// AddError registers an error returned whenever the prompt contains match.
func (m *MockModel) AddError(match string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, mockStub{match: match, err: err})
}

// AddErrorOnce registers an error consumed on first use.
func (m *MockModel) AddErrorOnce(match string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.once = append(m.once, mockStub{match: match, err: err})
}

// Calls returns a snapshot of all requests received so far.
func (m *MockModel) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// Complete implements Model. Once-stubs are checked (and consumed) before
// persistent stubs; without any match the prompt is echoed back.
func (m *MockModel) Complete(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, req)

	for i, s := range m.once {
		if s.match == "" || strings.Contains(req.Prompt, s.match) {
			m.once = append(m.once[:i], m.once[i+1:]...)
			m.mu.Unlock()
			if s.err != nil {
				return Response{}, s.err
			}
			return Response{Text: s.text, FinishReason: "stop"}, nil
		}
	}
	for _, s := range m.stubs {
		if s.match == "" || strings.Contains(req.Prompt, s.match) {
			m.mu.Unlock()
			if s.err != nil {
				return Response{}, s.err
			}
			return Response{Text: s.text, FinishReason: "stop"}, nil
		}
	}
	m.mu.Unlock()

	return Response{Text: fmt.Sprintf("Mock response to: %s", req.Prompt), FinishReason: "stop"}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
