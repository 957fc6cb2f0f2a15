package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModelEchoesWithoutStubs(t *testing.T) {
	m := NewMockModel("mock-1", "mock")

	resp, err := m.Complete(context.Background(), Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: hello", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
}

func TestMockModelSubstringMatch(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	m.AddResponse("photosynthesis", `{"ok":true}`)

	resp, err := m.Complete(context.Background(), Request{Prompt: "explain photosynthesis briefly"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Text)
}

func TestMockModelOnceStubConsumedFirst(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	m.AddErrorOnce("", errors.New("transient"))
	m.AddResponse("", "recovered")

	_, err := m.Complete(context.Background(), Request{Prompt: "a"})
	require.Error(t, err)

	resp, err := m.Complete(context.Background(), Request{Prompt: "a"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Text)
}

func TestMockModelRecordsCalls(t *testing.T) {
	m := NewMockModel("mock-1", "mock")

	_, err := m.Complete(context.Background(), Request{Prompt: "one"})
	require.NoError(t, err)
	_, err = m.Complete(context.Background(), Request{Prompt: "two", Instructions: "sys"})
	require.NoError(t, err)

	calls := m.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "one", calls[0].Prompt)
	assert.Equal(t, "sys", calls[1].Instructions)
}

func TestMockModelHonorsCancellation(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Complete(ctx, Request{Prompt: "late"})
	assert.ErrorIs(t, err, context.Canceled)
}
