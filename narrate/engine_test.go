package narrate

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneweave/sceneweave/artifact"
	"github.com/sceneweave/sceneweave/core"
	"github.com/sceneweave/sceneweave/model"
	"github.com/sceneweave/sceneweave/speech"
)

func fiveConceptGraph() *core.ConceptGraph {
	g := &core.ConceptGraph{Title: "Cell Biology", Subject: core.SubjectBiology}
	for i := 1; i <= 5; i++ {
		g.Concepts = append(g.Concepts, core.Concept{
			ID:         fmt.Sprintf("concept%d", i),
			Label:      fmt.Sprintf("Concept %d", i),
			Importance: 3,
		})
	}
	return g
}

func newTestEngine(m *model.MockModel, synth speech.Synthesizer) *Engine {
	return NewEngine(m, func(o *Options) {
		o.Synthesizer = synth
		o.Store = artifact.NewInMemoryStore()
		o.Workers = 3
		o.RetryBackoff = time.Millisecond
	})
}

func TestNarrateAllSucceed(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	engine := newTestEngine(m, speech.NewMockSynthesizer())

	entries, diags, err := engine.Narrate(context.Background(), "run1", fiveConceptGraph())
	require.NoError(t, err)
	require.Len(t, entries, 5)
	assert.Empty(t, diags)

	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("concept%d", i+1), e.ConceptID)
		assert.Equal(t, core.NarrationAudioReady, e.State)
		assert.Equal(t, core.SynthesisOK, e.Synthesis)
		assert.Equal(t, fmt.Sprintf("audio/concept%d.mp3", i+1), e.AudioRef)
	}
}

func TestNarrateOrderStableUnderConcurrency(t *testing.T) {
	g := &core.ConceptGraph{Title: "Big"}
	for i := 0; i < 40; i++ {
		g.Concepts = append(g.Concepts, core.Concept{
			ID: fmt.Sprintf("c%02d", i), Label: fmt.Sprintf("C%d", i), Importance: 3,
		})
	}

	m := model.NewMockModel("mock", "mock")
	engine := newTestEngine(m, nil)

	entries, _, err := engine.Narrate(context.Background(), "run1", g)
	require.NoError(t, err)
	require.Len(t, entries, 40)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("c%02d", i), e.ConceptID)
	}
}

func TestNarrateSynthesisFailureIsolated(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	// every narration echoes its concept label; fail synthesis for #3 only
	synth := speech.NewMockSynthesizer()
	synth.FailOn("Concept 3", errors.New("tts unavailable"))
	engine := newTestEngine(m, synth)

	entries, diags, err := engine.Narrate(context.Background(), "run1", fiveConceptGraph())
	require.NoError(t, err)
	require.Len(t, entries, 5)

	for i, e := range entries {
		if i == 2 {
			assert.Equal(t, core.NarrationTextReady, e.State)
			assert.Equal(t, core.SynthesisFailed, e.Synthesis)
			assert.Empty(t, e.AudioRef)
			assert.True(t, e.Degraded())
			continue
		}
		assert.Equal(t, core.NarrationAudioReady, e.State)
		assert.NotEmpty(t, e.AudioRef)
	}

	require.Len(t, diags, 1)
	assert.Equal(t, core.DiagSynthesisFailed, diags[0].Code)
	assert.Equal(t, "concept3", diags[0].ConceptID)
}

func TestNarrateTextFailureIsolated(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddError("Concept 2", errors.New("model refused"))
	engine := newTestEngine(m, speech.NewMockSynthesizer())

	entries, diags, err := engine.Narrate(context.Background(), "run1", fiveConceptGraph())
	require.NoError(t, err)
	require.Len(t, entries, 5)

	assert.Equal(t, core.NarrationFailed, entries[1].State)
	assert.Empty(t, entries[1].Text)
	assert.Equal(t, core.SynthesisSkipped, entries[1].Synthesis)

	require.Len(t, diags, 1)
	assert.Equal(t, core.DiagNarrationFailed, diags[0].Code)
	assert.Equal(t, "concept2", diags[0].ConceptID)
}

func TestNarrateRetriesTransientTextFailure(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddErrorOnce("Concept 1", errors.New("transient"))
	engine := newTestEngine(m, nil)

	g := &core.ConceptGraph{Concepts: []core.Concept{
		{ID: "concept1", Label: "Concept 1", Importance: 3},
	}}

	entries, diags, err := engine.Narrate(context.Background(), "run1", g)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, core.NarrationTextReady, entries[0].State)
	require.Len(t, m.Calls(), 2)
}

func TestNarrateWithoutSynthesizerSkipsAudio(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	engine := newTestEngine(m, nil)

	entries, diags, err := engine.Narrate(context.Background(), "run1", fiveConceptGraph())
	require.NoError(t, err)
	assert.Empty(t, diags)
	for _, e := range entries {
		assert.Equal(t, core.NarrationTextReady, e.State)
		assert.Equal(t, core.SynthesisSkipped, e.Synthesis)
		assert.False(t, e.Degraded())
	}
}

func TestNarrateCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := model.NewMockModel("mock", "mock")
	engine := newTestEngine(m, nil)

	_, _, err := engine.Narrate(ctx, "run1", fiveConceptGraph())
	assert.ErrorIs(t, err, context.Canceled)
}
