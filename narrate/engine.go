package narrate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/sceneweave/sceneweave/core"
	"github.com/sceneweave/sceneweave/logging"
	"github.com/sceneweave/sceneweave/model"
	"github.com/sceneweave/sceneweave/speech"
)

const narrationInstructions = `You write short spoken narrations for interactive 3D learning scenes. Respond with the narration text only, no quotes, no markdown.`

// Options configure the fan-out engine.
type Options struct {
	Logger logging.Logger

	// Synthesizer converts narration text to audio. Nil skips synthesis
	// for every entry.
	Synthesizer speech.Synthesizer

	// Store persists synthesized clips. Synthesis requires both a
	// Synthesizer and a Store; without a Store clips have nowhere to live
	// and synthesis is skipped.
	Store core.ArtifactStore

	// Workers bounds concurrent per-concept jobs.
	Workers int

	// RetryBackoff is the pause before the single retry of a failed call.
	RetryBackoff time.Duration

	// Limiter caps model calls for the run.
	Limiter *core.CallLimiter
}

// Engine fans narration and synthesis work out across a concept graph.
type Engine struct {
	model model.Model
	opts  Options
}

// NewEngine constructs an Engine around the given model.
func NewEngine(m model.Model, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Logger:       logging.NoOpLogger{},
		Workers:      4,
		RetryBackoff: time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{model: m, opts: opts}
}

type indexedResult struct {
	index int
	entry core.NarrationEntry
	diags []core.Diagnostic
}

// Narrate produces one entry per concept, in concept-graph order. Per-item
// failures degrade their entry and are reported as diagnostics; the only
// error Narrate itself returns is ctx cancellation.
func (e *Engine) Narrate(ctx context.Context, runID string, g *core.ConceptGraph) ([]core.NarrationEntry, []core.Diagnostic, error) {
	n := len(g.Concepts)
	sem := semaphore.NewWeighted(int64(e.opts.Workers))
	results := make(chan indexedResult, n)

	var wg sync.WaitGroup
	for i, c := range g.Concepts {
		if err := sem.Acquire(ctx, 1); err != nil {
			break // canceled; in-flight jobs drain below
		}
		wg.Add(1)
		go func(i int, c core.Concept) {
			defer wg.Done()
			defer sem.Release(1)
			entry, diags := e.processConcept(ctx, runID, g, c)
			results <- indexedResult{index: i, entry: entry, diags: diags}
		}(i, c)
	}

	wg.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Re-sort to concept order; completion order carries no guarantee.
	entries := make([]core.NarrationEntry, n)
	var diags []core.Diagnostic
	for r := range results {
		entries[r.index] = r.entry
		diags = append(diags, r.diags...)
	}
	return entries, diags, nil
}

func (e *Engine) processConcept(ctx context.Context, runID string, g *core.ConceptGraph, c core.Concept) (core.NarrationEntry, []core.Diagnostic) {
	entry := core.NarrationEntry{
		ConceptID: c.ID,
		State:     core.NarrationTextPending,
		Synthesis: core.SynthesisSkipped,
	}
	var diags []core.Diagnostic

	text, err := e.generateText(ctx, g, c)
	if err != nil {
		e.opts.Logger.Warn("narration failed", "concept_id", c.ID, "error", err)
		entry.State = core.NarrationFailed
		diags = append(diags, core.NewConceptDiagnostic(core.StageNarrate, core.DiagNarrationFailed,
			c.ID, err.Error()))
		return entry, diags
	}
	entry.Text = text
	entry.State = core.NarrationTextReady

	if e.opts.Synthesizer == nil || e.opts.Store == nil {
		return entry, diags
	}

	ref, err := e.synthesize(ctx, runID, c.ID, text)
	if err != nil {
		e.opts.Logger.Warn("synthesis failed", "concept_id", c.ID, "error", err)
		entry.Synthesis = core.SynthesisFailed
		diags = append(diags, core.NewConceptDiagnostic(core.StageNarrate, core.DiagSynthesisFailed,
			c.ID, err.Error()))
		return entry, diags
	}
	entry.AudioRef = ref
	entry.State = core.NarrationAudioReady
	entry.Synthesis = core.SynthesisOK
	return entry, diags
}

// generateText asks the model for a short narration, retrying once after the
// configured backoff.
func (e *Engine) generateText(ctx context.Context, g *core.ConceptGraph, c core.Concept) (string, error) {
	req := model.Request{
		Instructions: narrationInstructions,
		Prompt:       buildNarrationPrompt(g, c),
	}

	text, err := e.completeOnce(ctx, req)
	if err == nil {
		return text, nil
	}
	if backoffErr := e.backoff(ctx); backoffErr != nil {
		return "", backoffErr
	}
	text, err = e.completeOnce(ctx, req)
	if err != nil {
		return "", fmt.Errorf("narration call failed after retry: %w", err)
	}
	return text, nil
}

func (e *Engine) completeOnce(ctx context.Context, req model.Request) (string, error) {
	if e.opts.Limiter != nil {
		if err := e.opts.Limiter.Increment(); err != nil {
			return "", err
		}
	}
	resp, err := e.model.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("model returned empty narration")
	}
	return text, nil
}

// synthesize runs the speech call (one retry) and persists the clip under a
// run-scoped audio key.
func (e *Engine) synthesize(ctx context.Context, runID, conceptID, text string) (string, error) {
	clip, err := e.opts.Synthesizer.Synthesize(ctx, text)
	if err != nil {
		if backoffErr := e.backoff(ctx); backoffErr != nil {
			return "", backoffErr
		}
		clip, err = e.opts.Synthesizer.Synthesize(ctx, text)
		if err != nil {
			return "", &core.SynthesisError{Err: err}
		}
	}

	key := fmt.Sprintf("audio/%s.mp3", conceptID)
	if err := e.opts.Store.Save(runID, key, clip.Data); err != nil {
		return "", &core.SynthesisError{Err: fmt.Errorf("failed to store clip: %w", err)}
	}
	return key, nil
}

// backoff sleeps for the retry pause, aborting early on cancellation.
func (e *Engine) backoff(ctx context.Context) error {
	if e.opts.RetryBackoff <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(e.opts.RetryBackoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// buildNarrationPrompt scopes the request to one concept plus its direct
// relationships.
func buildNarrationPrompt(g *core.ConceptGraph, c core.Concept) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a narration of at most 50 words for the concept %q in a scene about %q.\n\n", c.Label, g.Title)
	fmt.Fprintf(&b, "Concept: %s. %s\n", c.Label, c.Description)

	neighbors := g.Neighbors(c.ID)
	if len(neighbors) > 0 {
		b.WriteString("Related concepts:\n")
		for _, r := range neighbors {
			otherID := r.TargetID
			if otherID == c.ID {
				otherID = r.SourceID
			}
			if other, ok := g.Concept(otherID); ok {
				fmt.Fprintf(&b, "- %s (%s)\n", other.Label, r.Kind)
			}
		}
	}
	b.WriteString("\nSpeak directly to the learner. Keep it vivid and concrete.")
	return b.String()
}
