package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sceneweave/sceneweave/core"
	"github.com/sceneweave/sceneweave/graph"
	"github.com/sceneweave/sceneweave/logging"
	"github.com/sceneweave/sceneweave/strategy"
)

// GraphExtractor produces a validated concept graph from document text.
type GraphExtractor interface {
	Extract(ctx context.Context, documentText string, hints graph.Hints) (*core.ConceptGraph, error)
}

// SceneDesigner selects and runs a scene-design strategy. The strategy
// registry is the canonical implementation.
type SceneDesigner interface {
	Design(ctx context.Context, g *core.ConceptGraph, preferred strategy.Mode) (*core.SceneDescription, []core.Diagnostic, error)
}

// Narrator runs the per-concept narration/audio fan-out.
type Narrator interface {
	Narrate(ctx context.Context, runID string, g *core.ConceptGraph) ([]core.NarrationEntry, []core.Diagnostic, error)
}

// Assembler renders a completed run into the downloadable payload. The
// render package provides the canonical implementation.
type Assembler interface {
	Assemble(ctx context.Context, res *Result) ([]byte, error)
}

// ArtifactFilename is the store key of the assembled payload.
const ArtifactFilename = "index.html"

// Options configure the Controller beyond its Config.
type Options struct {
	Logger logging.Logger

	// Assembler renders the final payload. Nil skips assembly; the run
	// still completes and reports its status.
	Assembler Assembler

	// Store receives the assembled payload under the run id.
	Store core.ArtifactStore
}

// Controller owns the stage state machine. One controller serves many runs;
// it keeps no per-run mutable state.
type Controller struct {
	extractor GraphExtractor
	designer  SceneDesigner
	narrator  Narrator
	cfg       Config
	opts      Options
}

// NewController wires the stage implementations into a controller.
func NewController(extractor GraphExtractor, designer SceneDesigner, narrator Narrator, cfg Config, optFns ...func(o *Options)) *Controller {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Controller{
		extractor: extractor,
		designer:  designer,
		narrator:  narrator,
		cfg:       cfg.normalize(),
		opts:      opts,
	}
}

// Run drives one document through all stages. Fatal stage failures abort the
// state machine immediately; the returned Result always carries the
// diagnostics accumulated up to that point, alongside the error.
func (p *Controller) Run(ctx context.Context, documentText string, hints graph.Hints) (*Result, error) {
	start := time.Now()
	res := &Result{
		RunID: uuid.NewString(),
		State: StateExtracting,
	}
	log := p.opts.Logger
	log.Info("pipeline run started", "run_id", res.RunID)

	// Extracting
	g, err := p.extractor.Extract(ctx, documentText, hints)
	if err != nil {
		return p.abort(res, start, core.StageExtract, err)
	}
	res.Graph = g
	res.State = StateDesigning
	log.Info("concept graph extracted", "run_id", res.RunID, "concepts", len(g.Concepts))

	// Designing
	scene, diags, err := p.designer.Design(ctx, g, p.cfg.PreferredStrategy)
	res.Diagnostics = append(res.Diagnostics, diags...)
	if err != nil {
		return p.abort(res, start, core.StageDesign, err)
	}
	res.Scene = scene
	res.State = StateNarrating
	log.Info("scene designed", "run_id", res.RunID, "strategy", scene.Strategy, "nodes", len(scene.Nodes))

	// Narrating: per-item failures degrade entries, never abort.
	entries, ndiags, err := p.narrator.Narrate(ctx, res.RunID, g)
	res.Diagnostics = append(res.Diagnostics, ndiags...)
	if err != nil {
		return p.abort(res, start, core.StageNarrate, err)
	}
	res.Entries = entries
	res.State = StateAssembling
	res.Status = computeStatus(res.Entries)

	// Assembling: always reaches Done. An assembler failure downgrades
	// the status but cannot abort the run. Status is computed before the
	// assembler runs so the artifact can render it.
	if p.opts.Assembler != nil {
		payload, err := p.opts.Assembler.Assemble(ctx, res)
		if err != nil {
			log.Warn("artifact assembly failed", "run_id", res.RunID, "error", err)
			res.Diagnostics = append(res.Diagnostics, core.NewDiagnostic(core.StageAssemble,
				core.DiagStageFailed, err.Error()))
		} else if p.opts.Store != nil {
			if err := p.opts.Store.Save(res.RunID, ArtifactFilename, payload); err != nil {
				res.Diagnostics = append(res.Diagnostics, core.NewDiagnostic(core.StageAssemble,
					core.DiagStageFailed, fmt.Sprintf("failed to store artifact: %v", err)))
			} else {
				res.ArtifactKey = ArtifactFilename
			}
		}
	}

	res.State = StateDone
	if p.opts.Assembler != nil && res.ArtifactKey == "" && res.Status == StatusSuccess {
		res.Status = StatusPartial
	}
	res.Elapsed = time.Since(start)
	log.Info("pipeline run finished", "run_id", res.RunID,
		"status", string(res.Status), "elapsed", res.Elapsed.String())
	return res, nil
}

// abort finalizes a fatally failed run: terminal Aborted state, failed
// status, and a stage diagnostic naming the cause.
func (p *Controller) abort(res *Result, start time.Time, stage core.Stage, cause error) (*Result, error) {
	res.State = StateAborted
	res.Status = StatusFailed
	res.FailedStage = stage
	res.Elapsed = time.Since(start)
	res.Diagnostics = append(res.Diagnostics, core.NewDiagnostic(stage, core.DiagStageFailed, cause.Error()))
	p.opts.Logger.Error("pipeline run aborted",
		"run_id", res.RunID, "stage", string(stage), "error", cause)
	return res, fmt.Errorf("pipeline aborted at %s stage: %w", stage, cause)
}
