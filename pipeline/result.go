package pipeline

import (
	"time"

	"github.com/sceneweave/sceneweave/core"
)

// State is the pipeline state machine position.
type State string

// Pipeline states. Aborted is terminal and reachable from any stage on a
// fatal failure; Done is the only other terminal state.
const (
	StateExtracting State = "extracting"
	StateDesigning  State = "designing"
	StateNarrating  State = "narrating"
	StateAssembling State = "assembling"
	StateDone       State = "done"
	StateAborted    State = "aborted"
)

// Status is the overall outcome of a completed run.
type Status string

// Run outcomes per the result invariants: success requires a scene and no
// degraded entries; partial means core stages succeeded but some per-item
// enrichment did not; failed means a fatal stage failure aborted the run.
const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// Result is the complete output of one pipeline run, owned exclusively by
// that run.
type Result struct {
	RunID  string `json:"run_id"`
	State  State  `json:"state"`
	Status Status `json:"status"`

	Graph   *core.ConceptGraph     `json:"graph,omitempty"`
	Scene   *core.SceneDescription `json:"scene,omitempty"`
	Entries []core.NarrationEntry  `json:"entries,omitempty"`

	// ArtifactKey locates the assembled payload in the run's artifact
	// store. Empty when no artifact was produced.
	ArtifactKey string `json:"artifact_key,omitempty"`

	Diagnostics []core.Diagnostic `json:"diagnostics,omitempty"`

	// FailedStage names the aborting stage for failed runs.
	FailedStage core.Stage `json:"failed_stage,omitempty"`

	Elapsed time.Duration `json:"elapsed"`
}

// computeStatus derives the outcome for a run that reached Done: partial when
// any entry is degraded, success otherwise.
func computeStatus(entries []core.NarrationEntry) Status {
	for _, e := range entries {
		if e.Degraded() {
			return StatusPartial
		}
	}
	return StatusSuccess
}
