package core

import "time"

// Stage identifies a pipeline stage in diagnostics and failure reports.
type Stage string

// Pipeline stages in execution order.
const (
	StageExtract  Stage = "extract"
	StageDesign   Stage = "design"
	StageNarrate  Stage = "narrate"
	StageAssemble Stage = "assemble"
)

// Diagnostic codes attached by the stages.
const (
	DiagStrategyFallback = "strategy_fallback"
	DiagLayoutReprompt   = "layout_reprompt"
	DiagGridFallback     = "grid_fallback"
	DiagNarrationFailed  = "narration_failed"
	DiagSynthesisFailed  = "synthesis_failed"
	DiagStageFailed      = "stage_failed"
)

// Diagnostic is one recorded event in a pipeline run: fallbacks, per-item
// failures, stage aborts. Diagnostics are append-only and never influence
// control flow; they exist so a caller can explain a partial or failed run.
type Diagnostic struct {
	Stage     Stage     `json:"stage"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	ConceptID string    `json:"concept_id,omitempty"`
	Time      time.Time `json:"time"`
}

// NewDiagnostic builds a timestamped diagnostic record.
func NewDiagnostic(stage Stage, code, message string) Diagnostic {
	return Diagnostic{Stage: stage, Code: code, Message: message, Time: time.Now()}
}

// NewConceptDiagnostic builds a timestamped diagnostic scoped to one concept.
func NewConceptDiagnostic(stage Stage, code, conceptID, message string) Diagnostic {
	return Diagnostic{Stage: stage, Code: code, ConceptID: conceptID, Message: message, Time: time.Now()}
}
