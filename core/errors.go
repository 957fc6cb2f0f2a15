package core

import (
	"errors"
	"fmt"
)

var (
	// ErrStrategyUnavailable signals that a scene-design strategy cannot
	// serve the given concept graph (missing assets, subject outside its
	// allow-list). It is the only strategy error that triggers fallback;
	// anything else aborts the run.
	ErrStrategyUnavailable = errors.New("strategy unavailable")

	// ErrUnsupportedFormat is returned by document extractors for MIME
	// types they cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrCallBudgetExceeded is returned when a run exhausts its model call
	// budget.
	ErrCallBudgetExceeded = errors.New("model call budget exceeded")
)

// ExtractionError wraps a concept graph extraction failure: the model call
// errored, timed out, or returned output that failed validation after the
// retry. It aborts the run.
type ExtractionError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("concept extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("concept extraction failed: %s", e.Reason)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *ExtractionError) Unwrap() error { return e.Err }

// StrategyError wraps a fatal scene-design failure from a strategy. It is
// distinct from ErrStrategyUnavailable: the registry never retries another
// strategy on a StrategyError and the run aborts.
type StrategyError struct {
	Strategy string
	Err      error
}

// Error implements the error interface.
func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s failed: %v", e.Strategy, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *StrategyError) Unwrap() error { return e.Err }

// SynthesisError wraps a text-to-speech failure. The fan-out engine isolates
// it per concept; it never aborts a run.
type SynthesisError struct {
	Err error
}

// Error implements the error interface.
func (e *SynthesisError) Error() string {
	return fmt.Sprintf("speech synthesis failed: %v", e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *SynthesisError) Unwrap() error { return e.Err }
