// Package narrate runs the per-concept narration and audio fan-out. Text
// generation and speech synthesis execute under a bounded worker pool with
// per-concept failure isolation: one concept's failure never aborts or rolls
// back another's entry, and the aggregated entry list always preserves
// concept-graph order regardless of completion order.
package narrate
