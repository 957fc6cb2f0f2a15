// Package strategy hosts the interchangeable scene-design algorithms and the
// registry that selects between them.
//
// Three strategies exist: catalog-matching (pre-built assets from a manifest),
// specialized-generator (model-driven scenes for subjects on its allow-list)
// and primitive-synthesis (model-assigned primitive shapes, always
// applicable). The registry tries the caller's preferred strategy and falls
// back to primitive-synthesis only when the preferred one reports
// core.ErrStrategyUnavailable; the fallback is recorded in diagnostics, never
// silent. Any other strategy failure surfaces to the pipeline as fatal.
package strategy
