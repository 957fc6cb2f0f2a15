// Package graph extracts a concept graph from document text via a language
// model. Extraction validates the returned graph against the core invariants
// and retries once with a stricter prompt before failing; malformed output is
// rejected, never silently repaired.
package graph
