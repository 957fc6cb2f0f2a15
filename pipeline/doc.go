// Package pipeline drives one document-to-artifact run through the stage
// state machine: Extracting, Designing, Narrating, Assembling, then Done with
// a computed status, or Aborted on a fatal stage failure. Stages are strictly
// sequential; only the narration stage fans out internally. Each run owns its
// result and intermediate artifacts exclusively.
package pipeline
