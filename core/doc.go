// Package core defines the shared domain model and contracts for SceneWeave.
//
// It contains the data structures that flow forward through the generation
// pipeline (ConceptGraph, SceneDescription, NarrationEntry), the diagnostic
// records stages attach to a run, the error taxonomy the pipeline controller
// reacts to, and the small service contracts (ArtifactStore, CallLimiter)
// shared across packages.
//
// The types here are plain data: stage packages produce and validate them,
// the pipeline controller sequences them, and no type in this package reaches
// back into stage internals. Keeping the contracts central avoids dependency
// cycles between the stage packages.
package core
