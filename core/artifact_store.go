package core

// ArtifactStore persists binary artifacts produced during a pipeline run:
// synthesized audio clips and the assembled output payload. Artifacts are
// scoped by run id so concurrent runs never observe each other's data.
//
// The canonical interface lives here (rather than in the artifact package)
// so stage packages can depend on the contract without importing a concrete
// storage backend.
type ArtifactStore interface {
	// Save stores (or overwrites) the artifact bytes for the given run and key.
	Save(runID, key string, data []byte) error

	// Get returns the stored artifact bytes.
	Get(runID, key string) ([]byte, error)

	// List returns the artifact keys stored for the run.
	List(runID string) ([]string, error)

	// Delete removes the artifact.
	Delete(runID, key string) error
}
