package artifact

import "sync"

// InMemoryStore is a trivial in‑process ArtifactStore implementation useful
// for tests, examples and single‑process prototypes. It keeps all blobs in
// a nested map guarded by an RWMutex. Data is copied on save / retrieval to
// avoid accidental external mutation of internal buffers.
//
// Layout: runID -> key -> raw bytes
//
// This implementation is intentionally minimal; it does not enforce retention
// limits, size quotas, or eviction. For production, prefer a durable
// implementation (e.g. GCS / database) that can scale and survive process
// restarts.
type InMemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]map[string][]byte // runID -> key -> data
}

// NewInMemoryStore returns an empty in‑memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{blobs: make(map[string]map[string][]byte)}
}

// Save stores (or overwrites) the blob bytes for the given run and key.
// The input slice is copied before storage.
func (a *InMemoryStore) Save(runID, key string, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.blobs[runID]; !exists {
		a.blobs[runID] = make(map[string][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	a.blobs[runID][key] = cp
	return nil
}

// Get returns a copy of the stored blob bytes or ErrNotFound.
func (a *InMemoryStore) Get(runID, key string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.blobs[runID]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := m[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// List returns the keys stored for the run. The slice is a snapshot and safe
// for caller mutation.
func (a *InMemoryStore) List(runID string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	m, ok := a.blobs[runID]
	if !ok {
		return []string{}, nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys, nil
}

// Delete removes the blob if present or returns ErrNotFound.
func (a *InMemoryStore) Delete(runID, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.blobs[runID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m[key]; !ok {
		return ErrNotFound
	}
	delete(m, key)
	return nil
}
