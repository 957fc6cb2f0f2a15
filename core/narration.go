package core

// NarrationState is the lifecycle state of one concept's narration entry.
type NarrationState string

// Narration lifecycle states. Entries start at NarrationTextPending, move to
// NarrationTextReady after a successful model call, then to
// NarrationAudioReady if synthesis also succeeds. NarrationFailed means no
// narration text could be produced for the concept.
const (
	NarrationTextPending NarrationState = "text-pending"
	NarrationTextReady   NarrationState = "text-ready"
	NarrationAudioReady  NarrationState = "audio-ready"
	NarrationFailed      NarrationState = "failed"
)

// TextReady reports whether the entry carries usable narration text
// (text-ready or better).
func (s NarrationState) TextReady() bool {
	return s == NarrationTextReady || s == NarrationAudioReady
}

// SynthesisStatus records the outcome of the audio synthesis step for one
// entry, independent of the text lifecycle.
type SynthesisStatus string

// Synthesis outcomes. SynthesisSkipped covers both the absence of a
// configured synthesizer and entries whose text step failed (nothing to
// speak).
const (
	SynthesisOK      SynthesisStatus = "ok"
	SynthesisSkipped SynthesisStatus = "skipped"
	SynthesisFailed  SynthesisStatus = "failed"
)

// NarrationEntry is the per-concept output of the fan-out engine. An entry
// with failed audio still carries valid text and is retained, never
// discarded.
type NarrationEntry struct {
	ConceptID string          `json:"concept_id"`
	Text      string          `json:"text,omitempty"`
	AudioRef  string          `json:"audio_ref,omitempty"` // set only when synthesis succeeded
	State     NarrationState  `json:"state"`
	Synthesis SynthesisStatus `json:"synthesis"`
}

// Degraded reports whether this entry represents a per-item failure that
// should downgrade the overall run status to partial.
func (e NarrationEntry) Degraded() bool {
	return e.State == NarrationFailed || e.Synthesis == SynthesisFailed
}
