package core

import "fmt"

// Subject identifies the primary subject area of a document.
type Subject string

// Known subject areas. Extraction constrains the model to this set; anything
// else is normalized to SubjectGeneral.
const (
	SubjectBiology     Subject = "biology"
	SubjectPhysics     Subject = "physics"
	SubjectChemistry   Subject = "chemistry"
	SubjectHistory     Subject = "history"
	SubjectGeography   Subject = "geography"
	SubjectAstronomy   Subject = "astronomy"
	SubjectAnatomy     Subject = "anatomy"
	SubjectEngineering Subject = "engineering"
	SubjectMathematics Subject = "mathematics"
	SubjectGeneral     Subject = "general"
)

// Difficulty is the difficulty tier of the analyzed content.
type Difficulty string

// Difficulty tiers.
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// RelationshipKind categorizes how two concepts relate.
type RelationshipKind string

// Relationship kinds emitted by extraction.
const (
	RelationPartOf    RelationshipKind = "part-of"
	RelationCauses    RelationshipKind = "causes"
	RelationRelatedTo RelationshipKind = "related-to"
	RelationPrecedes  RelationshipKind = "precedes"
)

// Concept is a single extracted idea from the source document.
type Concept struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Importance  int    `json:"importance"` // 1 (minor) .. 5 (central)
}

// Relationship is a directed link between two concepts in the graph.
type Relationship struct {
	SourceID string           `json:"source_id"`
	TargetID string           `json:"target_id"`
	Kind     RelationshipKind `json:"kind"`
	Strength int              `json:"strength,omitempty"` // 1..5, optional
}

// VisualTheme carries the presentation hints extraction derives from the
// subject matter. Strategies and the renderer consume it; nothing validates
// color values beyond non-emptiness because they pass straight through to
// the artifact.
type VisualTheme struct {
	PrimaryColor    string   `json:"primary_color"`
	BackgroundColor string   `json:"background_color"`
	Mood            string   `json:"mood"` // scientific, playful, serious, exploratory
	Keywords        []string `json:"keywords"`
}

// ConceptGraph is the structured extraction of a document: concepts, the
// relationships between them, and subject metadata. It is produced once per
// pipeline run and immutable after successful validation.
type ConceptGraph struct {
	Title            string         `json:"title"`
	Summary          string         `json:"summary"`
	Subject          Subject        `json:"subject"`
	Difficulty       Difficulty     `json:"difficulty"`
	Concepts         []Concept      `json:"concepts"`
	Relationships    []Relationship `json:"relationships"`
	CentralConceptID string         `json:"central_concept_id,omitempty"`
	ExplorationOrder []string       `json:"exploration_order,omitempty"`
	Theme            VisualTheme    `json:"theme"`
}

// Validate checks the structural invariants of the graph: at least one
// concept, unique concept ids, relationship endpoints resolving to listed
// concepts, importance within range, and exploration order / central concept
// referencing known ids. Output violating any of these is rejected rather
// than repaired.
func (g *ConceptGraph) Validate() error {
	if len(g.Concepts) == 0 {
		return fmt.Errorf("concept graph has no concepts")
	}

	seen := make(map[string]bool, len(g.Concepts))
	for _, c := range g.Concepts {
		if c.ID == "" {
			return fmt.Errorf("concept %q has empty id", c.Label)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate concept id %q", c.ID)
		}
		seen[c.ID] = true

		if c.Importance < 1 || c.Importance > 5 {
			return fmt.Errorf("concept %q importance %d out of range [1,5]", c.ID, c.Importance)
		}
	}

	for _, r := range g.Relationships {
		if !seen[r.SourceID] {
			return fmt.Errorf("relationship references unknown source concept %q", r.SourceID)
		}
		if !seen[r.TargetID] {
			return fmt.Errorf("relationship references unknown target concept %q", r.TargetID)
		}
	}

	if g.CentralConceptID != "" && !seen[g.CentralConceptID] {
		return fmt.Errorf("central concept %q not in concept list", g.CentralConceptID)
	}

	for _, id := range g.ExplorationOrder {
		if !seen[id] {
			return fmt.Errorf("exploration order references unknown concept %q", id)
		}
	}

	return nil
}

// Concept returns the concept with the given id, if present.
func (g *ConceptGraph) Concept(id string) (Concept, bool) {
	for _, c := range g.Concepts {
		if c.ID == id {
			return c, true
		}
	}
	return Concept{}, false
}

// Neighbors returns all relationships touching the given concept id,
// regardless of direction.
func (g *ConceptGraph) Neighbors(id string) []Relationship {
	var out []Relationship
	for _, r := range g.Relationships {
		if r.SourceID == id || r.TargetID == id {
			out = append(out, r)
		}
	}
	return out
}

// ConceptIDs returns the concept ids in graph order.
func (g *ConceptGraph) ConceptIDs() []string {
	ids := make([]string, len(g.Concepts))
	for i, c := range g.Concepts {
		ids[i] = c.ID
	}
	return ids
}
