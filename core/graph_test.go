package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGraph() *ConceptGraph {
	return &ConceptGraph{
		Title:      "Plate Tectonics",
		Subject:    SubjectGeography,
		Difficulty: DifficultyIntermediate,
		Concepts: []Concept{
			{ID: "plates", Label: "Plates", Category: "structure", Importance: 5},
			{ID: "mantle", Label: "Mantle", Category: "structure", Importance: 4},
			{ID: "quake", Label: "Earthquake", Category: "event", Importance: 3},
		},
		Relationships: []Relationship{
			{SourceID: "mantle", TargetID: "plates", Kind: RelationCauses},
			{SourceID: "plates", TargetID: "quake", Kind: RelationCauses},
		},
		CentralConceptID: "plates",
		ExplorationOrder: []string{"mantle", "plates", "quake"},
	}
}

func TestConceptGraphValidate(t *testing.T) {
	require.NoError(t, validGraph().Validate())
}

func TestConceptGraphValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *ConceptGraph)
		want   string
	}{
		{
			name:   "no concepts",
			mutate: func(g *ConceptGraph) { g.Concepts = nil },
			want:   "no concepts",
		},
		{
			name:   "empty concept id",
			mutate: func(g *ConceptGraph) { g.Concepts[1].ID = "" },
			want:   "empty id",
		},
		{
			name:   "duplicate concept id",
			mutate: func(g *ConceptGraph) { g.Concepts[1].ID = "plates" },
			want:   "duplicate concept id",
		},
		{
			name:   "importance out of range",
			mutate: func(g *ConceptGraph) { g.Concepts[0].Importance = 6 },
			want:   "out of range",
		},
		{
			name:   "unknown relationship source",
			mutate: func(g *ConceptGraph) { g.Relationships[0].SourceID = "core" },
			want:   "unknown source",
		},
		{
			name:   "unknown relationship target",
			mutate: func(g *ConceptGraph) { g.Relationships[1].TargetID = "volcano" },
			want:   "unknown target",
		},
		{
			name:   "unknown central concept",
			mutate: func(g *ConceptGraph) { g.CentralConceptID = "volcano" },
			want:   "central concept",
		},
		{
			name:   "unknown exploration order id",
			mutate: func(g *ConceptGraph) { g.ExplorationOrder = []string{"plates", "volcano"} },
			want:   "exploration order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGraph()
			tt.mutate(g)
			err := g.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConceptGraphLookups(t *testing.T) {
	g := validGraph()

	c, ok := g.Concept("mantle")
	require.True(t, ok)
	assert.Equal(t, "Mantle", c.Label)

	_, ok = g.Concept("volcano")
	assert.False(t, ok)

	rels := g.Neighbors("plates")
	assert.Len(t, rels, 2)

	assert.Equal(t, []string{"plates", "mantle", "quake"}, g.ConceptIDs())
}
