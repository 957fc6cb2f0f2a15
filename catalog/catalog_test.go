package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneweave/sceneweave/core"
)

func testGraph() *core.ConceptGraph {
	return &core.ConceptGraph{
		Title:   "The Human Heart",
		Subject: core.SubjectAnatomy,
		Concepts: []core.Concept{
			{ID: "heart", Label: "Heart", Category: "organ", Importance: 5},
			{ID: "valve", Label: "Valve", Category: "structure", Importance: 3},
		},
		Theme: core.VisualTheme{Keywords: []string{"heart", "circulation"}},
	}
}

func TestParseManifest(t *testing.T) {
	data := []byte(`{"version":"1","models":[{"id":"m1","url":"https://x/m1.glb","name":"Heart Model","description":"A detailed heart","keywords":["heart","cardiac"],"category":"anatomy"}]}`)

	m, err := ParseManifest(data)
	require.NoError(t, err)
	require.Len(t, m.Assets, 1)
	assert.Equal(t, "m1", m.Assets[0].ID)
	assert.Equal(t, "anatomy", m.Assets[0].Category)
}

func TestParseManifestInvalidJSON(t *testing.T) {
	_, err := ParseManifest([]byte("{nope"))
	assert.Error(t, err)
}

func TestStaticLookupScoring(t *testing.T) {
	manifest := &Manifest{Assets: []Asset{
		{
			ID: "heart-3d", Name: "Heart Model", Description: "anatomical heart with valve detail",
			Keywords: []string{"heart", "cardiac"}, Category: "anatomy",
		},
		{
			ID: "engine-3d", Name: "Engine Block", Description: "combustion engine",
			Keywords: []string{"engine", "piston"}, Category: "engineering",
		},
	}}
	lookup := NewStaticLookup(manifest)

	matches, err := lookup.Match(context.Background(), testGraph(), 5)
	require.NoError(t, err)

	// "heart"+"anatomy" keyword hits (6) + "heart" name word (2) +
	// "heart"/"valve" description words (2) + anatomy category bonus (5) = 15.
	require.Len(t, matches, 1)
	assert.Equal(t, "heart-3d", matches[0].Asset.ID)
	assert.Equal(t, 15, matches[0].Score)
}

func TestStaticLookupOrderAndLimit(t *testing.T) {
	manifest := &Manifest{Assets: []Asset{
		{ID: "weak", Name: "heart", Keywords: nil, Category: "misc"},
		{ID: "strong", Name: "Heart", Keywords: []string{"heart", "circulation"}, Category: "anatomy"},
		{ID: "mid", Name: "Valve", Keywords: []string{"valve"}, Category: "anatomy"},
	}}
	lookup := NewStaticLookup(manifest)

	matches, err := lookup.Match(context.Background(), testGraph(), 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "strong", matches[0].Asset.ID)
	assert.True(t, matches[0].Score >= matches[1].Score)
}

func TestStaticLookupOmitsZeroScores(t *testing.T) {
	manifest := &Manifest{Assets: []Asset{
		{ID: "unrelated", Name: "Asteroid", Keywords: []string{"space"}, Category: "astronomy"},
	}}
	lookup := NewStaticLookup(manifest)

	matches, err := lookup.Match(context.Background(), testGraph(), 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
