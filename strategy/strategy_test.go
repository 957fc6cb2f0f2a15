package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneweave/sceneweave/catalog"
	"github.com/sceneweave/sceneweave/core"
	"github.com/sceneweave/sceneweave/model"
)

// stubStrategy scripts a fixed Design outcome for registry tests.
type stubStrategy struct {
	mode  Mode
	scene *core.SceneDescription
	err   error
}

func (s *stubStrategy) Mode() Mode { return s.mode }

func (s *stubStrategy) Design(ctx context.Context, g *core.ConceptGraph) (*core.SceneDescription, []core.Diagnostic, error) {
	return s.scene, nil, s.err
}

func workingPrimitive(t *testing.T) *Primitive {
	t.Helper()
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("", validLayoutJSON(t, 2))
	return NewPrimitive(m)
}

func TestRegistryRequiresPrimitive(t *testing.T) {
	_, err := NewRegistry([]Strategy{&stubStrategy{mode: ModeCatalog}})
	assert.Error(t, err)
}

func TestRegistryPreferredSucceeds(t *testing.T) {
	want := &core.SceneDescription{Strategy: string(ModeCatalog)}
	reg, err := NewRegistry([]Strategy{
		&stubStrategy{mode: ModeCatalog, scene: want},
		workingPrimitive(t),
	})
	require.NoError(t, err)

	scene, diags, err := reg.Design(context.Background(), primitiveGraph(), ModeCatalog)
	require.NoError(t, err)
	assert.Same(t, want, scene)
	assert.Empty(t, diags)
}

func TestRegistryFallsBackOnUnavailable(t *testing.T) {
	reg, err := NewRegistry([]Strategy{
		&stubStrategy{mode: ModeSpecialized, err: core.ErrStrategyUnavailable},
		workingPrimitive(t),
	})
	require.NoError(t, err)

	scene, diags, err := reg.Design(context.Background(), primitiveGraph(), ModeSpecialized)
	require.NoError(t, err)
	assert.Equal(t, string(ModePrimitive), scene.Strategy)

	fallbacks := 0
	for _, d := range diags {
		if d.Code == core.DiagStrategyFallback {
			fallbacks++
		}
	}
	assert.Equal(t, 1, fallbacks)
}

func TestRegistryFatalErrorDoesNotFallBack(t *testing.T) {
	fatal := &core.StrategyError{Strategy: string(ModeCatalog), Err: errors.New("lookup exploded")}
	reg, err := NewRegistry([]Strategy{
		&stubStrategy{mode: ModeCatalog, err: fatal},
		workingPrimitive(t),
	})
	require.NoError(t, err)

	_, _, err = reg.Design(context.Background(), primitiveGraph(), ModeCatalog)
	require.Error(t, err)
	var stratErr *core.StrategyError
	assert.ErrorAs(t, err, &stratErr)
}

func TestRegistryUnknownModeFallsBack(t *testing.T) {
	reg, err := NewRegistry([]Strategy{workingPrimitive(t)})
	require.NoError(t, err)

	scene, diags, err := reg.Design(context.Background(), primitiveGraph(), ModeCatalog)
	require.NoError(t, err)
	assert.Equal(t, string(ModePrimitive), scene.Strategy)
	require.Len(t, diags, 1)
	assert.Equal(t, core.DiagStrategyFallback, diags[0].Code)
}

func TestCatalogStrategyBelowThresholdTriggersFallback(t *testing.T) {
	// one matching asset, below the 2-asset threshold
	manifest := &catalog.Manifest{Assets: []catalog.Asset{
		{ID: "gravity-3d", URL: "https://assets/g.glb", Name: "Gravity Well",
			Keywords: []string{"gravity"}, Category: "physics"},
	}}
	cat := NewCatalog(catalog.NewStaticLookup(manifest))

	reg, err := NewRegistry([]Strategy{cat, workingPrimitive(t)})
	require.NoError(t, err)

	scene, diags, err := reg.Design(context.Background(), primitiveGraph(), ModeCatalog)
	require.NoError(t, err)
	assert.Equal(t, string(ModePrimitive), scene.Strategy)

	found := false
	for _, d := range diags {
		if d.Code == core.DiagStrategyFallback {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCatalogStrategyAttachesAssets(t *testing.T) {
	manifest := &catalog.Manifest{Assets: []catalog.Asset{
		{ID: "gravity-3d", URL: "https://assets/g.glb", Name: "Gravity Well",
			Keywords: []string{"gravity"}, Category: "physics"},
		{ID: "friction-3d", URL: "https://assets/f.glb", Name: "Friction Demo",
			Keywords: []string{"friction"}, Category: "physics"},
	}}
	cat := NewCatalog(catalog.NewStaticLookup(manifest))

	scene, diags, err := cat.Design(context.Background(), primitiveGraph())
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, string(ModeCatalog), scene.Strategy)
	require.NoError(t, scene.Validate(primitiveGraph(), 2))

	withAssets := 0
	for _, n := range scene.Nodes {
		if n.AssetURL != "" {
			withAssets++
		}
	}
	assert.Equal(t, 2, withAssets)
}

func TestSpecializedUnavailableOutsideAllowList(t *testing.T) {
	s := NewSpecialized(model.NewMockModel("mock", "mock"))

	g := primitiveGraph() // physics
	_, _, err := s.Design(context.Background(), g)
	assert.ErrorIs(t, err, core.ErrStrategyUnavailable)
}

func TestSpecializedDesignsForAnatomy(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("", validLayoutJSON(t, 2))
	s := NewSpecialized(m)

	g := primitiveGraph()
	g.Subject = core.SubjectAnatomy

	scene, _, err := s.Design(context.Background(), g)
	require.NoError(t, err)
	assert.Equal(t, string(ModeSpecialized), scene.Strategy)
	assert.Len(t, scene.Nodes, 3)
}

func TestSpecializedFatalAfterRetry(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("", "not json")
	s := NewSpecialized(m)

	g := primitiveGraph()
	g.Subject = core.SubjectBiology

	_, _, err := s.Design(context.Background(), g)
	require.Error(t, err)
	var stratErr *core.StrategyError
	assert.ErrorAs(t, err, &stratErr)
	require.Len(t, m.Calls(), 2)
}
