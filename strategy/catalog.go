package strategy

import (
	"context"
	"fmt"

	"github.com/sceneweave/sceneweave/catalog"
	"github.com/sceneweave/sceneweave/core"
	"github.com/sceneweave/sceneweave/logging"
)

// MinCatalogAssets is the match threshold below which the catalog strategy
// reports unavailability.
const MinCatalogAssets = 2

// CatalogOptions configure the catalog-matching strategy.
type CatalogOptions struct {
	Logger logging.Logger

	// MaxAssets bounds how many catalog assets one scene uses.
	MaxAssets int

	// MinSeparation is the minimum pairwise node distance used by the
	// deterministic placement.
	MinSeparation float64
}

// Catalog places concepts deterministically and decorates the best-matched
// concepts with pre-built assets from the manifest. With fewer than
// MinCatalogAssets matches the strategy is unavailable and the registry
// falls back.
type Catalog struct {
	lookup catalog.Lookup
	opts   CatalogOptions
}

// NewCatalog constructs the catalog-matching strategy.
func NewCatalog(lookup catalog.Lookup, optFns ...func(o *CatalogOptions)) *Catalog {
	opts := CatalogOptions{
		Logger:        logging.NoOpLogger{},
		MaxAssets:     5,
		MinSeparation: 2,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Catalog{lookup: lookup, opts: opts}
}

// Mode implements Strategy.
func (c *Catalog) Mode() Mode { return ModeCatalog }

// Design implements Strategy. Lookup failures are fatal; a thin result set
// signals unavailability instead.
func (c *Catalog) Design(ctx context.Context, g *core.ConceptGraph) (*core.SceneDescription, []core.Diagnostic, error) {
	matches, err := c.lookup.Match(ctx, g, c.opts.MaxAssets)
	if err != nil {
		return nil, nil, &core.StrategyError{Strategy: string(ModeCatalog), Err: fmt.Errorf("catalog lookup failed: %w", err)}
	}
	if len(matches) < MinCatalogAssets {
		return nil, nil, fmt.Errorf("%d catalog assets matched, need %d: %w",
			len(matches), MinCatalogAssets, core.ErrStrategyUnavailable)
	}
	c.opts.Logger.Info("catalog assets matched", "count", len(matches), "top_score", matches[0].Score)

	layout := ChooseLayout(g)
	positions := PlaceDeterministic(g, layout, c.opts.MinSeparation)
	assetByConcept := c.assignAssets(g, matches)

	nodes := make([]core.SceneNode, len(g.Concepts))
	for i, concept := range g.Concepts {
		nodes[i] = core.SceneNode{
			ConceptID: concept.ID,
			Position:  positions[concept.ID],
			Shape:     ShapeForCategory(concept.Category),
			Color:     ColorFor(concept.Category, g.Theme),
			Size:      SizeForImportance(concept.Importance),
			AssetURL:  assetByConcept[concept.ID],
		}
	}

	scene := &core.SceneDescription{
		Layout:   layout,
		Nodes:    nodes,
		Edges:    BuildEdges(g),
		Strategy: string(ModeCatalog),
	}
	if err := scene.Validate(g, c.opts.MinSeparation); err != nil {
		return nil, nil, &core.StrategyError{Strategy: string(ModeCatalog), Err: err}
	}
	return scene, nil, nil
}

// assignAssets pairs matched assets with concepts, most relevant asset to
// the most important concept. Each asset and each concept is used at most
// once.
func (c *Catalog) assignAssets(g *core.ConceptGraph, matches []catalog.Match) map[string]string {
	ranked := make([]core.Concept, len(g.Concepts))
	copy(ranked, g.Concepts)
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].Importance > ranked[j-1].Importance; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	assigned := make(map[string]string, len(matches))
	for i, m := range matches {
		if i >= len(ranked) {
			break
		}
		assigned[ranked[i].ID] = m.Asset.URL
	}
	return assigned
}
