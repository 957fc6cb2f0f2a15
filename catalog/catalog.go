package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sceneweave/sceneweave/core"
)

// Asset is a single pre-built 3D model in the catalog.
type Asset struct {
	ID          string   `json:"id"`
	URL         string   `json:"url"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Category    string   `json:"category"`
}

// Manifest is the full catalog listing.
type Manifest struct {
	Version string  `json:"version,omitempty"`
	Assets  []Asset `json:"models"`
}

// Match pairs an asset with its relevance score for a concept graph.
type Match struct {
	Asset Asset `json:"asset"`
	Score int   `json:"score"`
}

// Lookup resolves catalog matches for a concept graph.
type Lookup interface {
	// Match returns up to maxAssets assets relevant to g, best first.
	// Assets with a zero score are omitted.
	Match(ctx context.Context, g *core.ConceptGraph, maxAssets int) ([]Match, error)
}

// ParseManifest decodes a manifest from raw JSON bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse catalog manifest: %w", err)
	}
	return &m, nil
}

// StaticLookup scores assets from a fixed in-memory manifest.
type StaticLookup struct {
	manifest *Manifest
}

// NewStaticLookup constructs a StaticLookup over manifest.
func NewStaticLookup(manifest *Manifest) *StaticLookup {
	return &StaticLookup{manifest: manifest}
}

// Match implements Lookup. Keyword hits weigh triple, name-word hits double,
// description-word hits single, with a flat bonus when the asset category
// equals the graph subject.
func (l *StaticLookup) Match(ctx context.Context, g *core.ConceptGraph, maxAssets int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := searchTerms(g)

	var matches []Match
	for _, a := range l.manifest.Assets {
		score := scoreAsset(a, terms, string(g.Subject))
		if score > 0 {
			matches = append(matches, Match{Asset: a, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if maxAssets > 0 && len(matches) > maxAssets {
		matches = matches[:maxAssets]
	}
	return matches, nil
}

// searchTerms collects lowercased lookup terms from the graph: theme
// keywords, concept labels, concept categories, and the subject.
func searchTerms(g *core.ConceptGraph) map[string]struct{} {
	terms := make(map[string]struct{})
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			terms[s] = struct{}{}
		}
	}
	for _, kw := range g.Theme.Keywords {
		add(kw)
	}
	for _, c := range g.Concepts {
		add(c.Label)
		add(c.Category)
	}
	add(string(g.Subject))
	return terms
}

func scoreAsset(a Asset, terms map[string]struct{}, subject string) int {
	assetTerms := make(map[string]struct{}, len(a.Keywords)+1)
	for _, kw := range a.Keywords {
		assetTerms[strings.ToLower(kw)] = struct{}{}
	}
	assetTerms[strings.ToLower(a.Category)] = struct{}{}

	nameWords := wordSet(a.Name)
	descWords := wordSet(a.Description)

	score := overlap(terms, assetTerms)*3 + overlap(terms, nameWords)*2 + overlap(terms, descWords)

	if strings.EqualFold(a.Category, subject) {
		score += 5
	}
	return score
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
