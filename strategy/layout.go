package strategy

import (
	"hash/fnv"
	"math"

	"github.com/sceneweave/sceneweave/core"
)

// defaultPalette colors nodes whose theme carries no primary color, keyed by
// category hash so one category always renders in one color.
var defaultPalette = []string{
	"#6ea8fe", "#e36464", "#64e3a1", "#e3c964", "#b164e3", "#64d9e3",
}

var primitiveShapes = []core.ShapeKind{
	core.ShapeSphere, core.ShapeBox, core.ShapeCylinder,
	core.ShapeCone, core.ShapeTorus, core.ShapeOctahedron,
}

// ChooseLayout derives the layout kind from the graph shape: disconnected
// category clusters, a single chain, a strict tree, or a star around a hub.
// Anything else renders as a concept map.
func ChooseLayout(g *core.ConceptGraph) core.LayoutKind {
	n := len(g.Concepts)
	if n <= 1 {
		return core.LayoutConceptMap
	}

	adj := adjacency(g)

	if componentCount(g, adj) > 1 {
		return core.LayoutClustered
	}
	if isChain(g, adj) {
		return core.LayoutTimeline
	}
	if isStrictTree(g, adj) {
		if isStar(g, adj) {
			return core.LayoutConceptMap
		}
		return core.LayoutHierarchical
	}
	return core.LayoutConceptMap
}

func adjacency(g *core.ConceptGraph) map[string][]string {
	adj := make(map[string][]string, len(g.Concepts))
	for _, c := range g.Concepts {
		adj[c.ID] = nil
	}
	for _, r := range g.Relationships {
		if r.SourceID == r.TargetID {
			continue
		}
		adj[r.SourceID] = append(adj[r.SourceID], r.TargetID)
		adj[r.TargetID] = append(adj[r.TargetID], r.SourceID)
	}
	return adj
}

func componentCount(g *core.ConceptGraph, adj map[string][]string) int {
	visited := make(map[string]bool, len(g.Concepts))
	count := 0
	for _, c := range g.Concepts {
		if visited[c.ID] {
			continue
		}
		count++
		stack := []string{c.ID}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[id] {
				continue
			}
			visited[id] = true
			stack = append(stack, adj[id]...)
		}
	}
	return count
}

// isChain reports a single path: exactly two degree-1 endpoints, everything
// else degree 2, and edge count n-1.
func isChain(g *core.ConceptGraph, adj map[string][]string) bool {
	n := len(g.Concepts)
	if n < 2 || undirectedEdgeCount(g) != n-1 {
		return false
	}
	endpoints := 0
	for _, c := range g.Concepts {
		switch deg := degree(adj, c.ID); deg {
		case 1:
			endpoints++
		case 2:
		default:
			return false
		}
	}
	return endpoints == 2
}

// isStrictTree reports a connected acyclic graph: n-1 undirected edges with a
// single component.
func isStrictTree(g *core.ConceptGraph, adj map[string][]string) bool {
	return undirectedEdgeCount(g) == len(g.Concepts)-1 && componentCount(g, adj) == 1
}

// isStar reports one hub adjacent to every other node.
func isStar(g *core.ConceptGraph, adj map[string][]string) bool {
	n := len(g.Concepts)
	if n < 3 {
		return false
	}
	for _, c := range g.Concepts {
		if degree(adj, c.ID) == n-1 {
			return true
		}
	}
	return false
}

func degree(adj map[string][]string, id string) int {
	seen := make(map[string]bool)
	for _, other := range adj[id] {
		seen[other] = true
	}
	return len(seen)
}

func undirectedEdgeCount(g *core.ConceptGraph) int {
	type pair struct{ a, b string }
	seen := make(map[pair]bool)
	for _, r := range g.Relationships {
		if r.SourceID == r.TargetID {
			continue
		}
		a, b := r.SourceID, r.TargetID
		if a > b {
			a, b = b, a
		}
		seen[pair{a, b}] = true
	}
	return len(seen)
}

// BuildEdges mirrors graph relationships as scene edges. Causal and temporal
// relationships render as arrows, the rest as plain lines.
func BuildEdges(g *core.ConceptGraph) []core.SceneEdge {
	edges := make([]core.SceneEdge, 0, len(g.Relationships))
	for _, r := range g.Relationships {
		connector := core.ConnectorLine
		if r.Kind == core.RelationCauses || r.Kind == core.RelationPrecedes {
			connector = core.ConnectorArrow
		}
		edges = append(edges, core.SceneEdge{
			SourceID:  r.SourceID,
			TargetID:  r.TargetID,
			Connector: connector,
		})
	}
	return edges
}

// SizeForImportance scales node size with concept importance.
func SizeForImportance(importance int) float64 {
	return 0.3 + float64(importance)/5.0*0.5
}

// ShapeForCategory picks a stable primitive shape per category.
func ShapeForCategory(category string) core.ShapeKind {
	return primitiveShapes[hashString(category)%uint32(len(primitiveShapes))]
}

// ColorFor resolves a node color: the theme's primary color when set,
// otherwise a palette entry keyed by category.
func ColorFor(category string, theme core.VisualTheme) string {
	if theme.PrimaryColor != "" {
		return theme.PrimaryColor
	}
	return defaultPalette[hashString(category)%uint32(len(defaultPalette))]
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// PlaceDeterministic assigns positions for the given layout kind without any
// model call. All placements keep every node pair at least minSeparation
// apart; the working pitch is twice the minimum so validation never sits on
// the boundary.
func PlaceDeterministic(g *core.ConceptGraph, layout core.LayoutKind, minSeparation float64) map[string]core.Vec3 {
	pitch := 2 * minSeparation
	if pitch <= 0 {
		pitch = 4
	}

	switch layout {
	case core.LayoutTimeline:
		return placeTimeline(g, pitch)
	case core.LayoutHierarchical:
		return placeHierarchy(g, pitch)
	case core.LayoutClustered:
		return placeClusters(g, pitch)
	default:
		return placeOrbit(g, pitch)
	}
}

// PlaceGrid lays nodes on an XZ grid. It is the placement of last resort;
// the pitch guarantees the separation constraint holds for any node count.
func PlaceGrid(g *core.ConceptGraph, minSeparation float64) map[string]core.Vec3 {
	pitch := 2 * minSeparation
	if pitch <= 0 {
		pitch = 4
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(g.Concepts)))))
	if cols < 1 {
		cols = 1
	}

	positions := make(map[string]core.Vec3, len(g.Concepts))
	for i, c := range g.Concepts {
		row, col := i/cols, i%cols
		positions[c.ID] = core.Vec3{
			X: (float64(col) - float64(cols-1)/2) * pitch,
			Y: 0,
			Z: float64(row) * pitch,
		}
	}
	return positions
}

// placeOrbit puts the central concept at the origin with the rest on a ring,
// height varied by importance.
func placeOrbit(g *core.ConceptGraph, pitch float64) map[string]core.Vec3 {
	positions := make(map[string]core.Vec3, len(g.Concepts))

	central := g.CentralConceptID
	var others []core.Concept
	for _, c := range g.Concepts {
		if c.ID == central {
			positions[central] = core.Vec3{}
			continue
		}
		others = append(others, c)
	}

	n := float64(len(others))
	radius := math.Max(6, math.Max(pitch, n*pitch/(2*math.Pi)))
	for i, c := range others {
		angle := float64(i) / n * 2 * math.Pi
		positions[c.ID] = core.Vec3{
			X: math.Cos(angle) * radius,
			Y: float64(c.Importance-3) * 0.5,
			Z: math.Sin(angle) * radius,
		}
	}
	return positions
}

// placeTimeline arranges concepts left to right in exploration order.
func placeTimeline(g *core.ConceptGraph, pitch float64) map[string]core.Vec3 {
	order := g.ExplorationOrder
	if len(order) != len(g.Concepts) {
		order = g.ConceptIDs()
	}
	positions := make(map[string]core.Vec3, len(order))
	offset := float64(len(order)-1) / 2 * pitch
	for i, id := range order {
		positions[id] = core.Vec3{X: float64(i)*pitch - offset}
	}
	return positions
}

// placeHierarchy stacks tree levels top down, roots first. Depth is measured
// from nodes that are never a part-of / precedes target.
func placeHierarchy(g *core.ConceptGraph, pitch float64) map[string]core.Vec3 {
	depth := make(map[string]int, len(g.Concepts))
	parent := make(map[string]string)
	for _, r := range g.Relationships {
		// child part-of parent: source is the child
		parent[r.SourceID] = r.TargetID
	}
	var depthOf func(id string, hops int) int
	depthOf = func(id string, hops int) int {
		if hops > len(g.Concepts) {
			return hops // cycle guard
		}
		p, ok := parent[id]
		if !ok {
			return 0
		}
		return depthOf(p, hops+1) + 1
	}
	levels := make(map[int][]string)
	maxDepth := 0
	for _, c := range g.Concepts {
		d := depthOf(c.ID, 0)
		depth[c.ID] = d
		levels[d] = append(levels[d], c.ID)
		if d > maxDepth {
			maxDepth = d
		}
	}

	positions := make(map[string]core.Vec3, len(g.Concepts))
	for d := 0; d <= maxDepth; d++ {
		ids := levels[d]
		offset := float64(len(ids)-1) / 2 * pitch
		for i, id := range ids {
			positions[id] = core.Vec3{
				X: float64(i)*pitch - offset,
				Y: -float64(d) * pitch,
			}
		}
	}
	return positions
}

// placeClusters groups concepts by category, each cluster a small ring on a
// larger ring of clusters. Ring radii grow with member count so the pitch
// holds inside and across clusters.
func placeClusters(g *core.ConceptGraph, pitch float64) map[string]core.Vec3 {
	var order []string
	byCategory := make(map[string][]core.Concept)
	for _, c := range g.Concepts {
		if _, ok := byCategory[c.Category]; !ok {
			order = append(order, c.Category)
		}
		byCategory[c.Category] = append(byCategory[c.Category], c)
	}

	maxLocal := pitch
	for _, members := range byCategory {
		if r := localRadius(len(members), pitch); r > maxLocal {
			maxLocal = r
		}
	}

	catCount := float64(len(order))
	catRadius := math.Max(2*pitch+2*maxLocal, catCount*(2*maxLocal+pitch)/(2*math.Pi))

	positions := make(map[string]core.Vec3, len(g.Concepts))
	for ci, cat := range order {
		catAngle := float64(ci) / catCount * 2 * math.Pi
		cx := math.Cos(catAngle) * catRadius
		cz := math.Sin(catAngle) * catRadius

		members := byCategory[cat]
		if len(members) == 1 {
			positions[members[0].ID] = core.Vec3{X: cx, Z: cz}
			continue
		}
		r := localRadius(len(members), pitch)
		for i, c := range members {
			a := float64(i) / float64(len(members)) * 2 * math.Pi
			positions[c.ID] = core.Vec3{
				X: cx + math.Cos(a)*r,
				Y: float64(c.Importance-3) * 0.3,
				Z: cz + math.Sin(a)*r,
			}
		}
	}
	return positions
}

// localRadius sizes a cluster ring so adjacent members sit a full pitch
// apart along the chord.
func localRadius(members int, pitch float64) float64 {
	if members < 2 {
		return 0
	}
	return math.Max(pitch, pitch/(2*math.Sin(math.Pi/float64(members))))
}
