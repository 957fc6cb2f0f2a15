package core

import (
	"fmt"
	"math"
)

// LayoutKind is the overall spatial arrangement of a scene.
type LayoutKind string

// Layout kinds, chosen from graph shape heuristics.
const (
	LayoutConceptMap   LayoutKind = "concept-map"
	LayoutHierarchical LayoutKind = "hierarchical"
	LayoutTimeline     LayoutKind = "timeline"
	LayoutClustered    LayoutKind = "clustered"
)

// ShapeKind is the primitive geometry assigned to a scene node.
type ShapeKind string

// Primitive shapes renderable without any external asset.
const (
	ShapeSphere     ShapeKind = "sphere"
	ShapeBox        ShapeKind = "box"
	ShapeCylinder   ShapeKind = "cylinder"
	ShapeCone       ShapeKind = "cone"
	ShapeTorus      ShapeKind = "torus"
	ShapeOctahedron ShapeKind = "octahedron"
)

// ConnectorKind is the visual style of a scene edge.
type ConnectorKind string

// Connector styles.
const (
	ConnectorLine  ConnectorKind = "line"
	ConnectorArrow ConnectorKind = "arrow"
)

// Vec3 is a position in scene space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance returns the euclidean distance between two positions.
func (v Vec3) Distance(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// SceneNode places one concept in the scene. AssetURL is set only by the
// catalog-matching strategy when a pre-built asset replaces the primitive
// shape.
type SceneNode struct {
	ConceptID string    `json:"concept_id"`
	Position  Vec3      `json:"position"`
	Shape     ShapeKind `json:"shape"`
	Color     string    `json:"color"`
	Size      float64   `json:"size"`
	AssetURL  string    `json:"asset_url,omitempty"`
}

// SceneEdge connects two scene nodes, mirroring a concept relationship.
type SceneEdge struct {
	SourceID  string        `json:"source_id"`
	TargetID  string        `json:"target_id"`
	Connector ConnectorKind `json:"connector"`
}

// SceneDescription is the spatial layout produced by exactly one strategy
// per pipeline run. It is owned exclusively by the run that created it.
type SceneDescription struct {
	Layout LayoutKind  `json:"layout"`
	Nodes  []SceneNode `json:"nodes"`
	Edges  []SceneEdge `json:"edges"`

	// Strategy records which strategy produced this description.
	Strategy string `json:"strategy"`
}

// Node returns the scene node for the given concept id, if present.
func (s *SceneDescription) Node(conceptID string) (SceneNode, bool) {
	for _, n := range s.Nodes {
		if n.ConceptID == conceptID {
			return n, true
		}
	}
	return SceneNode{}, false
}

// MinPairSeparation returns the smallest pairwise distance between node
// positions, or +Inf for fewer than two nodes.
func (s *SceneDescription) MinPairSeparation() float64 {
	min := math.Inf(1)
	for i := 0; i < len(s.Nodes); i++ {
		for j := i + 1; j < len(s.Nodes); j++ {
			if d := s.Nodes[i].Position.Distance(s.Nodes[j].Position); d < min {
				min = d
			}
		}
	}
	return min
}

// Validate checks the scene against its originating graph: every node maps
// to a known concept, every concept got a node, edge endpoints resolve to
// nodes in this scene, and no pair of nodes sits closer than minSeparation.
func (s *SceneDescription) Validate(g *ConceptGraph, minSeparation float64) error {
	if len(s.Nodes) == 0 {
		return fmt.Errorf("scene has no nodes")
	}

	nodes := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if _, ok := g.Concept(n.ConceptID); !ok {
			return fmt.Errorf("scene node references unknown concept %q", n.ConceptID)
		}
		if nodes[n.ConceptID] {
			return fmt.Errorf("duplicate scene node for concept %q", n.ConceptID)
		}
		nodes[n.ConceptID] = true
	}
	for _, c := range g.Concepts {
		if !nodes[c.ID] {
			return fmt.Errorf("concept %q has no scene node", c.ID)
		}
	}

	for _, e := range s.Edges {
		if !nodes[e.SourceID] {
			return fmt.Errorf("scene edge references missing node %q", e.SourceID)
		}
		if !nodes[e.TargetID] {
			return fmt.Errorf("scene edge references missing node %q", e.TargetID)
		}
	}

	if minSeparation > 0 && len(s.Nodes) > 1 {
		if d := s.MinPairSeparation(); d < minSeparation {
			return fmt.Errorf("node separation %.3f below minimum %.3f", d, minSeparation)
		}
	}

	return nil
}
