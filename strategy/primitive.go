package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sceneweave/sceneweave/core"
	"github.com/sceneweave/sceneweave/logging"
	"github.com/sceneweave/sceneweave/model"
)

const primitiveInstructions = `You are a 3D scene layout engine. You position educational concepts in 3D space using only primitive shapes. Return ONLY valid JSON, no additional text or markdown.`

const primitiveSchemaHint = `{
  "nodes": [
    {"concept_id": "id", "position": {"x": 0.0, "y": 0.0, "z": 0.0}, "shape": "sphere|box|cylinder|cone|torus|octahedron", "color": "#hex", "size": 0.5}
  ]
}`

const primitiveRepromptClause = `

PREVIOUS LAYOUT REJECTED: %v
Fix it. Every concept must get exactly one node, and every pair of nodes must be at least %.1f units apart.`

// PrimitiveOptions configure the primitive-synthesis strategy.
type PrimitiveOptions struct {
	Logger  logging.Logger
	Limiter *core.CallLimiter

	// MinSeparation is the minimum pairwise node distance. Zero disables
	// the constraint.
	MinSeparation float64
}

// Primitive is the strategy of last resort: it asks the model to place every
// concept as a primitive shape and never reports unavailability. A layout
// violating the coverage or separation constraints is re-prompted once, then
// replaced by a deterministic grid placement; only model transport failures
// (after one retry) are fatal.
type Primitive struct {
	model model.Model
	opts  PrimitiveOptions
}

// NewPrimitive constructs the primitive-synthesis strategy.
func NewPrimitive(m model.Model, optFns ...func(o *PrimitiveOptions)) *Primitive {
	opts := PrimitiveOptions{Logger: logging.NoOpLogger{}, MinSeparation: 2}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Primitive{model: m, opts: opts}
}

// Mode implements Strategy.
func (p *Primitive) Mode() Mode { return ModePrimitive }

type primitiveLayout struct {
	Nodes []core.SceneNode `json:"nodes"`
}

// Design implements Strategy.
func (p *Primitive) Design(ctx context.Context, g *core.ConceptGraph) (*core.SceneDescription, []core.Diagnostic, error) {
	layout := ChooseLayout(g)
	var diags []core.Diagnostic

	prompt := p.buildPrompt(g, layout)

	scene, err := p.attempt(ctx, g, layout, prompt)
	if err == nil {
		return scene, diags, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, diags, &core.StrategyError{Strategy: string(ModePrimitive), Err: ctxErr}
	}

	p.opts.Logger.Warn("primitive layout rejected, re-prompting", "layout", string(layout), "error", err)
	diags = append(diags, core.NewDiagnostic(core.StageDesign, core.DiagLayoutReprompt,
		fmt.Sprintf("layout rejected: %v", err)))

	scene, err2 := p.attempt(ctx, g, layout, prompt+fmt.Sprintf(primitiveRepromptClause, err, p.opts.MinSeparation))
	if err2 == nil {
		return scene, diags, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, diags, &core.StrategyError{Strategy: string(ModePrimitive), Err: ctxErr}
	}

	// Constraint violations fall back to the grid; transport failures on
	// both attempts are fatal.
	var callErr *callError
	if asCallError(err, &callErr) && asCallError(err2, &callErr) {
		return nil, diags, &core.StrategyError{Strategy: string(ModePrimitive), Err: err2}
	}

	p.opts.Logger.Warn("primitive re-prompt rejected, using grid placement", "error", err2)
	diags = append(diags, core.NewDiagnostic(core.StageDesign, core.DiagGridFallback,
		fmt.Sprintf("re-prompt rejected: %v", err2)))
	return p.gridScene(g, layout), diags, nil
}

// callError marks a model transport failure, as opposed to a rejected layout.
type callError struct{ err error }

func (e *callError) Error() string { return e.err.Error() }
func (e *callError) Unwrap() error { return e.err }

func asCallError(err error, target **callError) bool {
	ce, ok := err.(*callError)
	if ok {
		*target = ce
	}
	return ok
}

func (p *Primitive) attempt(ctx context.Context, g *core.ConceptGraph, layout core.LayoutKind, prompt string) (*core.SceneDescription, error) {
	if p.opts.Limiter != nil {
		if err := p.opts.Limiter.Increment(); err != nil {
			return nil, &callError{err: err}
		}
	}

	resp, err := p.model.Complete(ctx, model.Request{
		Instructions: primitiveInstructions,
		Prompt:       prompt,
		SchemaHint:   primitiveSchemaHint,
	})
	if err != nil {
		return nil, &callError{err: fmt.Errorf("model call failed: %w", err)}
	}

	var parsed primitiveLayout
	if err := json.Unmarshal([]byte(cleanModelJSON(resp.Text)), &parsed); err != nil {
		return nil, &callError{err: fmt.Errorf("failed to parse layout output: %w", err)}
	}

	scene := &core.SceneDescription{
		Layout:   layout,
		Nodes:    parsed.Nodes,
		Edges:    BuildEdges(g),
		Strategy: string(ModePrimitive),
	}
	fillNodeDefaults(scene, g)

	if err := scene.Validate(g, p.opts.MinSeparation); err != nil {
		return nil, err
	}
	return scene, nil
}

// gridScene is the deterministic last resort; by construction it always
// validates.
func (p *Primitive) gridScene(g *core.ConceptGraph, layout core.LayoutKind) *core.SceneDescription {
	positions := PlaceGrid(g, p.opts.MinSeparation)
	nodes := make([]core.SceneNode, len(g.Concepts))
	for i, c := range g.Concepts {
		nodes[i] = core.SceneNode{
			ConceptID: c.ID,
			Position:  positions[c.ID],
			Shape:     ShapeForCategory(c.Category),
			Color:     ColorFor(c.Category, g.Theme),
			Size:      SizeForImportance(c.Importance),
		}
	}
	return &core.SceneDescription{
		Layout:   layout,
		Nodes:    nodes,
		Edges:    BuildEdges(g),
		Strategy: string(ModePrimitive),
	}
}

func (p *Primitive) buildPrompt(g *core.ConceptGraph, layout core.LayoutKind) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Arrange these concepts in a %q 3D layout.\n\n", layout)
	b.WriteString("Concepts:\n")
	for _, c := range g.Concepts {
		fmt.Fprintf(&b, "- %s (id: %s, category: %s, importance: %d): %s\n",
			c.Label, c.ID, c.Category, c.Importance, c.Description)
	}
	if len(g.Relationships) > 0 {
		b.WriteString("\nRelationships:\n")
		for _, r := range g.Relationships {
			fmt.Fprintf(&b, "- %s %s %s\n", r.SourceID, r.Kind, r.TargetID)
		}
	}
	fmt.Fprintf(&b, "\nRules:\n")
	fmt.Fprintf(&b, "- One node per concept id, no extras.\n")
	fmt.Fprintf(&b, "- Only primitive shapes: sphere, box, cylinder, cone, torus, octahedron.\n")
	fmt.Fprintf(&b, "- Every pair of nodes at least %.1f units apart.\n", p.opts.MinSeparation)
	fmt.Fprintf(&b, "- Size between 0.3 and 0.8, scaled by importance.\n")
	if g.Theme.PrimaryColor != "" {
		fmt.Fprintf(&b, "- Prefer colors harmonizing with %s.\n", g.Theme.PrimaryColor)
	}
	return b.String()
}

// fillNodeDefaults patches shape, color and size the model left empty so a
// sparse but spatially valid answer is not rejected.
func fillNodeDefaults(s *core.SceneDescription, g *core.ConceptGraph) {
	for i := range s.Nodes {
		n := &s.Nodes[i]
		c, ok := g.Concept(n.ConceptID)
		if !ok {
			continue
		}
		if n.Shape == "" {
			n.Shape = ShapeForCategory(c.Category)
		}
		if n.Color == "" {
			n.Color = ColorFor(c.Category, g.Theme)
		}
		if n.Size <= 0 {
			n.Size = SizeForImportance(c.Importance)
		}
	}
}

// cleanModelJSON strips markdown fences around a JSON payload.
func cleanModelJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}
