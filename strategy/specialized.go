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

const specializedInstructions = `You are an expert 3D modeler. You build accurate spatial representations of biological and anatomical subject matter from primitive shapes: brains with lobes and a brainstem, hearts with chambers and valves, cells with organelles. Return ONLY valid JSON, no additional text or markdown.`

const specializedSchemaHint = `{
  "nodes": [
    {"concept_id": "id", "position": {"x": 0.0, "y": 0.0, "z": 0.0}, "shape": "sphere|box|cylinder|cone|torus|octahedron", "color": "#hex", "size": 0.5}
  ]
}`

// defaultSpecializedSubjects is the allow-list for the specialized generator.
var defaultSpecializedSubjects = []core.Subject{core.SubjectAnatomy, core.SubjectBiology}

// SpecializedOptions configure the specialized-generator strategy.
type SpecializedOptions struct {
	Logger   logging.Logger
	Limiter  *core.CallLimiter
	Subjects []core.Subject
}

// Specialized builds anatomically arranged scenes for subjects on its
// allow-list and reports unavailability for everything else. Parts of one
// model adjoin, so no pairwise separation is enforced; structural validation
// still applies.
type Specialized struct {
	model model.Model
	opts  SpecializedOptions
}

// NewSpecialized constructs the specialized-generator strategy.
func NewSpecialized(m model.Model, optFns ...func(o *SpecializedOptions)) *Specialized {
	opts := SpecializedOptions{
		Logger:   logging.NoOpLogger{},
		Subjects: defaultSpecializedSubjects,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Specialized{model: m, opts: opts}
}

// Mode implements Strategy.
func (s *Specialized) Mode() Mode { return ModeSpecialized }

// Design implements Strategy. Model or parse failures get one retry, then
// surface as a fatal StrategyError.
func (s *Specialized) Design(ctx context.Context, g *core.ConceptGraph) (*core.SceneDescription, []core.Diagnostic, error) {
	if !s.applicable(g.Subject) {
		return nil, nil, fmt.Errorf("subject %q outside specialized allow-list: %w",
			g.Subject, core.ErrStrategyUnavailable)
	}

	prompt := s.buildPrompt(g)
	scene, err := s.attempt(ctx, g, prompt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, &core.StrategyError{Strategy: string(ModeSpecialized), Err: ctxErr}
		}
		s.opts.Logger.Warn("specialized scene rejected, retrying", "error", err)
		scene, err = s.attempt(ctx, g, prompt)
		if err != nil {
			return nil, nil, &core.StrategyError{Strategy: string(ModeSpecialized), Err: err}
		}
	}
	return scene, nil, nil
}

func (s *Specialized) applicable(subject core.Subject) bool {
	for _, allowed := range s.opts.Subjects {
		if subject == allowed {
			return true
		}
	}
	return false
}

func (s *Specialized) attempt(ctx context.Context, g *core.ConceptGraph, prompt string) (*core.SceneDescription, error) {
	if s.opts.Limiter != nil {
		if err := s.opts.Limiter.Increment(); err != nil {
			return nil, err
		}
	}

	resp, err := s.model.Complete(ctx, model.Request{
		Instructions: specializedInstructions,
		Prompt:       prompt,
		SchemaHint:   specializedSchemaHint,
	})
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	var parsed primitiveLayout
	if err := json.Unmarshal([]byte(cleanModelJSON(resp.Text)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse scene output: %w", err)
	}

	scene := &core.SceneDescription{
		Layout:   core.LayoutConceptMap,
		Nodes:    parsed.Nodes,
		Edges:    BuildEdges(g),
		Strategy: string(ModeSpecialized),
	}
	fillNodeDefaults(scene, g)

	// Anatomical parts may touch; only structural validation applies.
	if err := scene.Validate(g, 0); err != nil {
		return nil, fmt.Errorf("scene rejected: %w", err)
	}
	return scene, nil
}

func (s *Specialized) buildPrompt(g *core.ConceptGraph) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Build a 3D model of %q (%s).\n\n", g.Title, g.Subject)
	if g.Summary != "" {
		b.WriteString(g.Summary)
		b.WriteString("\n\n")
	}
	b.WriteString("Model each concept as one part, positioned anatomically relative to the others:\n")
	for _, c := range g.Concepts {
		fmt.Fprintf(&b, "- %s (id: %s): %s\n", c.Label, c.ID, c.Description)
	}
	if len(g.Relationships) > 0 {
		b.WriteString("\nSpatial relationships:\n")
		for _, r := range g.Relationships {
			fmt.Fprintf(&b, "- %s %s %s\n", r.SourceID, r.Kind, r.TargetID)
		}
	}
	b.WriteString("\nGuidelines:\n")
	b.WriteString("- Use meaningful colors (arteries red, veins blue).\n")
	b.WriteString("- Position parts correctly relative to each other.\n")
	b.WriteString("- Keep geometry simple but recognizable.\n")
	b.WriteString("- One node per concept id, no extras.\n")
	return b.String()
}
