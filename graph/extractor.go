package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/sceneweave/sceneweave/core"
	"github.com/sceneweave/sceneweave/logging"
	"github.com/sceneweave/sceneweave/model"
)

// MaxDocumentChars caps how much document text reaches the model. Longer
// documents are truncated, not rejected.
const MaxDocumentChars = 15000

const extractInstructions = `You analyze educational documents and produce concept graphs for interactive 3D learning scenes. Return ONLY valid JSON, no additional text or markdown.`

const extractSchemaHint = `{
  "title": "descriptive title for the 3D scene",
  "summary": "one paragraph summary",
  "subject": "biology|physics|chemistry|history|geography|astronomy|anatomy|engineering|mathematics|general",
  "difficulty": "beginner|intermediate|advanced",
  "concepts": [
    {"id": "snake_case_id", "label": "concept name", "description": "brief desc", "category": "grouping", "importance": 1}
  ],
  "relationships": [
    {"source_id": "id", "target_id": "id", "kind": "part-of|causes|related-to|precedes", "strength": 1}
  ],
  "central_concept_id": "id of the most important concept",
  "exploration_order": ["id1", "id2"],
  "theme": {"primary_color": "#hex", "background_color": "#hex", "mood": "scientific|playful|serious|exploratory", "keywords": ["keyword1", "keyword2"]}
}`

const strictRetryClause = `

PREVIOUS ATTEMPT REJECTED. Follow these rules exactly:
- Output a single JSON object and nothing else.
- Every relationship source_id and target_id MUST be the id of a listed concept.
- Every importance rating MUST be an integer from 1 to 5.
- central_concept_id and every exploration_order entry MUST be listed concept ids.`

// Hints are optional caller overrides applied to the extracted graph.
type Hints struct {
	Subject    core.Subject
	Difficulty core.Difficulty
}

// Options configure the Extractor.
type Options struct {
	Logger  logging.Logger
	Limiter *core.CallLimiter
}

// Extractor turns document text into a validated core.ConceptGraph.
type Extractor struct {
	model model.Model
	opts  Options
}

// NewExtractor constructs an Extractor around the given model.
func NewExtractor(m model.Model, optFns ...func(o *Options)) *Extractor {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Extractor{model: m, opts: opts}
}

// Extract runs the extraction call, validates the result, and retries once
// with a stricter prompt on call failure, parse failure, or validation
// failure. All failure paths return a *core.ExtractionError.
func (x *Extractor) Extract(ctx context.Context, documentText string, hints Hints) (*core.ConceptGraph, error) {
	documentText = strings.TrimSpace(documentText)
	if documentText == "" {
		return nil, &core.ExtractionError{Reason: "document text is empty"}
	}
	if len(documentText) > MaxDocumentChars {
		x.opts.Logger.Info("document truncated", "original_chars", len(documentText), "kept_chars", MaxDocumentChars)
		documentText = documentText[:MaxDocumentChars]
	}

	prompt := buildExtractPrompt(documentText)

	g, err := x.attempt(ctx, prompt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &core.ExtractionError{Reason: "extraction canceled", Err: ctxErr}
		}
		x.opts.Logger.Warn("extraction attempt rejected, retrying with strict prompt", "error", err)
		g, err = x.attempt(ctx, prompt+strictRetryClause)
		if err != nil {
			return nil, &core.ExtractionError{Reason: "retry exhausted", Err: err}
		}
	}

	applyHints(g, hints)
	normalize(g)
	return g, nil
}

func (x *Extractor) attempt(ctx context.Context, prompt string) (*core.ConceptGraph, error) {
	if x.opts.Limiter != nil {
		if err := x.opts.Limiter.Increment(); err != nil {
			return nil, err
		}
	}

	resp, err := x.model.Complete(ctx, model.Request{
		Instructions: extractInstructions,
		Prompt:       prompt,
		SchemaHint:   extractSchemaHint,
	})
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	var g core.ConceptGraph
	if err := decodeJSON(resp.Text, &g); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("graph rejected: %w", err)
	}
	return &g, nil
}

func buildExtractPrompt(documentText string) string {
	var b strings.Builder
	b.WriteString("Analyze this educational document and return a concept graph as JSON.\n\n")
	b.WriteString("Requirements:\n")
	b.WriteString("- title: a descriptive, engaging title for an interactive 3D learning experience\n")
	b.WriteString("- concepts: extract 3 to 7 key concepts with importance ratings from 1 to 5\n")
	b.WriteString("- relationships: link related concepts; endpoints must be listed concept ids\n")
	b.WriteString("- subject: choose the single most appropriate category\n")
	b.WriteString("- exploration_order: the order a learner should visit the concepts\n")
	b.WriteString("- theme: colors, mood and 5 to 10 keywords matching relevant 3D models\n\n")
	b.WriteString("DOCUMENT CONTENT:\n")
	b.WriteString(documentText)
	return b.String()
}

// applyHints overrides subject and difficulty when the caller supplied them.
func applyHints(g *core.ConceptGraph, hints Hints) {
	if hints.Subject != "" {
		g.Subject = hints.Subject
	}
	if hints.Difficulty != "" {
		g.Difficulty = hints.Difficulty
	}
}

// normalize fills defaults validation does not require: unknown subjects
// collapse to general, a missing central concept becomes the most important
// one, and a missing exploration order falls back to graph order.
func normalize(g *core.ConceptGraph) {
	if !knownSubject(g.Subject) {
		g.Subject = core.SubjectGeneral
	}
	if g.Difficulty == "" {
		g.Difficulty = core.DifficultyIntermediate
	}
	if g.CentralConceptID == "" {
		best := g.Concepts[0]
		for _, c := range g.Concepts[1:] {
			if c.Importance > best.Importance {
				best = c
			}
		}
		g.CentralConceptID = best.ID
	}
	if len(g.ExplorationOrder) == 0 {
		g.ExplorationOrder = g.ConceptIDs()
	}
}

func knownSubject(s core.Subject) bool {
	switch s {
	case core.SubjectBiology, core.SubjectPhysics, core.SubjectChemistry,
		core.SubjectHistory, core.SubjectGeography, core.SubjectAstronomy,
		core.SubjectAnatomy, core.SubjectEngineering, core.SubjectMathematics,
		core.SubjectGeneral:
		return true
	}
	return false
}
