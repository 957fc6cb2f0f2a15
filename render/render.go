package render

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/sceneweave/sceneweave/core"
	"github.com/sceneweave/sceneweave/logging"
	"github.com/sceneweave/sceneweave/pipeline"
)

//go:embed artifact.html.tmpl
var templateFS embed.FS

// Options configure the Assembler.
type Options struct {
	Logger logging.Logger

	// Store resolves narration audio references into clip bytes. Nil
	// renders the artifact without audio.
	Store core.ArtifactStore
}

// Assembler renders pipeline results into the downloadable HTML payload.
type Assembler struct {
	tmpl *template.Template
	opts Options
}

// NewAssembler parses the embedded artifact template.
func NewAssembler(optFns ...func(o *Options)) (*Assembler, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	tmpl, err := template.ParseFS(templateFS, "artifact.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse artifact template: %w", err)
	}
	return &Assembler{tmpl: tmpl, opts: opts}, nil
}

// narrationView is one concept's narration as embedded in the artifact.
type narrationView struct {
	ConceptID string `json:"concept_id"`
	Label     string `json:"label"`
	Text      string `json:"text"`
	AudioURI  string `json:"audio_uri,omitempty"`
	Degraded  bool   `json:"degraded,omitempty"`
}

type templateData struct {
	Title           string
	Summary         string
	Subject         string
	BackgroundColor string
	PrimaryColor    string
	Status          string
	GeneratedAt     string
	SceneJSON       template.JS
	GraphJSON       template.JS
	NarrationJSON   template.JS
}

// Assemble implements pipeline.Assembler. It requires a run that produced a
// scene; narration entries may be degraded and render without text or audio.
func (a *Assembler) Assemble(ctx context.Context, res *pipeline.Result) ([]byte, error) {
	if res.Graph == nil || res.Scene == nil {
		return nil, fmt.Errorf("cannot assemble artifact without graph and scene")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	narrations := a.buildNarrations(res)

	sceneJSON, err := json.Marshal(res.Scene)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scene: %w", err)
	}
	graphJSON, err := json.Marshal(res.Graph)
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	narrationJSON, err := json.Marshal(narrations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode narrations: %w", err)
	}

	bg := res.Graph.Theme.BackgroundColor
	if bg == "" {
		bg = "#0a0a1a"
	}
	primary := res.Graph.Theme.PrimaryColor
	if primary == "" {
		primary = "#6ea8fe"
	}

	data := templateData{
		Title:           res.Graph.Title,
		Summary:         res.Graph.Summary,
		Subject:         string(res.Graph.Subject),
		BackgroundColor: bg,
		PrimaryColor:    primary,
		Status:          string(res.Status),
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		SceneJSON:       template.JS(sceneJSON),
		GraphJSON:       template.JS(graphJSON),
		NarrationJSON:   template.JS(narrationJSON),
	}

	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render artifact: %w", err)
	}
	a.opts.Logger.Info("artifact assembled",
		"run_id", res.RunID, "bytes", buf.Len(), "narrations", len(narrations))
	return buf.Bytes(), nil
}

// buildNarrations resolves audio references into inline data URIs. A missing
// or unreadable clip degrades that one entry, never the whole artifact.
func (a *Assembler) buildNarrations(res *pipeline.Result) []narrationView {
	views := make([]narrationView, 0, len(res.Entries))
	for _, e := range res.Entries {
		v := narrationView{
			ConceptID: e.ConceptID,
			Text:      e.Text,
			Degraded:  e.Degraded(),
		}
		if c, ok := res.Graph.Concept(e.ConceptID); ok {
			v.Label = c.Label
		}
		if e.AudioRef != "" && a.opts.Store != nil {
			clip, err := a.opts.Store.Get(res.RunID, e.AudioRef)
			if err != nil {
				a.opts.Logger.Warn("audio clip unavailable",
					"run_id", res.RunID, "concept_id", e.ConceptID, "error", err)
				v.Degraded = true
			} else {
				v.AudioURI = "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(clip)
			}
		}
		views = append(views, v)
	}
	return views
}
