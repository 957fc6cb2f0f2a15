// Package sceneweave provides a high-level façade over the pipeline
// controller and stage abstractions (extraction, scene design, narration
// and artifact assembly) enabling rapid construction of document-to-scene
// generators. Most applications interact with this package by:
//  1. Creating a Weaver via New() with a language model (optionally
//     overriding the default in-memory artifact store, synthesizer or
//     asset catalog)
//  2. Calling Generate with an uploaded document, or GenerateText with
//     already-extracted text
//
// The façade delegates stage orchestration to pipeline.Controller while
// keeping setup and usage ergonomics concise. All defaults are safe for
// local development and testing; production deployments typically supply
// a Cloud Storage backed artifact store and catalog, an ElevenLabs
// synthesizer, and a structured logger.
package sceneweave

import (
	"context"

	"github.com/sceneweave/sceneweave/artifact"
	"github.com/sceneweave/sceneweave/catalog"
	"github.com/sceneweave/sceneweave/core"
	"github.com/sceneweave/sceneweave/document"
	"github.com/sceneweave/sceneweave/graph"
	"github.com/sceneweave/sceneweave/logging"
	"github.com/sceneweave/sceneweave/model"
	"github.com/sceneweave/sceneweave/narrate"
	"github.com/sceneweave/sceneweave/pipeline"
	"github.com/sceneweave/sceneweave/render"
	"github.com/sceneweave/sceneweave/speech"
	"github.com/sceneweave/sceneweave/strategy"
)

// Options configures the Weaver instance.
type Options struct {
	// Config carries the per-run pipeline settings (preferred strategy,
	// worker pool size, retry backoff, node separation, call budget).
	Config pipeline.Config

	// Store persists narration audio and the assembled artifact
	// (defaults to an in-memory store if not provided).
	Store core.ArtifactStore

	// Synthesizer converts narration text to audio. Nil disables audio;
	// narration text is still generated.
	Synthesizer speech.Synthesizer

	// Catalog provides pre-built asset matching. Nil leaves the
	// catalog-matching strategy unregistered, so runs preferring it
	// fall back to primitive synthesis.
	Catalog catalog.Lookup

	// DocumentExtractor turns an uploaded document into plain text
	// (defaults to the plain-text extractor if not provided).
	DocumentExtractor document.Extractor

	// Assemble controls whether runs render the downloadable HTML
	// artifact. Disabled runs still produce the graph, scene and
	// narration entries.
	Assemble bool

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Weaver is the high-level façade aggregating the pipeline stages.
type Weaver struct {
	model     model.Model
	opts      Options
	assembler *render.Assembler
	docX      document.Extractor
}

// New creates a Weaver around the given language model with optional
// overrides. Any unset service is initialized with an in-memory or no-op
// implementation.
func New(m model.Model, optFns ...func(o *Options)) (*Weaver, error) {
	opts := Options{
		Config:   pipeline.DefaultConfig(),
		Store:    artifact.NewInMemoryStore(),
		Assemble: true,
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.DocumentExtractor == nil {
		opts.DocumentExtractor = document.NewTextExtractor()
	}

	w := &Weaver{model: m, opts: opts, docX: opts.DocumentExtractor}

	if opts.Assemble {
		asm, err := render.NewAssembler(func(o *render.Options) {
			o.Logger = opts.Logger
			o.Store = opts.Store
		})
		if err != nil {
			return nil, err
		}
		w.assembler = asm
	}

	return w, nil
}

// Artifacts exposes the store holding narration audio and assembled
// artifacts, keyed by run id.
func (w *Weaver) Artifacts() core.ArtifactStore { return w.opts.Store }

// Generate extracts text from the document and runs the full pipeline.
func (w *Weaver) Generate(ctx context.Context, doc document.Document, hints graph.Hints) (*pipeline.Result, error) {
	text, err := w.docX.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	return w.GenerateText(ctx, text, hints)
}

// GenerateText runs the full pipeline on already-extracted document text.
func (w *Weaver) GenerateText(ctx context.Context, text string, hints graph.Hints) (*pipeline.Result, error) {
	ctl, err := w.newController()
	if err != nil {
		return nil, err
	}
	return ctl.Run(ctx, text, hints)
}

// newController assembles a controller for a single run. The call budget
// is per run, so the stage components sharing its limiter are rebuilt
// each time.
func (w *Weaver) newController() (*pipeline.Controller, error) {
	cfg := w.opts.Config
	limiter := core.NewCallLimiter(cfg.MaxModelCalls)

	extractor := graph.NewExtractor(w.model, func(o *graph.Options) {
		o.Logger = w.opts.Logger
		o.Limiter = limiter
	})

	strategies := []strategy.Strategy{
		strategy.NewPrimitive(w.model, func(o *strategy.PrimitiveOptions) {
			o.Logger = w.opts.Logger
			o.Limiter = limiter
			o.MinSeparation = cfg.MinSeparation
		}),
		strategy.NewSpecialized(w.model, func(o *strategy.SpecializedOptions) {
			o.Logger = w.opts.Logger
			o.Limiter = limiter
		}),
	}
	if w.opts.Catalog != nil {
		strategies = append(strategies, strategy.NewCatalog(w.opts.Catalog, func(o *strategy.CatalogOptions) {
			o.Logger = w.opts.Logger
			o.MinSeparation = cfg.MinSeparation
		}))
	}

	registry, err := strategy.NewRegistry(strategies, func(o *strategy.RegistryOptions) {
		o.Logger = w.opts.Logger
	})
	if err != nil {
		return nil, err
	}

	engine := narrate.NewEngine(w.model, func(o *narrate.Options) {
		o.Logger = w.opts.Logger
		o.Synthesizer = w.opts.Synthesizer
		o.Store = w.opts.Store
		o.Workers = cfg.WorkerPoolSize
		o.RetryBackoff = cfg.RetryBackoff
		o.Limiter = limiter
	})

	return pipeline.NewController(extractor, registry, engine, cfg, func(o *pipeline.Options) {
		o.Logger = w.opts.Logger
		if w.assembler != nil {
			o.Assembler = w.assembler
		}
		o.Store = w.opts.Store
	}), nil
}
