package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/sceneweave/sceneweave/core"
	"github.com/sceneweave/sceneweave/logging"
)

// Mode identifies a scene-design strategy.
type Mode string

// Registered strategy modes.
const (
	ModeCatalog     Mode = "catalog-matching"
	ModeSpecialized Mode = "specialized-generator"
	ModePrimitive   Mode = "primitive-synthesis"
)

// Strategy produces a scene description for a concept graph.
//
// A strategy that cannot serve the graph at all returns an error wrapping
// core.ErrStrategyUnavailable; any other error is fatal to the run. Returned
// diagnostics record non-fatal events (re-prompts, grid placement) and are
// forwarded even on the success path.
type Strategy interface {
	Mode() Mode
	Design(ctx context.Context, g *core.ConceptGraph) (*core.SceneDescription, []core.Diagnostic, error)
}

// RegistryOptions configure the Registry.
type RegistryOptions struct {
	Logger logging.Logger
}

// Registry selects a strategy by preferred mode and applies the deterministic
// fallback policy.
type Registry struct {
	strategies map[Mode]Strategy
	opts       RegistryOptions
}

// NewRegistry builds a registry over the given strategies. One of them must
// be the primitive-synthesis strategy; it is the fallback of last resort.
func NewRegistry(strategies []Strategy, optFns ...func(o *RegistryOptions)) (*Registry, error) {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	byMode := make(map[Mode]Strategy, len(strategies))
	for _, s := range strategies {
		if _, dup := byMode[s.Mode()]; dup {
			return nil, fmt.Errorf("duplicate strategy for mode %q", s.Mode())
		}
		byMode[s.Mode()] = s
	}
	if _, ok := byMode[ModePrimitive]; !ok {
		return nil, fmt.Errorf("registry requires a %s strategy", ModePrimitive)
	}
	return &Registry{strategies: byMode, opts: opts}, nil
}

// Design runs the preferred strategy, falling back to primitive-synthesis if
// (and only if) the preferred one reports core.ErrStrategyUnavailable. The
// fallback appends exactly one strategy_fallback diagnostic. An unregistered
// preferred mode is treated as unavailable.
func (r *Registry) Design(ctx context.Context, g *core.ConceptGraph, preferred Mode) (*core.SceneDescription, []core.Diagnostic, error) {
	var diags []core.Diagnostic

	s, ok := r.strategies[preferred]
	if !ok {
		diags = append(diags, core.NewDiagnostic(core.StageDesign, core.DiagStrategyFallback,
			fmt.Sprintf("strategy %q not registered, using %s", preferred, ModePrimitive)))
		return r.runPrimitive(ctx, g, diags)
	}

	scene, sdiags, err := s.Design(ctx, g)
	diags = append(diags, sdiags...)
	if err == nil {
		return scene, diags, nil
	}
	if !errors.Is(err, core.ErrStrategyUnavailable) || preferred == ModePrimitive {
		return nil, diags, err
	}

	r.opts.Logger.Info("strategy unavailable, falling back",
		"preferred", string(preferred), "fallback", string(ModePrimitive), "reason", err.Error())
	diags = append(diags, core.NewDiagnostic(core.StageDesign, core.DiagStrategyFallback,
		fmt.Sprintf("strategy %s unavailable: %v", preferred, err)))
	return r.runPrimitive(ctx, g, diags)
}

func (r *Registry) runPrimitive(ctx context.Context, g *core.ConceptGraph, diags []core.Diagnostic) (*core.SceneDescription, []core.Diagnostic, error) {
	scene, pdiags, err := r.strategies[ModePrimitive].Design(ctx, g)
	diags = append(diags, pdiags...)
	if err != nil {
		return nil, diags, err
	}
	return scene, diags, nil
}
