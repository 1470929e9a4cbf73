// Package strategy implements C3: the registry of named content
// transformers, each with an analyze/enhance pair, grounded on the
// teacher's workflow/v2 Step contract (a named unit with a single
// Run-like entry point invoked by a coordinator).
package strategy

import (
	"context"

	"github.com/docenhance/pipeline/internal/document"
	"github.com/docenhance/pipeline/internal/errs"
	"github.com/docenhance/pipeline/internal/llm"
	"github.com/docenhance/pipeline/internal/settings"
	"github.com/docenhance/pipeline/internal/strategykind"
)

// Analysis is the side-effect-free diagnostic snapshot a strategy
// produces for reporting, keyed by whatever fields that strategy
// finds relevant.
type Analysis map[string]interface{}

// Strategy is a named content transformer. Implementations MUST be
// referentially transparent w.r.t. their inputs up to LLM
// non-determinism, and MUST NOT retain per-document state across calls.
type Strategy interface {
	Kind() strategykind.Kind
	// Analyze produces a diagnostic snapshot without mutating content.
	Analyze(content string) Analysis
	// Enhance may call llmCap and returns the transformed content. A
	// returned error is always non-fatal to the pipeline: the
	// coordinator records it and keeps the prior content.
	Enhance(ctx context.Context, content string, doc *document.Document, llmCap llm.Capability, cfg settings.StrategyConfig) (string, error)
}

// Registry maps StrategyKind to its Strategy implementation.
type Registry struct {
	strategies map[strategykind.Kind]Strategy
}

// NewRegistry builds a Registry pre-populated with the five standard
// strategies (§4.3).
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[strategykind.Kind]Strategy, 5)}
	for _, s := range []Strategy{
		NewClarity(),
		NewCompleteness(),
		NewConsistency(),
		NewAccuracy(),
		NewReadability(),
	} {
		r.strategies[s.Kind()] = s
	}
	return r
}

// Get returns the strategy for kind, or nil if unregistered.
func (r *Registry) Get(kind strategykind.Kind) Strategy {
	return r.strategies[kind]
}

// Register adds or replaces a strategy implementation, allowing
// callers to plug in custom strategies beyond the five standard ones.
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Kind()] = s
}

// RunContained runs a strategy's Enhance, converting any error into
// an errs.Strategy wrapper and falling back to the original content
// on failure, implementing §4.3's "A strategy failure is contained"
// rule and §4.4 step 4c.
func RunContained(ctx context.Context, s Strategy, content string, doc *document.Document, llmCap llm.Capability, cfg settings.StrategyConfig) (string, error) {
	enhanced, err := s.Enhance(ctx, content, doc, llmCap, cfg)
	if err != nil {
		return content, errs.Strategy(string(s.Kind()), "enhance_failed", err)
	}
	return enhanced, nil
}
