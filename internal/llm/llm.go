// Package llm defines the external LLM capability contract consumed
// by internal/strategy (§6 "LLM capability (consumed)") plus concrete
// backends (OpenAI-compatible, Ollama) and a deterministic stub used
// by tests and by strategies' non-LLM fallback paths.
package llm

import (
	"context"
	"time"
)

// Request is a single generation call.
type Request struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
	// Model overrides the capability's configured default model, if set.
	Model string
}

// Response is the result of a successful generation.
type Response struct {
	Content    string
	TokensIn   int
	TokensOut  int
	Provider   string
	Model      string
	Latency    time.Duration
}

// Capability is the external LLM collaborator. Implementations may be
// transient-failure-prone; callers apply the retry-once-to-fallback
// policy in Chain, not here.
type Capability interface {
	// Name identifies the provider for logging/metrics (e.g. "openai", "ollama", "stub").
	Name() string
	// Generate produces content for a prompt. A returned error is
	// classified by the caller as transient or terminal; this package
	// does not distinguish the two — see retry.Backoff usage in Chain.
	Generate(ctx context.Context, req Request) (Response, error)
}

// PricePerToken is a provider's $/token rate as reported by a backend's
// Price method. internal/cost does not read it; its estimates come from
// its own PricingTable.
type PricePerToken struct {
	Input  float64
	Output float64
}

// Pricer is implemented by backends that know their own per-token
// price; Ollama (local) reports zero per §4.6's "pricing fallback = 0".
type Pricer interface {
	Price() PricePerToken
}
