// Package analysis defines the two optional external capabilities C7
// may consume: a quality-analysis hook that can replace C2's internal
// scoring, and an entropy optimizer applied after a pass. Both degrade
// gracefully to CapabilityUnavailable when configured but unreachable.
package analysis

import (
	"context"

	"github.com/docenhance/pipeline/internal/quality"
)

// QualityHook optionally replaces internal scoring (C2) with an
// external analyzer. When absent, C2 is used, per §6.
type QualityHook interface {
	Analyze(ctx context.Context, content string) (quality.Metrics, error)
}

// EntropyOptimizer is invoked after each pass when
// PipelineConfig.UseEntropyOptimizer is set and a capability is
// configured; its output becomes a new version (§4.4 step 4e).
type EntropyOptimizer interface {
	Optimize(ctx context.Context, content string, targetQuality float64) (string, error)
}
