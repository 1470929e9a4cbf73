// Package pipeline implements C7: the main pass/strategy loop with
// quality- and cost-gated early exit, degradation rollback, and an
// optional post-pass entropy-optimizer hook, grounded on the
// teacher's workflow/v2 Workflow/Loop step-running pattern
// (sequential step execution over a mutable run context).
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/docenhance/pipeline/internal/analysis"
	"github.com/docenhance/pipeline/internal/cache"
	"github.com/docenhance/pipeline/internal/cost"
	"github.com/docenhance/pipeline/internal/document"
	"github.com/docenhance/pipeline/internal/errs"
	"github.com/docenhance/pipeline/internal/history"
	"github.com/docenhance/pipeline/internal/llm"
	"github.com/docenhance/pipeline/internal/logging"
	"github.com/docenhance/pipeline/internal/quality"
	"github.com/docenhance/pipeline/internal/report"
	"github.com/docenhance/pipeline/internal/settings"
	"github.com/docenhance/pipeline/internal/strategy"
	"github.com/google/uuid"
)

// Coordinator is the C7 pipeline: it owns no content itself, only the
// collaborators needed to run one Document through the
// strategy-plan/pass loop.
type Coordinator struct {
	registry    *strategy.Registry
	history     *history.History
	costModel   *cost.Model
	resultCache *cache.Cache
	llmCap      llm.Capability
	qualityHook analysis.QualityHook
	entropyOpt  analysis.EntropyOptimizer
	reporter    *report.Reporter
	provider    string
	model       string
	logger      *logging.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

func WithCache(c *cache.Cache) Option { return func(co *Coordinator) { co.resultCache = c } }

func WithQualityHook(h analysis.QualityHook) Option {
	return func(co *Coordinator) { co.qualityHook = h }
}

func WithEntropyOptimizer(o analysis.EntropyOptimizer) Option {
	return func(co *Coordinator) { co.entropyOpt = o }
}

func WithReporter(r *report.Reporter) Option { return func(co *Coordinator) { co.reporter = r } }

func WithLogger(l *logging.Logger) Option { return func(co *Coordinator) { co.logger = l } }

func WithProviderModel(provider, model string) Option {
	return func(co *Coordinator) {
		co.provider = provider
		co.model = model
	}
}

// NewCoordinator builds a Coordinator around the given collaborators.
func NewCoordinator(registry *strategy.Registry, hist *history.History, costModel *cost.Model, llmCap llm.Capability, opts ...Option) *Coordinator {
	co := &Coordinator{
		registry:  registry,
		history:   hist,
		costModel: costModel,
		llmCap:    llmCap,
		provider:  "openai",
	}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

// Enhance runs input through the strategy plan derived from s,
// returning a Result always — success or failure — per §4.4.
func (c *Coordinator) Enhance(ctx context.Context, input interface{}, s *settings.Settings) Result {
	stopTimer := startTimer()
	doc := document.FromAny(input)
	docID := documentID(doc)

	canonical, err := s.ToCanonical()
	if err != nil {
		return newFailure(doc.Content, errs.Config("invalid settings: %v", err))
	}

	if s.Pipeline.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Pipeline.Timeout)
		defer cancel()
	}

	var cacheKey cache.Key
	if s.Pipeline.CacheEnabled && c.resultCache != nil {
		cacheKey = cache.NewKey(doc.Content, canonical)
		if cached, ok := c.resultCache.Get(cacheKey); ok {
			result := cached.(Result)
			result.Metadata = cloneMetadata(result.Metadata)
			result.Metadata["cache_hit"] = true
			if c.reporter != nil {
				c.reporter.RecordCacheHit()
			}
			return result
		}
		if c.reporter != nil {
			c.reporter.RecordCacheMiss()
		}
	}

	var warnings []string
	initialMetrics := c.score(ctx, doc.Content, &warnings)
	c.history.AddVersion(docID, doc.Content, initialMetrics.Overall, "original", nil)

	plan := s.EnabledStrategies()

	currentContent := doc.Content
	current := initialMetrics.Overall
	totalCost := 0.0
	passesExecuted := 0
	stopReason := ""

	var improvements []Improvement
	var appliedStrategies []string
	var perPass []report.PassDelta
	timedOut := false

passLoop:
	for pass := 1; pass <= s.Pipeline.MaxPasses; pass++ {
		if current >= s.Pipeline.QualityThreshold {
			stopReason = "threshold"
			break
		}
		if totalCost >= s.Pipeline.MaxCostPerDocument {
			stopReason = "cost"
			break
		}
		if ctx.Err() != nil {
			stopReason = "timeout"
			timedOut = true
			break
		}

		passesExecuted = pass
		qBeforePass := current

		for _, kind := range plan {
			strat := c.registry.Get(kind)
			if strat == nil {
				continue
			}
			cfg := s.Strategies[kind]

			estimate := c.costModel.Estimate(len(currentContent), kind, c.provider, c.model)
			if ok, scope := c.costModel.MaySpendScope(estimate); !ok {
				warnings = append(warnings, errs.Budget(scope).Error())
				c.warnf("skipping %s on %s: budget exceeded (%s)", kind, docID, scope)
				continue
			}

			enhanced, runErr := strategy.RunContained(ctx, strat, currentContent, doc, c.llmCap, cfg)
			if runErr != nil {
				warnings = append(warnings, runErr.Error())
				c.warnf("%s on %s: %v", kind, docID, runErr)
				continue
			}

			newMetrics := c.score(ctx, enhanced, &warnings)
			delta := newMetrics.Overall - current

			c.history.AddVersion(docID, enhanced, newMetrics.Overall, string(kind), nil)
			improvements = append(improvements, Improvement{
				Strategy:     string(kind),
				Description:  fmt.Sprintf("%s applied during pass %d", kind, pass),
				QualityDelta: delta,
			})
			appliedStrategies = append(appliedStrategies, string(kind))

			currentContent = enhanced
			current = newMetrics.Overall

			c.costModel.Record(time.Now(), estimate, c.provider, kind)
			totalCost += estimate

			// deadline check happens after the strategy returns, never mid-run
			if ctx.Err() != nil {
				stopReason = "timeout"
				timedOut = true
				break passLoop
			}
		}

		qAfterPass := current
		deltaPass := qAfterPass - qBeforePass
		pd := report.PassDelta{Pass: pass, QualityBefore: qBeforePass, QualityAfter: qAfterPass, Delta: deltaPass}

		eps := s.Pipeline.ImprovementThreshold / 2

		if deltaPass < -eps && s.Pipeline.RollbackOnDegradation {
			if v, rbErr := c.history.Rollback(docID, 0); rbErr == nil {
				currentContent = v.Content
				current = v.Quality
			}
			stopReason = "degradation"
			pd.StopReason = stopReason
			perPass = append(perPass, pd)
			break
		}
		if deltaPass >= 0 && deltaPass < s.Pipeline.ImprovementThreshold {
			stopReason = "plateau"
			pd.StopReason = stopReason
			perPass = append(perPass, pd)
			break
		}
		perPass = append(perPass, pd)

		if s.Pipeline.UseEntropyOptimizer && c.entropyOpt != nil {
			optimized, optErr := c.entropyOpt.Optimize(ctx, currentContent, s.Pipeline.QualityThreshold)
			if optErr != nil {
				warnings = append(warnings, errs.CapabilityUnavailable("entropy_optimizer").Error())
			} else {
				newMetrics := c.score(ctx, optimized, &warnings)
				c.history.AddVersion(docID, optimized, newMetrics.Overall, "entropy", nil)
				currentContent = optimized
				current = newMetrics.Overall
			}
		}
	}

	if stopReason == "" {
		stopReason = "max_passes"
	}
	if timedOut {
		warnings = append(warnings, errs.Timeout().Error())
	}

	finalMetrics := c.score(ctx, currentContent, &warnings)
	eps := s.Pipeline.ImprovementThreshold / 2
	denom := initialMetrics.Overall
	if denom < eps {
		denom = eps
	}
	improvementPct := (finalMetrics.Overall - initialMetrics.Overall) / denom * 100

	elapsed := stopTimer()
	result := Result{
		OriginalContent:       doc.Content,
		EnhancedContent:       currentContent,
		Improvements:          improvements,
		QualityBefore:         initialMetrics.Overall,
		QualityAfter:          finalMetrics.Overall,
		ImprovementPercentage: improvementPct,
		StrategiesApplied:     appliedStrategies,
		TotalCost:             totalCost,
		ProcessingTimeMS:      elapsed,
		PassesExecuted:        passesExecuted,
		Success:               !timedOut,
		Errors:                warnings,
		Metadata: map[string]interface{}{
			"stop_reason":     stopReason,
			"document_id":     docID,
			"cache_hit":       false,
			"rolled_back":     stopReason == "degradation",
			"budget_exceeded": stopReason == "cost",
			"timed_out":       timedOut,
		},
		InitialMetrics: initialMetrics,
		FinalMetrics:   finalMetrics,
	}

	if !timedOut && s.Pipeline.CacheEnabled && c.resultCache != nil {
		c.resultCache.Put(cacheKey, result)
	}

	if c.reporter != nil {
		rep := report.NewImprovementReport(
			docID, initialMetrics, finalMetrics, passesExecuted, appliedStrategies,
			time.Duration(elapsed*float64(time.Millisecond)), totalCost,
			s.Pipeline.QualityThreshold, s.Pipeline.ImprovementThreshold, perPass,
		)
		c.reporter.Record(rep)
	}

	return result
}

func (c *Coordinator) warnf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warnf(format, args...)
	}
}

func (c *Coordinator) score(ctx context.Context, content string, warnings *[]string) quality.Metrics {
	if c.qualityHook != nil {
		m, err := c.qualityHook.Analyze(ctx, content)
		if err == nil {
			return m
		}
		*warnings = append(*warnings, errs.CapabilityUnavailable("quality_hook").Error())
	}
	return quality.Score(content)
}

func documentID(doc *document.Document) string {
	if doc.Metadata != nil {
		if v, ok := doc.Metadata["document_id"]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return uuid.NewString()
}

func cloneMetadata(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
