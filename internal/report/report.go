// Package report implements C9: per-document ImprovementReports and
// aggregate tallies, plus the supplemented quality-trend tracking from
// quality_tracker.py and optional Prometheus exposition of the
// aggregate counters.
package report

import (
	"sync"
	"time"

	"github.com/docenhance/pipeline/internal/quality"
)

// PassDelta is the per-pass quality movement recorded by the coordinator.
type PassDelta struct {
	Pass          int     `json:"pass"`
	QualityBefore float64 `json:"quality_before"`
	QualityAfter  float64 `json:"quality_after"`
	Delta         float64 `json:"delta"`
	StopReason    string  `json:"stop_reason,omitempty"`
}

// ImprovementReport is the per-document record joining C4's initial/final
// metrics, C5's cost totals, and C7's pass log.
type ImprovementReport struct {
	DocumentID             string             `json:"document_id"`
	InitialMetrics         quality.Metrics    `json:"initial_metrics"`
	FinalMetrics           quality.Metrics    `json:"final_metrics"`
	Passes                 int                `json:"passes"`
	StrategiesApplied      []string           `json:"strategies_applied"`
	DimensionDeltas        map[string]float64 `json:"dimension_deltas"`
	ProcessingTime         time.Duration      `json:"processing_time"`
	TotalCost              float64            `json:"total_cost"`
	MetQualityThreshold    bool               `json:"met_quality_threshold"`
	SignificantImprovement bool               `json:"significant_improvement"`
	PerPassDeltas          []PassDelta        `json:"per_pass_deltas"`
	RecordedAt             time.Time          `json:"recorded_at"`
}

func dimensionDeltas(before, after quality.Metrics) map[string]float64 {
	return map[string]float64{
		"clarity":      after.Clarity - before.Clarity,
		"completeness": after.Completeness - before.Completeness,
		"consistency":  after.Consistency - before.Consistency,
		"accuracy":     after.Accuracy - before.Accuracy,
		"readability":  after.Readability - before.Readability,
		"overall":      after.Overall - before.Overall,
	}
}

// NewImprovementReport assembles a report from the coordinator's
// observations.
func NewImprovementReport(documentID string, before, after quality.Metrics, passes int, strategiesApplied []string, processingTime time.Duration, totalCost float64, qualityThreshold, improvementThreshold float64, perPass []PassDelta) ImprovementReport {
	delta := after.Overall - before.Overall
	return ImprovementReport{
		DocumentID:             documentID,
		InitialMetrics:         before,
		FinalMetrics:           after,
		Passes:                 passes,
		StrategiesApplied:      strategiesApplied,
		DimensionDeltas:        dimensionDeltas(before, after),
		ProcessingTime:         processingTime,
		TotalCost:              totalCost,
		MetQualityThreshold:    after.Overall >= qualityThreshold,
		SignificantImprovement: delta >= improvementThreshold,
		PerPassDeltas:          perPass,
		RecordedAt:             time.Now(),
	}
}

// Aggregate holds the running tallies and derived ratios.
type Aggregate struct {
	TotalDocumentsProcessed int
	SumImprovement          float64
	SuccessfulEnhancements  int
	CacheHits               int
	CacheMisses             int
	ParallelOps             int
	FastPathOps             int
}

// AverageImprovement returns SumImprovement / TotalDocumentsProcessed, or 0.
func (a Aggregate) AverageImprovement() float64 {
	if a.TotalDocumentsProcessed == 0 {
		return 0
	}
	return a.SumImprovement / float64(a.TotalDocumentsProcessed)
}

// SuccessRate returns SuccessfulEnhancements / TotalDocumentsProcessed, or 0.
func (a Aggregate) SuccessRate() float64 {
	if a.TotalDocumentsProcessed == 0 {
		return 0
	}
	return float64(a.SuccessfulEnhancements) / float64(a.TotalDocumentsProcessed)
}

// CacheHitRatio returns CacheHits / (CacheHits + CacheMisses), or 0.
func (a Aggregate) CacheHitRatio() float64 {
	total := a.CacheHits + a.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(a.CacheHits) / float64(total)
}

// Trend is the supplemented quality-trend classification from
// quality_tracker.py, computed over a document's last N reports.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
	TrendUnknown   Trend = "unknown"
)

// Reporter aggregates ImprovementReports across documents and exposes
// the C9 tallies. Safe for concurrent use (the batch executor records
// from multiple goroutines).
type Reporter struct {
	mu         sync.Mutex
	agg        Aggregate
	byDocument map[string][]ImprovementReport
	hooks      []Hook
}

// Hook receives every recorded ImprovementReport, used to wire
// optional external exposition (e.g. Prometheus) without coupling
// Reporter to a specific metrics backend.
type Hook interface {
	Observe(ImprovementReport)
}

// NewReporter builds an empty Reporter, optionally wired to hooks
// (such as a Prometheus exporter).
func NewReporter(hooks ...Hook) *Reporter {
	return &Reporter{
		byDocument: make(map[string][]ImprovementReport),
		hooks:      hooks,
	}
}

// ImprovementThresholdDefault matches PipelineConfig's default
// improvement_threshold; Trend treats an overall-quality movement larger
// than this as improving or declining.
const ImprovementThresholdDefault = 0.05

// Record ingests one ImprovementReport, updating aggregate tallies.
func (r *Reporter) Record(rep ImprovementReport) {
	r.mu.Lock()
	r.agg.TotalDocumentsProcessed++
	r.agg.SumImprovement += rep.DimensionDeltas["overall"]
	if rep.SignificantImprovement {
		r.agg.SuccessfulEnhancements++
	}
	r.byDocument[rep.DocumentID] = append(r.byDocument[rep.DocumentID], rep)
	r.mu.Unlock()

	for _, h := range r.hooks {
		h.Observe(rep)
	}
}

// RecordCacheHit/RecordCacheMiss/RecordParallelOp/RecordFastPathOp bump
// the corresponding C9 counter, called directly by C7/C8.
func (r *Reporter) RecordCacheHit() {
	r.mu.Lock()
	r.agg.CacheHits++
	r.mu.Unlock()
}

func (r *Reporter) RecordCacheMiss() {
	r.mu.Lock()
	r.agg.CacheMisses++
	r.mu.Unlock()
}

func (r *Reporter) RecordParallelOp() {
	r.mu.Lock()
	r.agg.ParallelOps++
	r.mu.Unlock()
}

func (r *Reporter) RecordFastPathOp() {
	r.mu.Lock()
	r.agg.FastPathOps++
	r.mu.Unlock()
}

// Snapshot returns a copy of the current aggregate tallies.
func (r *Reporter) Snapshot() Aggregate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.agg
}

// Trend classifies the overall-quality movement across the last lastN
// reports recorded for documentID.
func (r *Reporter) Trend(documentID string, lastN int) Trend {
	r.mu.Lock()
	defer r.mu.Unlock()

	reports := r.byDocument[documentID]
	if len(reports) == 0 {
		return TrendUnknown
	}
	if lastN > len(reports) || lastN <= 0 {
		lastN = len(reports)
	}
	window := reports[len(reports)-lastN:]
	if len(window) < 2 {
		return TrendStable
	}

	first := window[0].FinalMetrics.Overall
	last := window[len(window)-1].FinalMetrics.Overall
	delta := last - first

	switch {
	case delta > ImprovementThresholdDefault:
		return TrendImproving
	case delta < -ImprovementThresholdDefault:
		return TrendDeclining
	default:
		return TrendStable
	}
}
