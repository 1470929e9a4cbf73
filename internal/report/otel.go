package report

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// OTelHook mirrors PrometheusHook's counters/histograms through an
// OpenTelemetry Meter instead, generalized from the pack's OTel metrics
// bridge (99souls-ariadne's telemetry/metrics.otelProvider): a thin
// instrument wrapper with no exporter opinion, left to the caller's
// MeterProvider.
type OTelHook struct {
	documentsProcessed metric.Int64Counter
	improvementSum     metric.Float64Counter
	qualityAfter       metric.Float64Histogram
	costPerDocument    metric.Float64Histogram
	passesExecuted     metric.Int64Histogram
}

// NewOTelHook builds an OTelHook from meter, naming instruments with
// the same "docenhance.*" prefix the Prometheus hook uses under its
// "docenhance" namespace.
func NewOTelHook(meter metric.Meter) (*OTelHook, error) {
	h := &OTelHook{}
	var err error

	if h.documentsProcessed, err = meter.Int64Counter(
		"docenhance.documents_processed_total",
		metric.WithDescription("count of documents run through the enhancement pipeline"),
	); err != nil {
		return nil, err
	}
	if h.improvementSum, err = meter.Float64Counter(
		"docenhance.improvement_sum",
		metric.WithDescription("running sum of quality improvement across documents"),
	); err != nil {
		return nil, err
	}
	if h.qualityAfter, err = meter.Float64Histogram(
		"docenhance.quality_after",
		metric.WithDescription("distribution of final quality scores"),
	); err != nil {
		return nil, err
	}
	if h.costPerDocument, err = meter.Float64Histogram(
		"docenhance.cost_per_document",
		metric.WithDescription("distribution of total cost per document"),
	); err != nil {
		return nil, err
	}
	if h.passesExecuted, err = meter.Int64Histogram(
		"docenhance.passes_executed",
		metric.WithDescription("distribution of passes executed per document"),
	); err != nil {
		return nil, err
	}

	return h, nil
}

// Observe implements Hook, recording the same fields PrometheusHook does.
func (h *OTelHook) Observe(rep ImprovementReport) {
	ctx := context.Background()
	h.documentsProcessed.Add(ctx, 1)
	h.improvementSum.Add(ctx, rep.FinalMetrics.Overall-rep.InitialMetrics.Overall)
	h.qualityAfter.Record(ctx, rep.FinalMetrics.Overall)
	h.costPerDocument.Record(ctx, rep.TotalCost)
	h.passesExecuted.Record(ctx, int64(rep.Passes))
}
