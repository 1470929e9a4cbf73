package report

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHook exposes C9's per-document observations as Prometheus
// metrics, for operators running the batch executor as a long-lived
// process. cmd/enhance registers it on prometheus.DefaultRegisterer;
// it does not serve a metrics HTTP endpoint itself.
type PrometheusHook struct {
	documentsProcessed prometheus.Counter
	improvementSum     prometheus.Counter
	qualityAfter       prometheus.Histogram
	costPerDocument    prometheus.Histogram
	passesExecuted     prometheus.Histogram
}

// NewPrometheusHook builds and registers the C9 metric family on reg.
func NewPrometheusHook(reg prometheus.Registerer) *PrometheusHook {
	h := &PrometheusHook{
		documentsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docenhance",
			Name:      "documents_processed_total",
			Help:      "Total documents processed by the pipeline coordinator.",
		}),
		improvementSum: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docenhance",
			Name:      "improvement_sum_total",
			Help:      "Sum of overall quality improvement across processed documents.",
		}),
		qualityAfter: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "docenhance",
			Name:      "quality_after",
			Help:      "Final overall quality score per document.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		costPerDocument: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "docenhance",
			Name:      "cost_usd_per_document",
			Help:      "Total cost in USD per processed document.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
		passesExecuted: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "docenhance",
			Name:      "passes_executed",
			Help:      "Number of pipeline passes executed per document.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
	}
	reg.MustRegister(h.documentsProcessed, h.improvementSum, h.qualityAfter, h.costPerDocument, h.passesExecuted)
	return h
}

// Observe implements Hook.
func (h *PrometheusHook) Observe(rep ImprovementReport) {
	h.documentsProcessed.Inc()
	h.improvementSum.Add(rep.DimensionDeltas["overall"])
	h.qualityAfter.Observe(rep.FinalMetrics.Overall)
	h.costPerDocument.Observe(rep.TotalCost)
	h.passesExecuted.Observe(float64(rep.Passes))
}
