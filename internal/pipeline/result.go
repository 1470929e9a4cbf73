package pipeline

import (
	"time"

	"github.com/docenhance/pipeline/internal/quality"
)

// Improvement is a single strategy's recorded effect within one run.
type Improvement struct {
	Strategy     string  `json:"strategy"`
	Description  string  `json:"description"`
	QualityDelta float64 `json:"quality_delta"`
}

// Result is the outcome of one Coordinator.Enhance call, always
// returned regardless of success (§4.4 "Output").
type Result struct {
	OriginalContent       string                 `json:"original_content"`
	EnhancedContent       string                 `json:"enhanced_content"`
	Improvements          []Improvement          `json:"improvements"`
	QualityBefore         float64                `json:"quality_before"`
	QualityAfter          float64                `json:"quality_after"`
	ImprovementPercentage float64                `json:"improvement_percentage"`
	StrategiesApplied     []string               `json:"strategies_applied"`
	TotalCost             float64                `json:"total_cost"`
	ProcessingTimeMS      float64                `json:"processing_time_ms"`
	PassesExecuted        int                    `json:"passes_executed"`
	Success               bool                   `json:"success"`
	Errors                []string               `json:"errors"`
	Metadata              map[string]interface{} `json:"metadata"`

	InitialMetrics quality.Metrics `json:"initial_metrics"`
	FinalMetrics   quality.Metrics `json:"final_metrics"`
}

func newFailure(originalContent string, err error) Result {
	return Result{
		OriginalContent: originalContent,
		EnhancedContent: originalContent,
		Success:         false,
		Errors:          []string{err.Error()},
		Metadata:        map[string]interface{}{},
	}
}

func startTimer() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000.0
	}
}
