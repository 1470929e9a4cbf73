package main

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/docenhance/pipeline/internal/cache"
	"github.com/docenhance/pipeline/internal/config"
	"github.com/docenhance/pipeline/internal/cost"
	"github.com/docenhance/pipeline/internal/history"
	"github.com/docenhance/pipeline/internal/llm"
	"github.com/docenhance/pipeline/internal/logging"
	"github.com/docenhance/pipeline/internal/pipeline"
	"github.com/docenhance/pipeline/internal/preset"
	"github.com/docenhance/pipeline/internal/report"
	"github.com/docenhance/pipeline/internal/retry"
	"github.com/docenhance/pipeline/internal/settings"
	"github.com/docenhance/pipeline/internal/strategy"
)

// buildSettings resolves the --config/--mode/--preset flags into a
// Settings value, config file taking precedence over --mode.
func buildSettings(cmd *cobra.Command) (*settings.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	mode, _ := cmd.Flags().GetString("mode")
	presetName, _ := cmd.Flags().GetString("preset")

	var s *settings.Settings
	var err error
	if configPath != "" {
		s, err = config.Load(configPath, "ENHANCE")
	} else {
		s, err = settings.FromMode(settings.Mode(mode))
	}
	if err != nil {
		return nil, err
	}

	if err := preset.Apply(s, preset.Name(presetName)); err != nil {
		return nil, err
	}
	return s, nil
}

// buildLLM constructs the LLM capability chain from environment
// variables: OPENAI_API_KEY selects OpenAI-compatible as primary, with
// Ollama at OLLAMA_HOST as fallback when that is also set. Without an
// OpenAI key, Ollama (at OLLAMA_HOST, or the default local address) is
// the primary. The deterministic Stub is used only when no backend
// could be built.
func buildLLM() llm.Capability {
	var primary llm.Capability
	var fallbacks []llm.Capability

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		model := os.Getenv("OPENAI_MODEL")
		if model == "" {
			model = "gpt-4o-mini"
		}
		primary = llm.NewOpenAICompat(key, model)
	}

	if host := os.Getenv("OLLAMA_HOST"); host != "" || primary == nil {
		if ollama, err := llm.NewOllama(host, os.Getenv("OLLAMA_MODEL")); err == nil {
			if primary == nil {
				primary = ollama
			} else {
				fallbacks = append(fallbacks, ollama)
			}
		}
	}

	if primary == nil {
		return llm.NewStub()
	}

	bucket := retry.NewBucket(60, 60)
	return llm.NewChain(primary, llm.WithFallbacks(fallbacks...), llm.WithRateLimiter(bucket, 2*time.Second))
}

// buildCoordinator assembles a pipeline.Coordinator with the standard
// strategy registry, an in-process cache/history/cost model, and a
// Prometheus-backed reporter.
func buildCoordinator(s *settings.Settings) *pipeline.Coordinator {
	registry := strategy.NewRegistry()
	hist := history.New(50)
	costModel := cost.New(cost.Options{
		DailyBudget:      s.Pipeline.DailyBudget,
		MonthlyBudget:    s.Pipeline.MonthlyBudget,
		PerDocumentLimit: s.Pipeline.MaxCostPerDocument,
	}, time.Now())
	resultCache := cache.New(s.Pipeline.CacheSize, s.Pipeline.CacheTTL)

	hooks := []report.Hook{report.NewPrometheusHook(prometheus.DefaultRegisterer)}
	if otelHook, err := report.NewOTelHook(sdkmetric.NewMeterProvider().Meter("docenhance")); err == nil {
		hooks = append(hooks, otelHook)
	}
	reporter := report.NewReporter(hooks...)

	return pipeline.NewCoordinator(registry, hist, costModel, buildLLM(),
		pipeline.WithCache(resultCache),
		pipeline.WithReporter(reporter),
		pipeline.WithLogger(logging.New(logging.ParseLevel(s.Logging.Level))),
	)
}
