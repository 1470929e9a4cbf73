// Package settings implements C1: declarative, validated configuration
// derived from one of four operation modes with per-field overrides.
//
// It follows the functional-options + explicit-struct idiom used by
// the coordinator this module is modeled on (see internal/pipeline),
// rather than a config-as-dictionary: overrides are validated at parse
// time against a fixed field table instead of accepted as a free map.
package settings

import (
	"fmt"
	"time"

	"github.com/docenhance/pipeline/internal/errs"
	"github.com/docenhance/pipeline/internal/strategykind"
)

// Mode selects a default profile (§4.1).
type Mode string

const (
	Basic       Mode = "basic"
	Performance Mode = "performance"
	Secure      Mode = "secure"
	Enterprise  Mode = "enterprise"
)

// StrategyConfig configures one strategy kind.
type StrategyConfig struct {
	Enabled          bool                   `json:"enabled" yaml:"enabled"`
	Priority         int                    `json:"priority" yaml:"priority"`
	MaxIterations    int                    `json:"max_iterations" yaml:"max_iterations"`
	QualityThreshold float64                `json:"quality_threshold" yaml:"quality_threshold"`
	LLMProvider      string                 `json:"llm_provider,omitempty" yaml:"llm_provider,omitempty"`
	Parameters       map[string]interface{} `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// PipelineConfig are the behavioral knobs C7/C8 consume.
type PipelineConfig struct {
	MaxPasses             int           `json:"max_passes" yaml:"max_passes"`
	ImprovementThreshold  float64       `json:"improvement_threshold" yaml:"improvement_threshold"`
	QualityThreshold      float64       `json:"quality_threshold" yaml:"quality_threshold"`
	RollbackOnDegradation bool          `json:"rollback_on_degradation" yaml:"rollback_on_degradation"`
	BatchSize             int           `json:"batch_size" yaml:"batch_size"`
	MaxParallelDocs       int           `json:"max_parallel_docs" yaml:"max_parallel_docs"`
	Timeout               time.Duration `json:"timeout" yaml:"timeout"`
	MaxCostPerDocument     float64      `json:"max_cost_per_document" yaml:"max_cost_per_document"`
	DailyBudget            float64      `json:"daily_budget" yaml:"daily_budget"`
	MonthlyBudget          float64      `json:"monthly_budget" yaml:"monthly_budget"`
	CacheEnabled           bool         `json:"cache_enabled" yaml:"cache_enabled"`
	CacheTTL               time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	CacheSize              int          `json:"cache_size" yaml:"cache_size"`
	UseEntropyOptimizer    bool         `json:"use_entropy_optimizer" yaml:"use_entropy_optimizer"`
	UseQualityHook         bool         `json:"use_quality_hook" yaml:"use_quality_hook"`
	RateLimitPerMinute     int          `json:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`

	// Legacy no-ops retained per §9 open question (iii): documented,
	// never read by the coordinator.
	PreserveStyle        bool `json:"preserve_style" yaml:"preserve_style"`
	SelectiveEnhancement bool `json:"selective_enhancement" yaml:"selective_enhancement"`
}

// LLMSettings configures the LLM capability the strategies call through.
type LLMSettings struct {
	Primary     string   `json:"primary" yaml:"primary"`
	Fallbacks   []string `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
	Temperature float64  `json:"temperature" yaml:"temperature"`
	MaxTokens   int      `json:"max_tokens" yaml:"max_tokens"`
	Synthesis   bool     `json:"synthesis" yaml:"synthesis"`
}

// LoggingSettings configures the ambient logger.
type LoggingSettings struct {
	Level string `json:"level" yaml:"level"`
	JSON  bool   `json:"json" yaml:"json"`
}

// Settings is the fully-populated, immutable-after-construction
// configuration consumed by every component.
type Settings struct {
	Mode       Mode                                     `json:"mode" yaml:"mode"`
	Strategies map[strategykind.Kind]StrategyConfig      `json:"strategies" yaml:"strategies"`
	Pipeline   PipelineConfig                            `json:"pipeline" yaml:"pipeline"`
	LLM        LLMSettings                               `json:"llm" yaml:"llm"`
	Logging    LoggingSettings                           `json:"logging" yaml:"logging"`
}

// Override is a single field-by-field override applied on top of a
// mode's default profile. Unknown Field values are rejected with a
// ConfigError at FromMode time, matching §4.1.
type Override struct {
	Field string
	Value interface{}
}

// knownOverrideFields enumerates the fields FromMode accepts overrides
// for; anything else is a ConfigError.
var knownOverrideFields = map[string]bool{
	"pipeline.max_passes":              true,
	"pipeline.improvement_threshold":   true,
	"pipeline.quality_threshold":       true,
	"pipeline.rollback_on_degradation": true,
	"pipeline.batch_size":              true,
	"pipeline.max_parallel_docs":       true,
	"pipeline.timeout":                 true,
	"pipeline.max_cost_per_document":   true,
	"pipeline.daily_budget":            true,
	"pipeline.monthly_budget":          true,
	"pipeline.cache_enabled":           true,
	"pipeline.cache_ttl":               true,
	"pipeline.cache_size":              true,
	"pipeline.use_entropy_optimizer":   true,
	"pipeline.use_quality_hook":        true,
	"pipeline.rate_limit_per_minute":   true,
	"pipeline.preserve_style":          true,
	"pipeline.selective_enhancement":   true,
	"llm.primary":                      true,
	"llm.fallbacks":                    true,
	"llm.temperature":                  true,
	"llm.max_tokens":                   true,
	"llm.synthesis":                    true,
	"logging.level":                    true,
	"logging.json":                     true,
}

// profile holds the mode-specific default field values from §4.1's table.
type profile struct {
	maxPasses          int
	parallel           bool
	batchSize          int
	maxCostPerDocument float64
	cacheEnabled       bool
	maxParallelDocs    int
	rateLimitPerMinute int
	llmSynthesis       bool
	temperature        float64
}

var profiles = map[Mode]profile{
	Basic:       {maxPasses: 2, parallel: false, batchSize: 3, maxCostPerDocument: 0.10, cacheEnabled: false, maxParallelDocs: 1, rateLimitPerMinute: 15, llmSynthesis: false, temperature: 0.8},
	Performance: {maxPasses: 3, parallel: true, batchSize: 20, maxCostPerDocument: 0.30, cacheEnabled: true, maxParallelDocs: 15, rateLimitPerMinute: 120, llmSynthesis: false, temperature: 0.7},
	Secure:      {maxPasses: 3, parallel: true, batchSize: 10, maxCostPerDocument: 0.40, cacheEnabled: true, maxParallelDocs: 8, rateLimitPerMinute: 60, llmSynthesis: false, temperature: 0.7},
	Enterprise:  {maxPasses: 5, parallel: true, batchSize: 25, maxCostPerDocument: 1.00, cacheEnabled: true, maxParallelDocs: 25, rateLimitPerMinute: 200, llmSynthesis: true, temperature: 0.5},
}

func defaultStrategies() map[strategykind.Kind]StrategyConfig {
	out := make(map[strategykind.Kind]StrategyConfig, len(strategykind.Ordered))
	for i, kind := range strategykind.Ordered {
		out[kind] = StrategyConfig{
			Enabled:          true,
			Priority:         i + 1,
			MaxIterations:    3,
			QualityThreshold: 0.8,
			Parameters:       map[string]interface{}{},
		}
	}
	return out
}

// FromMode is the pure construction function: given a mode and a list
// of field overrides, it returns a fully-populated Settings, or a
// ConfigError if an override names an unknown field or an out-of-range
// value.
func FromMode(mode Mode, overrides ...Override) (*Settings, error) {
	p, ok := profiles[mode]
	if !ok {
		return nil, errs.Config("unknown mode %q", mode)
	}

	s := &Settings{
		Mode:       mode,
		Strategies: defaultStrategies(),
		Pipeline: PipelineConfig{
			MaxPasses:             p.maxPasses,
			ImprovementThreshold:  0.05,
			QualityThreshold:      0.80,
			RollbackOnDegradation: true,
			BatchSize:             p.batchSize,
			MaxParallelDocs:       p.maxParallelDocs,
			Timeout:               5 * time.Minute,
			MaxCostPerDocument:    p.maxCostPerDocument,
			DailyBudget:           10.0,
			MonthlyBudget:         200.0,
			CacheEnabled:          p.cacheEnabled,
			CacheTTL:              1 * time.Hour,
			CacheSize:             1000,
			UseEntropyOptimizer:   false,
			UseQualityHook:        false,
			RateLimitPerMinute:    p.rateLimitPerMinute,
		},
		LLM: LLMSettings{
			Primary:     "openai",
			Fallbacks:   []string{"ollama"},
			Temperature: p.temperature,
			MaxTokens:   2048,
			Synthesis:   p.llmSynthesis,
		},
		Logging: LoggingSettings{Level: "info"},
	}

	if !p.parallel {
		s.Pipeline.MaxParallelDocs = 1
	}

	for _, o := range overrides {
		if !knownOverrideFields[o.Field] {
			return nil, errs.Config("unknown override field %q", o.Field)
		}
		if err := apply(s, o); err != nil {
			return nil, err
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func apply(s *Settings, o Override) error {
	setFloat := func(dst *float64) error {
		v, ok := toFloat(o.Value)
		if !ok {
			return errs.Config("override %q expects a number, got %T", o.Field, o.Value)
		}
		*dst = v
		return nil
	}
	setInt := func(dst *int) error {
		v, ok := toFloat(o.Value)
		if !ok {
			return errs.Config("override %q expects a number, got %T", o.Field, o.Value)
		}
		*dst = int(v)
		return nil
	}
	setBool := func(dst *bool) error {
		v, ok := o.Value.(bool)
		if !ok {
			return errs.Config("override %q expects a bool, got %T", o.Field, o.Value)
		}
		*dst = v
		return nil
	}
	setDuration := func(dst *time.Duration) error {
		switch v := o.Value.(type) {
		case time.Duration:
			*dst = v
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return errs.Config("override %q invalid duration: %v", o.Field, err)
			}
			*dst = d
		default:
			return errs.Config("override %q expects a duration, got %T", o.Field, o.Value)
		}
		return nil
	}

	switch o.Field {
	case "pipeline.max_passes":
		return setInt(&s.Pipeline.MaxPasses)
	case "pipeline.improvement_threshold":
		return setFloat(&s.Pipeline.ImprovementThreshold)
	case "pipeline.quality_threshold":
		return setFloat(&s.Pipeline.QualityThreshold)
	case "pipeline.rollback_on_degradation":
		return setBool(&s.Pipeline.RollbackOnDegradation)
	case "pipeline.batch_size":
		return setInt(&s.Pipeline.BatchSize)
	case "pipeline.max_parallel_docs":
		return setInt(&s.Pipeline.MaxParallelDocs)
	case "pipeline.timeout":
		return setDuration(&s.Pipeline.Timeout)
	case "pipeline.max_cost_per_document":
		return setFloat(&s.Pipeline.MaxCostPerDocument)
	case "pipeline.daily_budget":
		return setFloat(&s.Pipeline.DailyBudget)
	case "pipeline.monthly_budget":
		return setFloat(&s.Pipeline.MonthlyBudget)
	case "pipeline.cache_enabled":
		return setBool(&s.Pipeline.CacheEnabled)
	case "pipeline.cache_ttl":
		return setDuration(&s.Pipeline.CacheTTL)
	case "pipeline.cache_size":
		return setInt(&s.Pipeline.CacheSize)
	case "pipeline.use_entropy_optimizer":
		return setBool(&s.Pipeline.UseEntropyOptimizer)
	case "pipeline.use_quality_hook":
		return setBool(&s.Pipeline.UseQualityHook)
	case "pipeline.rate_limit_per_minute":
		return setInt(&s.Pipeline.RateLimitPerMinute)
	case "pipeline.preserve_style":
		return setBool(&s.Pipeline.PreserveStyle)
	case "pipeline.selective_enhancement":
		return setBool(&s.Pipeline.SelectiveEnhancement)
	case "llm.primary":
		v, ok := o.Value.(string)
		if !ok {
			return errs.Config("override %q expects a string", o.Field)
		}
		s.LLM.Primary = v
	case "llm.fallbacks":
		v, ok := o.Value.([]string)
		if !ok {
			return errs.Config("override %q expects []string", o.Field)
		}
		s.LLM.Fallbacks = v
	case "llm.temperature":
		return setFloat(&s.LLM.Temperature)
	case "llm.max_tokens":
		return setInt(&s.LLM.MaxTokens)
	case "llm.synthesis":
		return setBool(&s.LLM.Synthesis)
	case "logging.level":
		v, ok := o.Value.(string)
		if !ok {
			return errs.Config("override %q expects a string", o.Field)
		}
		s.Logging.Level = v
	case "logging.json":
		return setBool(&s.Logging.JSON)
	default:
		return errs.Config("unknown override field %q", o.Field)
	}
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Validate checks numeric fields are within documented ranges.
func (s *Settings) Validate() error {
	if s.Pipeline.MaxPasses < 0 {
		return errs.Config("pipeline.max_passes must be >= 0")
	}
	if s.Pipeline.QualityThreshold < 0 || s.Pipeline.QualityThreshold > 1 {
		return errs.Config("pipeline.quality_threshold must be in [0,1]")
	}
	if s.Pipeline.ImprovementThreshold < 0 {
		return errs.Config("pipeline.improvement_threshold must be >= 0")
	}
	if s.Pipeline.MaxParallelDocs < 1 {
		return errs.Config("pipeline.max_parallel_docs must be >= 1")
	}
	if s.Pipeline.MaxCostPerDocument < 0 {
		return errs.Config("pipeline.max_cost_per_document must be >= 0")
	}
	for kind, cfg := range s.Strategies {
		if !strategykind.Valid(kind) {
			return errs.Config("unknown strategy kind %q", kind)
		}
		if cfg.QualityThreshold < 0 || cfg.QualityThreshold > 1 {
			return fmt.Errorf("strategy %q quality_threshold must be in [0,1]: %w", kind, errs.Config("out of range"))
		}
	}
	return nil
}

// planEntry pairs a strategy kind with its config for priority sorting.
type planEntry struct {
	kind strategykind.Kind
	cfg  StrategyConfig
}

// EnabledStrategies returns the enabled strategy kinds sorted by
// ascending priority, ties broken by enum order (§4.4 step 3).
func (s *Settings) EnabledStrategies() []strategykind.Kind {
	entries := make([]planEntry, 0, len(s.Strategies))
	for k, cfg := range s.Strategies {
		if cfg.Enabled {
			entries = append(entries, planEntry{k, cfg})
		}
	}
	// stable insertion sort by (priority, enum rank) keeps the sort
	// deterministic without depending on Go's map iteration order.
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && entryLess(entries[j], entries[j-1]) {
			entries[j], entries[j-1] = entries[j-1], entries[j]
			j--
		}
	}
	out := make([]strategykind.Kind, len(entries))
	for i, e := range entries {
		out[i] = e.kind
	}
	return out
}

func entryLess(a, b planEntry) bool {
	if a.cfg.Priority != b.cfg.Priority {
		return a.cfg.Priority < b.cfg.Priority
	}
	return strategykind.Rank(a.kind) < strategykind.Rank(b.kind)
}
