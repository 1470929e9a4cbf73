// Package cost implements C5: cost estimation, an atomic spend ledger,
// budget enforcement, and an optimization recommender, plus the
// supplemented off-peak discount recommendation from
// cost_optimizer.py's _analyze_off_peak_savings.
package cost

import (
	"sync"
	"time"

	"github.com/docenhance/pipeline/internal/strategykind"
)

// Price is a provider/model's $/1000-tokens rate.
type Price struct {
	Input  float64
	Output float64
}

var fallbackPrice = Price{Input: 0.001, Output: 0.002}

var strategyMultiplier = map[strategykind.Kind]float64{
	strategykind.Clarity:      1.0,
	strategykind.Completeness: 1.5,
	strategykind.Consistency:  0.8,
	strategykind.Accuracy:     1.2,
	strategykind.Readability:  0.9,
}

// PricingTable is a static {provider -> {model -> Price}} lookup.
type PricingTable map[string]map[string]Price

// Lookup returns the price for (provider, model), or the conservative
// fallback if unknown. Local/zero-cost providers should be registered
// explicitly with a zero Price.
func (t PricingTable) Lookup(provider, model string) Price {
	if models, ok := t[provider]; ok {
		if p, ok := models[model]; ok {
			return p
		}
	}
	return fallbackPrice
}

// Model is the cost ledger and budget guard for one pipeline run (or
// one long-lived process, if shared). All mutating methods are safe
// for concurrent use, matching §5's concurrent-access model.
type Model struct {
	mu sync.Mutex

	pricing PricingTable

	dailyBudget   float64
	monthlyBudget float64
	perDocLimit   float64
	costOptimize  bool
	cacheEnabled  bool

	dailySpent   float64
	monthlySpent float64
	dayAnchor    time.Time
	monthAnchor  time.Time

	perProvider map[string]float64
	perStrategy map[strategykind.Kind]float64
	hourly      map[int64]float64 // unix-hour bucket -> cost
}

// Options configures a new cost Model.
type Options struct {
	Pricing          PricingTable
	DailyBudget      float64
	MonthlyBudget    float64
	PerDocumentLimit float64
	CostOptimization bool
	CacheEnabled     bool
}

// New builds a cost Model. now anchors the daily/monthly reset clock.
func New(opts Options, now time.Time) *Model {
	return &Model{
		pricing:       opts.Pricing,
		dailyBudget:   opts.DailyBudget,
		monthlyBudget: opts.MonthlyBudget,
		perDocLimit:   opts.PerDocumentLimit,
		costOptimize:  opts.CostOptimization,
		cacheEnabled:  opts.CacheEnabled,
		dayAnchor:     now,
		monthAnchor:   now,
		perProvider:   make(map[string]float64),
		perStrategy:   make(map[strategykind.Kind]float64),
		hourly:        make(map[int64]float64),
	}
}

// Estimate computes the estimated cost of running strategy against
// content of contentLength bytes on (provider, model), per §4.6.
func (m *Model) Estimate(contentLength int, strategy strategykind.Kind, provider, model string) float64 {
	tokens := float64(contentLength) / 4.0
	price := m.pricing.Lookup(provider, model)
	base := (tokens / 1000.0) * (price.Input + price.Output)

	if mult, ok := strategyMultiplier[strategy]; ok {
		base *= mult
	}
	if m.costOptimize {
		base *= 0.8
	}
	return base
}

// Record updates per-provider, per-strategy, and hourly tallies, and
// recomputes running daily/monthly totals, resetting them at their
// respective boundaries relative to now.
func (m *Model) Record(now time.Time, amount float64, provider string, strategy strategykind.Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetIfBoundaryCrossed(now)

	m.perProvider[provider] += amount
	m.perStrategy[strategy] += amount

	hourBucket := now.Truncate(time.Hour).Unix()
	m.hourly[hourBucket] += amount

	m.dailySpent += amount
	m.monthlySpent += amount
}

func (m *Model) resetIfBoundaryCrossed(now time.Time) {
	now = now.UTC()
	day, month := m.dayAnchor.UTC(), m.monthAnchor.UTC()
	if now.YearDay() != day.YearDay() || now.Year() != day.Year() {
		m.dailySpent = 0
		m.dayAnchor = now
	}
	if now.Month() != month.Month() || now.Year() != month.Year() {
		m.monthlySpent = 0
		m.monthAnchor = now
	}
}

// MaySpend reports whether estimate can be spent without exceeding
// the daily budget, monthly budget, or per-document limit.
func (m *Model) MaySpend(estimate float64) bool {
	ok, _ := m.MaySpendScope(estimate)
	return ok
}

// MaySpendScope is MaySpend plus the name of the first exceeded scope
// ("daily", "monthly", "per_document"), so callers can tag a denial
// per §7's "budget:<scope>" convention instead of a strategy name.
func (m *Model) MaySpendScope(estimate float64) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dailyBudget > 0 && m.dailySpent+estimate > m.dailyBudget {
		return false, "daily"
	}
	if m.monthlyBudget > 0 && m.monthlySpent+estimate > m.monthlyBudget {
		return false, "monthly"
	}
	if m.perDocLimit > 0 && estimate > m.perDocLimit {
		return false, "per_document"
	}
	return true, ""
}

// Recommendation is the output of Recommend.
type Recommendation struct {
	OriginalCost  float64
	OptimizedCost float64
	Rationale     []string
}

// Recommend simulates cost reductions per §4.6: cheaper models below a
// 0.7 threshold, dropping non-essential strategies by threshold tier,
// a batching discount for large content, and a caching discount.
func (m *Model) Recommend(contentLength int, strategies []strategykind.Kind, qualityThreshold float64, provider, model string) Recommendation {
	original := 0.0
	for _, s := range strategies {
		original += m.Estimate(contentLength, s, provider, model)
	}

	effective := strategies
	var rationale []string

	if qualityThreshold < 0.7 {
		rationale = append(rationale, "quality threshold below 0.7: cheaper model tier is viable")
	}

	essential := essentialStrategies(qualityThreshold)
	if len(essential) < len(strategies) {
		effective = essential
		rationale = append(rationale, "dropping non-essential strategies for the given quality threshold")
	}

	optimized := 0.0
	for _, s := range effective {
		optimized += m.Estimate(contentLength, s, provider, model)
	}

	if qualityThreshold < 0.7 {
		optimized *= 0.7 // cheaper model tier approximation
	}
	if contentLength > 20000 {
		optimized *= 0.85
		rationale = append(rationale, "large content qualifies for batching discount")
	}
	if m.cacheEnabled {
		optimized *= 0.9
		rationale = append(rationale, "caching enabled: repeat content is discounted")
	}

	return Recommendation{OriginalCost: original, OptimizedCost: optimized, Rationale: rationale}
}

func essentialStrategies(qualityThreshold float64) []strategykind.Kind {
	switch {
	case qualityThreshold >= 0.9:
		return append([]strategykind.Kind{}, strategykind.Ordered...)
	case qualityThreshold >= 0.8:
		out := make([]strategykind.Kind, 0, len(strategykind.Ordered)-1)
		for _, k := range strategykind.Ordered {
			if k != strategykind.Consistency {
				out = append(out, k)
			}
		}
		return out
	default:
		return []strategykind.Kind{strategykind.Clarity, strategykind.Readability}
	}
}

// OffPeakRecommendation reports whether the rolling hourly ledger
// shows cheaper hours elsewhere, supplementing §4.6's hourly tallies
// with the original cost_optimizer.py's off-peak analysis.
type OffPeakRecommendation struct {
	HasOffPeakWindow bool
	CheapestHourUTC  int
	AverageCost      float64
	CheapestHourCost float64
}

// OffPeakRecommendation analyzes the hourly ledger for a cheaper
// time-of-day window than the current average.
func (m *Model) OffPeakRecommendation() OffPeakRecommendation {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.hourly) == 0 {
		return OffPeakRecommendation{}
	}

	byHourOfDay := make(map[int]float64)
	countByHour := make(map[int]int)
	total := 0.0
	for bucket, cost := range m.hourly {
		hour := time.Unix(bucket, 0).UTC().Hour()
		byHourOfDay[hour] += cost
		countByHour[hour]++
		total += cost
	}

	average := total / float64(len(m.hourly))

	cheapestHour := -1
	cheapestAvg := 0.0
	for hour, sum := range byHourOfDay {
		avg := sum / float64(countByHour[hour])
		if cheapestHour == -1 || avg < cheapestAvg {
			cheapestHour = hour
			cheapestAvg = avg
		}
	}

	return OffPeakRecommendation{
		HasOffPeakWindow: cheapestAvg < average,
		CheapestHourUTC:  cheapestHour,
		AverageCost:      average,
		CheapestHourCost: cheapestAvg,
	}
}
