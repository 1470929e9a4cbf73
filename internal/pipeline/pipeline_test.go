package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/docenhance/pipeline/internal/cache"
	"github.com/docenhance/pipeline/internal/cost"
	"github.com/docenhance/pipeline/internal/document"
	"github.com/docenhance/pipeline/internal/history"
	"github.com/docenhance/pipeline/internal/llm"
	"github.com/docenhance/pipeline/internal/settings"
	"github.com/docenhance/pipeline/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoordinator(opts ...Option) *Coordinator {
	reg := strategy.NewRegistry()
	hist := history.New(0)
	costModel := cost.New(cost.Options{}, time.Now())
	return NewCoordinator(reg, hist, costModel, llm.NewStub(), opts...)
}

func TestEnhance_ReturnsSuccessAndPopulatesMetrics(t *testing.T) {
	c := newTestCoordinator()
	s, err := settings.FromMode(settings.Basic)
	require.NoError(t, err)

	content := "# Body\n\nSome content about a thing. It does a thing well enough."
	result := c.Enhance(context.Background(), document.New(content), s)

	assert.True(t, result.Success)
	assert.Equal(t, content, result.OriginalContent)
	assert.NotEmpty(t, result.Metadata["stop_reason"])
}

func TestEnhance_StopsAtQualityThreshold(t *testing.T) {
	c := newTestCoordinator()
	s, err := settings.FromMode(settings.Basic)
	require.NoError(t, err)
	s.Pipeline.QualityThreshold = 0.0 // already met before any pass

	result := c.Enhance(context.Background(), document.New("content"), s)
	assert.Equal(t, "threshold", result.Metadata["stop_reason"])
	assert.Equal(t, 0, result.PassesExecuted)
}

func TestEnhance_TimeoutStopsEarlyAndMarksFailure(t *testing.T) {
	c := newTestCoordinator()
	s, err := settings.FromMode(settings.Basic)
	require.NoError(t, err)
	s.Pipeline.QualityThreshold = 1.0 // never satisfied, so the loop would otherwise run to MaxPasses
	s.Pipeline.Timeout = time.Nanosecond

	result := c.Enhance(context.Background(), document.New("content that needs several passes of enhancement"), s)

	assert.False(t, result.Success)
	assert.Equal(t, "timeout", result.Metadata["stop_reason"])
	assert.Equal(t, true, result.Metadata["timed_out"])
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors, "timeout")
}

func TestEnhance_BudgetDenialTagsScope(t *testing.T) {
	reg := strategy.NewRegistry()
	hist := history.New(0)
	costModel := cost.New(cost.Options{PerDocumentLimit: 0.0000001}, time.Now())
	c := NewCoordinator(reg, hist, costModel, llm.NewStub())

	s, err := settings.FromMode(settings.Basic)
	require.NoError(t, err)
	s.Pipeline.QualityThreshold = 1.0

	result := c.Enhance(context.Background(), document.New("some content to enhance"), s)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors, "budget:per_document")
}

func TestEnhance_CacheHitOnSecondCall(t *testing.T) {
	reg := strategy.NewRegistry()
	hist := history.New(0)
	costModel := cost.New(cost.Options{}, time.Now())
	resultCache := cache.New(10, time.Hour)

	c := NewCoordinator(reg, hist, costModel, llm.NewStub(), WithCache(resultCache))

	s, err := settings.FromMode(settings.Performance) // cache enabled
	require.NoError(t, err)

	doc := document.New("content to enhance repeatedly")
	first := c.Enhance(context.Background(), doc, s)
	require.True(t, first.Success)

	second := c.Enhance(context.Background(), doc, s)
	assert.Equal(t, true, second.Metadata["cache_hit"])
}
