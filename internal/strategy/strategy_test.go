package strategy

import (
	"context"
	"testing"

	"github.com/docenhance/pipeline/internal/document"
	"github.com/docenhance/pipeline/internal/settings"
	"github.com/docenhance/pipeline/internal/strategykind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCfg() settings.StrategyConfig {
	return settings.StrategyConfig{
		Enabled:          true,
		Priority:         1,
		MaxIterations:    3,
		QualityThreshold: 0.8,
		Parameters:       map[string]interface{}{},
	}
}

func TestRegistry_HasFiveStandardStrategies(t *testing.T) {
	r := NewRegistry()
	for _, k := range strategykind.Ordered {
		assert.NotNil(t, r.Get(k), k)
	}
}

func TestClarity_FallbackReplacesJargon(t *testing.T) {
	c := NewClarity()
	out, err := c.Enhance(context.Background(), "We will utilize this methodology.", document.New(""), nil, defaultCfg())
	require.NoError(t, err)
	assert.Contains(t, out, "use this method")
}

func TestCompleteness_AddsIntroAndConclusion(t *testing.T) {
	c := NewCompleteness()
	out, err := c.Enhance(context.Background(), "## Body\n\nSome content here.", document.New(""), nil, defaultCfg())
	require.NoError(t, err)
	assert.Contains(t, out, "Introduction")
	assert.Contains(t, out, "Conclusion")
}

func TestConsistency_NormalizesEmphasisAndAcronyms(t *testing.T) {
	c := NewConsistency()
	out, err := c.Enhance(context.Background(), "This uses an api and __bold__ text.", nil, nil, defaultCfg())
	require.NoError(t, err)
	assert.Contains(t, out, "**bold**")
	assert.Contains(t, out, "API")
}

func TestAccuracy_FlagsDangerousPrimitives(t *testing.T) {
	c := NewAccuracy()
	content := "Run this:\n\n```python\nos.system('rm -rf /')\n```\n"
	out, err := c.Enhance(context.Background(), content, nil, nil, defaultCfg())
	require.NoError(t, err)
	assert.Contains(t, out, "Warning")
}

func TestAccuracy_AnnotatesUnsourcedClaims(t *testing.T) {
	c := NewAccuracy()
	out, err := c.Enhance(context.Background(), "Studies show this works well.", nil, nil, defaultCfg())
	require.NoError(t, err)
	assert.Contains(t, out, "[citation needed]")
}

func TestReadability_InsertsTableOfContentsWhenLarge(t *testing.T) {
	r := NewReadability()
	content := "## One\n\nbody\n\n## Two\n\nbody\n\n## Three\n\nbody\n\n## Four\n\nbody\n\n" + repeatWords(1100)
	cfg := defaultCfg()
	out, err := r.Enhance(context.Background(), content, document.New(""), nil, cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Table of Contents")
}

func repeatWords(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "word "
	}
	return s
}
