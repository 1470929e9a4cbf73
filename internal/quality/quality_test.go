package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_Deterministic(t *testing.T) {
	content := sampleDoc()
	a := Score(content)
	b := Score(content)

	a.MeasuredAt, b.MeasuredAt = a.MeasuredAt, a.MeasuredAt
	a.MeasurementID, b.MeasurementID = "", ""
	b.MeasurementID = ""
	assert.Equal(t, a.Overall, b.Overall)
	assert.Equal(t, a.Clarity, b.Clarity)
	assert.Equal(t, a.Completeness, b.Completeness)
}

func TestScore_OverallIsWeightedSum(t *testing.T) {
	m := Score(sampleDoc())
	want := 0.25*m.Clarity + 0.20*m.Completeness + 0.15*m.Consistency + 0.20*m.Accuracy + 0.20*m.Readability
	require.InDelta(t, want, m.Overall, 1e-9)
}

func TestScore_EmptyContent(t *testing.T) {
	m := Score("")
	assert.Equal(t, 0, m.WordCount)
	assert.Equal(t, 0, m.SentenceCount)
	assert.GreaterOrEqual(t, m.Overall, 0.3)
	assert.LessOrEqual(t, m.Overall, 0.5)
}

func TestScore_WhitespaceOnlyContentMatchesEmpty(t *testing.T) {
	assert.Equal(t, Score("").Overall, Score("   \n\t  ").Overall)
}

func TestScore_IntroAndConclusionRaiseCompleteness(t *testing.T) {
	bare := "# Title\n\nSome content about a thing. It does a thing."
	full := "# Introduction\n\nSome content about a thing.\n\n## Conclusion\n\nIn summary, that thing was done, for example like this."
	assert.Greater(t, Score(full).Completeness, Score(bare).Completeness)
}

func TestScore_LongSentencesLowerClarity(t *testing.T) {
	short := strings.Repeat("This is fine. ", 40)
	long := strings.Repeat("This is a very long sentence that keeps going and going and going and going and going and going and going and going without end. ", 10)
	assert.Greater(t, Score(short).Clarity, Score(long).Clarity)
}

func sampleDoc() string {
	return `# Introduction

This guide explains how the pipeline works. It covers the basics.

## Details

The system processes documents in passes, for example by running strategies.

## Conclusion

In summary, the pipeline improves document quality over several passes.`
}
