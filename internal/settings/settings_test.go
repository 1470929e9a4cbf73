package settings

import (
	"testing"

	"github.com/docenhance/pipeline/internal/strategykind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMode_Profiles(t *testing.T) {
	cases := []struct {
		mode            Mode
		maxPasses       int
		batchSize       int
		maxCost         float64
		maxParallelDocs int
	}{
		{Basic, 2, 3, 0.10, 1},
		{Performance, 3, 20, 0.30, 15},
		{Secure, 3, 10, 0.40, 8},
		{Enterprise, 5, 25, 1.00, 25},
	}

	for _, c := range cases {
		t.Run(string(c.mode), func(t *testing.T) {
			s, err := FromMode(c.mode)
			require.NoError(t, err)
			assert.Equal(t, c.maxPasses, s.Pipeline.MaxPasses)
			assert.Equal(t, c.batchSize, s.Pipeline.BatchSize)
			assert.Equal(t, c.maxCost, s.Pipeline.MaxCostPerDocument)
			assert.Equal(t, c.maxParallelDocs, s.Pipeline.MaxParallelDocs)
		})
	}
}

func TestFromMode_UnknownOverrideRejected(t *testing.T) {
	_, err := FromMode(Basic, Override{Field: "pipeline.does_not_exist", Value: 1})
	require.Error(t, err)
}

func TestFromMode_OverrideApplied(t *testing.T) {
	s, err := FromMode(Basic, Override{Field: "pipeline.max_passes", Value: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, s.Pipeline.MaxPasses)
}

func TestEnabledStrategies_SortedByPriorityThenEnumOrder(t *testing.T) {
	s, err := FromMode(Basic)
	require.NoError(t, err)

	// Force a tie in priority between Accuracy and Clarity; Clarity
	// should win because it ranks earlier in the enum order.
	cfg := s.Strategies[strategykind.Accuracy]
	cfg.Priority = s.Strategies[strategykind.Clarity].Priority
	s.Strategies[strategykind.Accuracy] = cfg

	plan := s.EnabledStrategies()
	clarityIdx, accuracyIdx := -1, -1
	for i, k := range plan {
		if k == strategykind.Clarity {
			clarityIdx = i
		}
		if k == strategykind.Accuracy {
			accuracyIdx = i
		}
	}
	require.NotEqual(t, -1, clarityIdx)
	require.NotEqual(t, -1, accuracyIdx)
	assert.Less(t, clarityIdx, accuracyIdx)
}

func TestCanonicalRoundTrip(t *testing.T) {
	s, err := FromMode(Enterprise, Override{Field: "pipeline.max_passes", Value: 9})
	require.NoError(t, err)

	text, err := s.ToCanonical()
	require.NoError(t, err)

	back, err := FromCanonical(text)
	require.NoError(t, err)

	text2, err := back.ToCanonical()
	require.NoError(t, err)
	assert.Equal(t, text, text2)
	assert.Equal(t, s.Pipeline.MaxPasses, back.Pipeline.MaxPasses)
}
