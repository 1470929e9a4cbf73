package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docenhance/pipeline/internal/settings"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsToBasicModeWhenUnset(t *testing.T) {
	path := writeConfig(t, "pipeline:\n  max_passes: 4\n")
	s, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, settings.Basic, s.Mode)
	assert.Equal(t, 4, s.Pipeline.MaxPasses)
}

func TestLoad_AppliesModeAndOverrides(t *testing.T) {
	path := writeConfig(t, "mode: enterprise\npipeline:\n  quality_threshold: 0.95\n")
	s, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 5, s.Pipeline.MaxPasses) // enterprise default
	assert.Equal(t, 0.95, s.Pipeline.QualityThreshold)
}

func TestLoad_RejectsUnknownTopLevelKey(t *testing.T) {
	path := writeConfig(t, "mode: basic\nbogus_section:\n  x: 1\n")
	_, err := Load(path, "")
	require.Error(t, err)
}

func TestLoad_RejectsUnknownPipelineField(t *testing.T) {
	path := writeConfig(t, "pipeline:\n  not_a_real_field: 1\n")
	_, err := Load(path, "")
	require.Error(t, err)
}

func TestStrategyOverridesFor_RejectsUnknownStrategyName(t *testing.T) {
	f := File{Strategies: map[string]map[string]interface{}{
		"not_a_strategy": {"enabled": false},
	}}
	_, err := StrategyOverridesFor(f)
	require.Error(t, err)
}
