package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRootCmd_RegistersSubcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["document"])
	assert.True(t, names["batch"])
	assert.True(t, names["pipeline"])
}

func TestNewRootCmd_DefaultFlags(t *testing.T) {
	root := newRootCmd()

	mode, err := root.PersistentFlags().GetString("mode")
	assert.NoError(t, err)
	assert.Equal(t, "basic", mode)

	dryRun, err := root.PersistentFlags().GetBool("dry-run")
	assert.NoError(t, err)
	assert.False(t, dryRun)
}

func TestRenderDiff_ProducesUnifiedStyleOutput(t *testing.T) {
	diff := renderDiff("alpha\nbeta\n", "alpha\ngamma\n")
	assert.Contains(t, diff, "beta")
	assert.Contains(t, diff, "gamma")
}
