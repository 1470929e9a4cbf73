package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddVersion_MonotonicIDsAndParentLinks(t *testing.T) {
	h := New(0)
	v1 := h.AddVersion("doc1", "hello", 0.5, "original", nil)
	v2 := h.AddVersion("doc1", "hello world", 0.6, "clarity", nil)

	assert.Less(t, v1.VersionID, v2.VersionID)
	assert.Equal(t, v1.VersionID, v2.ParentVersionID)
}

func TestAddVersion_ContentHashEqualIffBytesEqual(t *testing.T) {
	h := New(0)
	v1 := h.AddVersion("doc1", "same", 0.5, "original", nil)
	v2 := h.AddVersion("doc1", "same", 0.5, "pass", nil)
	v3 := h.AddVersion("doc1", "different", 0.5, "pass", nil)

	assert.Equal(t, v1.ContentHash, v2.ContentHash)
	assert.NotEqual(t, v1.ContentHash, v3.ContentHash)
}

func TestAddVersion_CapsAtMaxVersionsPerDocument(t *testing.T) {
	h := New(2)
	h.AddVersion("doc1", "v1", 0.1, "original", nil)
	h.AddVersion("doc1", "v2", 0.2, "clarity", nil)
	h.AddVersion("doc1", "v3", 0.3, "completeness", nil)

	all := h.All("doc1")
	require.Len(t, all, 2)
	assert.Equal(t, "v2", all[0].Content)
	assert.Equal(t, "v3", all[1].Content)
}

func TestRollback_ImplicitRevertsToPrevious(t *testing.T) {
	h := New(0)
	h.AddVersion("doc1", "original", 0.5, "original", nil)
	h.AddVersion("doc1", "changed", 0.4, "clarity", nil)

	v, err := h.Rollback("doc1", 0)
	require.NoError(t, err)
	assert.Equal(t, "original", v.Content)
	assert.Equal(t, "rollback", v.StrategyApplied)

	cur, ok := h.Current("doc1")
	require.True(t, ok)
	assert.Equal(t, "original", cur.Content)
}

func TestRollback_ExplicitTargetMovesIndexWithoutAppending(t *testing.T) {
	h := New(0)
	v1 := h.AddVersion("doc1", "v1", 0.5, "original", nil)
	h.AddVersion("doc1", "v2", 0.6, "clarity", nil)

	before := len(h.All("doc1"))
	v, err := h.Rollback("doc1", v1.VersionID)
	require.NoError(t, err)
	assert.Equal(t, "v1", v.Content)
	assert.Equal(t, before, len(h.All("doc1")))
}

func TestRollback_NonExistentTargetReturnsNotFound(t *testing.T) {
	h := New(0)
	h.AddVersion("doc1", "v1", 0.5, "original", nil)

	_, err := h.Rollback("doc1", 999)
	assert.ErrorIs(t, err, ErrVersionNotFound)
}

func TestCompare_ComputesDeltaAndStrategies(t *testing.T) {
	h := New(0)
	v1 := h.AddVersion("doc1", "line one\nline two", 0.5, "original", nil)
	v2 := h.AddVersion("doc1", "line one\nline two\nline three", 0.7, "completeness", nil)

	c, err := h.Compare("doc1", v1.VersionID, v2.VersionID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.LinesAdded)
	assert.Equal(t, 0, c.LinesRemoved)
	assert.InDelta(t, 0.2, c.QualityDelta, 1e-9)
	assert.Equal(t, []string{"completeness"}, c.StrategiesApplied)
}

func TestDiff_RendersUnifiedStyleOutput(t *testing.T) {
	h := New(0)
	v1 := h.AddVersion("doc1", "alpha\nbeta", 0.5, "original", nil)
	v2 := h.AddVersion("doc1", "alpha\ngamma", 0.5, "clarity", nil)

	diff, err := h.Diff("doc1", v1.VersionID, v2.VersionID)
	require.NoError(t, err)
	assert.Contains(t, diff, "- beta")
	assert.Contains(t, diff, "+ gamma")
	assert.Contains(t, diff, "  alpha")
}
