package docstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/docenhance/pipeline/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_PutThenGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	result := pipeline.Result{
		OriginalContent: "before",
		EnhancedContent: "after",
		Success:         true,
		QualityBefore:   0.5,
		QualityAfter:    0.8,
	}

	require.NoError(t, s.Put(ctx, "doc-1", result))

	got, ok, err := s.Get(ctx, "doc-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, result.EnhancedContent, got.EnhancedContent)
	assert.Equal(t, result.QualityAfter, got.QualityAfter)
}

func TestSQLiteStore_GetMissingReturnsFalse(t *testing.T) {
	s := newTestStore(t)
	_, ok, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_PutOverwritesExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "doc-1", pipeline.Result{EnhancedContent: "v1"}))
	require.NoError(t, s.Put(ctx, "doc-1", pipeline.Result{EnhancedContent: "v2"}))

	got, ok, err := s.Get(ctx, "doc-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", got.EnhancedContent)
}
