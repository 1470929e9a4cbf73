package batch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/docenhance/pipeline/internal/pipeline"
	"github.com/docenhance/pipeline/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCoordinator struct {
	mu          sync.Mutex
	inFlight    int32
	maxInFlight int32
}

func (f *fakeCoordinator) Enhance(_ context.Context, input interface{}, _ *settings.Settings) pipeline.Result {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)

	f.mu.Lock()
	if cur > f.maxInFlight {
		f.maxInFlight = cur
	}
	f.mu.Unlock()

	content, _ := input.(string)
	return pipeline.Result{OriginalContent: content, EnhancedContent: content, Success: true}
}

func TestEnhanceBatch_PreservesInputOrder(t *testing.T) {
	fc := &fakeCoordinator{}
	e := NewExecutor(fc, 3)

	inputs := []interface{}{"a", "b", "c", "d", "e"}
	s, err := settings.FromMode(settings.Basic)
	require.NoError(t, err)

	results := e.EnhanceBatch(context.Background(), inputs, s)
	require.Len(t, results, 5)
	for i, in := range inputs {
		assert.Equal(t, in, results[i].OriginalContent)
	}
}

func TestEnhanceBatch_BoundsConcurrency(t *testing.T) {
	fc := &fakeCoordinator{}
	e := NewExecutor(fc, 2)

	inputs := make([]interface{}, 10)
	for i := range inputs {
		inputs[i] = "x"
	}
	s, err := settings.FromMode(settings.Basic)
	require.NoError(t, err)

	e.EnhanceBatch(context.Background(), inputs, s)
	assert.LessOrEqual(t, fc.maxInFlight, int32(2))
}

func TestEnhanceStream_DeliversAllItems(t *testing.T) {
	fc := &fakeCoordinator{}
	e := NewExecutor(fc, 2)

	inputs := []interface{}{"a", "b", "c"}
	s, err := settings.FromMode(settings.Basic)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for r := range e.EnhanceStream(context.Background(), inputs, s) {
		seen[r.Index] = true
	}
	assert.Len(t, seen, 3)
}
