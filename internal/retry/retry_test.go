package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBucket_TryAcquire_RespectsCapacity(t *testing.T) {
	b := NewBucket(2, 1) // one token per minute, no refill during the test
	assert.True(t, b.TryAcquire())
	assert.True(t, b.TryAcquire())
	assert.False(t, b.TryAcquire())
}

func TestBucket_Disabled_AlwaysAcquires(t *testing.T) {
	b := NewBucket(1, 0)
	for i := 0; i < 10; i++ {
		assert.True(t, b.TryAcquire())
	}
}

func TestBucket_ExhaustsThenRefills(t *testing.T) {
	b := NewBucket(1, 6000) // one token every 10ms
	assert.True(t, b.TryAcquire())
	assert.False(t, b.TryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.True(t, b.Acquire(ctx, 200*time.Millisecond))
}

func TestBucket_AcquireTimesOut(t *testing.T) {
	b := NewBucket(1, 1) // one token per minute, refill too slow
	assert.True(t, b.TryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.False(t, b.Acquire(ctx, 30*time.Millisecond))
}

func TestBackoff_CapsAtMax(t *testing.T) {
	max := 100 * time.Millisecond
	for attempt := 0; attempt < 10; attempt++ {
		d := Backoff(attempt, time.Millisecond, max)
		assert.LessOrEqual(t, d, max)
		assert.GreaterOrEqual(t, d, time.Duration(0))
	}
}
