package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewKey_Deterministic(t *testing.T) {
	k1 := NewKey("content", "config")
	k2 := NewKey("content", "config")
	assert.Equal(t, k1, k2)
}

func TestNewKey_DiffersOnContentOrConfig(t *testing.T) {
	k1 := NewKey("a", "cfg")
	k2 := NewKey("b", "cfg")
	k3 := NewKey("a", "cfg2")
	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestCache_MissThenHit(t *testing.T) {
	c := New(2, time.Hour)
	_, ok := c.Get("k1")
	assert.False(t, ok)

	c.Put("k1", "value")
	v, ok := c.Get("k1")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2, time.Hour)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a") // a is now most-recently-used
	c.Put("c", 3) // should evict b

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, aok := c.Get("a")
	assert.True(t, aok)
	_, cok := c.Get("c")
	assert.True(t, cok)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	c := New(10, time.Minute)
	base := time.Now()
	c.PutAt("k", "v", base)

	_, ok := c.GetAt("k", base.Add(30*time.Second))
	assert.True(t, ok)

	_, ok = c.GetAt("k", base.Add(2*time.Minute))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}
