package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/searchforge/cardfuse/internal/fuse"
	"github.com/searchforge/cardfuse/internal/names"
)

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(time.Minute)
	res := &Result{Resolved: "lightning bolt"}

	c.Set("k", res)
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Same(t, res, got)

	_, ok = c.Get("other")
	assert.False(t, ok)
}

func TestCacheZeroTTLDisabled(t *testing.T) {
	c := NewCache(0)
	c.Set("k", &Result{})
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(time.Nanosecond)
	c.Set("k", &Result{})
	time.Sleep(time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheKeySensitivity(t *testing.T) {
	base := buildCacheKey("bolt", 20, fuse.WeightedSum, 60, fuse.Weights{"cooccurrence": 1}, MMRConfig{}, nil)

	assert.NotEqual(t, base,
		buildCacheKey("shock", 20, fuse.WeightedSum, 60, fuse.Weights{"cooccurrence": 1}, MMRConfig{}, nil))
	assert.NotEqual(t, base,
		buildCacheKey("bolt", 10, fuse.WeightedSum, 60, fuse.Weights{"cooccurrence": 1}, MMRConfig{}, nil))
	assert.NotEqual(t, base,
		buildCacheKey("bolt", 20, fuse.RRF, 60, fuse.Weights{"cooccurrence": 1}, MMRConfig{}, nil))
	assert.NotEqual(t, base,
		buildCacheKey("bolt", 20, fuse.WeightedSum, 60, fuse.Weights{"cooccurrence": 0.5}, MMRConfig{}, nil))
	assert.NotEqual(t, base,
		buildCacheKey("bolt", 20, fuse.WeightedSum, 60, fuse.Weights{"cooccurrence": 1}, MMRConfig{Enabled: true, Lambda: 0.5}, nil))
	assert.NotEqual(t, base,
		buildCacheKey("bolt", 20, fuse.WeightedSum, 60, fuse.Weights{"cooccurrence": 1}, MMRConfig{}, []names.Key{"forced"}))

	// Same inputs, same key.
	assert.Equal(t, base,
		buildCacheKey("bolt", 20, fuse.WeightedSum, 60, fuse.Weights{"cooccurrence": 1}, MMRConfig{}, nil))
}
