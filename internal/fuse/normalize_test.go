package fuse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/searchforge/cardfuse/internal/names"
)

func TestNormalizeRangeAndOrder(t *testing.T) {
	raw := map[names.Key]float64{
		"a": -0.5, // cosine-style negatives are fine
		"b": 0.25,
		"c": 3.0,
	}
	out := Normalize(raw)

	assert.InDelta(t, 0.0, out["a"], 1e-9)
	assert.InDelta(t, 1.0, out["c"], 1e-9)
	for _, v := range out {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	// Monotonic: relative order preserved.
	assert.Less(t, out["a"], out["b"])
	assert.Less(t, out["b"], out["c"])
}

func TestNormalizeAllTied(t *testing.T) {
	out := Normalize(map[names.Key]float64{"a": 0.4, "b": 0.4, "c": 0.4})
	for _, v := range out {
		assert.Equal(t, 1.0, v)
	}
}

func TestNormalizeSingleton(t *testing.T) {
	out := Normalize(map[names.Key]float64{"only": 0.123})
	assert.Equal(t, 1.0, out["only"])
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}
