package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGReset(t *testing.T) {
	rng := NewRNG(4711)

	first := rng.Uint64()
	rng.Reset()

	assert.Equal(t, first, rng.Uint64())
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestSeries(t *testing.T) {
	rng := NewRNG(4711)

	xs := rng.Series(1000, 10, 0.5)

	require.Len(t, xs, 1000)
	var sum float64
	for _, x := range xs {
		sum += x
	}
	assert.InDelta(t, 10, sum/1000, 0.1)
}

func TestName(t *testing.T) {
	rng := NewRNG(4711)

	name := rng.Name(16)

	assert.Len(t, name, 16)
	assert.NotContains(t, name, ":")
	assert.NotContains(t, name, ",")
}

func TestCollidingVariables(t *testing.T) {
	mod := func(key string, capacity int) int { return len(key) % capacity }

	a, b, ok := CollidingVariables(mod, 4, "t")

	require.True(t, ok)
	assert.NotEqual(t, a, b)
	assert.Equal(t, mod("t:"+a, 4), mod("t:"+b, 4))
}
