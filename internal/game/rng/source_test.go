package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededIsReproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)

	for i := 0; i < 32; i++ {
		require.Equal(t, a.Float64(), b.Float64())
		require.Equal(t, a.IntN(100), b.IntN(100))
	}
	assert.Equal(t, uint64(42), a.Seed())
}

func TestShufflePermutesDeterministically(t *testing.T) {
	shuffled := func(seed uint64) []int {
		values := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		Shuffle(NewSeeded(seed), len(values), func(i, j int) {
			values[i], values[j] = values[j], values[i]
		})
		return values
	}

	first := shuffled(7)
	assert.Equal(t, first, shuffled(7))
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, first)
}

func TestFixedRepeatsLastValue(t *testing.T) {
	src := &Fixed{Floats: []float64{0.1, 0.9}, Ints: []int{3, 7}}

	assert.Equal(t, 0.1, src.Float64())
	assert.Equal(t, 0.9, src.Float64())
	assert.Equal(t, 0.9, src.Float64())

	assert.Equal(t, 3, src.IntN(10))
	assert.Equal(t, 2, src.IntN(5))
	assert.Equal(t, 2, src.IntN(5))
}
