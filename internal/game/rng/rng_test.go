package rng

import (
	"testing"

	"github.com/cardcap/fantasy-engine/internal/game/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 1000; i++ {
		require.Equal(t, a.Float64(), b.Float64(), "draw %d diverged", i)
	}
	assert.Equal(t, a.Int(0, 100), b.Int(0, 100))
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)

	same := 0
	for i := 0; i < 50; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	assert.Less(t, same, 50)
}

func TestFirstValuesAreLCGSteps(t *testing.T) {
	src := New(0)
	// 0*1664525 + 1013904223
	assert.Equal(t, float64(1013904223)/float64(1<<32), src.Float64())
}

func TestFloat64Range(t *testing.T) {
	src := New(7)
	for i := 0; i < 10000; i++ {
		v := src.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestIntBounds(t *testing.T) {
	src := New(99)
	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		v := src.Int(3, 8)
		require.GreaterOrEqual(t, v, 3)
		require.Less(t, v, 8)
		seen[v] = true
	}
	assert.Len(t, seen, 5)

	for i := 0; i < 2000; i++ {
		v := src.IntInclusive(1, 6)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 6)
	}
}

func TestIntDegenerateRange(t *testing.T) {
	src := New(5)
	before := *src
	assert.Equal(t, 4, src.Int(4, 4))
	assert.Equal(t, 4, src.Int(4, 2))
	assert.Equal(t, before, *src, "degenerate range must not advance the source")
}

func TestResetRewinds(t *testing.T) {
	src := New(1234)
	first := []float64{src.Float64(), src.Float64(), src.Float64()}

	src.Reset()
	again := []float64{src.Float64(), src.Float64(), src.Float64()}

	assert.Equal(t, first, again)
	assert.Equal(t, uint32(1234), src.Seed())
}

func TestChoice(t *testing.T) {
	src := New(3)
	v, err := Choice(src, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Contains(t, []string{"a", "b", "c"}, v)

	_, err = Choice(src, []int{})
	assert.ErrorIs(t, err, errs.ErrEmptyInput)
}

func TestShuffleReturnsPermutationAndKeepsInput(t *testing.T) {
	input := []int{1, 2, 3, 4, 5, 6, 7, 8}
	original := append([]int(nil), input...)

	out := Shuffle(New(42), input)

	assert.Equal(t, original, input, "input must be untouched")
	assert.ElementsMatch(t, original, out)
	assert.Equal(t, out, Shuffle(New(42), input), "same seed gives same permutation")
}
