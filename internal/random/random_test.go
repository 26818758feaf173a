package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoSourceRange(t *testing.T) {
	src := NewCryptoSource()
	for i := 0; i < 500; i++ {
		v, err := src.IntN(6)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}

	_, err := src.IntN(0)
	assert.Error(t, err)
}

func TestSeededSourceIsReproducible(t *testing.T) {
	a := NewSeededSource(42)
	b := NewSeededSource(42)
	for i := 0; i < 100; i++ {
		va, err := a.IntN(1000)
		require.NoError(t, err)
		vb, err := b.IntN(1000)
		require.NoError(t, err)
		assert.Equal(t, va, vb)
	}
}

func TestSequenceSource(t *testing.T) {
	src := NewSequenceSource(0, 4, 7, -1)

	got := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		v, err := src.IntN(6)
		require.NoError(t, err)
		got = append(got, v)
	}

	assert.Equal(t, []int{0, 4, 1, 5, 0}, got)
}
