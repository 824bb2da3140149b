package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docdex/docdex/internal/chunk"
)

func TestFlatVector_SelfSimilarity(t *testing.T) {
	idx, err := NewFlatVector([][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), []float32{0, 1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 1, results[0].Pos)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.InDelta(t, 0.0, results[1].Score, 1e-6)
}

func TestFlatVector_ScaleInvariant(t *testing.T) {
	// Cosine similarity ignores magnitude.
	idx, err := NewFlatVector([][]float32{
		{2, 0},
		{0, 100},
	})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Pos)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestFlatVector_DimensionMismatchAtBuild(t *testing.T) {
	_, err := NewFlatVector([][]float32{
		{1, 0, 0},
		{1, 0},
	})
	require.Error(t, err)

	var mismatch *DimensionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Expected)
	assert.Equal(t, 2, mismatch.Got)
}

func TestFlatVector_DimensionMismatchAtQuery(t *testing.T) {
	idx, err := NewFlatVector([][]float32{{1, 0, 0}})
	require.NoError(t, err)

	_, err = idx.Search(context.Background(), []float32{1, 0}, 5)
	var mismatch *DimensionMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Expected)
	assert.Equal(t, 2, mismatch.Got)
}

func TestFlatVector_EmptyIndexErrors(t *testing.T) {
	idx, err := NewFlatVector(nil)
	require.NoError(t, err)

	_, err = idx.Search(context.Background(), []float32{1, 0}, 5)
	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func TestFlatVector_LimitClipsResults(t *testing.T) {
	idx, err := NewFlatVector([][]float32{
		{1, 0},
		{0.9, 0.1},
		{0, 1},
	})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Pos)
	assert.Equal(t, 1, results[1].Pos)

	results, err = idx.Search(context.Background(), []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFlatVector_TiesBrokenByPosition(t *testing.T) {
	idx, err := NewFlatVector([][]float32{
		{0, 1},
		{1, 0},
		{1, 0},
	})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Pos)
	assert.Equal(t, 2, results[1].Pos)
	assert.Equal(t, 0, results[2].Pos)
}

func TestFlatVector_ZeroQueryVector(t *testing.T) {
	idx, err := NewFlatVector([][]float32{{1, 0}})
	require.NoError(t, err)

	results, err := idx.Search(context.Background(), []float32{0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.0, results[0].Score, 1e-6)
}

func TestHNSWVector_BasicContract(t *testing.T) {
	idx, err := NewHNSWVector([][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Dimensions())
	assert.Equal(t, 3, idx.Count())

	results, err := idx.Search(context.Background(), []float32{0, 0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Pos)
	assert.InDelta(t, 1.0, results[0].Score, 1e-4)
}

func TestHNSWVector_EmptyIndexErrors(t *testing.T) {
	idx, err := NewHNSWVector(nil)
	require.NoError(t, err)

	_, err = idx.Search(context.Background(), []float32{1, 0}, 5)
	assert.ErrorIs(t, err, ErrEmptyIndex)
}

func TestNewVectorIndex_BackendSelection(t *testing.T) {
	vectors := [][]float32{{1, 0}}

	idx, err := NewVectorIndex("", vectors)
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Dimensions())

	idx, err = NewVectorIndex(BackendHNSW, vectors)
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Count())

	_, err = NewVectorIndex("bogus", vectors)
	assert.ErrorIs(t, err, chunk.ErrInvalidParameter)
}
