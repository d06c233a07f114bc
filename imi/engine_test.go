package imi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imivdb/centroid"
)

// buildFixtureEngine wires a hand-constructed centroid codebook and
// offset table directly to vectors, bypassing Build/training so the
// assignment is exactly the one the test specifies. pairs[i] is the
// centroid pair that vector i belongs to.
func buildFixtureEngine(t *testing.T, vectors [][]float32, dim, c int, side1Centroids, side2Centroids [][]float32, pairs []CentroidPair) *Engine {
	t.Helper()
	subDim := dim / 2
	side1 := centroid.NewSet(c, subDim)
	side2 := centroid.NewSet(c, subDim)
	for i, v := range side1Centroids {
		copy(side1.At(i), v)
	}
	for i, v := range side2Centroids {
		copy(side2.At(i), v)
	}

	lists := make([][]uint32, c*c)
	for id, p := range pairs {
		key := p.I*c + p.J
		lists[key] = append(lists[key], uint32(id))
	}

	offsets := NewOffsetTable(c)
	var idRun []uint32
	for i := 0; i < c; i++ {
		for j := 0; j < c; j++ {
			list := lists[i*c+j]
			start := uint32(len(idRun))
			idRun = append(idRun, list...)
			offsets.set(CentroidPair{I: i, J: j}, start, uint32(len(list)))
		}
	}

	idFile := newIDRunFixture(t, idRun)
	vs := writeVectorStore(t, vectors, dim)

	cfg := Config{CentroidCount: c, Dim: dim, MaxDifference: 10000, BatchLimit: 2000, PruningFactor: c*c - 1}
	e, err := OpenBuilt(cfg, side1, side2, offsets, idFile, vs, Float32Kernel{}, NewFixedPool(2))
	require.NoError(t, err)
	return e
}

// N=4, D=2, C=2, axis vectors. Query (1,0), top_k=1, nprobe=2 returns
// distance 0.0 and id 0.
func TestSearchAxisVectorsScenario(t *testing.T) {
	vectors := [][]float32{
		{1, 0},
		{0, 1},
		{-1, 0},
		{0, -1},
	}
	side1C := [][]float32{{1}, {-1}}
	side2C := [][]float32{{1}, {-1}}
	pairs := []CentroidPair{
		{I: 0, J: 0}, // v0 = (1,0)
		{I: 0, J: 1}, // v1 = (0,1)
		{I: 1, J: 1}, // v2 = (-1,0)
		{I: 1, J: 0}, // v3 = (0,-1)
	}
	e := buildFixtureEngine(t, vectors, 2, 2, side1C, side2C, pairs)
	defer e.Close()

	params := SearchParams{TopK: 1, NProbe: 2, MaxDifference: 10000, BatchLimit: 2000, PruningFactor: 4}
	distances, ids, err := e.Search(context.Background(), []float32{1, 0}, params)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, uint32(0), ids[0])
	assert.InDelta(t, 0.0, distances[0], 1e-6)
}

// An empty inverted list is selected by the planner but contributes zero
// ids; the final result still comes from the other pairs.
func TestSearchEmptyInvertedListScenario(t *testing.T) {
	vectors := [][]float32{
		{1, 0},
		{0, 1},
	}
	side1C := [][]float32{{1}, {-1}}
	side2C := [][]float32{{1}, {-1}}
	// Both vectors land in (0,0); (0,1) stays empty but nprobe=2 still
	// visits it.
	pairs := []CentroidPair{
		{I: 0, J: 0},
		{I: 0, J: 0},
	}
	e := buildFixtureEngine(t, vectors, 2, 2, side1C, side2C, pairs)
	defer e.Close()

	params := SearchParams{TopK: 2, NProbe: 2, MaxDifference: 10000, BatchLimit: 2000, PruningFactor: 4}
	distances, ids, err := e.Search(context.Background(), []float32{1, 0}, params)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.ElementsMatch(t, []uint32{0, 1}, ids)
	assert.True(t, distances[0] <= distances[1])
}

func TestSearchIndexNotReady(t *testing.T) {
	e := &Engine{state: Uninitialized}
	_, _, err := e.Search(context.Background(), []float32{1, 2}, DefaultSearchParams())
	assert.ErrorIs(t, err, ErrIndexNotReady)
}

func TestSearchInvalidConfig(t *testing.T) {
	vectors := [][]float32{{1, 0}, {0, 1}}
	side1C := [][]float32{{1}, {-1}}
	side2C := [][]float32{{1}, {-1}}
	pairs := []CentroidPair{{I: 0, J: 0}, {I: 0, J: 1}}
	e := buildFixtureEngine(t, vectors, 2, 2, side1C, side2C, pairs)
	defer e.Close()

	params := DefaultSearchParams()
	params.TopK = 0
	_, _, err := e.Search(context.Background(), []float32{1, 0}, params)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSearchQueryDimMismatch(t *testing.T) {
	vectors := [][]float32{{1, 0}, {0, 1}}
	side1C := [][]float32{{1}, {-1}}
	side2C := [][]float32{{1}, {-1}}
	pairs := []CentroidPair{{I: 0, J: 0}, {I: 0, J: 1}}
	e := buildFixtureEngine(t, vectors, 2, 2, side1C, side2C, pairs)
	defer e.Close()

	params := SearchParams{TopK: 1, NProbe: 2, MaxDifference: 10000, BatchLimit: 2000, PruningFactor: 3}
	_, _, err := e.Search(context.Background(), []float32{1, 0, 0}, params)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
