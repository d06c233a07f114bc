package imi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imivdb/basic"
)

func TestBatchNumbersWindowing(t *testing.T) {
	ids := []uint32{0, 5, 9, 10, 25, 26}
	batches := batchNumbers(ids, 10, 100)
	// window [0,10): 0,5,9 ; window [10,20): 10 ; window [25,35): 25,26
	require.Len(t, batches, 3)
	assert.Equal(t, []uint32{0, 5, 9}, batches[0])
	assert.Equal(t, []uint32{10}, batches[1])
	assert.Equal(t, []uint32{25, 26}, batches[2])
}

// batch_limit=1 with candidates spanning more than one max_difference
// window means only the first window is scored and the remainder is
// silently dropped, not an error.
func TestBatchNumbersRespectsBatchLimit(t *testing.T) {
	ids := []uint32{0, 5, 20, 21}
	batches := batchNumbers(ids, 10, 1)
	require.Len(t, batches, 1)
	assert.Equal(t, []uint32{0, 5}, batches[0])
}

func TestBatchScorerDropsRemainderBeyondBatchLimit(t *testing.T) {
	dim := 2
	rows := [][]float32{
		{1, 0}, // id 0
		{1, 0}, // id 1 -> not a candidate
		{0, 1}, // id 2
		{1, 0}, // id 3 -> not a candidate
		{1, 0}, // id 4 -> not a candidate
		{0, 1}, // id 5
		{1, 0}, // id 6
	}
	vs := writeVectorStore(t, rows, dim)

	scorer := &BatchScorer{Store: vs, Kernel: Float32Kernel{}, Pool: NewFixedPool(2)}
	candidateIDs := []uint32{0, 5, 6}
	batches, err := scorer.Score(context.Background(), []float32{1, 0}, candidateIDs, 5, 5, 1)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	var ids []uint32
	for _, s := range batches[0] {
		ids = append(ids, s.ID)
	}
	// candidates 5 and 6 fall outside [0,5) and batch_limit=1 caps at one window.
	assert.ElementsMatch(t, []uint32{0}, ids)
}

func TestBatchScorerKeepsBatchLocalTopKViaHeap(t *testing.T) {
	dim := 2
	rows := make([][]float32, 0)
	for i := 0; i < 20; i++ {
		v := basic.GenerateRandomVector(int64(i), dim, -1, 1).Values
		rows = append(rows, v)
	}
	rows[3] = []float32{1, 0}
	vs := writeVectorStore(t, rows, dim)

	candidateIDs := make([]uint32, 20)
	for i := range candidateIDs {
		candidateIDs[i] = uint32(i)
	}

	scorer := &BatchScorer{Store: vs, Kernel: Float32Kernel{}, Pool: NewFixedPool(4)}
	batches, err := scorer.Score(context.Background(), []float32{1, 0}, candidateIDs, 1, 10000, 10)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 1)
	assert.Equal(t, uint32(3), batches[0][0].ID)
}
