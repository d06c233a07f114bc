package imi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imivdb/centroid"
)

func TestPlanNProbeOneYieldsSinglePair(t *testing.T) {
	side1 := centroid.NewSet(2, 1)
	side2 := centroid.NewSet(2, 1)
	copy(side1.At(0), []float32{1})
	copy(side1.At(1), []float32{-1})
	copy(side2.At(0), []float32{1})
	copy(side2.At(1), []float32{-1})

	pairs := Plan([]float32{1, 0}, side1, side2, 1)
	require.Len(t, pairs, 1)
	assert.Equal(t, CentroidPair{I: 0, J: 0}, pairs[0])
}

// A query equal to one centroid pair's concatenation must select that
// pair first.
func TestPlanQueryMatchingCentroidConcatenationSelectsItFirst(t *testing.T) {
	side1 := centroid.NewSet(3, 2)
	side2 := centroid.NewSet(3, 2)
	copy(side1.At(0), []float32{1, 0})
	copy(side1.At(1), []float32{0, 1})
	copy(side1.At(2), []float32{-1, 0})
	copy(side2.At(0), []float32{0, -1})
	copy(side2.At(1), []float32{1, 1})
	copy(side2.At(2), []float32{-1, -1})

	// Query equals the concatenation of side1 centroid 1 and side2 centroid 2.
	query := []float32{0, 1, -1, -1}
	pairs := Plan(query, side1, side2, 2)
	require.NotEmpty(t, pairs)
	assert.Equal(t, CentroidPair{I: 1, J: 2}, pairs[0])
}
