package imi

import (
	"imivdb/basic"
	"imivdb/centroid"
)

// Plan splits the query into its two halves, computes per-subspace
// centroid distances, and returns the nprobe^2 best centroid-sum
// candidates in strictly ascending order of D[i,j], ties broken by
// ascending flat index i*C+j.
func Plan(query []float32, side1, side2 *centroid.Set, nprobe int) []CentroidPair {
	subDim := side1.Dim
	q1 := query[:subDim]
	q2 := query[subDim:]

	d1 := make([]float64, side1.C)
	for i := 0; i < side1.C; i++ {
		d1[i] = float64(basic.CosineDistance(q1, side1.At(i)))
	}
	d2 := make([]float64, side2.C)
	for j := 0; j < side2.C; j++ {
		d2[j] = float64(basic.CosineDistance(q2, side2.At(j)))
	}

	return selectTopPairs(d1, d2, side1.C, nprobe)
}
