package imi

import (
	"sort"

	"imivdb/basic"
	"imivdb/centroid"
)

// Prune re-ranks the planner's pairs by the distance between the query
// and the concatenated centroid pair, and retains the best
// pruningFactor-1 (the "-1" is deliberate, preserved verbatim from the
// reference behavior this engine targets). If pruningFactor is 1, zero
// pairs are kept and the result is empty.
func Prune(query []float32, side1, side2 *centroid.Set, pairs []CentroidPair, pruningFactor int) []CentroidPair {
	keepCount := pruningFactor - 1
	if keepCount > len(pairs) {
		keepCount = len(pairs)
	}
	if keepCount <= 0 {
		return nil
	}

	type scored struct {
		pair CentroidPair
		dist float32
	}
	scoredPairs := make([]scored, len(pairs))
	rep := make([]float32, len(query))
	for i, p := range pairs {
		copy(rep[:side1.Dim], side1.At(p.I))
		copy(rep[side1.Dim:], side2.At(p.J))
		scoredPairs[i] = scored{pair: p, dist: basic.CosineDistance(query, rep)}
	}

	sort.SliceStable(scoredPairs, func(i, j int) bool {
		return scoredPairs[i].dist < scoredPairs[j].dist
	})

	kept := make([]CentroidPair, keepCount)
	for i := 0; i < keepCount; i++ {
		kept[i] = scoredPairs[i].pair
	}
	return kept
}
