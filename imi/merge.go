package imi

import "sort"

// Merge combines all batch outputs and returns the K globally smallest by
// distance, ties broken by smaller id. The merge is commutative and
// associative over (distance, id) pairs under this tie-break rule, so
// output is deterministic regardless of the order batches complete in.
func Merge(batches [][]scored, k int) (distances []float32, ids []uint32) {
	var all []scored
	for _, b := range batches {
		all = append(all, b...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Distance != all[j].Distance {
			return all[i].Distance < all[j].Distance
		}
		return all[i].ID < all[j].ID
	})
	if k > len(all) {
		k = len(all)
	}
	distances = make([]float32, k)
	ids = make([]uint32, k)
	for i := 0; i < k; i++ {
		distances[i] = all[i].Distance
		ids[i] = all[i].ID
	}
	return distances, ids
}
