package imi

import (
	"context"
	"sort"

	"imivdb/basic"
	"imivdb/store"
)

// ExactSearch is a brute-force cosine nearest-neighbor search, adapted
// from the teacher repo's core/brute_force_search.go (Euclidean,
// in-memory []Vector) to cosine distance over a VectorStore. It serves as
// the reference for the recall property: at nprobe=C, pruning_factor=C^2,
// max_difference=N, batch_limit=unbounded, the IMI engine scores every
// vector except those in the one centroid pair the pruner leaves out
// (it keeps pruning_factor-1 pairs), and matches this exact search over
// the vectors it does score.
func ExactSearch(ctx context.Context, vs store.VectorStore, query []float32, topK int) (distances []float32, ids []uint32, err error) {
	rows, err := vs.GetSequentialBlock(ctx, 0, uint32(vs.Count()))
	if err != nil {
		return nil, nil, err
	}

	all := make([]scored, len(rows))
	for i, row := range rows {
		all[i] = scored{Distance: basic.CosineDistance(query, row), ID: uint32(i)}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Distance != all[j].Distance {
			return all[i].Distance < all[j].Distance
		}
		return all[i].ID < all[j].ID
	})

	if topK > len(all) {
		topK = len(all)
	}
	distances = make([]float32, topK)
	ids = make([]uint32, topK)
	for i := 0; i < topK; i++ {
		distances[i] = all[i].Distance
		ids[i] = all[i].ID
	}
	return distances, ids, nil
}
