package centroid

import (
	"log"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"imivdb/basic"
)

// TrainTwoSubspace trains the two coarse sub-quantizers: split every
// vector into two halves of width dim/2 and run k-means independently on
// each half.
//
// The source trains k-means under Euclidean distance but assigns and
// queries under cosine distance. This is a deliberate asymmetry, not an
// oversight: TrainTwoSubspace preserves it (rather than L2-normalizing
// everything so the two metrics coincide) so that centroid files produced
// here stay bit-compatible with the reference layout. Training uses
// EuclidDistance; AssignCosine (and everything downstream of it) uses
// CosineDistance.
func TrainTwoSubspace(vectors [][]float32, c, dim int, seed int64, epochs int) (side1, side2 *Set, err error) {
	subDim := dim / 2
	sub1 := make([][]float32, len(vectors))
	sub2 := make([][]float32, len(vectors))
	for i, v := range vectors {
		sub1[i] = v[:subDim]
		sub2[i] = v[subDim:]
	}

	rng := rand.New(rand.NewSource(seed))
	side1 = kmeansEuclidean(sub1, c, subDim, epochs, rng)
	side2 = kmeansEuclidean(sub2, c, subDim, epochs, rng)
	return side1, side2, nil
}

// kmeansEuclidean runs Lloyd's algorithm under Euclidean distance,
// generalizing core/pq.go's kmeans/initializeCentroids/computeCentroids/
// centroidsEqual helpers from m arbitrary subvectors to one subspace at a
// time, and from []Centroid to the dense Set representation.
func kmeansEuclidean(vectors [][]float32, k, dim, epochs int, rng *rand.Rand) *Set {
	centroids := initializeCentroids(vectors, k, dim, rng)

	for iteration := 0; iteration < epochs; iteration++ {
		if iteration%10 == 0 {
			log.Printf("k-means iteration: %d\n", iteration)
		}
		assignments := assignToNearestEuclidean(vectors, centroids)
		next := computeCentroids(assignments, vectors, k, dim, rng)

		if centroidsEqual(centroids, next) {
			log.Println("centroids converged")
			centroids = next
			break
		}
		centroids = next
	}
	return centroids
}

func initializeCentroids(vectors [][]float32, k, dim int, rng *rand.Rand) *Set {
	order := rng.Perm(len(vectors))
	s := NewSet(k, dim)
	for i := 0; i < k; i++ {
		s.set(i, vectors[order[i%len(order)]])
	}
	return s
}

func assignToNearestEuclidean(vectors [][]float32, centroids *Set) [][]int {
	assignments := make([][]int, centroids.C)
	for vi, vec := range vectors {
		minDist := float32(-1)
		minIdx := 0
		for ci := 0; ci < centroids.C; ci++ {
			d := basic.EuclidDistance(vec, centroids.At(ci))
			if minDist < 0 || d < minDist {
				minDist = d
				minIdx = ci
			}
		}
		assignments[minIdx] = append(assignments[minIdx], vi)
	}
	return assignments
}

func computeCentroids(assignments [][]int, vectors [][]float32, k, dim int, rng *rand.Rand) *Set {
	next := NewSet(k, dim)
	for idx := 0; idx < k; idx++ {
		members := assignments[idx]
		if len(members) == 0 {
			// Re-seed empty clusters from a random vector, same as
			// core/pq.go's computeCentroids.
			next.set(idx, vectors[rng.Intn(len(vectors))])
			continue
		}
		sum := make([]float64, dim)
		wide := make([]float64, dim)
		for _, vi := range members {
			for d, val := range vectors[vi] {
				wide[d] = float64(val)
			}
			floats.Add(sum, wide)
		}
		floats.Scale(1/float64(len(members)), sum)
		mean := make([]float32, dim)
		for d, val := range sum {
			mean[d] = float32(val)
		}
		next.set(idx, mean)
	}
	return next
}

func centroidsEqual(a, b *Set) bool {
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			return false
		}
	}
	return true
}

// AssignCosine computes a vector's side-1 and side-2 centroid indices
// using cosine distance to the respective centroid set: ties broken by
// lowest centroid index (Set.Nearest already does this by scanning in
// ascending order and only replacing on a strictly smaller distance).
func AssignCosine(v []float32, side1, side2 *Set) (a, b int) {
	subDim := side1.Dim
	a, _ = side1.Nearest(v[:subDim])
	b, _ = side2.Nearest(v[subDim:])
	return a, b
}
