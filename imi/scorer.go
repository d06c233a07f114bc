package imi

import (
	"container/heap"
	"context"
	"sort"

	"imivdb/store"
)

// scored pairs a candidate id with its distance to the query.
type scored struct {
	Distance float32
	ID       uint32
}

// maxHeap keeps the largest distance at the root so the smallest K can be
// maintained with a single Pop+Push per displaced candidate, the same
// idiom core/pq.go's MaxHeap and core/ball_tree.go's DistanceHeap use for
// top-k bookkeeping.
type maxHeap []scored

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].Distance > h[j].Distance }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(scored)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// batchNumbers splits sorted candidate ids into batches: starting at
// ids[0], the next batch is the maximal prefix of the remaining tail
// whose id span is at most maxDifference, i.e. the half-open interval
// [ids[start], ids[start]+maxDifference). At most batchLimit batches are
// emitted; any remaining ids are dropped as a deliberate work cap.
func batchNumbers(ids []uint32, maxDifference uint32, batchLimit int) [][]uint32 {
	var batches [][]uint32
	start := 0
	for start < len(ids) && len(batches) < batchLimit {
		limit := ids[start] + maxDifference
		end := start
		for end < len(ids) && ids[end] < limit {
			end++
		}
		batches = append(batches, ids[start:end])
		start = end
	}
	return batches
}

// BatchScorer reads sequential vector blocks and scores candidate
// batches.
type BatchScorer struct {
	Store  store.VectorStore
	Kernel ScoreKernel
	Pool   WorkerPool
}

// Score dispatches one task per batch to the worker pool; each task
// issues a single sequential block read, gathers the requested rows,
// scores them, and keeps the batch-local top-K. Batches may complete in
// any order — results are merged by the caller (Merge), not here.
func (s *BatchScorer) Score(ctx context.Context, query []float32, candidateIDs []uint32, topK, maxDifference, batchLimit int) ([][]scored, error) {
	batches := batchNumbers(candidateIDs, uint32(maxDifference), batchLimit)
	results := make([][]scored, len(batches))

	tasks := make([]func(ctx context.Context) error, len(batches))
	for i, batch := range batches {
		i, batch := i, batch
		tasks[i] = func(ctx context.Context) error {
			out, err := s.scoreBatch(ctx, query, batch, topK)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		}
	}

	if err := s.Pool.Run(ctx, tasks); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *BatchScorer) scoreBatch(ctx context.Context, query []float32, batch []uint32, topK int) ([]scored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	firstID := batch[0]
	lastID := batch[len(batch)-1]
	rows, err := s.Store.GetSequentialBlock(ctx, firstID, lastID+1)
	if err != nil {
		return nil, err
	}

	if len(batch) <= topK {
		out := make([]scored, len(batch))
		for i, id := range batch {
			row := rows[id-firstID]
			out[i] = scored{Distance: s.Kernel.Distance(query, row), ID: id}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
		return out, nil
	}

	h := &maxHeap{}
	heap.Init(h)
	for _, id := range batch {
		row := rows[id-firstID]
		d := s.Kernel.Distance(query, row)
		if h.Len() < topK {
			heap.Push(h, scored{Distance: d, ID: id})
		} else if top := (*h)[0]; d < top.Distance {
			heap.Pop(h)
			heap.Push(h, scored{Distance: d, ID: id})
		}
	}

	out := make([]scored, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(scored)
	}
	return out, nil
}
