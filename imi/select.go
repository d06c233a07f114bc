package imi

import (
	"container/heap"
	"sort"
)

// selectTopPairs forms the outer sum D[i,j] = d1[i] + d2[j] without
// materializing it element by element, and returns the nprobe^2 smallest
// entries in ascending order, ties broken by ascending flat index i*C+j.
//
// Rather than allocate and scan a C*C matrix, this sorts d1 and d2 once
// (O(C log C)) and walks the classic "k smallest pair sums from two
// sorted arrays" frontier with a heap seeded at the two best individual
// centroids and expanded lazily — the sum matrix is never built.
func selectTopPairs(d1, d2 []float64, c, nprobe int) []CentroidPair {
	count := nprobe * nprobe
	if count > c*c {
		count = c * c
	}

	order1 := argsort(d1)
	order2 := argsort(d2)

	h := &pairHeap{}
	visited := make(map[[2]int]bool)

	push := func(a, b int) {
		if a >= len(order1) || b >= len(order2) {
			return
		}
		key := [2]int{a, b}
		if visited[key] {
			return
		}
		visited[key] = true
		i, j := order1[a], order2[b]
		heap.Push(h, pairHeapNode{
			sum:   d1[i] + d2[j],
			a:     a,
			b:     b,
			origI: i,
			origJ: j,
		})
	}

	push(0, 0)

	result := make([]CentroidPair, 0, count)
	for len(result) < count && h.Len() > 0 {
		top := heap.Pop(h).(pairHeapNode)
		result = append(result, CentroidPair{I: top.origI, J: top.origJ})
		push(top.a+1, top.b)
		push(top.a, top.b+1)
	}
	return result
}

type pairHeapNode struct {
	sum   float64
	a, b  int
	origI int
	origJ int
}

type pairHeap []pairHeapNode

func (h pairHeap) Len() int { return len(h) }
func (h pairHeap) Less(i, j int) bool {
	if h[i].sum != h[j].sum {
		return h[i].sum < h[j].sum
	}
	return h[i].origI*1_000_000_007+h[i].origJ < h[j].origI*1_000_000_007+h[j].origJ
}
func (h pairHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *pairHeap) Push(x interface{}) {
	*h = append(*h, x.(pairHeapNode))
}
func (h *pairHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func argsort(d []float64) []int {
	idx := make([]int, len(d))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return d[idx[i]] < d[idx[j]]
	})
	return idx
}
