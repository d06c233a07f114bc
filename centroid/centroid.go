// Package centroid implements the coarse sub-quantizer codebooks used by
// the IMI engine: two independent sets of C centroids, one per D/2-wide
// subspace, trained once at build time and consulted read-only at query
// time.
package centroid

import (
	"encoding/binary"
	"fmt"
	"io"

	"imivdb/basic"
)

// Set is a dense, row-major array of C centroids of width Dim, matching
// the "dense array, read-only at query time" invariant from the data
// model rather than the teacher's []Centroid-of-pointers representation.
type Set struct {
	C    int
	Dim  int
	Data []float32 // len == C*Dim
}

func NewSet(c, dim int) *Set {
	return &Set{C: c, Dim: dim, Data: make([]float32, c*dim)}
}

// At returns a view of the i-th centroid. The returned slice aliases Set's
// backing array and must not be retained past mutation of the Set.
func (s *Set) At(i int) []float32 {
	return s.Data[i*s.Dim : (i+1)*s.Dim]
}

func (s *Set) set(i int, v []float32) {
	copy(s.At(i), v)
}

// Nearest returns the index of the centroid closest to v under cosine
// distance and that distance, breaking ties by the lowest centroid index
// per the data model's tie-break rule.
func (s *Set) Nearest(v []float32) (int, float32) {
	best := -1
	var bestDist float32
	for i := 0; i < s.C; i++ {
		d := basic.CosineDistance(v, s.At(i))
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, bestDist
}

// header precedes the two centroid arrays in the centroids_{N}M file:
// C and Dim as little-endian uint32, per spec.
type header struct {
	C   uint32
	Dim uint32
}

// WriteTwo serializes side1 and side2 to w as a single centroids_{N}M
// file: a small header recording C and D, followed by the two dense
// (C, D/2) float32 arrays in row-major order, side-1 then side-2.
func WriteTwo(w io.Writer, side1, side2 *Set) error {
	if side1.C != side2.C || side1.Dim != side2.Dim {
		return fmt.Errorf("centroid: side1/side2 shape mismatch (%d,%d) vs (%d,%d)",
			side1.C, side1.Dim, side2.C, side2.Dim)
	}
	h := header{C: uint32(side1.C), Dim: uint32(side1.Dim * 2)}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("centroid: write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, side1.Data); err != nil {
		return fmt.Errorf("centroid: write side1: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, side2.Data); err != nil {
		return fmt.Errorf("centroid: write side2: %w", err)
	}
	return nil
}

// ReadTwo loads a centroids_{N}M file written by WriteTwo.
func ReadTwo(r io.Reader) (side1, side2 *Set, err error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, nil, fmt.Errorf("centroid: read header: %w", err)
	}
	if h.Dim%2 != 0 {
		return nil, nil, fmt.Errorf("centroid: dimension %d is not even", h.Dim)
	}
	subDim := int(h.Dim / 2)
	c := int(h.C)

	side1 = NewSet(c, subDim)
	if err := binary.Read(r, binary.LittleEndian, side1.Data); err != nil {
		return nil, nil, fmt.Errorf("centroid: read side1: %w", err)
	}
	side2 = NewSet(c, subDim)
	if err := binary.Read(r, binary.LittleEndian, side2.Data); err != nil {
		return nil, nil, fmt.Errorf("centroid: read side2: %w", err)
	}
	return side1, side2, nil
}
