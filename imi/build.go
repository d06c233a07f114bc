package imi

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"imivdb/centroid"
)

// assignBatchSize bounds peak memory during assignment by processing
// vectors in groups rather than all at once.
const assignBatchSize = 500_000

// BuildResult holds the in-memory artifacts of a build, ready either to
// be wrapped directly into a queryable Engine (OpenBuilt) or persisted to
// disk (SerializeIndex).
type BuildResult struct {
	Side1, Side2 *centroid.Set
	Offsets      *OffsetTable
	IDRun        []uint32
}

// Build trains the two-subspace codebook, assigns every vector to its
// centroid pair in batches, and packs the resulting inverted lists
// directly into the dense OffsetTable + concatenated id run layout —
// never through an intermediate dict-of-lists.
func Build(cfg Config, vectors [][]float32, epochs int, seed int64) (*BuildResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	side1, side2, err := centroid.TrainTwoSubspace(vectors, cfg.CentroidCount, cfg.Dim, seed, epochs)
	if err != nil {
		return nil, err
	}

	c := cfg.CentroidCount
	lists := make([][]uint32, c*c)
	for start := 0; start < len(vectors); start += assignBatchSize {
		end := start + assignBatchSize
		if end > len(vectors) {
			end = len(vectors)
		}
		for i := start; i < end; i++ {
			a, b := centroid.AssignCosine(vectors[i], side1, side2)
			key := a*c + b
			lists[key] = append(lists[key], uint32(i))
		}
	}

	offsets := NewOffsetTable(c)
	idRun := make([]uint32, 0, len(vectors))
	for i := 0; i < c; i++ {
		for j := 0; j < c; j++ {
			list := lists[i*c+j]
			start := uint32(len(idRun))
			idRun = append(idRun, list...)
			offsets.set(CentroidPair{I: i, J: j}, start, uint32(len(list)))
		}
	}

	return &BuildResult{Side1: side1, Side2: side2, Offsets: offsets, IDRun: idRun}, nil
}

// SerializeIndex writes a BuildResult to disk as centroids_{shardTag},
// imi_index_{shardTag}/index_offsets.bin, and
// imi_index_{shardTag}/concatenated_values.bin.
func SerializeIndex(dir, shardTag string, r *BuildResult) error {
	centroidsPath := filepath.Join(dir, fmt.Sprintf("centroids_%s", shardTag))
	cf, err := os.Create(centroidsPath)
	if err != nil {
		return fmt.Errorf("imi: create centroids file: %w", err)
	}
	if err := centroid.WriteTwo(cf, r.Side1, r.Side2); err != nil {
		_ = cf.Close()
		return err
	}
	if err := cf.Close(); err != nil {
		return err
	}

	indexDir := filepath.Join(dir, fmt.Sprintf("imi_index_%s", shardTag))
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return fmt.Errorf("imi: mkdir %s: %w", indexDir, err)
	}

	offsetsPath := filepath.Join(indexDir, "index_offsets.bin")
	of, err := os.Create(offsetsPath)
	if err != nil {
		return fmt.Errorf("imi: create offsets file: %w", err)
	}
	if err := r.Offsets.WriteTo(of); err != nil {
		_ = of.Close()
		return err
	}
	if err := of.Close(); err != nil {
		return err
	}

	idsPath := filepath.Join(indexDir, "concatenated_values.bin")
	idf, err := os.Create(idsPath)
	if err != nil {
		return fmt.Errorf("imi: create id run file: %w", err)
	}
	if err := binary.Write(idf, binary.LittleEndian, r.IDRun); err != nil {
		_ = idf.Close()
		return err
	}
	return idf.Close()
}
