// Package imi implements the Inverted Multi-Index search engine: the
// two-subspace coarse quantizer, its on-disk inverted-list layout, the
// two-stage candidate selection, and the batched concurrent scoring path
// over memory-mapped raw vectors.
package imi

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"imivdb/centroid"
	"imivdb/store"
)

// Engine is the index handle: immutable after Open/OpenBuilt, safe for
// concurrent queries. The OffsetTable and centroid sets are shared
// read-only across goroutines; the id-run file and vector store are
// memory-mapped read-only views, so no locking is required.
type Engine struct {
	cfg   Config
	state State

	side1, side2 *centroid.Set
	offsets      *OffsetTable
	ids          *idRunFile
	store        store.VectorStore
	scorer       *BatchScorer
}

// Open loads a previously persisted index: centroids, offset table and
// id-run mapping, wiring them to vs (the vector store collaborator) via a
// BatchScorer using kernel and pool. The resulting handle is in state
// Loaded.
func Open(cfg Config, vs store.VectorStore, kernel ScoreKernel, pool WorkerPool) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	centroidsPath := filepath.Join(cfg.IndexDir, fmt.Sprintf("centroids_%s", cfg.ShardTag))
	f, err := os.Open(centroidsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open centroids: %v", ErrIoError, err)
	}
	side1, side2, err := centroid.ReadTwo(f)
	_ = f.Close()
	if err != nil {
		return nil, err
	}
	if side1.C != cfg.CentroidCount {
		return nil, fmt.Errorf("%w: centroid file has C=%d, config wants %d", ErrCorruptIndex, side1.C, cfg.CentroidCount)
	}
	if side2.Dim != side1.Dim || side1.Dim*2 != cfg.Dim {
		return nil, fmt.Errorf("%w: centroid file has dim=%d+%d, config wants %d", ErrCorruptIndex, side1.Dim, side2.Dim, cfg.Dim)
	}

	indexSubdir := filepath.Join(cfg.IndexDir, fmt.Sprintf("imi_index_%s", cfg.ShardTag))
	idsFile, err := openIDRunFile(filepath.Join(indexSubdir, "concatenated_values.bin"))
	if err != nil {
		return nil, err
	}

	offsetsFile, err := os.Open(filepath.Join(indexSubdir, "index_offsets.bin"))
	if err != nil {
		_ = idsFile.Close()
		return nil, fmt.Errorf("%w: open offsets: %v", ErrIoError, err)
	}
	offsets, err := ReadOffsetTable(offsetsFile, cfg.CentroidCount, idsFile.totalIDs())
	_ = offsetsFile.Close()
	if err != nil {
		_ = idsFile.Close()
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		state:   Loaded,
		side1:   side1,
		side2:   side2,
		offsets: offsets,
		ids:     idsFile,
		store:   vs,
		scorer:  &BatchScorer{Store: vs, Kernel: kernel, Pool: pool},
	}
	return e, nil
}

// OpenBuilt wraps a just-built, in-memory index (state Populated) into a
// queryable Engine without a round trip through disk — used right after
// Build to serve queries from the same process, and by tests.
func OpenBuilt(cfg Config, side1, side2 *centroid.Set, offsets *OffsetTable, ids *idRunFile, vs store.VectorStore, kernel ScoreKernel, pool WorkerPool) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:     cfg,
		state:   Populated,
		side1:   side1,
		side2:   side2,
		offsets: offsets,
		ids:     ids,
		store:   vs,
		scorer:  &BatchScorer{Store: vs, Kernel: kernel, Pool: pool},
	}, nil
}

// State reports the handle's current lifecycle state.
func (e *Engine) State() State { return e.state }

// Search runs the query pipeline: plan, prune, assemble, score, merge. A
// query that yields zero candidates after pruning and batching is not an
// error — it returns an empty top-K.
func (e *Engine) Search(ctx context.Context, query []float32, params SearchParams) (distances []float32, ids []uint32, err error) {
	if !e.state.queryable() {
		return nil, nil, fmt.Errorf("%w: state is %s", ErrIndexNotReady, e.state)
	}
	params = e.cfg.applyDefaults(params)
	if err := params.validate(e.cfg.CentroidCount); err != nil {
		return nil, nil, err
	}
	if len(query) != e.cfg.Dim {
		return nil, nil, fmt.Errorf("%w: query dim %d != index dim %d", ErrInvalidConfig, len(query), e.cfg.Dim)
	}

	pairs := Plan(query, e.side1, e.side2, params.NProbe)
	pruned := Prune(query, e.side1, e.side2, pairs, params.PruningFactor)
	if len(pruned) == 0 {
		return nil, nil, nil
	}

	candidateIDs, err := Assemble(pruned, e.offsets, e.ids)
	if err != nil {
		return nil, nil, err
	}
	if len(candidateIDs) == 0 {
		return nil, nil, nil
	}

	batches, err := e.scorer.Score(ctx, query, candidateIDs, params.TopK, params.MaxDifference, params.BatchLimit)
	if err != nil {
		return nil, nil, err
	}

	distances, ids = Merge(batches, params.TopK)
	return distances, ids, nil
}

// Close releases the engine's memory-mapped views and underlying vector
// store on every exit path.
func (e *Engine) Close() error {
	var firstErr error
	if e.ids != nil {
		if err := e.ids.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
