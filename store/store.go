// Package store provides the vector store collaborator the IMI engine
// queries against: a flat, append-only file of fixed-dimension float32
// records, addressed by contiguous id ranges. It is deliberately thin —
// the vector store is out of scope for the search engine itself (it is
// treated as an external collaborator) and exists here only so the engine
// has something real to read from.
package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"golang.org/x/exp/mmap"
)

const floatSize = 4

// ErrIoError tags a read failure against the vector store: opening,
// mapping, or reading the record file. Callers can retry or surface the
// failure; it is never a configuration or corruption problem.
var ErrIoError = errors.New("store: io error")

// VectorStore is the contract the IMI engine consumes: dimension and
// record-count metadata, plus contiguous block reads by id range.
type VectorStore interface {
	Dimension() int
	Count() int
	GetSequentialBlock(ctx context.Context, startID, endID uint32) ([][]float32, error)
	Close() error
}

// FileVectorStore memory-maps a record file of Count()*Dimension()
// little-endian float32 values, read-only, and serves sequential block
// reads as a single ReadAt against the mapping.
type FileVectorStore struct {
	reader *mmap.ReaderAt
	dim    int
	count  int
}

// NewFileVectorStore opens path as a read-only vector store of the given
// dimension. The record count is derived from the file size the way the
// source's VecDB._get_num_records does: fileSize / (dim * elementSize).
func NewFileVectorStore(path string, dim int) (*FileVectorStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("store: dimension must be positive, got %d", dim)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", ErrIoError, path, err)
	}
	recordSize := int64(dim * floatSize)
	if info.Size()%recordSize != 0 {
		return nil, fmt.Errorf("store: %s size %d is not a multiple of record size %d", path, info.Size(), recordSize)
	}
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %s: %v", ErrIoError, path, err)
	}
	return &FileVectorStore{
		reader: r,
		dim:    dim,
		count:  int(info.Size() / recordSize),
	}, nil
}

func (s *FileVectorStore) Dimension() int { return s.dim }
func (s *FileVectorStore) Count() int     { return s.count }

// GetSequentialBlock returns the rows in [startID, endID), contiguous in
// id order, as one ReadAt against the mapped file. The returned rows are
// newly allocated; callers may retain them past the call.
func (s *FileVectorStore) GetSequentialBlock(ctx context.Context, startID, endID uint32) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if endID < startID {
		return nil, fmt.Errorf("store: invalid range [%d,%d)", startID, endID)
	}
	if int(endID) > s.count {
		return nil, fmt.Errorf("store: range [%d,%d) exceeds record count %d", startID, endID, s.count)
	}
	n := int(endID - startID)
	rowBytes := s.dim * floatSize
	buf := make([]byte, n*rowBytes)
	off := int64(startID) * int64(rowBytes)
	if _, err := s.reader.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("%w: read block [%d,%d): %v", ErrIoError, startID, endID, err)
	}
	rows := make([][]float32, n)
	for i := 0; i < n; i++ {
		row := make([]float32, s.dim)
		base := i * rowBytes
		for d := 0; d < s.dim; d++ {
			bits := binary.LittleEndian.Uint32(buf[base+d*floatSize:])
			row[d] = math.Float32frombits(bits)
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *FileVectorStore) Close() error {
	return s.reader.Close()
}
