package store

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Writer appends fixed-dimension float32 records to a new vector store
// file. It is build/test fixture infrastructure only — the engine itself
// never writes to the vector store (non-goals: updates/deletes).
type Writer struct {
	file *os.File
	dim  int
}

func NewWriter(path string, dim int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("store: create %s: %w", path, err)
	}
	return &Writer{file: f, dim: dim}, nil
}

func (w *Writer) WriteVector(values []float32) error {
	if len(values) != w.dim {
		return fmt.Errorf("store: expected %d values, got %d", w.dim, len(values))
	}
	buf := make([]byte, w.dim*floatSize)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*floatSize:], math.Float32bits(v))
	}
	_, err := w.file.Write(buf)
	return err
}

func (w *Writer) Close() error {
	return w.file.Close()
}
