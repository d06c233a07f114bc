package imi

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"golang.org/x/exp/mmap"
)

const idSize = 4

// idRunFile is a memory-mapped, read-only view over concatenated_values.bin,
// the id run file backing every inverted list. Window copies the requested
// ids out of the mapping into a newly allocated slice; it does not return
// a view that aliases the mapped bytes.
type idRunFile struct {
	reader *mmap.ReaderAt
	size   int64
}

func openIDRunFile(path string) (*idRunFile, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open id run file %s: %v", ErrIoError, path, err)
	}
	return &idRunFile{reader: r, size: int64(r.Len())}, nil
}

// Window decodes the little-endian uint32 ids in [start, start+length)
// record units (not bytes) from the mapped file, surfacing
// ErrCorruptIndex if the requested range runs past the file.
func (f *idRunFile) Window(start, length uint32) ([]uint32, error) {
	if length == 0 {
		return nil, nil
	}
	byteStart := int64(start) * idSize
	byteEnd := byteStart + int64(length)*idSize
	if byteEnd > f.size {
		return nil, fmt.Errorf("%w: window [%d,%d) exceeds id run file size %d", ErrCorruptIndex, byteStart, byteEnd, f.size)
	}
	buf := make([]byte, byteEnd-byteStart)
	if _, err := f.reader.ReadAt(buf, byteStart); err != nil {
		return nil, fmt.Errorf("%w: read id window: %v", ErrIoError, err)
	}
	ids := make([]uint32, length)
	for i := range ids {
		ids[i] = binary.LittleEndian.Uint32(buf[i*idSize:])
	}
	return ids, nil
}

func (f *idRunFile) totalIDs() int {
	if f.size%idSize != 0 {
		return -1
	}
	total := f.size / idSize
	if total > math.MaxInt32 {
		return -1
	}
	return int(total)
}

func (f *idRunFile) Close() error {
	return f.reader.Close()
}

// createIDRunFile writes ids to path as the little-endian concatenated id
// run and opens it as an idRunFile. Used by the build path's tests and by
// fixtures that want a real mmap-backed window without going through the
// full Build/SerializeIndex pipeline.
func createIDRunFile(path string, ids []uint32) (*idRunFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := binary.Write(f, binary.LittleEndian, ids); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return openIDRunFile(path)
}
