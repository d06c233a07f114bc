package imi

import (
	"encoding/binary"
	"fmt"
	"io"
)

// CentroidPair is an ordered (i, j) pair of centroid indices, one per
// subspace. Its flat key is i*C + j.
type CentroidPair struct {
	I, J int
}

func (p CentroidPair) key(c int) int { return p.I*c + p.J }

// offsetRecord is one (start, length) entry in the OffsetTable, stored as
// two little-endian uint32s on disk.
type offsetRecord struct {
	Start  uint32
	Length uint32
}

// OffsetTable is the dense C^2 array of (start, length) records mapping
// each centroid pair to its window in the id-run file. It is fully
// resident in memory for the life of the index handle, per the data
// model's ownership rule.
type OffsetTable struct {
	C       int
	records []offsetRecord
}

func NewOffsetTable(c int) *OffsetTable {
	return &OffsetTable{C: c, records: make([]offsetRecord, c*c)}
}

func (t *OffsetTable) set(pair CentroidPair, start, length uint32) {
	t.records[pair.key(t.C)] = offsetRecord{Start: start, Length: length}
}

// Lookup returns the (start, length) window for a centroid pair.
func (t *OffsetTable) Lookup(pair CentroidPair) (start, length uint32) {
	r := t.records[pair.key(t.C)]
	return r.Start, r.Length
}

// WriteTo serializes the table as C^2 records of two little-endian
// uint32s, record k corresponding to pair (k/C, k mod C).
func (t *OffsetTable) WriteTo(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, t.records)
}

// ReadOffsetTable loads an index_offsets.bin file. It validates the
// record count against c*c and the running total of length fields,
// surfacing ErrCorruptIndex when either check fails.
func ReadOffsetTable(r io.Reader, c int, totalIDs int) (*OffsetTable, error) {
	t := NewOffsetTable(c)
	if err := binary.Read(r, binary.LittleEndian, t.records); err != nil {
		return nil, fmt.Errorf("%w: read offset table: %v", ErrCorruptIndex, err)
	}
	var extra [1]byte
	if n, _ := io.ReadFull(r, extra[:]); n > 0 {
		return nil, fmt.Errorf("%w: offset table has more than %d records", ErrCorruptIndex, c*c)
	}
	sum := uint32(0)
	wantStart := uint32(0)
	for i, rec := range t.records {
		if rec.Start != wantStart {
			return nil, fmt.Errorf("%w: record %d start %d != expected %d", ErrCorruptIndex, i, rec.Start, wantStart)
		}
		sum += rec.Length
		wantStart += rec.Length
	}
	if totalIDs >= 0 && int(sum) != totalIDs {
		return nil, fmt.Errorf("%w: total id count %d != expected %d", ErrCorruptIndex, sum, totalIDs)
	}
	return t, nil
}
