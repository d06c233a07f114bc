package imi

import "sort"

// Assemble gathers the id windows for the kept centroid pairs,
// concatenates them, and sorts ascending. Sorting is mandatory — the
// batch scorer relies on contiguous id ranges to issue sequential block
// reads.
func Assemble(pairs []CentroidPair, table *OffsetTable, ids *idRunFile) ([]uint32, error) {
	var out []uint32
	for _, p := range pairs {
		start, length := table.Lookup(p)
		window, err := ids.Window(start, length)
		if err != nil {
			return nil, err
		}
		out = append(out, window...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
