// Package model holds the plain data types shared across warmer's
// components: the physical extent map produced by extent extraction, and
// the warmed-stride bitmap consulted by the device core's second pass.
package model

import "sort"

// Extent is a contiguous run of physical bytes on a device that backs some
// logical range of a file. Offset and Length are both in bytes.
type Extent struct {
	Offset uint64
	Length uint64
}

// End returns the first byte past the extent.
func (e Extent) End() uint64 {
	return e.Offset + e.Length
}

// ExtentMap is an ordered, growable sequence of extents. It is built by
// concurrent walker/extractor workers (append-only, mutex-guarded by the
// caller) and then sorted and optionally merged before any I/O is issued.
type ExtentMap struct {
	extents []Extent
}

// NewExtentMap returns an empty map with room for n extents.
func NewExtentMap(n int) *ExtentMap {
	return &ExtentMap{extents: make([]Extent, 0, n)}
}

// Append adds one extent. Zero-length extents are rejected by the caller
// (ExtentExtractor never appends them); Append itself does not validate, to
// keep the hot append path allocation-free and branch-free.
func (m *ExtentMap) Append(e Extent) {
	m.extents = append(m.extents, e)
}

// Len returns the number of extents currently in the map.
func (m *ExtentMap) Len() int {
	return len(m.extents)
}

// At returns the i'th extent.
func (m *ExtentMap) At(i int) Extent {
	return m.extents[i]
}

// Slice returns the underlying extents. Callers must not retain a mutable
// reference across a subsequent Sort/Merge call.
func (m *ExtentMap) Slice() []Extent {
	return m.extents
}

// TotalBytes returns the sum of extent lengths.
func (m *ExtentMap) TotalBytes() uint64 {
	var total uint64
	for _, e := range m.extents {
		total += e.Length
	}
	return total
}

// Sort orders extents ascending by physical offset. Stable on ties, so that
// extents appended by different walker workers for overlapping regions keep
// their discovery order relative to one another.
func (m *ExtentMap) Sort() {
	sort.SliceStable(m.extents, func(i, j int) bool {
		return m.extents[i].Offset < m.extents[j].Offset
	})
}

// Merge coalesces consecutive extents that are physically adjacent
// (a.Offset+a.Length == b.Offset) as long as the combined length does not
// exceed maxBytes. It assumes the map is already sorted; callers that skip
// Sort first get undefined (but not unsafe) merge results.
//
// maxBytes == 0 disables merging entirely — Merge becomes a no-op. The
// tuned default elsewhere in this codebase is 16 MiB, chosen to stay within
// typical backend object granularity so a merge can't straddle an object
// boundary and amplify fetches.
func (m *ExtentMap) Merge(maxBytes uint64) {
	if maxBytes == 0 || len(m.extents) < 2 {
		return
	}
	out := m.extents[:1]
	for _, next := range m.extents[1:] {
		last := &out[len(out)-1]
		if last.Offset+last.Length == next.Offset && last.Length+next.Length <= maxBytes {
			last.Length += next.Length
			continue
		}
		out = append(out, next)
	}
	m.extents = out
}

// DefaultMergeMaxBytes is the tuned default passed to Merge when
// --merge-extents is set without a caller-specified cap.
const DefaultMergeMaxBytes = 16 * 1024 * 1024
