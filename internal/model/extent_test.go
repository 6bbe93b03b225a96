package model

import "testing"

func extents(pairs ...[2]uint64) []Extent {
	out := make([]Extent, len(pairs))
	for i, p := range pairs {
		out[i] = Extent{Offset: p[0], Length: p[1]}
	}
	return out
}

func buildMap(pairs ...[2]uint64) *ExtentMap {
	m := NewExtentMap(len(pairs))
	for _, e := range extents(pairs...) {
		m.Append(e)
	}
	return m
}

func assertEqual(t *testing.T, got, want []Extent) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("extent %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSortAndMerge(t *testing.T) {
	m := buildMap([2]uint64{200, 100}, [2]uint64{0, 100}, [2]uint64{100, 100}, [2]uint64{400, 50})

	m.Sort()
	assertEqual(t, m.Slice(), extents([2]uint64{0, 100}, [2]uint64{100, 100}, [2]uint64{200, 100}, [2]uint64{400, 50}))

	m.Merge(1_000_000)
	assertEqual(t, m.Slice(), extents([2]uint64{0, 300}, [2]uint64{400, 50}))
}

func TestSortWithoutMerge(t *testing.T) {
	m := buildMap([2]uint64{200, 100}, [2]uint64{0, 100}, [2]uint64{100, 100}, [2]uint64{400, 50})
	m.Sort()
	assertEqual(t, m.Slice(), extents([2]uint64{0, 100}, [2]uint64{100, 100}, [2]uint64{200, 100}, [2]uint64{400, 50}))
}

func TestMergeCap(t *testing.T) {
	m := buildMap([2]uint64{0, 10_000_000}, [2]uint64{10_000_000, 10_000_000})
	m.Sort()
	m.Merge(DefaultMergeMaxBytes)
	assertEqual(t, m.Slice(), extents([2]uint64{0, 10_000_000}, [2]uint64{10_000_000, 10_000_000}))
}

func TestMergeZeroDisabled(t *testing.T) {
	m := buildMap([2]uint64{0, 100}, [2]uint64{100, 100})
	m.Sort()
	m.Merge(0)
	assertEqual(t, m.Slice(), extents([2]uint64{0, 100}, [2]uint64{100, 100}))
}

func TestMergeIdempotent(t *testing.T) {
	m := buildMap([2]uint64{200, 100}, [2]uint64{0, 100}, [2]uint64{100, 100}, [2]uint64{400, 50})
	m.Sort()
	m.Merge(1_000_000)
	once := append([]Extent(nil), m.Slice()...)
	m.Merge(1_000_000)
	assertEqual(t, m.Slice(), once)
}

func TestSortStableOnAlreadySorted(t *testing.T) {
	m := buildMap([2]uint64{0, 100}, [2]uint64{100, 100}, [2]uint64{200, 100})
	before := append([]Extent(nil), m.Slice()...)
	m.Sort()
	assertEqual(t, m.Slice(), before)
}

func TestTotalBytes(t *testing.T) {
	m := buildMap([2]uint64{0, 100}, [2]uint64{500, 250})
	if got := m.TotalBytes(); got != 350 {
		t.Errorf("TotalBytes() = %d, want 350", got)
	}
}
