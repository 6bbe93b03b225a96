package fiemap

import "testing"

func TestSkipFlags(t *testing.T) {
	cases := []struct {
		name  string
		flags uint32
		want  bool
	}{
		{"clean", 0, false},
		{"last-only", extentFlagLast, false},
		{"unknown", extentFlagUnknown, true},
		{"delalloc", extentFlagDelalloc, true},
		{"unwritten", extentFlagUnwritten, true},
		{"unknown-and-last", extentFlagUnknown | extentFlagLast, true},
		{"merged-shared-like-bits", 0x10 | 0x2000, false},
	}
	for _, c := range cases {
		if got := skip(c.flags); got != c.want {
			t.Errorf("%s: skip(0x%x) = %v, want %v", c.name, c.flags, got, c.want)
		}
	}
}
